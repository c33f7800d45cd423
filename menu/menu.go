// contains data structures that describe navigation menus
package menu

const (
	// Indent for markup indentation
	Indent string = "\t"
	// RootID parent id of top level items
	RootID int = 0
	// CapabilityManageOptions group that may customise menus
	CapabilityManageOptions = "manage_options"
)
