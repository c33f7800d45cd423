package menu

// Item a single entry of a flattened menu - the walker renders these
type Item struct {
	ID              int      `json:"id"`
	ParentID        int      `json:"parentId"`
	ObjectID        int      `json:"objectId,omitempty"` // referenced content object, 0 means ID
	Title           string   `json:"title"`
	URL             string   `json:"URL"`
	Classes         []string `json:"classes"`
	AttrTitle       string   `json:"attrTitle,omitempty"` // tooltip
	Target          string   `json:"target,omitempty"`
	XFN             string   `json:"xfn,omitempty"` // rel annotation
	Current         bool     `json:"current"`
	CurrentAncestor bool     `json:"currentAncestor"`
}

// IsPageObject an item without title and url points to a content object
func (i *Item) IsPageObject() bool {
	return i.Title == "" && i.URL == ""
}

// ContentID id of the content object a page object item references
func (i *Item) ContentID() int {
	if i.ObjectID != 0 {
		return i.ObjectID
	}
	return i.ID
}

// Clone copies the item including its classes
func (i *Item) Clone() *Item {
	c := *i
	c.Classes = append(make([]string, 0, len(i.Classes)+3), i.Classes...)
	return &c
}
