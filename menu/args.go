package menu

// DefaultItemsWrap list template wrapping the walked items: id, class, items
const DefaultItemsWrap = `<ul id="%[1]s" class="%[2]s">%[3]s</ul>`

// Args controls a single render call
type Args struct {
	Before     string `json:"before"`
	After      string `json:"after"`
	LinkBefore string `json:"linkBefore"`
	LinkAfter  string `json:"linkAfter"`
	// 0 renders all levels, < 0 renders all items flat
	MaxDepth  int    `json:"maxDepth"`
	MenuID    string `json:"menuId"`
	MenuClass string `json:"menuClass"`
	ItemsWrap string `json:"itemsWrap"`
}

// NewArgs args with host defaults
func NewArgs() *Args {
	return &Args{
		MenuClass: "menu",
		ItemsWrap: DefaultItemsWrap,
	}
}

// WithDefaults returns a copy with empty host fields defaulted
func (a *Args) WithDefaults() *Args {
	if a == nil {
		return NewArgs()
	}
	c := *a
	if c.MenuClass == "" {
		c.MenuClass = "menu"
	}
	if c.ItemsWrap == "" {
		c.ItemsWrap = DefaultItemsWrap
	}
	return &c
}
