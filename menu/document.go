package menu

// Object a content object page object items resolve against
type Object struct {
	Title string `json:"title"`
	URL   string `json:"URL"`
}

// Document an exported set of menus, the unit the repo loads
type Document struct {
	Objects map[int]*Object  `json:"objects"`
	Menus   map[string]*Node `json:"menus"` // by location
}

// NewDocument constructor
func NewDocument() *Document {
	return &Document{
		Objects: map[int]*Object{},
		Menus:   map[string]*Node{},
	}
}

// Resolve url and title of a content object, empty if it does not exist
func (d *Document) Resolve(id int) (string, string) {
	object, ok := d.Objects[id]
	if !ok || object == nil {
		return "", ""
	}
	return object.URL, object.Title
}
