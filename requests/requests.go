package requests

import (
	"github.com/foomo/topbar/menu"
)

// Env - abstract your server state
type Env struct {
	// who is it for, also decides whether the menu editor link is offered
	Groups []string `json:"groups"`
}

// Menu - render the menu assigned to a location
type Menu struct {
	Location string `json:"location"`
	// current request path, used to flag active items
	URI  string     `json:"URI"`
	Env  *Env       `json:"env"`
	Args *menu.Args `json:"args"`
}

// Style - render the sticky/fixed style block for a page view
type Style struct {
	// logged in user is an administrator
	Admin bool `json:"admin"`
	// the admin bar is shown on the page
	AdminBarShowing bool `json:"adminBarShowing"`
}

// Update - request an update
type Update struct{}

// Repo - query repo
type Repo struct{}
