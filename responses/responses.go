package responses

// Menu - a rendered menu
type Menu struct {
	Location string `json:"location"`
	HTML     string `json:"html"`
	// the location had nothing to show and the fallback was rendered
	Fallback bool `json:"fallback"`
}

// Style - a rendered style block, empty when nothing needs to be injected
type Style struct {
	HTML string `json:"html"`
	// the page must not shift itself down for the admin bar
	SuppressAdminBarBump bool `json:"suppressAdminBarBump"`
}

// Update - information about an update
type Update struct {
	// did it work or not
	Success bool `json:"success"`
	// this is for humans
	ErrorMessage string `json:"errorMessage"`
	Stats        Stats  `json:"stats"`
}

type Stats struct {
	NumberOfLocations int `json:"numberOfLocations"`
	NumberOfItems     int `json:"numberOfItems"`
	// seconds
	RepoRuntime float64 `json:"repoRuntime"`
	// seconds
	OwnRuntime float64 `json:"ownRuntime"`
}
