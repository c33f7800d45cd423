package handler

// Route type
type Route string

const (
	// RouteRenderMenu render the menu of a location
	RouteRenderMenu Route = "renderMenu"
	// RouteRenderStyle render the top bar style block
	RouteRenderStyle Route = "renderStyle"
	// RouteUpdate update repo
	RouteUpdate Route = "update"
	// RouteGetRepo get the whole loaded document
	RouteGetRepo Route = "getRepo"
)
