package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteLogin    = "/login"
	RouteCallback = "/callback"
	RouteResults  = "/results"
	RouteLogout   = "/logout"
)
