package nav

// NavConfig holds navigation-specific configuration
type NavConfig struct {
	ValhallaURL       string        `toml:"valhalla_url"`
	Mode              TransportMode `toml:"mode"`
	AbbreviateStreets bool          `toml:"abbreviate_streets"`
	TimeoutSeconds    int           `toml:"timeout_seconds"`
}

// RouteRequest represents the parameters for a routing request
type RouteRequest struct {
	FromLat float64       `json:"fromLat"`
	FromLng float64       `json:"fromLng"`
	ToLat   float64       `json:"toLat"`
	ToLng   float64       `json:"toLng"`
	Mode    TransportMode `json:"mode"`
}

// RouteStep represents a single navigation step
type RouteStep struct {
	Number      int     `json:"number"`
	Description string  `json:"description"`
	Distance    float64 `json:"distance"`    // in meters
	TurnType    string  `json:"turnType"`    // turn identifier sent to the watch
	StreetName  string  `json:"streetName"`  // possibly abbreviated
	PointOffset int     `json:"pointOffset"` // index into the route shape
}

// RouteResponse represents the response from the routing endpoint
type RouteResponse struct {
	Duration float64       `json:"duration"` // in seconds
	Distance float64       `json:"distance"` // in meters
	Points   int           `json:"points"`   // number of shape points
	Steps    []RouteStep   `json:"steps"`
	Mode     TransportMode `json:"mode"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
