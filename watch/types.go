package watch

// LocationSample is a single position fix in degrees.
type LocationSample struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StepSnapshot describes the upcoming maneuver as reported by the route engine.
// Snapshots are passed around as pointers; nil means "no step".
type StepSnapshot struct {
	RoutePointOffset   int     `json:"routePointOffset"` // index into the route's points
	TurnType           string  `json:"turnType"`
	TurnAngle          float64 `json:"turnAngle"`
	DistanceToManeuver float64 `json:"distanceToManeuver"` // in meters
	StreetName         string  `json:"streetName"`
}

// TrackingState is the mutable state of one tracking session.
// Notified implies CurrentStep != nil.
type TrackingState struct {
	CurrentStep  *StepSnapshot
	LastLocation *LocationSample
	Notified     bool
}

// BoundingBox is a query window in 31-bit tile coordinates.
type BoundingBox struct {
	MinX int64 `json:"minX"`
	MaxX int64 `json:"maxX"`
	MinY int64 `json:"minY"`
	MaxY int64 `json:"maxY"`
	Zoom int   `json:"zoom"`
}

// Tag is a single key/value pair attached to a map object.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MapObject is a named object returned by a spatial index search.
type MapObject struct {
	Name string `json:"name"`
	Tags []Tag  `json:"tags"`
}
