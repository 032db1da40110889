package watch

import "context"

// RouteSource exposes the active route of the route engine.
type RouteSource interface {
	// NextManeuver returns the upcoming maneuver, or nil without an active route.
	NextManeuver() *StepSnapshot
	// AllManeuvers returns every maneuver of the active route in order.
	AllManeuvers() []StepSnapshot
	LocationAtOffset(offset int) LocationSample
	DistanceTraveledToOffset(offset int) float64
	TotalDistance() float64
}

// RouteGeometry is the subset of RouteSource needed to resolve step anchors.
type RouteGeometry interface {
	LocationAtOffset(offset int) LocationSample
}

// RouteProgress is the subset of RouteSource needed to compute progress.
type RouteProgress interface {
	DistanceTraveledToOffset(offset int) float64
	TotalDistance() float64
}

// LocationSource delivers location fixes to subscribers.
type LocationSource interface {
	Subscribe(fn func(LocationSample))
}

// SpatialIndex searches a map index. Implementations must honor ctx.
type SpatialIndex interface {
	Search(ctx context.Context, box BoundingBox) ([]MapObject, error)
}

// Gateway is the message channel to the companion device.
type Gateway interface {
	Send(msg NotificationMessage) error
	Subscribe(fn func(InboundMessage))
}

// Observer receives human-readable diagnostics.
type Observer interface {
	Notify(msg string)
}
