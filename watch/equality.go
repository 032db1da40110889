package watch

import "fmt"

// Step equality strategies accepted by NewStepEqualityPolicy.
const (
	EqualityOffset   = "offset"
	EqualityDistance = "distance"
)

// DefaultStepEpsilon is the anchor distance in meters under which the
// distance strategy treats two steps as the same.
const DefaultStepEpsilon = 0.2

// StepEqualityPolicy decides whether two step snapshots describe different
// upcoming maneuvers.
type StepEqualityPolicy interface {
	IsDifferent(a, b *StepSnapshot) bool
}

// OffsetEquality compares steps by route point offset.
type OffsetEquality struct{}

func (OffsetEquality) IsDifferent(a, b *StepSnapshot) bool {
	if differ, decided := compareAbsence(a, b); decided {
		return differ
	}
	return a.RoutePointOffset != b.RoutePointOffset
}

// DistanceEquality compares steps by the real-world distance between their
// anchor positions on the route.
type DistanceEquality struct {
	Route   RouteGeometry
	Epsilon float64
}

func (d DistanceEquality) IsDifferent(a, b *StepSnapshot) bool {
	if differ, decided := compareAbsence(a, b); decided {
		return differ
	}
	p1 := d.Route.LocationAtOffset(a.RoutePointOffset)
	p2 := d.Route.LocationAtOffset(b.RoutePointOffset)
	return DistanceMeters(p1, p2) >= d.Epsilon
}

// compareAbsence handles nil and identical snapshots. decided is false when
// both steps are present and distinct.
func compareAbsence(a, b *StepSnapshot) (differ, decided bool) {
	switch {
	case a == b:
		return false, true
	case a == nil || b == nil:
		return true, true
	}
	return false, false
}

// NewStepEqualityPolicy returns the named strategy. An empty name selects
// the offset strategy.
func NewStepEqualityPolicy(name string, route RouteGeometry, epsilon float64) (StepEqualityPolicy, error) {
	switch name {
	case "", EqualityOffset:
		return OffsetEquality{}, nil
	case EqualityDistance:
		if route == nil {
			return nil, fmt.Errorf("step equality %q requires a route geometry", name)
		}
		if epsilon <= 0 {
			epsilon = DefaultStepEpsilon
		}
		return DistanceEquality{Route: route, Epsilon: epsilon}, nil
	default:
		return nil, fmt.Errorf("unknown step equality strategy %q", name)
	}
}
