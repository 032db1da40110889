package nav

import (
	"sync"

	"github.com/nwah/naviwatch-bridge/watch"
)

// progressWindow is how many shape points ahead of the current position are
// considered when matching a new location onto the route.
const progressWindow = 200

// Maneuver is a single instruction anchored to a shape point
type Maneuver struct {
	Offset      int
	TurnType    string
	TurnAngle   float64 // degrees, negative for left turns
	StreetName  string
	Instruction string
	Length      float64 // meters until the following maneuver
}

// Route is a calculated route with its shape and maneuvers
type Route struct {
	Points    []watch.LocationSample
	Maneuvers []Maneuver
	Mode      TransportMode
	Duration  float64 // seconds

	traveled []float64 // distance from the start to each point
}

// NewRoute builds a route and precomputes the distance travelled to every
// shape point.
func NewRoute(points []watch.LocationSample, maneuvers []Maneuver) *Route {
	traveled := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		traveled[i] = traveled[i-1] + watch.DistanceMeters(points[i-1], points[i])
	}
	return &Route{
		Points:    points,
		Maneuvers: maneuvers,
		traveled:  traveled,
	}
}

func (r *Route) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset >= len(r.Points) {
		return len(r.Points) - 1
	}
	return offset
}

// LocationAtOffset returns the shape point at offset
func (r *Route) LocationAtOffset(offset int) watch.LocationSample {
	if len(r.Points) == 0 {
		return watch.LocationSample{}
	}
	return r.Points[r.clamp(offset)]
}

// DistanceTraveledToOffset returns the along-route distance from the start
func (r *Route) DistanceTraveledToOffset(offset int) float64 {
	if len(r.traveled) == 0 {
		return 0
	}
	return r.traveled[r.clamp(offset)]
}

// TotalDistance returns the length of the route in meters
func (r *Route) TotalDistance() float64 {
	if len(r.traveled) == 0 {
		return 0
	}
	return r.traveled[len(r.traveled)-1]
}

// Steps converts the maneuvers into step snapshots measured from progress
func (r *Route) Steps(progress int) []watch.StepSnapshot {
	steps := make([]watch.StepSnapshot, 0, len(r.Maneuvers))
	for _, m := range r.Maneuvers {
		steps = append(steps, r.snapshot(m, progress))
	}
	return steps
}

func (r *Route) snapshot(m Maneuver, progress int) watch.StepSnapshot {
	distance := r.DistanceTraveledToOffset(m.Offset) - r.DistanceTraveledToOffset(progress)
	if distance < 0 {
		distance = 0
	}
	return watch.StepSnapshot{
		RoutePointOffset:   m.Offset,
		TurnType:           m.TurnType,
		TurnAngle:          m.TurnAngle,
		DistanceToManeuver: distance,
		StreetName:         m.StreetName,
	}
}

// nearestPoint returns the index of the shape point closest to loc among the
// points in [from, from+progressWindow).
func (r *Route) nearestPoint(loc watch.LocationSample, from int) int {
	best := from
	bestDist := -1.0
	end := from + progressWindow
	if end > len(r.Points) {
		end = len(r.Points)
	}
	for i := from; i < end; i++ {
		d := watch.DistanceMeters(loc, r.Points[i])
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Navigator holds the active route and the agent's progress along it. It
// implements watch.RouteSource.
type Navigator struct {
	mu       sync.RWMutex
	route    *Route
	progress int
}

// NewNavigator creates a navigator without an active route
func NewNavigator() *Navigator {
	return &Navigator{}
}

// Start makes route the active route
func (n *Navigator) Start(route *Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.route = route
	n.progress = 0
}

// Stop clears the active route
func (n *Navigator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.route = nil
	n.progress = 0
}

// Active returns the active route, or nil
func (n *Navigator) Active() *Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.route
}

// UpdateLocation advances the progress along the active route. Progress
// never moves backwards.
func (n *Navigator) UpdateLocation(loc watch.LocationSample) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.route == nil || len(n.route.Points) == 0 {
		return
	}
	n.progress = n.route.nearestPoint(loc, n.progress)
}

// Progress returns the index of the shape point last matched
func (n *Navigator) Progress() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.progress
}

// NextManeuver returns the first maneuver at or after the current progress
func (n *Navigator) NextManeuver() *watch.StepSnapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.route == nil {
		return nil
	}
	for _, m := range n.route.Maneuvers {
		if m.Offset >= n.progress {
			step := n.route.snapshot(m, n.progress)
			return &step
		}
	}
	return nil
}

// AllManeuvers returns every maneuver of the active route
func (n *Navigator) AllManeuvers() []watch.StepSnapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.route == nil {
		return nil
	}
	return n.route.Steps(n.progress)
}

func (n *Navigator) LocationAtOffset(offset int) watch.LocationSample {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.route == nil {
		return watch.LocationSample{}
	}
	return n.route.LocationAtOffset(offset)
}

func (n *Navigator) DistanceTraveledToOffset(offset int) float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.route == nil {
		return 0
	}
	return n.route.DistanceTraveledToOffset(offset)
}

func (n *Navigator) TotalDistance() float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.route == nil {
		return 0
	}
	return n.route.TotalDistance()
}

var _ watch.RouteSource = (*Navigator)(nil)
