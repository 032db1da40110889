package watch

// DefaultMovementThreshold is the minimum distance in meters between two
// accepted location fixes.
const DefaultMovementThreshold = 1.0

// MovementFilter suppresses reprocessing on GPS jitter.
type MovementFilter struct {
	Threshold float64
}

// IsSignificant reports whether next differs enough from prev to be processed.
func (f MovementFilter) IsSignificant(prev, next *LocationSample) bool {
	switch {
	case prev == nil && next == nil:
		return false
	case prev == nil || next == nil:
		return true
	}
	return DistanceMeters(*prev, *next) >= f.Threshold
}
