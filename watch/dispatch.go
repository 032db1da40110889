package watch

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultStepDistance stands in for the distance to the next maneuver
	// when no step is tracked.
	DefaultStepDistance = 100.0
	// DefaultVisibleMargin is added to the distance to the next maneuver to
	// size the search window.
	DefaultVisibleMargin = 150.0
	DefaultSearchTimeout = 5 * time.Second
)

// PositionQuery answers "where am I" requests from the device with a bounded
// spatial search around the last known location.
type PositionQuery struct {
	Builder         SpatialQueryBuilder
	Index           SpatialIndex
	Observer        Observer
	DefaultDistance float64
	Margin          float64
	Timeout         time.Duration
}

// Handle searches around location. anchor is the current step's anchor, nil
// when no step is tracked. Search failures yield an empty result.
func (q PositionQuery) Handle(ctx context.Context, location LocationSample, anchor *LocationSample) (BoundingBox, []MapObject) {
	distanceToNext := q.DefaultDistance
	if anchor != nil {
		distanceToNext = DistanceMeters(location, *anchor)
	}
	box := q.Builder.Build(location, distanceToNext+q.Margin)

	if q.Index == nil {
		return box, nil
	}

	if q.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.Timeout)
		defer cancel()
	}

	objects, err := q.Index.Search(ctx, box)
	if err != nil {
		q.Observer.Notify(fmt.Sprintf("map search failed: %v", err))
		objects = nil
	}

	q.Observer.Notify(fmt.Sprintf("found %d objects", len(objects)))
	for _, obj := range objects {
		q.Observer.Notify(describeObject(obj))
	}
	return box, objects
}
