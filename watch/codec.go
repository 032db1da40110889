package watch

import "errors"

// ErrZeroRouteDistance is returned when route progress cannot be computed
// because the route has no length.
var ErrZeroRouteDistance = errors.New("route has zero total distance")

// MessageCodec turns step snapshots into notification payloads.
type MessageCodec struct {
	Route RouteProgress
}

// BuildPayload returns the wire payload describing step.
func (c MessageCodec) BuildPayload(step StepSnapshot) (Payload, error) {
	total := c.Route.TotalDistance()
	if total <= 0 {
		return nil, ErrZeroRouteDistance
	}
	progress := c.Route.DistanceTraveledToOffset(step.RoutePointOffset) / total
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}

	return Payload{
		KeyTurnType:                step.TurnType,
		KeyTurnAngle:               step.TurnAngle,
		KeyDistance:                step.DistanceToManeuver,
		KeyStreetName:              step.StreetName,
		KeyRouteProgressPercentage: progress,
	}, nil
}
