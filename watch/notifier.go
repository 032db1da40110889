package watch

// DefaultProximityThreshold is the distance in meters to a maneuver anchor
// under which the arrival notification fires.
const DefaultProximityThreshold = 15.0

// ProximityNotifier emits at most one StepArrival per tracked step.
type ProximityNotifier struct {
	Threshold float64
	Codec     MessageCodec
}

// Evaluate returns a StepArrival message when the last location is within
// the threshold of the current step's anchor and the step has not been
// notified yet. It marks the state as notified when it does.
func (n ProximityNotifier) Evaluate(state *TrackingState, route RouteGeometry) (*NotificationMessage, error) {
	if state.CurrentStep == nil || state.LastLocation == nil || state.Notified {
		return nil, nil
	}

	anchor := route.LocationAtOffset(state.CurrentStep.RoutePointOffset)
	// written as !(d < t) so a NaN distance never fires
	if d := DistanceMeters(anchor, *state.LastLocation); !(d < n.Threshold) {
		return nil, nil
	}

	payload, err := n.Codec.BuildPayload(*state.CurrentStep)
	if err != nil {
		return nil, err
	}
	state.Notified = true
	return &NotificationMessage{Kind: KindStepArrival, Payload: payload}, nil
}
