package watch

// RouteLifecycleHandler reacts to route engine events.
type RouteLifecycleHandler struct {
	Tracker        *StepTracker
	Codec          MessageCodec
	NotifyOnCancel bool
}

// OnRouteComputed resets tracking and returns a RouteStarted message built
// from the first maneuver, or nil when there are none.
func (h RouteLifecycleHandler) OnRouteComputed(directions []StepSnapshot) (*NotificationMessage, error) {
	h.Tracker.Reset()
	if len(directions) == 0 {
		return nil, nil
	}

	payload, err := h.Codec.BuildPayload(directions[0])
	if err != nil {
		return nil, err
	}
	return &NotificationMessage{Kind: KindRouteStarted, Payload: payload}, nil
}

// OnRouteCancelled resets tracking. The cancellation message is only
// produced when NotifyOnCancel is set.
func (h RouteLifecycleHandler) OnRouteCancelled() *NotificationMessage {
	h.Tracker.Reset()
	if !h.NotifyOnCancel {
		return nil
	}
	return &NotificationMessage{Kind: KindRouteCancelled, Payload: Payload{}}
}
