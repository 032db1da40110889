package watch

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Config holds the tunables of a tracking session.
type Config struct {
	MovementThreshold    float64 `toml:"movement_threshold"`
	ProximityThreshold   float64 `toml:"proximity_threshold"`
	StepEquality         string  `toml:"step_equality"`
	StepEpsilon          float64 `toml:"step_epsilon"`
	NotifyOnCancel       bool    `toml:"notify_on_cancel"`
	DefaultStepDistance  float64 `toml:"default_step_distance"`
	VisibleMargin        float64 `toml:"visible_margin"`
	SearchZoom           int     `toml:"search_zoom"`
	SearchTimeoutSeconds int     `toml:"search_timeout_seconds"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		MovementThreshold:    DefaultMovementThreshold,
		ProximityThreshold:   DefaultProximityThreshold,
		StepEquality:         EqualityOffset,
		StepEpsilon:          DefaultStepEpsilon,
		DefaultStepDistance:  DefaultStepDistance,
		VisibleMargin:        DefaultVisibleMargin,
		SearchZoom:           DefaultSearchZoom,
		SearchTimeoutSeconds: int(DefaultSearchTimeout / time.Second),
	}
}

// Session tracks one navigation session. Location updates, route events and
// device messages may arrive from different goroutines; every mutation of
// the tracking state happens under mu.
type Session struct {
	mu    sync.Mutex
	state TrackingState

	route     RouteSource
	gateway   Gateway
	observer  Observer
	tracker   *StepTracker
	notifier  ProximityNotifier
	lifecycle RouteLifecycleHandler
	query     PositionQuery
}

// NewSession wires a session to its collaborators. index may be nil, in
// which case position requests only log the search window.
func NewSession(cfg Config, route RouteSource, index SpatialIndex, gateway Gateway, observer Observer) (*Session, error) {
	if observer == nil {
		observer = NopObserver{}
	}
	policy, err := NewStepEqualityPolicy(cfg.StepEquality, route, cfg.StepEpsilon)
	if err != nil {
		return nil, err
	}

	s := &Session{
		route:    route,
		gateway:  gateway,
		observer: observer,
	}
	codec := MessageCodec{Route: route}
	s.tracker = NewStepTracker(&s.state, policy, MovementFilter{Threshold: cfg.MovementThreshold})
	s.notifier = ProximityNotifier{Threshold: cfg.ProximityThreshold, Codec: codec}
	s.lifecycle = RouteLifecycleHandler{Tracker: s.tracker, Codec: codec, NotifyOnCancel: cfg.NotifyOnCancel}
	s.query = PositionQuery{
		Builder:         SpatialQueryBuilder{Zoom: cfg.SearchZoom},
		Index:           index,
		Observer:        observer,
		DefaultDistance: cfg.DefaultStepDistance,
		Margin:          cfg.VisibleMargin,
		Timeout:         time.Duration(cfg.SearchTimeoutSeconds) * time.Second,
	}
	return s, nil
}

// Attach subscribes the session to location fixes and device messages.
func (s *Session) Attach(locations LocationSource) {
	locations.Subscribe(s.HandleLocation)
	s.gateway.Subscribe(func(msg InboundMessage) {
		s.HandleInbound(context.Background(), msg)
	})
}

// HandleLocation processes a location fix.
func (s *Session) HandleLocation(sample LocationSample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tracker.Accept(sample) {
		return
	}

	if s.tracker.Update(s.route.NextManeuver()) && s.state.CurrentStep != nil {
		s.observer.Notify("new step: " + describeStep(s.state.CurrentStep))
	}

	msg, err := s.notifier.Evaluate(&s.state, s.route)
	if err != nil {
		s.observer.Notify(fmt.Sprintf("arrival suppressed: %v", err))
		return
	}
	if msg != nil {
		s.observer.Notify("exec step: " + describeStep(s.state.CurrentStep))
		s.send(*msg)
	}
}

// HandleRouteComputed is called by the route engine after a new route has
// been calculated.
func (s *Session) HandleRouteComputed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.lifecycle.OnRouteComputed(s.route.AllManeuvers())
	if err != nil {
		s.observer.Notify(fmt.Sprintf("route start suppressed: %v", err))
		return
	}
	if msg != nil {
		s.send(*msg)
	}
}

// HandleRouteCancelled is called by the route engine when navigation ends.
func (s *Session) HandleRouteCancelled() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg := s.lifecycle.OnRouteCancelled(); msg != nil {
		s.send(*msg)
	}
}

// HandleInbound answers a device message. Every kind is treated as a
// position request. The search runs without holding the session lock.
func (s *Session) HandleInbound(ctx context.Context, msg InboundMessage) (BoundingBox, []MapObject, bool) {
	s.observer.Notify("received: " + string(msg.Kind))

	s.mu.Lock()
	if s.state.LastLocation == nil {
		s.mu.Unlock()
		return BoundingBox{}, nil, false
	}
	location := *s.state.LastLocation
	var anchor *LocationSample
	if s.state.CurrentStep != nil {
		a := s.route.LocationAtOffset(s.state.CurrentStep.RoutePointOffset)
		anchor = &a
	}
	s.mu.Unlock()

	box, objects := s.query.Handle(ctx, location, anchor)
	return box, objects, true
}

// State returns a copy of the tracking state.
func (s *Session) State() TrackingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// send must be called with mu held.
func (s *Session) send(msg NotificationMessage) {
	s.observer.Notify("send: " + string(msg.Kind))
	if err := s.gateway.Send(msg); err != nil {
		s.observer.Notify(fmt.Sprintf("send %s failed: %v", msg.Kind, err))
	}
}
