package watch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, cfg Config) (*Session, *fakeRoute, *fakeGateway, *fakeIndex, *recordingObserver) {
	t.Helper()
	route := newFakeRoute()
	gw := &fakeGateway{}
	index := &fakeIndex{}
	obs := &recordingObserver{}

	s, err := NewSession(cfg, route, index, gw, obs)
	require.NoError(t, err)
	return s, route, gw, index, obs
}

func TestSessionLocationFlow(t *testing.T) {
	s, route, gw, _, obs := newTestSession(t, DefaultConfig())
	feed := NewLocationFeed()
	s.Attach(feed)

	route.points[10] = LocationSample{Lat: metersToDegrees(100)}
	route.points[20] = LocationSample{}
	route.traveled[20] = 50
	route.next = &StepSnapshot{RoutePointOffset: 10, TurnType: "TL"}

	far := LocationSample{Lat: metersToDegrees(500)}
	feed.Publish(far)
	state := s.State()
	require.NotNil(t, state.CurrentStep)
	assert.Equal(t, 10, state.CurrentStep.RoutePointOffset)
	assert.Equal(t, far, *state.LastLocation)
	assert.Empty(t, gw.messages())

	// the route engine moves on to the next maneuver
	route.next = &StepSnapshot{RoutePointOffset: 20, TurnType: "TR"}
	near := LocationSample{Lat: metersToDegrees(12)}
	feed.Publish(near)

	msgs := gw.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, KindStepArrival, msgs[0].Kind)
	assert.Equal(t, "TR", msgs[0].Payload[KeyTurnType])
	assert.Equal(t, 0.25, msgs[0].Payload[KeyRouteProgressPercentage])
	assert.True(t, s.State().Notified)

	// still close to the same step: no repeat
	feed.Publish(LocationSample{Lat: metersToDegrees(8)})
	assert.Len(t, gw.messages(), 1)

	// jitter does not move the last location
	before := *s.State().LastLocation
	feed.Publish(LocationSample{Lat: metersToDegrees(8.3)})
	assert.Equal(t, before, *s.State().LastLocation)

	assert.Contains(t, obs.lines, "send: StepArrival")
}

func TestSessionRouteLifecycle(t *testing.T) {
	t.Run("route start", func(t *testing.T) {
		s, route, gw, _, _ := newTestSession(t, DefaultConfig())
		route.next = &StepSnapshot{RoutePointOffset: 1}
		route.points[1] = LocationSample{}
		s.HandleLocation(LocationSample{Lat: metersToDegrees(3)})
		require.True(t, s.State().Notified)

		route.maneuvers = []StepSnapshot{
			{RoutePointOffset: 0, TurnType: "DEPART"},
			{RoutePointOffset: 5, TurnType: "TL"},
		}
		s.HandleRouteComputed()

		assert.Equal(t, TrackingState{}, s.State())
		msgs := gw.messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, KindStepArrival, msgs[0].Kind)
		assert.Equal(t, KindRouteStarted, msgs[1].Kind)
		assert.Equal(t, "DEPART", msgs[1].Payload[KeyTurnType])
	})

	t.Run("empty route", func(t *testing.T) {
		s, _, gw, _, _ := newTestSession(t, DefaultConfig())
		s.HandleRouteComputed()
		assert.Empty(t, gw.messages())
	})

	t.Run("zero length route suppresses the start message", func(t *testing.T) {
		s, route, gw, _, obs := newTestSession(t, DefaultConfig())
		route.total = 0
		route.maneuvers = []StepSnapshot{{TurnType: "DEPART"}}

		s.HandleRouteComputed()
		assert.Empty(t, gw.messages())
		assert.NotEmpty(t, obs.lines)
	})

	t.Run("cancel", func(t *testing.T) {
		s, _, gw, _, _ := newTestSession(t, DefaultConfig())
		s.HandleLocation(LocationSample{Lat: 1})
		s.HandleRouteCancelled()

		assert.Equal(t, TrackingState{}, s.State())
		assert.Empty(t, gw.messages())
	})

	t.Run("cancel with notification enabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.NotifyOnCancel = true
		s, _, gw, _, _ := newTestSession(t, cfg)
		s.HandleRouteCancelled()

		msgs := gw.messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, KindRouteCancelled, msgs[0].Kind)
	})
}

func TestSessionInbound(t *testing.T) {
	t.Run("no location is a no-op", func(t *testing.T) {
		s, _, _, index, _ := newTestSession(t, DefaultConfig())

		_, _, ok := s.HandleInbound(context.Background(), InboundMessage{Kind: KindPositionRequest})
		assert.False(t, ok)
		assert.Empty(t, index.boxes)
	})

	t.Run("unknown kind without a step uses the default distance", func(t *testing.T) {
		s, _, _, index, obs := newTestSession(t, DefaultConfig())
		index.objects = []MapObject{{Name: "Bahnhof", Tags: []Tag{{Key: "railway", Value: "station"}}}}
		loc := LocationSample{Lat: 47.2237, Lon: 8.8175}
		s.HandleLocation(loc)

		box, objects, ok := s.HandleInbound(context.Background(), InboundMessage{Kind: "Hello"})
		require.True(t, ok)
		assert.Equal(t, SpatialQueryBuilder{Zoom: 15}.Build(loc, 250), box)
		assert.Equal(t, 15, box.Zoom)
		require.Len(t, index.boxes, 1)
		assert.Equal(t, box, index.boxes[0])
		assert.Len(t, objects, 1)
		assert.Contains(t, obs.lines, "found 1 objects")
		assert.Contains(t, obs.lines, "Bahnhof [railway=station]")
	})

	t.Run("current step widens the window", func(t *testing.T) {
		s, route, _, _, _ := newTestSession(t, DefaultConfig())
		route.points[3] = LocationSample{Lat: metersToDegrees(400)}
		route.next = &StepSnapshot{RoutePointOffset: 3}
		loc := LocationSample{}
		s.HandleLocation(loc)

		box, _, ok := s.HandleInbound(context.Background(), InboundMessage{Kind: KindPositionRequest})
		require.True(t, ok)
		assert.Equal(t, SpatialQueryBuilder{Zoom: 15}.Build(loc, 550), box)
	})

	t.Run("index failure degrades to empty result", func(t *testing.T) {
		s, _, _, index, obs := newTestSession(t, DefaultConfig())
		index.err = errIndexDown
		s.HandleLocation(LocationSample{Lat: 1, Lon: 1})

		_, objects, ok := s.HandleInbound(context.Background(), InboundMessage{Kind: KindPositionRequest})
		assert.True(t, ok)
		assert.Empty(t, objects)
		assert.Contains(t, obs.lines, "found 0 objects")
	})

	t.Run("gateway subscription", func(t *testing.T) {
		s, _, gw, index, _ := newTestSession(t, DefaultConfig())
		s.Attach(NewLocationFeed())
		s.HandleLocation(LocationSample{Lat: 1, Lon: 1})

		require.Len(t, gw.handlers, 1)
		gw.handlers[0](InboundMessage{Kind: KindPositionRequest})
		assert.Len(t, index.boxes, 1)
	})
}

func TestSessionConcurrentEvents(t *testing.T) {
	s, route, gw, _, _ := newTestSession(t, DefaultConfig())
	route.points[1] = LocationSample{}
	route.next = &StepSnapshot{RoutePointOffset: 1}
	route.maneuvers = []StepSnapshot{{RoutePointOffset: 1}}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			s.HandleLocation(LocationSample{Lat: metersToDegrees(float64(i % 10))})
		}(i)
		go func() {
			defer wg.Done()
			s.HandleRouteComputed()
		}()
		go func() {
			defer wg.Done()
			s.HandleInbound(context.Background(), InboundMessage{Kind: KindPositionRequest})
		}()
	}
	wg.Wait()

	state := s.State()
	if state.Notified {
		assert.NotNil(t, state.CurrentStep)
	}
	assert.NotEmpty(t, gw.messages())
}

func TestNewSessionRejectsUnknownPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepEquality = "bearing"

	_, err := NewSession(cfg, newFakeRoute(), nil, &fakeGateway{}, nil)
	assert.Error(t, err)
}
