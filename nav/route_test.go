package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwah/naviwatch-bridge/watch"
)

func testRoute() *Route {
	points := make([]watch.LocationSample, 0, len(testShape))
	for _, c := range testShape {
		points = append(points, watch.LocationSample{Lat: c[0], Lon: c[1]})
	}
	return NewRoute(points, []Maneuver{
		{Offset: 0, TurnType: TurnDepart, StreetName: "Bahnhofstr"},
		{Offset: 2, TurnType: TurnRight, TurnAngle: 90, StreetName: "Seestr"},
		{Offset: 3, TurnType: TurnArrive},
	})
}

func TestRouteDistances(t *testing.T) {
	route := testRoute()
	leg := watch.DistanceMeters(route.Points[0], route.Points[1])

	assert.Equal(t, 0.0, route.DistanceTraveledToOffset(0))
	assert.InDelta(t, leg, route.DistanceTraveledToOffset(1), 1e-9)
	assert.InDelta(t, 2*leg, route.DistanceTraveledToOffset(2), 1e-6)
	assert.Equal(t, route.DistanceTraveledToOffset(3), route.TotalDistance())
	assert.Equal(t, route.TotalDistance(), route.DistanceTraveledToOffset(99))
	assert.Equal(t, route.Points[0], route.LocationAtOffset(-1))
	assert.Equal(t, route.Points[3], route.LocationAtOffset(10))
}

func TestEmptyRoute(t *testing.T) {
	route := NewRoute(nil, nil)

	assert.Equal(t, 0.0, route.TotalDistance())
	assert.Equal(t, 0.0, route.DistanceTraveledToOffset(3))
	assert.Equal(t, watch.LocationSample{}, route.LocationAtOffset(3))
}

func TestNavigatorWithoutRoute(t *testing.T) {
	n := NewNavigator()

	assert.Nil(t, n.NextManeuver())
	assert.Nil(t, n.AllManeuvers())
	assert.Equal(t, 0.0, n.TotalDistance())
	assert.Equal(t, 0.0, n.DistanceTraveledToOffset(1))
	assert.Equal(t, watch.LocationSample{}, n.LocationAtOffset(1))
	n.UpdateLocation(watch.LocationSample{Lat: 1})
	assert.Equal(t, 0, n.Progress())
}

func TestNavigatorProgress(t *testing.T) {
	n := NewNavigator()
	route := testRoute()
	n.Start(route)
	require.Same(t, route, n.Active())

	next := n.NextManeuver()
	require.NotNil(t, next)
	assert.Equal(t, TurnDepart, next.TurnType)
	assert.Equal(t, 0.0, next.DistanceToManeuver)

	// a fix near the second shape point moves the next maneuver to the turn
	n.UpdateLocation(watch.LocationSample{Lat: 47.00101, Lon: 8.0})
	assert.Equal(t, 1, n.Progress())
	next = n.NextManeuver()
	require.NotNil(t, next)
	assert.Equal(t, 2, next.RoutePointOffset)
	assert.Equal(t, TurnRight, next.TurnType)
	assert.InDelta(t, route.DistanceTraveledToOffset(2)-route.DistanceTraveledToOffset(1), next.DistanceToManeuver, 1e-9)

	// progress never goes backwards
	n.UpdateLocation(watch.LocationSample{Lat: 47.0, Lon: 8.0})
	assert.Equal(t, 1, n.Progress())

	n.UpdateLocation(watch.LocationSample{Lat: 47.002, Lon: 8.001})
	next = n.NextManeuver()
	require.NotNil(t, next)
	assert.Equal(t, TurnArrive, next.TurnType)

	steps := n.AllManeuvers()
	require.Len(t, steps, 3)
	assert.Equal(t, "Seestr", steps[1].StreetName)
	assert.Equal(t, 90.0, steps[1].TurnAngle)

	n.Stop()
	assert.Nil(t, n.Active())
	assert.Nil(t, n.NextManeuver())
}

func TestNavigatorFeedsSession(t *testing.T) {
	n := NewNavigator()
	route := testRoute()
	n.Start(route)
	gw := &recordingGateway{}
	session, err := watch.NewSession(watch.DefaultConfig(), n, nil, gw, nil)
	require.NoError(t, err)

	feed := watch.NewLocationFeed()
	feed.Subscribe(n.UpdateLocation)
	session.Attach(feed)

	session.HandleRouteComputed()
	require.Len(t, gw.sent, 1)
	assert.Equal(t, watch.KindRouteStarted, gw.sent[0].Kind)
	assert.Equal(t, TurnDepart, gw.sent[0].Payload[watch.KeyTurnType])
	assert.Equal(t, 0.0, gw.sent[0].Payload[watch.KeyRouteProgressPercentage])

	// approach the right turn at the third shape point
	feed.Publish(watch.LocationSample{Lat: 47.00101, Lon: 8.0})
	feed.Publish(watch.LocationSample{Lat: 47.00195, Lon: 8.0})

	require.Len(t, gw.sent, 2)
	arrival := gw.sent[1]
	assert.Equal(t, watch.KindStepArrival, arrival.Kind)
	assert.Equal(t, TurnRight, arrival.Payload[watch.KeyTurnType])
	assert.Equal(t, "Seestr", arrival.Payload[watch.KeyStreetName])
	assert.InDelta(t, route.DistanceTraveledToOffset(2)/route.TotalDistance(), arrival.Payload[watch.KeyRouteProgressPercentage], 1e-9)
}

type recordingGateway struct {
	sent []watch.NotificationMessage
}

func (g *recordingGateway) Send(msg watch.NotificationMessage) error {
	g.sent = append(g.sent, msg)
	return nil
}

func (g *recordingGateway) Subscribe(func(watch.InboundMessage)) {}
