package watch

import (
	"context"
	"errors"
	"sync"
)

// metersToDegrees converts a north/south distance into degrees of latitude
// for the earth radius used by DistanceMeters.
func metersToDegrees(m float64) float64 {
	return m / 111319.49079327357
}

type fakeRoute struct {
	points    map[int]LocationSample
	traveled  map[int]float64
	total     float64
	maneuvers []StepSnapshot
	next      *StepSnapshot
}

func newFakeRoute() *fakeRoute {
	return &fakeRoute{
		points:   map[int]LocationSample{},
		traveled: map[int]float64{},
		total:    200,
	}
}

func (r *fakeRoute) NextManeuver() *StepSnapshot           { return r.next }
func (r *fakeRoute) AllManeuvers() []StepSnapshot          { return r.maneuvers }
func (r *fakeRoute) LocationAtOffset(o int) LocationSample { return r.points[o] }
func (r *fakeRoute) DistanceTraveledToOffset(o int) float64 {
	return r.traveled[o]
}
func (r *fakeRoute) TotalDistance() float64 { return r.total }

type fakeGateway struct {
	mu       sync.Mutex
	sent     []NotificationMessage
	handlers []func(InboundMessage)
	err      error
}

func (g *fakeGateway) Send(msg NotificationMessage) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, msg)
	return g.err
}

func (g *fakeGateway) Subscribe(fn func(InboundMessage)) {
	g.handlers = append(g.handlers, fn)
}

func (g *fakeGateway) messages() []NotificationMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]NotificationMessage(nil), g.sent...)
}

type fakeIndex struct {
	mu      sync.Mutex
	boxes   []BoundingBox
	objects []MapObject
	err     error
}

func (i *fakeIndex) Search(ctx context.Context, box BoundingBox) ([]MapObject, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.boxes = append(i.boxes, box)
	if i.err != nil {
		return nil, i.err
	}
	return i.objects, nil
}

type recordingObserver struct {
	mu    sync.Mutex
	lines []string
}

func (o *recordingObserver) Notify(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, msg)
}

var errIndexDown = errors.New("index unavailable")
