package watch

import "sync"

// LocationFeed is an in-process LocationSource. Listeners run synchronously
// in subscription order.
type LocationFeed struct {
	mu        sync.RWMutex
	listeners []func(LocationSample)
}

func NewLocationFeed() *LocationFeed {
	return &LocationFeed{}
}

func (f *LocationFeed) Subscribe(fn func(LocationSample)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Publish delivers sample to every listener.
func (f *LocationFeed) Publish(sample LocationSample) {
	f.mu.RLock()
	listeners := make([]func(LocationSample), len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.RUnlock()

	for _, fn := range listeners {
		fn(sample)
	}
}

var _ LocationSource = (*LocationFeed)(nil)
