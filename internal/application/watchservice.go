package application

import "sync"

// WatchHub is the subscription fan-out behind the live group listing.
// Subscribers receive a signal whenever any group mutation commits; the
// consumer re-reads the listing on each signal. Signals are coalesced: a
// subscriber that has not drained its channel yet will see a single pending
// signal rather than a backlog.
type WatchHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// NewWatchHub creates an empty WatchHub.
func NewWatchHub() *WatchHub {
	return &WatchHub{subs: make(map[int]chan struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called when the consumer goes away; it is safe to call more than once.
func (h *WatchHub) Subscribe() (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan struct{}, 1)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
	return ch, cancel
}

// Notify signals all current subscribers without blocking.
func (h *WatchHub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of active subscribers.
func (h *WatchHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
