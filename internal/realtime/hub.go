package realtime

import "sync"

// Hub fans out change signals from the store's write paths to any number of
// watchers. Signals carry no payload; a watcher re-queries and publishes a
// fresh snapshot. Pending signals coalesce, so a burst of writes wakes each
// watcher at least once rather than once per write.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan struct{}]struct{})}
}

// Subscribe registers a watcher and returns its signal channel together with
// a cancel function. Cancel is safe to call more than once.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Notify wakes every subscriber. Never blocks: a subscriber with a signal
// already pending keeps the one it has.
func (h *Hub) Notify() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
