// Package notify provides the in-process broadcast channel informed after
// each successful ledger commit. Delivery is best-effort: publishing never
// blocks, never fails the caller, and missed messages are not replayed.
package notify

import (
	"sync"
)

const subscriberBuffer = 16

// Hub fans messages out to all current subscribers. Subscribers that fall
// behind their buffer lose messages rather than slowing the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan string]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan string]struct{}),
	}
}

// Subscribe registers a listener and returns its channel together with a
// cancel function. Cancel is idempotent and closes the channel.
func (h *Hub) Subscribe() (<-chan string, func()) {
	ch := make(chan string, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// Publish delivers msg to every subscriber whose buffer has room.
func (h *Hub) Publish(msg string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
			// Slow subscriber: drop rather than block the commit path.
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
