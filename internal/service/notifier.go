package service

import (
	"sync"

	"fireplace_bridge/internal/models"
)

const subscriberBuffer = 4

// Hub fans state notifications out to subscribers. Publish never blocks: a
// subscriber with a full buffer misses that update and gets the next one.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan models.FireplaceState]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan models.FireplaceState]struct{})}
}

// Subscribe registers a new subscriber. The returned func unsubscribes and
// closes the channel; calling it more than once is safe.
func (h *Hub) Subscribe() (<-chan models.FireplaceState, func()) {
	ch := make(chan models.FireplaceState, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Publish(st models.FireplaceState) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- st:
		default:
		}
	}
}

// Subscribers reports how many streams are attached.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
