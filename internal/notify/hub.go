// Package notify fans out collection change notices to snapshot
// subscriptions, inside one process through Hub and across processes
// through a RabbitMQ Bridge.
package notify

import (
	"context"
	"sync"
)

// Publisher announces a change to a collection.
type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

// Hub wakes local subscribers of a collection path.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*waiter]struct{}
}

type waiter struct {
	ch chan struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*waiter]struct{})}
}

// Subscribe registers interest in path. The returned channel holds at most
// one pending wake-up. cancel unregisters and is safe to call repeatedly.
func (h *Hub) Subscribe(path string) (<-chan struct{}, func()) {
	w := &waiter{ch: make(chan struct{}, 1)}

	h.mu.Lock()
	set, ok := h.subs[path]
	if !ok {
		set = make(map[*waiter]struct{})
		h.subs[path] = set
	}
	set[w] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return w.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[path]; ok {
				delete(set, w)
				if len(set) == 0 {
					delete(h.subs, path)
				}
			}
		})
	}
}

// Dispatch wakes every subscriber of c.Path without blocking.
func (h *Hub) Dispatch(c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for w := range h.subs[c.Path] {
		select {
		case w.ch <- struct{}{}:
		default:
		}
	}
}

// Publish implements Publisher for single-process deployments.
func (h *Hub) Publish(_ context.Context, c Change) error {
	h.Dispatch(c)
	return nil
}

// Subscribers returns the number of subscribers of path.
func (h *Hub) Subscribers(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[path])
}
