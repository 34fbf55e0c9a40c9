package httpapi

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/aretw0/xitem/pkg/core"
)

// DefaultHistory is how many items the relay keeps when no limit is set.
const DefaultHistory = 256

// Item is one received mapping.
type Item struct {
	ID         string
	ReceivedAt time.Time
	Mapping    core.Mapping
}

// ring keeps the most recent items in arrival order. The oldest item is
// evicted once the capacity is reached.
type ring struct {
	mu    sync.RWMutex
	cap   int
	order []string
	items map[string]Item
}

func newRing(capacity int) *ring {
	if capacity <= 0 {
		capacity = DefaultHistory
	}
	return &ring{cap: capacity, items: make(map[string]Item)}
}

func (r *ring) put(m core.Mapping) Item {
	it := Item{ID: ulid.Make().String(), ReceivedAt: time.Now().UTC(), Mapping: m.Clone()}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == r.cap {
		delete(r.items, r.order[0])
		r.order = r.order[1:]
	}
	r.order = append(r.order, it.ID)
	r.items[it.ID] = it
	return it
}

func (r *ring) get(id string) (Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return Item{}, false
	}
	it.Mapping = it.Mapping.Clone()
	return it, true
}

func (r *ring) ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.order...)
}

func (r *ring) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
