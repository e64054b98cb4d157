package ynab

import (
	"sort"
	"sync"
)

// Replica is a local id-keyed mirror of one listing. It is safe for
// concurrent use.
type Replica[T Entity] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewReplica creates an empty replica
func NewReplica[T Entity]() *Replica[T] {
	return &Replica[T]{items: make(map[string]T)}
}

// Apply upserts d.Upserted, then removes d.Removed
func (r *Replica[T]) Apply(d Delta[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range d.Upserted {
		r.items[item.EntityID()] = item
	}
	for _, id := range d.Removed {
		delete(r.items, id)
	}
}

// Seed loads previously persisted records, skipping deleted ones
func (r *Replica[T]) Seed(items ...T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		if item.IsDeleted() {
			delete(r.items, item.EntityID())
			continue
		}
		r.items[item.EntityID()] = item
	}
}

// Get returns the record with id
func (r *Replica[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	return item, ok
}

// Len returns the number of records
func (r *Replica[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Items returns a copy of every record, sorted by id
func (r *Replica[T]) Items() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EntityID() < out[j].EntityID()
	})
	return out
}

// Clear removes every record
func (r *Replica[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[string]T)
}
