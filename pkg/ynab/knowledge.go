package ynab

import (
	"context"
	"strconv"
	"sync"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
)

// Knowledge is the server's position in a budget's change history. It is
// opaque: store the latest value and replay it, nothing else.
type Knowledge uint64

// String returns the decimal form used on the wire
func (k Knowledge) String() string {
	return strconv.FormatUint(uint64(k), 10)
}

const lastKnowledgeParam = "last_knowledge_of_server"

// ListOption configures a listing request
type ListOption func(*listOptions)

type listOptions struct {
	since *Knowledge
}

// SinceKnowledge asks only for records changed after k
func SinceKnowledge(k Knowledge) ListOption {
	return func(o *listOptions) {
		o.since = &k
	}
}

func collectListOptions(opts []ListOption) listOptions {
	var o listOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// apply adds the cursor to q, keeping every other parameter in place
func (o listOptions) apply(q *endpoint.Query) {
	if o.since != nil {
		q.Set(lastKnowledgeParam, o.since.String())
	}
}

// Resource names used in sync scopes
const (
	ResourceBudget                = "budget"
	ResourceAccounts              = "accounts"
	ResourceCategories            = "categories"
	ResourcePayees                = "payees"
	ResourcePayeeLocations        = "payee_locations"
	ResourceMonths                = "months"
	ResourceTransactions          = "transactions"
	ResourceScheduledTransactions = "scheduled_transactions"
)

// Scope identifies the listing a cursor belongs to. ResourceID narrows it,
// for example to one account's transactions.
type Scope struct {
	BudgetID   string
	Resource   string
	ResourceID string
}

// String returns a stable key for the scope
func (s Scope) String() string {
	if s.ResourceID == "" {
		return s.BudgetID + "/" + s.Resource
	}
	return s.BudgetID + "/" + s.Resource + "/" + s.ResourceID
}

// KnowledgeStore persists the latest cursor per scope
type KnowledgeStore interface {
	// Load returns the stored cursor and whether one exists
	Load(ctx context.Context, scope Scope) (Knowledge, bool, error)

	// Save replaces the stored cursor
	Save(ctx context.Context, scope Scope, k Knowledge) error
}

// MemoryKnowledgeStore is a KnowledgeStore held in memory. It is safe for
// concurrent use.
type MemoryKnowledgeStore struct {
	mu      sync.RWMutex
	cursors map[Scope]Knowledge
}

// NewMemoryKnowledgeStore creates an empty store
func NewMemoryKnowledgeStore() *MemoryKnowledgeStore {
	return &MemoryKnowledgeStore{cursors: make(map[Scope]Knowledge)}
}

// Load implements KnowledgeStore
func (s *MemoryKnowledgeStore) Load(_ context.Context, scope Scope) (Knowledge, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.cursors[scope]
	return k, ok, nil
}

// Save implements KnowledgeStore
func (s *MemoryKnowledgeStore) Save(_ context.Context, scope Scope, k Knowledge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[scope] = k
	return nil
}

// Reset forgets every cursor
func (s *MemoryKnowledgeStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = make(map[Scope]Knowledge)
}

// Entity is a listed record with soft-delete semantics
type Entity interface {
	EntityID() string
	IsDeleted() bool
}

// Delta is one listing split into records to upsert and ids to remove
type Delta[T Entity] struct {
	Scope Scope
	// Previous is the cursor the listing was requested with, nil for a full
	// listing
	Previous *Knowledge
	// ServerKnowledge is the cursor returned with the listing, nil when the
	// API omitted it
	ServerKnowledge *Knowledge
	Upserted        []T
	Removed         []string
}

// NewDelta partitions items by their deleted flag
func NewDelta[T Entity](scope Scope, previous, next *Knowledge, items []T) Delta[T] {
	d := Delta[T]{
		Scope:           scope,
		Previous:        previous,
		ServerKnowledge: next,
	}
	for _, item := range items {
		if item.IsDeleted() {
			d.Removed = append(d.Removed, item.EntityID())
			continue
		}
		d.Upserted = append(d.Upserted, item)
	}
	return d
}

// Full reports whether the delta came from a listing without a cursor
func (d Delta[T]) Full() bool {
	return d.Previous == nil
}

// Empty reports whether the delta changes nothing
func (d Delta[T]) Empty() bool {
	return len(d.Upserted) == 0 && len(d.Removed) == 0
}
