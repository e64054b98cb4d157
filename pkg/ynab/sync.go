package ynab

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// BudgetReplica mirrors the listings of one budget
type BudgetReplica struct {
	BudgetID              string
	Accounts              *Replica[Account]
	CategoryGroups        *Replica[CategoryGroup]
	Categories            *Replica[Category]
	Payees                *Replica[Payee]
	PayeeLocations        *Replica[PayeeLocation]
	Months                *Replica[MonthSummary]
	Transactions          *Replica[TransactionDetail]
	ScheduledTransactions *Replica[ScheduledTransactionDetail]
}

// NewBudgetReplica creates an empty mirror of budgetID
func NewBudgetReplica(budgetID string) *BudgetReplica {
	return &BudgetReplica{
		BudgetID:              budgetID,
		Accounts:              NewReplica[Account](),
		CategoryGroups:        NewReplica[CategoryGroup](),
		Categories:            NewReplica[Category](),
		Payees:                NewReplica[Payee](),
		PayeeLocations:        NewReplica[PayeeLocation](),
		Months:                NewReplica[MonthSummary](),
		Transactions:          NewReplica[TransactionDetail](),
		ScheduledTransactions: NewReplica[ScheduledTransactionDetail](),
	}
}

// SyncReport holds the deltas applied by one SyncAll
type SyncReport struct {
	BudgetID              string
	Accounts              *Delta[Account]
	CategoryGroups        *Delta[CategoryGroup]
	Categories            *Delta[Category]
	Payees                *Delta[Payee]
	PayeeLocations        *Delta[PayeeLocation]
	Months                *Delta[MonthSummary]
	Transactions          *Delta[TransactionDetail]
	ScheduledTransactions *Delta[ScheduledTransactionDetail]
	Duration              time.Duration
}

// ResourceSummary counts the changes applied to one replica
type ResourceSummary struct {
	Kind            string
	Upserted        int
	Removed         int
	Full            bool
	ServerKnowledge *Knowledge
}

// Summary returns per-kind counts, in a fixed order
func (r *SyncReport) Summary() []ResourceSummary {
	var out []ResourceSummary
	add := func(kind string, full bool, upserted, removed int, k *Knowledge) {
		out = append(out, ResourceSummary{Kind: kind, Upserted: upserted, Removed: removed, Full: full, ServerKnowledge: k})
	}
	if d := r.Accounts; d != nil {
		add(KindAccounts, d.Full(), len(d.Upserted), len(d.Removed), d.ServerKnowledge)
	}
	if d := r.CategoryGroups; d != nil {
		add(KindCategoryGroups, d.Full(), len(d.Upserted), len(d.Removed), d.ServerKnowledge)
	}
	if d := r.Categories; d != nil {
		add(KindCategories, d.Full(), len(d.Upserted), len(d.Removed), d.ServerKnowledge)
	}
	if d := r.Payees; d != nil {
		add(KindPayees, d.Full(), len(d.Upserted), len(d.Removed), d.ServerKnowledge)
	}
	if d := r.PayeeLocations; d != nil {
		add(KindPayeeLocations, d.Full(), len(d.Upserted), len(d.Removed), d.ServerKnowledge)
	}
	if d := r.Months; d != nil {
		add(KindMonths, d.Full(), len(d.Upserted), len(d.Removed), d.ServerKnowledge)
	}
	if d := r.Transactions; d != nil {
		add(KindTransactions, d.Full(), len(d.Upserted), len(d.Removed), d.ServerKnowledge)
	}
	if d := r.ScheduledTransactions; d != nil {
		add(KindScheduledTransactions, d.Full(), len(d.Upserted), len(d.Removed), d.ServerKnowledge)
	}
	return out
}

// Record kinds held by a BudgetReplica. Category groups and categories come
// from the same listing and share its cursor.
const (
	KindAccounts              = "accounts"
	KindCategoryGroups        = "category_groups"
	KindCategories            = "categories"
	KindPayees                = "payees"
	KindPayeeLocations        = "payee_locations"
	KindMonths                = "months"
	KindTransactions          = "transactions"
	KindScheduledTransactions = "scheduled_transactions"
)

// Syncer keeps replicas current with incremental listings. For each listing
// it loads the cursor, fetches with it, applies the delta and only then
// saves the new cursor, so a failed apply never skips changes.
type Syncer struct {
	client *Client
	store  KnowledgeStore
}

// NewSyncer creates a Syncer reading and writing cursors in store
func NewSyncer(client *Client, store KnowledgeStore) *Syncer {
	return &Syncer{client: client, store: store}
}

type fetchFunc[T Entity] func(ctx context.Context, opts ...ListOption) ([]T, *Knowledge, error)

// syncListing runs one incremental round for a single-replica listing
func syncListing[T Entity](ctx context.Context, s *Syncer, scope Scope, replica *Replica[T], fetch fetchFunc[T]) (*Delta[T], error) {
	previous, opts, err := s.cursor(ctx, scope)
	if err != nil {
		return nil, err
	}

	items, next, err := fetch(ctx, opts...)
	if err != nil {
		return nil, err
	}

	delta := NewDelta(scope, previous, next, items)
	replica.Apply(delta)

	if err := s.commit(ctx, scope, next); err != nil {
		return nil, err
	}
	s.client.logDebug("Synced listing", "scope", scope.String(), "upserted", len(delta.Upserted), "removed", len(delta.Removed), "full", delta.Full())
	return &delta, nil
}

func (s *Syncer) cursor(ctx context.Context, scope Scope) (*Knowledge, []ListOption, error) {
	k, ok, err := s.store.Load(ctx, scope)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load cursor for %s", scope)
	}
	if !ok {
		return nil, nil, nil
	}
	return &k, []ListOption{SinceKnowledge(k)}, nil
}

func (s *Syncer) commit(ctx context.Context, scope Scope, next *Knowledge) error {
	if next == nil {
		return nil
	}
	if err := s.store.Save(ctx, scope, *next); err != nil {
		return errors.Wrapf(err, "failed to save cursor for %s", scope)
	}
	return nil
}

// SyncAccounts brings replica up to date with the budget's accounts
func (s *Syncer) SyncAccounts(ctx context.Context, budgetID string, replica *Replica[Account]) (*Delta[Account], error) {
	scope := Scope{BudgetID: budgetID, Resource: ResourceAccounts}
	return syncListing(ctx, s, scope, replica, func(ctx context.Context, opts ...ListOption) ([]Account, *Knowledge, error) {
		list, err := s.client.Accounts.List(ctx, budgetID, opts...)
		if err != nil {
			return nil, nil, err
		}
		return list.Accounts, &list.ServerKnowledge, nil
	})
}

// SyncCategories brings both category replicas up to date. Group and
// category changes arrive in one listing under one cursor.
func (s *Syncer) SyncCategories(ctx context.Context, budgetID string, groups *Replica[CategoryGroup], categories *Replica[Category]) (*Delta[CategoryGroup], *Delta[Category], error) {
	scope := Scope{BudgetID: budgetID, Resource: ResourceCategories}

	previous, opts, err := s.cursor(ctx, scope)
	if err != nil {
		return nil, nil, err
	}

	list, err := s.client.Categories.List(ctx, budgetID, opts...)
	if err != nil {
		return nil, nil, err
	}
	next := list.ServerKnowledge

	groupDelta := NewDelta(scope, previous, &next, list.Groups())
	categoryDelta := NewDelta(scope, previous, &next, list.Categories())
	groups.Apply(groupDelta)
	categories.Apply(categoryDelta)

	if err := s.commit(ctx, scope, &next); err != nil {
		return nil, nil, err
	}
	return &groupDelta, &categoryDelta, nil
}

// SyncPayees brings replica up to date with the budget's payees
func (s *Syncer) SyncPayees(ctx context.Context, budgetID string, replica *Replica[Payee]) (*Delta[Payee], error) {
	scope := Scope{BudgetID: budgetID, Resource: ResourcePayees}
	return syncListing(ctx, s, scope, replica, func(ctx context.Context, opts ...ListOption) ([]Payee, *Knowledge, error) {
		list, err := s.client.Payees.List(ctx, budgetID, opts...)
		if err != nil {
			return nil, nil, err
		}
		return list.Payees, &list.ServerKnowledge, nil
	})
}

// SyncPayeeLocations brings replica up to date with the budget's payee
// locations. Without a returned cursor every round is a full listing.
func (s *Syncer) SyncPayeeLocations(ctx context.Context, budgetID string, replica *Replica[PayeeLocation]) (*Delta[PayeeLocation], error) {
	scope := Scope{BudgetID: budgetID, Resource: ResourcePayeeLocations}
	return syncListing(ctx, s, scope, replica, func(ctx context.Context, opts ...ListOption) ([]PayeeLocation, *Knowledge, error) {
		list, err := s.client.PayeeLocations.List(ctx, budgetID, opts...)
		if err != nil {
			return nil, nil, err
		}
		return list.PayeeLocations, list.ServerKnowledge, nil
	})
}

// SyncMonths brings replica up to date with the budget's months
func (s *Syncer) SyncMonths(ctx context.Context, budgetID string, replica *Replica[MonthSummary]) (*Delta[MonthSummary], error) {
	scope := Scope{BudgetID: budgetID, Resource: ResourceMonths}
	return syncListing(ctx, s, scope, replica, func(ctx context.Context, opts ...ListOption) ([]MonthSummary, *Knowledge, error) {
		list, err := s.client.Months.List(ctx, budgetID, opts...)
		if err != nil {
			return nil, nil, err
		}
		return list.Months, &list.ServerKnowledge, nil
	})
}

// SyncTransactions brings replica up to date with the budget's transactions
func (s *Syncer) SyncTransactions(ctx context.Context, budgetID string, replica *Replica[TransactionDetail]) (*Delta[TransactionDetail], error) {
	scope := Scope{BudgetID: budgetID, Resource: ResourceTransactions}
	return syncListing(ctx, s, scope, replica, func(ctx context.Context, opts ...ListOption) ([]TransactionDetail, *Knowledge, error) {
		query := s.client.Transactions.Query(budgetID)
		if since := collectListOptions(opts).since; since != nil {
			query = query.Since(*since)
		}
		list, err := query.Execute(ctx)
		if err != nil {
			return nil, nil, err
		}
		return list.Transactions, &list.ServerKnowledge, nil
	})
}

// SyncScheduledTransactions brings replica up to date with the budget's
// scheduled transactions
func (s *Syncer) SyncScheduledTransactions(ctx context.Context, budgetID string, replica *Replica[ScheduledTransactionDetail]) (*Delta[ScheduledTransactionDetail], error) {
	scope := Scope{BudgetID: budgetID, Resource: ResourceScheduledTransactions}
	return syncListing(ctx, s, scope, replica, func(ctx context.Context, opts ...ListOption) ([]ScheduledTransactionDetail, *Knowledge, error) {
		list, err := s.client.ScheduledTransactions.List(ctx, budgetID, opts...)
		if err != nil {
			return nil, nil, err
		}
		return list.ScheduledTransactions, &list.ServerKnowledge, nil
	})
}

// SyncAll syncs every listing of r concurrently. Listings are independent:
// one failing neither cancels nor rolls back the others. The first error is
// returned alongside the report of everything that did sync.
func (s *Syncer) SyncAll(ctx context.Context, r *BudgetReplica) (*SyncReport, error) {
	start := time.Now()
	report := &SyncReport{BudgetID: r.BudgetID}
	var g errgroup.Group

	g.Go(func() (err error) {
		report.Accounts, err = s.SyncAccounts(ctx, r.BudgetID, r.Accounts)
		return err
	})
	g.Go(func() (err error) {
		report.CategoryGroups, report.Categories, err = s.SyncCategories(ctx, r.BudgetID, r.CategoryGroups, r.Categories)
		return err
	})
	g.Go(func() (err error) {
		report.Payees, err = s.SyncPayees(ctx, r.BudgetID, r.Payees)
		return err
	})
	g.Go(func() (err error) {
		report.PayeeLocations, err = s.SyncPayeeLocations(ctx, r.BudgetID, r.PayeeLocations)
		return err
	})
	g.Go(func() (err error) {
		report.Months, err = s.SyncMonths(ctx, r.BudgetID, r.Months)
		return err
	})
	g.Go(func() (err error) {
		report.Transactions, err = s.SyncTransactions(ctx, r.BudgetID, r.Transactions)
		return err
	})
	g.Go(func() (err error) {
		report.ScheduledTransactions, err = s.SyncScheduledTransactions(ctx, r.BudgetID, r.ScheduledTransactions)
		return err
	})

	err := g.Wait()
	report.Duration = time.Since(start)
	if err != nil {
		return report, errors.Wrapf(err, "failed to sync budget %s", r.BudgetID)
	}
	return report, nil
}
