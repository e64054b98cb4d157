package main

import (
	"context"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// mirror keeps one budget's replica, its cursors and the SQLite store in
// step
type mirror struct {
	store   *Store
	replica *ynab.BudgetReplica
	cursors *ynab.MemoryKnowledgeStore
	syncer  *ynab.Syncer
	logger  *zap.SugaredLogger
}

// newMirror pins budgetID to a concrete budget before anything is seeded.
// Cursors and stored rows are never keyed by the last-used alias, which can
// name a different budget from one cycle to the next.
func newMirror(ctx context.Context, client *ynab.Client, store *Store, budgetID string, logger *zap.SugaredLogger) (*mirror, error) {
	resolved, err := client.Budgets.Resolve(ctx, budgetID)
	if err != nil {
		return nil, errors.Wrap(err, "resolve budget")
	}
	if resolved != budgetID {
		logger.Infow("Resolved budget alias", "alias", budgetID, "budget_id", resolved)
	}
	budgetID = resolved

	m := &mirror{
		store:   store,
		replica: ynab.NewBudgetReplica(budgetID),
		cursors: ynab.NewMemoryKnowledgeStore(),
		logger:  logger,
	}
	m.syncer = ynab.NewSyncer(client, m.cursors)

	if err := m.store.Seed(ctx, m.replica, m.cursors); err != nil {
		return nil, errors.Wrap(err, "seed from state")
	}
	m.logger.Infow("Loaded mirror",
		"budget_id", budgetID,
		"accounts", m.replica.Accounts.Len(),
		"categories", m.replica.Categories.Len(),
		"payees", m.replica.Payees.Len(),
		"transactions", m.replica.Transactions.Len())
	return m, nil
}

// cycle syncs every listing and persists what was fetched. A partial sync
// still persists the listings that succeeded.
func (m *mirror) cycle(ctx context.Context) error {
	report, syncErr := m.syncer.SyncAll(ctx, m.replica)
	if report == nil {
		return syncErr
	}

	if err := m.store.Persist(ctx, report); err != nil {
		// The in-memory cursors ran ahead of the database. Go back to what
		// was stored so the next cycle refetches the same changes.
		if reloadErr := m.reload(ctx); reloadErr != nil {
			m.logger.Errorw("Failed to reload mirror", "error", reloadErr)
		}
		return errors.Wrap(err, "persist sync")
	}

	for _, s := range report.Summary() {
		m.logger.Infow("Synced",
			"kind", s.Kind,
			"upserted", s.Upserted,
			"removed", s.Removed,
			"full", s.Full,
			"server_knowledge", knowledgeField(s.ServerKnowledge))
	}
	m.logger.Infow("Sync cycle complete", "budget_id", report.BudgetID, "duration", report.Duration)

	return syncErr
}

// reload discards in-memory state and reseeds it from the store
func (m *mirror) reload(ctx context.Context) error {
	r := m.replica
	r.Accounts.Clear()
	r.CategoryGroups.Clear()
	r.Categories.Clear()
	r.Payees.Clear()
	r.PayeeLocations.Clear()
	r.Months.Clear()
	r.Transactions.Clear()
	r.ScheduledTransactions.Clear()
	m.cursors.Reset()
	return m.store.Seed(ctx, r, m.cursors)
}

func knowledgeField(k *ynab.Knowledge) interface{} {
	if k == nil {
		return nil
	}
	return uint64(*k)
}
