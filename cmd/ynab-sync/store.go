package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS knowledge (
	budget_id   TEXT NOT NULL,
	resource    TEXT NOT NULL,
	resource_id TEXT NOT NULL DEFAULT '',
	value       TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (budget_id, resource, resource_id)
);

CREATE TABLE IF NOT EXISTS records (
	budget_id  TEXT NOT NULL,
	kind       TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (budget_id, kind, id)
);
`

// Store is the SQLite mirror of synced budgets: one JSON row per live
// record and one row per cursor
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens or creates the mirror at path
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "create state directory")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}
	// Writes are serialized through one connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Seed fills replica and cursors with what was persisted for the replica's
// budget
func (s *Store) Seed(ctx context.Context, replica *ynab.BudgetReplica, cursors ynab.KnowledgeStore) error {
	budgetID := replica.BudgetID

	if err := seedKind(ctx, s.db, budgetID, ynab.KindAccounts, replica.Accounts); err != nil {
		return err
	}
	if err := seedKind(ctx, s.db, budgetID, ynab.KindCategoryGroups, replica.CategoryGroups); err != nil {
		return err
	}
	if err := seedKind(ctx, s.db, budgetID, ynab.KindCategories, replica.Categories); err != nil {
		return err
	}
	if err := seedKind(ctx, s.db, budgetID, ynab.KindPayees, replica.Payees); err != nil {
		return err
	}
	if err := seedKind(ctx, s.db, budgetID, ynab.KindPayeeLocations, replica.PayeeLocations); err != nil {
		return err
	}
	if err := seedKind(ctx, s.db, budgetID, ynab.KindMonths, replica.Months); err != nil {
		return err
	}
	if err := seedKind(ctx, s.db, budgetID, ynab.KindTransactions, replica.Transactions); err != nil {
		return err
	}
	if err := seedKind(ctx, s.db, budgetID, ynab.KindScheduledTransactions, replica.ScheduledTransactions); err != nil {
		return err
	}

	return s.seedCursors(ctx, budgetID, cursors)
}

func seedKind[T ynab.Entity](ctx context.Context, db *sql.DB, budgetID, kind string, replica *ynab.Replica[T]) error {
	rows, err := db.QueryContext(ctx, `SELECT data FROM records WHERE budget_id = ? AND kind = ?`, budgetID, kind)
	if err != nil {
		return errors.Wrapf(err, "load %s", kind)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return errors.Wrapf(err, "scan %s", kind)
		}
		var item T
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return errors.Wrapf(err, "decode %s record", kind)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return errors.Wrapf(err, "load %s", kind)
	}

	replica.Seed(items...)
	return nil
}

func (s *Store) seedCursors(ctx context.Context, budgetID string, cursors ynab.KnowledgeStore) error {
	rows, err := s.db.QueryContext(ctx, `SELECT resource, resource_id, value FROM knowledge WHERE budget_id = ?`, budgetID)
	if err != nil {
		return errors.Wrap(err, "load cursors")
	}
	defer rows.Close()

	for rows.Next() {
		scope := ynab.Scope{BudgetID: budgetID}
		var value string
		if err := rows.Scan(&scope.Resource, &scope.ResourceID, &value); err != nil {
			return errors.Wrap(err, "scan cursor")
		}
		k, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid cursor for %s", scope)
		}
		if err := cursors.Save(ctx, scope, ynab.Knowledge(k)); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Persist writes every delta of report and its cursor in one transaction.
// Deltas missing from a partial report are skipped.
func (s *Store) Persist(ctx context.Context, report *ynab.SyncReport) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	budgetID := report.BudgetID
	now := s.now().UTC().Format(time.RFC3339)

	if err = persistDelta(ctx, tx, budgetID, ynab.KindAccounts, now, report.Accounts); err != nil {
		return err
	}
	if err = persistDelta(ctx, tx, budgetID, ynab.KindCategoryGroups, now, report.CategoryGroups); err != nil {
		return err
	}
	if err = persistDelta(ctx, tx, budgetID, ynab.KindCategories, now, report.Categories); err != nil {
		return err
	}
	if err = persistDelta(ctx, tx, budgetID, ynab.KindPayees, now, report.Payees); err != nil {
		return err
	}
	if err = persistDelta(ctx, tx, budgetID, ynab.KindPayeeLocations, now, report.PayeeLocations); err != nil {
		return err
	}
	if err = persistDelta(ctx, tx, budgetID, ynab.KindMonths, now, report.Months); err != nil {
		return err
	}
	if err = persistDelta(ctx, tx, budgetID, ynab.KindTransactions, now, report.Transactions); err != nil {
		return err
	}
	if err = persistDelta(ctx, tx, budgetID, ynab.KindScheduledTransactions, now, report.ScheduledTransactions); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

func persistDelta[T ynab.Entity](ctx context.Context, tx *sql.Tx, budgetID, kind, now string, d *ynab.Delta[T]) error {
	if d == nil {
		return nil
	}

	for _, item := range d.Upserted {
		data, err := json.Marshal(item)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", kind, item.EntityID())
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO records (budget_id, kind, id, data, updated_at) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (budget_id, kind, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			budgetID, kind, item.EntityID(), string(data), now)
		if err != nil {
			return errors.Wrapf(err, "upsert %s %s", kind, item.EntityID())
		}
	}

	for _, id := range d.Removed {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE budget_id = ? AND kind = ? AND id = ?`, budgetID, kind, id); err != nil {
			return errors.Wrapf(err, "delete %s %s", kind, id)
		}
	}

	if d.ServerKnowledge == nil {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO knowledge (budget_id, resource, resource_id, value, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (budget_id, resource, resource_id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		budgetID, d.Scope.Resource, d.Scope.ResourceID, d.ServerKnowledge.String(), now)
	if err != nil {
		return errors.Wrapf(err, "save cursor for %s", d.Scope)
	}
	return nil
}

// Count returns the number of stored records of kind
func (s *Store) Count(ctx context.Context, budgetID, kind string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE budget_id = ? AND kind = ?`, budgetID, kind).Scan(&n)
	if err != nil {
		return 0, errors.Wrapf(err, "count %s", kind)
	}
	return n, nil
}
