package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func accountJSON(id, name string) string {
	return fmt.Sprintf(`{"id":%q,"name":%q,"type":"checking","on_budget":true,"closed":false,"balance":0,"cleared_balance":0,"uncleared_balance":0,"transfer_payee_id":"t-%s","deleted":false}`, id, name, id)
}

// newBudgetServer serves every listing of budget b1. Accounts return a full
// listing at 100 and a delta holding deltaID at 110 when asked since 100.
func newBudgetServer(t *testing.T, deltaID string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/accounts"):
			if r.URL.Query().Get("last_knowledge_of_server") == "100" {
				fmt.Fprintf(w, `{"data":{"accounts":[%s],"server_knowledge":110}}`, accountJSON(deltaID, "New"))
				return
			}
			fmt.Fprintf(w, `{"data":{"accounts":[%s,%s],"server_knowledge":100}}`, accountJSON("acc-1", "Checking"), accountJSON("acc-2", "Savings"))
		case strings.HasSuffix(path, "/categories"):
			fmt.Fprint(w, `{"data":{"category_groups":[{"id":"g1","name":"Bills","categories":[{"id":"c1","category_group_id":"g1","name":"Rent"}]}],"server_knowledge":100}}`)
		case strings.HasSuffix(path, "/payees"):
			fmt.Fprint(w, `{"data":{"payees":[{"id":"p1","name":"Grocer"}],"server_knowledge":100}}`)
		case strings.HasSuffix(path, "/payee_locations"):
			fmt.Fprint(w, `{"data":{"payee_locations":[]}}`)
		case strings.HasSuffix(path, "/months"):
			fmt.Fprint(w, `{"data":{"months":[{"month":"2024-03-01"}],"server_knowledge":100}}`)
		case strings.HasSuffix(path, "/scheduled_transactions"):
			fmt.Fprint(w, `{"data":{"scheduled_transactions":[],"server_knowledge":100}}`)
		case strings.HasSuffix(path, "/transactions"):
			fmt.Fprint(w, `{"data":{"transactions":[],"server_knowledge":100}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"id":"404.2","name":"resource_not_found","detail":"Resource not found"}}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestMirror(t *testing.T, srv *httptest.Server) (*mirror, *Store) {
	t.Helper()
	client, err := ynab.NewClient(&ynab.ClientOptions{BaseURL: srv.URL, Token: "test-token"})
	require.NoError(t, err)

	store, err := OpenStore(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m, err := newMirror(context.Background(), client, store, "b1", zap.NewNop().Sugar())
	require.NoError(t, err)
	return m, store
}

func TestMirror_Cycle(t *testing.T) {
	ctx := context.Background()
	m, store := newTestMirror(t, newBudgetServer(t, "acc-3"))

	require.NoError(t, m.cycle(ctx))

	n, err := store.Count(ctx, "b1", ynab.KindAccounts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, _ = store.Count(ctx, "b1", ynab.KindCategories)
	assert.Equal(t, 1, n)
	n, _ = store.Count(ctx, "b1", ynab.KindMonths)
	assert.Equal(t, 1, n)

	require.NoError(t, m.cycle(ctx))

	n, _ = store.Count(ctx, "b1", ynab.KindAccounts)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, m.replica.Accounts.Len())

	// A restart picks up where the last cycle stopped
	replica := ynab.NewBudgetReplica("b1")
	cursors := ynab.NewMemoryKnowledgeStore()
	require.NoError(t, store.Seed(ctx, replica, cursors))

	k, ok, _ := cursors.Load(ctx, ynab.Scope{BudgetID: "b1", Resource: ynab.ResourceAccounts})
	require.True(t, ok)
	assert.Equal(t, ynab.Knowledge(110), k)
	assert.Equal(t, 3, replica.Accounts.Len())
	assert.Equal(t, 1, replica.Payees.Len())
}

func TestMirror_CyclePersistFailureReloads(t *testing.T) {
	ctx := context.Background()
	m, store := newTestMirror(t, newBudgetServer(t, "acc-bad"))

	require.NoError(t, m.cycle(ctx))

	_, err := store.db.Exec(`CREATE TRIGGER reject_bad BEFORE INSERT ON records WHEN NEW.id = 'acc-bad' BEGIN SELECT RAISE(ABORT, 'boom'); END`)
	require.NoError(t, err)

	err = m.cycle(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist sync")

	k, ok, _ := m.cursors.Load(ctx, ynab.Scope{BudgetID: "b1", Resource: ynab.ResourceAccounts})
	require.True(t, ok)
	assert.Equal(t, ynab.Knowledge(100), k)

	_, found := m.replica.Accounts.Get("acc-bad")
	assert.False(t, found)
	assert.Equal(t, 2, m.replica.Accounts.Len())
	assert.Equal(t, 1, m.replica.Categories.Len())
}

func TestMirror_CycleUnknownBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"id":"404.2","name":"resource_not_found","detail":"Resource not found"}}`)
	}))
	t.Cleanup(srv.Close)
	m, store := newTestMirror(t, srv)

	err := m.cycle(context.Background())

	require.Error(t, err)
	assert.True(t, ynab.IsNotFound(err))
	n, _ := store.Count(context.Background(), "b1", ynab.KindAccounts)
	assert.Equal(t, 0, n)
}

// newSwitchingServer serves two budgets. last-used names whichever one
// current points at, and every request path is recorded.
func newSwitchingServer(t *testing.T, current *string, mu *sync.Mutex, paths *[]string) *httptest.Server {
	t.Helper()
	accounts := map[string]string{"budget-a": "acc-A1", "budget-b": "acc-B1"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mu.Lock()
		*paths = append(*paths, r.URL.Path+"?"+r.URL.RawQuery)
		active := *current
		mu.Unlock()

		if r.URL.Path == "/budgets" {
			fmt.Fprintf(w, `{"data":{"budgets":[{"id":"budget-a"},{"id":"budget-b"}],"default_budget":{"id":%q}}}`, active)
			return
		}
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/budgets/"), "/")
		budgetID := parts[0]
		if budgetID == ynab.LastUsedBudget {
			budgetID = active
		}
		switch parts[len(parts)-1] {
		case "accounts":
			fmt.Fprintf(w, `{"data":{"accounts":[%s],"server_knowledge":100}}`, accountJSON(accounts[budgetID], "Checking"))
		case "categories":
			fmt.Fprint(w, `{"data":{"category_groups":[],"server_knowledge":100}}`)
		case "payees":
			fmt.Fprint(w, `{"data":{"payees":[],"server_knowledge":100}}`)
		case "payee_locations":
			fmt.Fprint(w, `{"data":{"payee_locations":[]}}`)
		case "months":
			fmt.Fprint(w, `{"data":{"months":[],"server_knowledge":100}}`)
		case "scheduled_transactions":
			fmt.Fprint(w, `{"data":{"scheduled_transactions":[],"server_knowledge":100}}`)
		case "transactions":
			fmt.Fprint(w, `{"data":{"transactions":[],"server_knowledge":100}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"id":"404.2","name":"resource_not_found","detail":"Resource not found"}}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMirror_LastUsedIsPinned(t *testing.T) {
	ctx := context.Background()
	var (
		mu      sync.Mutex
		paths   []string
		current = "budget-a"
	)
	srv := newSwitchingServer(t, &current, &mu, &paths)

	client, err := ynab.NewClient(&ynab.ClientOptions{BaseURL: srv.URL, Token: "test-token"})
	require.NoError(t, err)
	store, err := OpenStore(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m, err := newMirror(ctx, client, store, ynab.LastUsedBudget, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, "budget-a", m.replica.BudgetID)

	require.NoError(t, m.cycle(ctx))

	// The user opens another budget in the app
	mu.Lock()
	current = "budget-b"
	paths = nil
	mu.Unlock()

	require.NoError(t, m.cycle(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, paths, "/budgets/budget-a/accounts?last_knowledge_of_server=100")
	for _, p := range paths {
		assert.NotContains(t, p, ynab.LastUsedBudget)
		assert.NotContains(t, p, "budget-b")
	}

	_, found := m.replica.Accounts.Get("acc-A1")
	assert.True(t, found)
	_, found = m.replica.Accounts.Get("acc-B1")
	assert.False(t, found)

	n, err := store.Count(ctx, "budget-a", ynab.KindAccounts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, _ = store.Count(ctx, ynab.LastUsedBudget, ynab.KindAccounts)
	assert.Equal(t, 0, n)
}
