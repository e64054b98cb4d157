package ynab

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/eshaffer321/ynab-go/internal/transport"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryKnowledgeStore
	err error
}

func (s failingStore) Save(ctx context.Context, scope Scope, k Knowledge) error {
	return s.err
}

func TestSyncer_SyncAccounts(t *testing.T) {
	client, mockTransport := newTestClient()
	store := NewMemoryKnowledgeStore()
	syncer := NewSyncer(client, store)
	replica := NewReplica[Account]()
	scope := Scope{BudgetID: "b1", Resource: ResourceAccounts}

	var first, second *transport.Request
	mockTransport.On("Do", mock.Anything, operation(endpoint.GetAccounts)).
		Run(captureRequest(&first)).
		Return(respond(http.StatusOK, accountsResponse), nil).Once()

	delta, err := syncer.SyncAccounts(context.Background(), "b1", replica)

	require.NoError(t, err)
	assert.Equal(t, "", first.Query)
	assert.True(t, delta.Full())
	assert.Len(t, delta.Upserted, 2)
	assert.Equal(t, []string{"acc-789"}, delta.Removed)
	assert.Equal(t, 2, replica.Len())

	k, ok, _ := store.Load(context.Background(), scope)
	require.True(t, ok)
	assert.Equal(t, Knowledge(100), k)

	mockTransport.On("Do", mock.Anything, operation(endpoint.GetAccounts)).
		Run(captureRequest(&second)).
		Return(respond(http.StatusOK, `{"data":{"accounts":[
			{"id":"acc-123","name":"Checking","type":"checking","balance":0,"cleared_balance":0,"uncleared_balance":0,"transfer_payee_id":"payee-t1","deleted":true}
		],"server_knowledge":110}}`), nil).Once()

	delta, err = syncer.SyncAccounts(context.Background(), "b1", replica)

	require.NoError(t, err)
	assert.Equal(t, "last_knowledge_of_server=100", second.Query)
	assert.False(t, delta.Full())
	assert.Equal(t, []string{"acc-123"}, delta.Removed)
	assert.Equal(t, 1, replica.Len())
	_, ok = replica.Get("acc-456")
	assert.True(t, ok)

	k, _, _ = store.Load(context.Background(), scope)
	assert.Equal(t, Knowledge(110), k)

	mockTransport.AssertExpectations(t)
}

func TestSyncer_SyncCategories(t *testing.T) {
	client, mockTransport := newTestClient()
	store := NewMemoryKnowledgeStore()
	scope := Scope{BudgetID: "B1", Resource: ResourceCategories}
	require.NoError(t, store.Save(context.Background(), scope, 100))

	groups := NewReplica[CategoryGroup]()
	groups.Seed(CategoryGroup{ID: "g1", Name: "Bills"})
	categories := NewReplica[Category]()
	categories.Seed(Category{ID: "c1", CategoryGroupID: "g1"}, Category{ID: "c2", CategoryGroupID: "g1"})

	var req *transport.Request
	mockTransport.On("Do", mock.Anything, operation(endpoint.GetCategories)).
		Run(captureRequest(&req)).
		Return(respond(http.StatusOK, `{"data":{"category_groups":[
			{"id":"g1","name":"Bills","hidden":false,"deleted":false,"categories":[
				{"id":"c1","category_group_id":"g1","name":"Rent","deleted":true}
			]}
		],"server_knowledge":150}}`), nil)

	groupDelta, categoryDelta, err := NewSyncer(client, store).SyncCategories(context.Background(), "B1", groups, categories)

	require.NoError(t, err)
	assert.Equal(t, "last_knowledge_of_server=100", req.Query)
	assert.Len(t, groupDelta.Upserted, 1)
	assert.Equal(t, []string{"c1"}, categoryDelta.Removed)

	_, ok := categories.Get("c1")
	assert.False(t, ok)
	_, ok = categories.Get("c2")
	assert.True(t, ok)

	k, _, _ := store.Load(context.Background(), scope)
	assert.Equal(t, Knowledge(150), k)
}

func TestSyncer_FetchFailureKeepsCursor(t *testing.T) {
	client, mockTransport := newTestClient()
	store := NewMemoryKnowledgeStore()
	scope := Scope{BudgetID: "b1", Resource: ResourcePayees}
	require.NoError(t, store.Save(context.Background(), scope, 7))

	mockTransport.On("Do", mock.Anything, mock.Anything).
		Return(respond(http.StatusServiceUnavailable, `{"error":{"id":"503","name":"service_unavailable"}}`), nil)

	replica := NewReplica[Payee]()
	replica.Seed(Payee{ID: "p1"})

	_, err := NewSyncer(client, store).SyncPayees(context.Background(), "b1", replica)

	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, 1, replica.Len())
	k, _, _ := store.Load(context.Background(), scope)
	assert.Equal(t, Knowledge(7), k)
}

func TestSyncer_SaveFailure(t *testing.T) {
	client, mockTransport := newTestClient()
	store := failingStore{MemoryKnowledgeStore: NewMemoryKnowledgeStore(), err: errors.New("disk full")}

	mockTransport.On("Do", mock.Anything, mock.Anything).
		Return(respond(http.StatusOK, `{"data":{"payees":[{"id":"p1","name":"Grocer"}],"server_knowledge":3}}`), nil)

	replica := NewReplica[Payee]()
	_, err := NewSyncer(client, store).SyncPayees(context.Background(), "b1", replica)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	// Re-applying the same listing next round is harmless
	assert.Equal(t, 1, replica.Len())
}

func TestSyncer_PayeeLocationsWithoutKnowledge(t *testing.T) {
	client, mockTransport := newTestClient()
	store := NewMemoryKnowledgeStore()

	mockTransport.On("Do", mock.Anything, operation(endpoint.GetPayeeLocations)).
		Return(respond(http.StatusOK, `{"data":{"payee_locations":[{"id":"l1","payee_id":"p1"}]}}`), nil)

	replica := NewReplica[PayeeLocation]()
	delta, err := NewSyncer(client, store).SyncPayeeLocations(context.Background(), "b1", replica)

	require.NoError(t, err)
	assert.Nil(t, delta.ServerKnowledge)
	assert.Equal(t, 1, replica.Len())

	_, ok, _ := store.Load(context.Background(), Scope{BudgetID: "b1", Resource: ResourcePayeeLocations})
	assert.False(t, ok)
}

func mockBudgetListings(m *MockTransport) {
	m.On("Do", mock.Anything, operation(endpoint.GetAccounts)).
		Return(respond(http.StatusOK, accountsResponse), nil)
	m.On("Do", mock.Anything, operation(endpoint.GetCategories)).
		Return(respond(http.StatusOK, `{"data":{"category_groups":[{"id":"g1","name":"Bills","categories":[{"id":"c1","category_group_id":"g1","name":"Rent"}]}],"server_knowledge":100}}`), nil)
	m.On("Do", mock.Anything, operation(endpoint.GetPayees)).
		Return(respond(http.StatusOK, `{"data":{"payees":[{"id":"p1","name":"Grocer"}],"server_knowledge":100}}`), nil)
	m.On("Do", mock.Anything, operation(endpoint.GetPayeeLocations)).
		Return(respond(http.StatusOK, `{"data":{"payee_locations":[]}}`), nil)
	m.On("Do", mock.Anything, operation(endpoint.GetMonths)).
		Return(respond(http.StatusOK, `{"data":{"months":[{"month":"2024-03-01"}],"server_knowledge":100}}`), nil)
	m.On("Do", mock.Anything, operation(endpoint.GetTransactions)).
		Return(respond(http.StatusOK, `{"data":{"transactions":[`+splitTransactionJSON+`],"server_knowledge":100}}`), nil)
	m.On("Do", mock.Anything, operation(endpoint.GetScheduledTransactions)).
		Return(respond(http.StatusOK, `{"data":{"scheduled_transactions":[`+scheduledJSON+`],"server_knowledge":100}}`), nil)
}

func TestSyncer_SyncAll(t *testing.T) {
	client, mockTransport := newTestClient()
	mockBudgetListings(mockTransport)
	store := NewMemoryKnowledgeStore()
	replica := NewBudgetReplica("b1")

	report, err := NewSyncer(client, store).SyncAll(context.Background(), replica)

	require.NoError(t, err)
	assert.Equal(t, "b1", report.BudgetID)
	assert.Equal(t, 2, replica.Accounts.Len())
	assert.Equal(t, 1, replica.CategoryGroups.Len())
	assert.Equal(t, 1, replica.Categories.Len())
	assert.Equal(t, 1, replica.Payees.Len())
	assert.Equal(t, 0, replica.PayeeLocations.Len())
	assert.Equal(t, 1, replica.Months.Len())
	assert.Equal(t, 1, replica.Transactions.Len())
	assert.Equal(t, 1, replica.ScheduledTransactions.Len())

	summary := report.Summary()
	require.Len(t, summary, 8)
	assert.Equal(t, KindAccounts, summary[0].Kind)
	assert.Equal(t, 2, summary[0].Upserted)
	assert.Equal(t, 1, summary[0].Removed)
	assert.True(t, summary[0].Full)
	assert.Equal(t, KindPayeeLocations, summary[4].Kind)
	assert.Nil(t, summary[4].ServerKnowledge)

	for _, resource := range []string{ResourceAccounts, ResourceCategories, ResourcePayees, ResourceMonths, ResourceTransactions, ResourceScheduledTransactions} {
		k, ok, _ := store.Load(context.Background(), Scope{BudgetID: "b1", Resource: resource})
		assert.True(t, ok, resource)
		assert.Equal(t, Knowledge(100), k, resource)
	}
}

func TestSyncer_SyncAllReportsFailure(t *testing.T) {
	client, mockTransport := newTestClient()
	mockTransport.On("Do", mock.Anything, operation(endpoint.GetMonths)).
		Return(respond(http.StatusOK, `{"data":{"months":[{"month":"2024-03-01"}]}}`), nil)
	mockBudgetListings(mockTransport)

	report, err := NewSyncer(client, NewMemoryKnowledgeStore()).SyncAll(context.Background(), NewBudgetReplica("b1"))

	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
	assert.Contains(t, err.Error(), "b1")
	require.NotNil(t, report)
	assert.Nil(t, report.Months)
}

func TestSyncer_SyncAllFailureDoesNotCancelOthers(t *testing.T) {
	client, mockTransport := newTestClient()
	payeesFailed := make(chan struct{})
	var transactionsErr error
	mockTransport.On("Do", mock.Anything, operation(endpoint.GetPayees)).
		Run(func(mock.Arguments) { close(payeesFailed) }).
		Return(respond(http.StatusInternalServerError, `{"error":{"id":"500","name":"internal_server_error","detail":"Internal Server Error"}}`), nil)
	mockTransport.On("Do", mock.Anything, operation(endpoint.GetTransactions)).
		Run(func(args mock.Arguments) {
			<-payeesFailed
			time.Sleep(50 * time.Millisecond)
			transactionsErr = args.Get(0).(context.Context).Err()
		}).
		Return(respond(http.StatusOK, `{"data":{"transactions":[`+splitTransactionJSON+`],"server_knowledge":100}}`), nil)
	mockBudgetListings(mockTransport)
	store := NewMemoryKnowledgeStore()
	replica := NewBudgetReplica("b1")

	report, err := NewSyncer(client, store).SyncAll(context.Background(), replica)

	require.Error(t, err)
	assert.True(t, IsAPIError(err))
	assert.NoError(t, transactionsErr)
	require.NotNil(t, report)
	assert.Nil(t, report.Payees)
	require.NotNil(t, report.Transactions)
	assert.Equal(t, 1, replica.Transactions.Len())

	k, ok, _ := store.Load(context.Background(), Scope{BudgetID: "b1", Resource: ResourceTransactions})
	assert.True(t, ok)
	assert.Equal(t, Knowledge(100), k)
	_, ok, _ = store.Load(context.Background(), Scope{BudgetID: "b1", Resource: ResourcePayees})
	assert.False(t, ok)
}
