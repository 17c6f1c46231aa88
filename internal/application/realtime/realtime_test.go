package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/identity"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func change(tenantID uuid.UUID, table string) ChangeEvent {
	return ChangeEvent{ID: uuid.New(), Table: table, Type: ChangeUpdate, RecordID: uuid.New(), TenantID: tenantID}
}

func drain(sub *Subscription) []ChangeEvent {
	var out []ChangeEvent
	for {
		select {
		case ev := <-sub.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestHub_DeliversOnlyTenantAndTables(t *testing.T) {
	hub := NewHub(0, 8, nil)
	tenantA, tenantB := uuid.New(), uuid.New()

	customersA, err := hub.Subscribe(tenantA, []string{TableCustomers})
	require.NoError(t, err)
	allA, err := hub.Subscribe(tenantA, nil)
	require.NoError(t, err)
	customersB, err := hub.Subscribe(tenantB, []string{TableCustomers})
	require.NoError(t, err)

	first := change(tenantA, TableCustomers)
	hub.Publish(first)
	hub.Publish(change(tenantA, TableSuppliers))
	hub.Publish(change(tenantB, TableSuppliers))

	got := drain(customersA)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Len(t, drain(allA), 2)
	assert.Empty(t, drain(customersB))
}

func TestHub_PreservesPublishOrder(t *testing.T) {
	hub := NewHub(0, 16, nil)
	tenantID := uuid.New()
	sub, err := hub.Subscribe(tenantID, nil)
	require.NoError(t, err)

	var want []uuid.UUID
	for range 10 {
		ev := change(tenantID, TableJournalEntries)
		want = append(want, ev.ID)
		hub.Publish(ev)
	}
	var got []uuid.UUID
	for _, ev := range drain(sub) {
		got = append(got, ev.ID)
	}
	assert.Equal(t, want, got)
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(0, 2, nil)
	tenantID := uuid.New()
	slow, err := hub.Subscribe(tenantID, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for range 5 {
			hub.Publish(change(tenantID, TableCustomers))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.Len(t, drain(slow), 2)
	assert.Equal(t, int64(3), slow.Dropped())
	assert.Equal(t, int64(3), hub.Dropped())
}

func TestHub_MaxClientsAndUnsubscribe(t *testing.T) {
	hub := NewHub(2, 4, nil)
	tenantID := uuid.New()

	a, err := hub.Subscribe(tenantID, nil)
	require.NoError(t, err)
	_, err = hub.Subscribe(tenantID, nil)
	require.NoError(t, err)
	_, err = hub.Subscribe(tenantID, nil)
	assert.ErrorIs(t, err, ErrTooManySubscribers)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unsubscribe(a)
	hub.Unsubscribe(a)
	assert.Equal(t, 1, hub.ClientCount())
	select {
	case <-a.Done():
	default:
		t.Fatal("unsubscribe should close Done")
	}

	hub.Publish(change(tenantID, TableCustomers))
	assert.Empty(t, drain(a))

	hub.Close()
	assert.Zero(t, hub.ClientCount())
}

func TestHub_ConcurrentPublishAndUnsubscribe(t *testing.T) {
	hub := NewHub(0, 1, nil)
	tenantID := uuid.New()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				sub, err := hub.Subscribe(tenantID, nil)
				if err != nil {
					return
				}
				hub.Publish(change(tenantID, TableCustomers))
				hub.Unsubscribe(sub)
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, hub.ClientCount())
}

// memoryRelay loops published events back to every subscriber, like a
// pub/sub channel shared by all instances
type memoryRelay struct {
	mu       sync.Mutex
	handlers []func(ChangeEvent)
	ready    chan struct{}
}

func newMemoryRelay() *memoryRelay {
	return &memoryRelay{ready: make(chan struct{}, 8)}
}

func (r *memoryRelay) Publish(_ context.Context, ev ChangeEvent) error {
	r.mu.Lock()
	handlers := append([]func(ChangeEvent){}, r.handlers...)
	r.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
	return nil
}

func (r *memoryRelay) Subscribe(ctx context.Context, fn func(ChangeEvent)) error {
	r.mu.Lock()
	r.handlers = append(r.handlers, fn)
	r.mu.Unlock()
	r.ready <- struct{}{}
	<-ctx.Done()
	return nil
}

func TestFeed_RelaysAcrossInstancesWithoutDuplicates(t *testing.T) {
	relay := newMemoryRelay()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feedA := NewFeed(NewHub(0, 8, nil), relay, nil)
	feedB := NewFeed(NewHub(0, 8, nil), relay, nil)
	go func() { _ = feedA.Run(ctx) }()
	go func() { _ = feedB.Run(ctx) }()
	<-relay.ready
	<-relay.ready

	tenantID := uuid.New()
	subA, err := feedA.Hub().Subscribe(tenantID, nil)
	require.NoError(t, err)
	subB, err := feedB.Hub().Subscribe(tenantID, nil)
	require.NoError(t, err)

	feedA.Publish(ctx, change(tenantID, TableSalesInvoices))

	gotA := drain(subA)
	gotB := drain(subB)
	require.Len(t, gotA, 1, "local delivery happens once")
	require.Len(t, gotB, 1)
	assert.Equal(t, feedA.Origin(), gotB[0].Origin)
}

func TestChangeFeedHandler(t *testing.T) {
	hub := NewHub(0, 8, nil)
	handler := NewChangeFeedHandler(NewFeed(hub, nil, nil), nil)
	tenantID := uuid.New()
	sub, err := hub.Subscribe(tenantID, []string{TableCustomers})
	require.NoError(t, err)

	customer, err := partner.NewCustomer(tenantID, "C001", "Acme")
	require.NoError(t, err)
	events := customer.PullDomainEvents()
	require.NotEmpty(t, events)
	require.NoError(t, handler.Handle(context.Background(), events[0]))

	got := drain(sub)
	require.Len(t, got, 1)
	assert.Equal(t, ChangeInsert, got[0].Type)
	assert.Equal(t, TableCustomers, got[0].Table)
	assert.Equal(t, customer.ID, got[0].RecordID)

	var record map[string]any
	require.NoError(t, json.Unmarshal(got[0].Record, &record))
	assert.Equal(t, "Acme", record["name"])

	t.Run("ignores unwatched aggregates", func(t *testing.T) {
		role, err := identity.NewRole(tenantID, "clerk", "Clerk", "", nil)
		require.NoError(t, err)
		_, ok := ToChangeEvent(role.PullDomainEvents()[0])
		assert.False(t, ok)
	})
}

func TestChangeFeedHandler_PublishOrderThroughStartedBus(t *testing.T) {
	const n = 2000
	hub := NewHub(0, n, nil)
	tenantID := uuid.New()
	sub, err := hub.Subscribe(tenantID, []string{TableCustomers})
	require.NoError(t, err)

	ctx := context.Background()
	bus := event.NewInMemoryEventBus(nil, event.WithWorkers(4), event.WithQueueSize(16))
	bus.Subscribe(NewChangeFeedHandler(NewFeed(hub, nil, nil), nil))
	require.NoError(t, bus.Start(ctx))

	customers := make([]*partner.Customer, 3)
	for i := range customers {
		customers[i], err = partner.NewCustomer(tenantID, "C00"+string(rune('1'+i)), "Acme")
		require.NoError(t, err)
	}

	want := make([]uuid.UUID, 0, n)
	for i := range n {
		ev := partner.NewCustomerEvent(partner.EventTypeCustomerUpdated, customers[i%len(customers)])
		want = append(want, ev.EventID())
		require.NoError(t, bus.Publish(ctx, ev))
	}
	require.NoError(t, bus.Stop(ctx))

	got := make([]uuid.UUID, 0, n)
	for _, ev := range drain(sub) {
		got = append(got, ev.ID)
	}
	assert.Equal(t, want, got)
}

func TestChangeTypeOf(t *testing.T) {
	assert.Equal(t, ChangeInsert, changeTypeOf("SalesInvoiceCreated"))
	assert.Equal(t, ChangeDelete, changeTypeOf("LedgerAccountDeleted"))
	assert.Equal(t, ChangeUpdate, changeTypeOf("SupplierInvoiceApproved"))
	assert.True(t, IsTable("journal_entries"))
	assert.False(t, IsTable("users"))
}
