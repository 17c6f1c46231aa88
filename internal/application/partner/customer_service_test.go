package partner

import (
	"context"
	"testing"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCustomerService() (*CustomerService, *MockCustomerRepository, *MockUsageChecker, *MockEventPublisher) {
	repo := new(MockCustomerRepository)
	usage := new(MockUsageChecker)
	pub := new(MockEventPublisher)
	svc := NewCustomerService(repo, usage, partner.NewE164Normalizer("US"), zap.NewNop())
	svc.SetEventPublisher(pub)
	return svc, repo, usage, pub
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates customer and publishes one created event", func(t *testing.T) {
		svc, repo, _, pub := newTestCustomerService()
		limit := decimal.NewFromInt(5000)
		req := CreateCustomerRequest{
			Code: "cus-001",
			ContactFields: ContactFields{
				Name:    "Acme Ltd",
				Email:   "ops@acme.test",
				Phone:   "(650) 253-0000",
				Country: "US",
			},
			CreditLimit: &limit,
			CreatedBy:   uuid.New(),
		}

		repo.On("ExistsByCode", ctx, tenantID, "cus-001").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)
		pub.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == partner.EventTypeCustomerCreated
		})).Return(nil)

		resp, err := svc.Create(ctx, tenantID, req)
		require.NoError(t, err)
		assert.Equal(t, "CUS-001", resp.Code)
		assert.Equal(t, "+16502530000", resp.Phone)
		assert.Equal(t, "active", resp.Status)
		assert.True(t, resp.CreditLimit.Equal(limit))
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		svc, repo, _, _ := newTestCustomerService()
		repo.On("ExistsByCode", ctx, tenantID, "CUS-001").Return(true, nil)

		_, err := svc.Create(ctx, tenantID, CreateCustomerRequest{Code: "CUS-001", ContactFields: ContactFields{Name: "Acme"}})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid phone", func(t *testing.T) {
		svc, repo, _, _ := newTestCustomerService()
		repo.On("ExistsByCode", ctx, tenantID, "C1").Return(false, nil)

		_, err := svc.Create(ctx, tenantID, CreateCustomerRequest{Code: "C1", ContactFields: ContactFields{Name: "Acme", Phone: "12"}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PHONE", domainErr.Code)
	})
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, repo, _, _ := newTestCustomerService()

	active := true
	c1, _ := partner.NewCustomer(tenantID, "C1", "Alpha")
	c2, _ := partner.NewCustomer(tenantID, "C2", "Beta")

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "a" && f.Filters["is_active"] == true && f.OrderBy == "name" && f.Page == 1 && f.PageSize == 20
	})
	repo.On("FindAllForTenant", ctx, tenantID, matchFilter).Return([]partner.Customer{*c1, *c2}, nil)
	repo.On("CountForTenant", ctx, tenantID, matchFilter).Return(int64(2), nil)

	items, total, err := svc.List(ctx, tenantID, ListFilter{Search: "a", IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Name)
}

func TestCustomerService_Deactivate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, repo, _, pub := newTestCustomerService()

	c, _ := partner.NewCustomer(tenantID, "C1", "Alpha")
	c.ClearDomainEvents()
	repo.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)
	pub.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := svc.Deactivate(ctx, tenantID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	_, err = svc.Deactivate(ctx, tenantID, c.ID)
	assert.Error(t, err)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("refuses when invoices reference the customer", func(t *testing.T) {
		svc, repo, usage, _ := newTestCustomerService()
		c, _ := partner.NewCustomer(tenantID, "C1", "Alpha")
		repo.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		usage.On("CustomerInUse", ctx, tenantID, c.ID).Return(true, nil)

		err := svc.Delete(ctx, tenantID, c.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes and publishes deleted event", func(t *testing.T) {
		svc, repo, usage, pub := newTestCustomerService()
		c, _ := partner.NewCustomer(tenantID, "C1", "Alpha")
		c.ClearDomainEvents()
		repo.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		usage.On("CustomerInUse", ctx, tenantID, c.ID).Return(false, nil)
		repo.On("DeleteForTenant", ctx, tenantID, c.ID).Return(nil)
		pub.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == partner.EventTypeCustomerDeleted
		})).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, c.ID))
		pub.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _, _ := newTestCustomerService()
		id := uuid.New()
		repo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, tenantID, id), shared.ErrNotFound)
	})
}
