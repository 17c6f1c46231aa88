package partner

import (
	"context"
	"testing"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSupplierService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, nil, partner.NewE164Normalizer("US"), zap.NewNop())

	terms := 45
	repo.On("ExistsByCode", ctx, tenantID, "sup-9").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

	resp, err := svc.Create(ctx, tenantID, CreateSupplierRequest{
		Code:             "sup-9",
		ContactFields:    ContactFields{Name: "Paper Co", Country: "GB", Phone: "020 7031 3000"},
		ContactName:      "Sam",
		PaymentTermsDays: &terms,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUP-9", resp.Code)
	assert.Equal(t, 45, resp.PaymentTermsDays)
	assert.Equal(t, "+442070313000", resp.Phone)
	assert.Equal(t, "active", resp.Status)

	s, _ := partner.NewSupplier(tenantID, "SUP-9", "Paper Co")
	repo.On("FindByIDForTenant", ctx, tenantID, s.ID).Return(s, nil)

	updated, err := svc.Update(ctx, tenantID, s.ID, UpdateSupplierRequest{
		ContactFields: ContactFields{Name: "Paper Company"},
		ContactName:   "Alex",
	})
	require.NoError(t, err)
	assert.Equal(t, "Paper Company", updated.Name)
	assert.Equal(t, "Alex", updated.ContactName)
	assert.Equal(t, partner.DefaultPaymentTermsDays, updated.PaymentTermsDays)
}

func TestSupplierResponse_StatusLabel(t *testing.T) {
	s, _ := partner.NewSupplier(uuid.New(), "S1", "Supplier")
	assert.Equal(t, "active", ToSupplierResponse(s).Status)
	require.NoError(t, s.Deactivate())
	assert.Equal(t, "inactive", ToSupplierResponse(s).Status)
}
