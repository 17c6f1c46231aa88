package persistence

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds an organisation by ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var tenant identity.Tenant
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&tenant).Error; err != nil {
		return nil, translateError(err)
	}
	return &tenant, nil
}

// Save creates or updates an organisation with optimistic locking
func (r *GormTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return saveAggregate(dbFrom(ctx, r.db), tenant, &tenant.BaseAggregateRoot)
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)
