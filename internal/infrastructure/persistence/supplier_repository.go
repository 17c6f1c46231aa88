package persistence

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := dbFrom(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&supplier).Error; err != nil {
		return nil, translateError(err)
	}
	return &supplier, nil
}

// FindAllForTenant lists suppliers matching the filter
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	var suppliers []partner.Supplier
	query := applyPaging(r.scoped(ctx, tenantID, filter), filter, SupplierSortFields, "name")
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// CountForTenant counts suppliers matching the filter, ignoring paging
func (r *GormSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode reports whether a supplier code is taken within a tenant
func (r *GormSupplierRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(dbFrom(ctx, r.db).Model(&partner.Supplier{}).Where("tenant_id = ? AND code = ?", tenantID, code))
}

// Save creates or updates a supplier with optimistic locking
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return saveAggregate(dbFrom(ctx, r.db), supplier, &supplier.BaseAggregateRoot)
}

// DeleteForTenant deletes a supplier within a tenant
func (r *GormSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(dbFrom(ctx, r.db), &partner.Supplier{}, tenantID, id)
}

func (r *GormSupplierRepository) scoped(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := dbFrom(ctx, r.db).Model(&partner.Supplier{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "name", "code", "email", "phone", "contact_name")

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "country":
			query = query.Where("country = ?", value)
		}
	}
	return query
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
