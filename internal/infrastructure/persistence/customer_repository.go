package persistence

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := dbFrom(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&customer).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// FindAllForTenant lists customers matching the filter
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var customers []partner.Customer
	query := r.scoped(ctx, tenantID, filter)
	query = applyPaging(query, filter, CustomerSortFields, "name")
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// CountForTenant counts customers matching the filter, ignoring paging
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode reports whether a customer code is taken within a tenant
func (r *GormCustomerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(dbFrom(ctx, r.db).Model(&partner.Customer{}).Where("tenant_id = ? AND code = ?", tenantID, code))
}

// Save creates or updates a customer with optimistic locking
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return saveAggregate(dbFrom(ctx, r.db), customer, &customer.BaseAggregateRoot)
}

// DeleteForTenant deletes a customer within a tenant
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(dbFrom(ctx, r.db), &partner.Customer{}, tenantID, id)
}

func (r *GormCustomerRepository) scoped(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := dbFrom(ctx, r.db).Model(&partner.Customer{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "name", "code", "email", "phone")

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "country":
			query = query.Where("country = ?", value)
		case "created_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "created_to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at < ?", t)
			}
		}
	}
	return query
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
