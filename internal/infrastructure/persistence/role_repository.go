package persistence

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByIDForTenant finds a role by ID within a tenant
func (r *GormRoleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Role, error) {
	var role identity.Role
	if err := dbFrom(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&role).Error; err != nil {
		return nil, translateError(err)
	}
	return &role, nil
}

// FindByIDs loads the given roles. Unknown IDs are skipped.
func (r *GormRoleRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*identity.Role, error) {
	if len(ids) == 0 {
		return []*identity.Role{}, nil
	}
	var roles []*identity.Role
	err := dbFrom(ctx, r.db).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("code ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// FindAllForTenant lists every role of a tenant, system roles first
func (r *GormRoleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]identity.Role, error) {
	var roles []identity.Role
	err := dbFrom(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("is_system DESC").Order("code ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// ExistsByCode reports whether a role code is taken within a tenant
func (r *GormRoleRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(dbFrom(ctx, r.db).Model(&identity.Role{}).Where("tenant_id = ? AND code = ?", tenantID, code))
}

// IsAssigned reports whether any user holds the role
func (r *GormRoleRepository) IsAssigned(ctx context.Context, tenantID, roleID uuid.UUID) (bool, error) {
	return exists(dbFrom(ctx, r.db).Model(&identity.UserRole{}).Where("tenant_id = ? AND role_id = ?", tenantID, roleID))
}

// Save creates or updates a role with optimistic locking
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return saveAggregate(dbFrom(ctx, r.db), role, &role.BaseAggregateRoot)
}

// DeleteForTenant deletes a role within a tenant
func (r *GormRoleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(dbFrom(ctx, r.db), &identity.Role{}, tenantID, id)
}

var _ identity.RoleRepository = (*GormRoleRepository)(nil)
