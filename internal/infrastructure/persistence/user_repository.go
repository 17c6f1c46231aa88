package persistence

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/identity"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID across tenants. Token refresh uses it.
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByIDForTenant finds a user by ID within a tenant
func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := dbFrom(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := dbFrom(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindAllForTenant lists users matching the filter
func (r *GormUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	query := applyPaging(r.scoped(ctx, tenantID, filter), filter, UserSortFields, "email")
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountForTenant counts users matching the filter, ignoring paging
func (r *GormUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail reports whether any tenant already has a user with email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(dbFrom(ctx, r.db).Model(&identity.User{}).Where("email = ?", email))
}

// Save creates or updates a user with optimistic locking
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return saveAggregate(dbFrom(ctx, r.db), user, &user.BaseAggregateRoot)
}

// SaveRoles replaces the user's rows in user_roles with user.RoleIDs
func (r *GormUserRepository) SaveRoles(ctx context.Context, user *identity.User) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&identity.UserRole{}).Error; err != nil {
			return err
		}
		if len(user.RoleIDs) == 0 {
			return nil
		}
		now := time.Now()
		links := make([]identity.UserRole, len(user.RoleIDs))
		for i, roleID := range user.RoleIDs {
			links[i] = identity.UserRole{UserID: user.ID, RoleID: roleID, TenantID: user.TenantID, CreatedAt: now}
		}
		return tx.Create(&links).Error
	})
}

// LoadRoleIDs fills user.RoleIDs from user_roles
func (r *GormUserRepository) LoadRoleIDs(ctx context.Context, user *identity.User) error {
	var roleIDs []uuid.UUID
	err := dbFrom(ctx, r.db).Model(&identity.UserRole{}).
		Where("user_id = ? AND tenant_id = ?", user.ID, user.TenantID).
		Order("created_at ASC").
		Pluck("role_id", &roleIDs).Error
	if err != nil {
		return err
	}
	user.RoleIDs = roleIDs
	return nil
}

func (r *GormUserRepository) scoped(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := dbFrom(ctx, r.db).Model(&identity.User{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "email", "full_name")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
