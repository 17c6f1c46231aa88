package identity

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantRepository persists organisations
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// UserRepository persists users and their role assignments
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
	// SaveRoles replaces the user's rows in user_roles with user.RoleIDs
	SaveRoles(ctx context.Context, user *User) error
	LoadRoleIDs(ctx context.Context, user *User) error
}

// RoleRepository persists roles
type RoleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Role, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Role, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Role, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	IsAssigned(ctx context.Context, tenantID, roleID uuid.UUID) (bool, error)
	Save(ctx context.Context, role *Role) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
