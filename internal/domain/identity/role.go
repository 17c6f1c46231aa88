package identity

import (
	"slices"
	"strings"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// AdminRoleCode is the code of the system role created with every tenant
const AdminRoleCode = "ADMIN"

// Role groups permission codes that can be assigned to users
type Role struct {
	shared.TenantAggregateRoot
	Code        string   `gorm:"type:varchar(50);not null" json:"code"`
	Name        string   `gorm:"type:varchar(100);not null" json:"name"`
	Description string   `gorm:"type:varchar(500)" json:"description"`
	Permissions []string `gorm:"serializer:json;type:jsonb;not null" json:"permissions"`
	IsSystem    bool     `gorm:"not null;default:false" json:"is_system"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// NewRole creates a role with the given permissions
func NewRole(tenantID uuid.UUID, code, name, description string, permissions []string) (*Role, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Role code must be 1 to 50 characters")
	}
	r := &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
	}
	if err := r.apply(name, description, permissions); err != nil {
		return nil, err
	}
	r.AddDomainEvent(NewRoleEvent(EventTypeRoleCreated, r))
	return r, nil
}

// NewAdminRole creates the system role holding every permission
func NewAdminRole(tenantID uuid.UUID) *Role {
	r := &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                AdminRoleCode,
		Name:                "Administrator",
		Description:         "Full access to the organisation",
		Permissions:         AllPermissions(),
		IsSystem:            true,
	}
	r.AddDomainEvent(NewRoleEvent(EventTypeRoleCreated, r))
	return r
}

// Update changes name, description and permissions. System roles are fixed.
func (r *Role) Update(name, description string, permissions []string) error {
	if r.IsSystem {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be modified")
	}
	if err := r.apply(name, description, permissions); err != nil {
		return err
	}
	r.Touch()
	r.AddDomainEvent(NewRoleEvent(EventTypeRoleUpdated, r))
	return nil
}

// HasPermission reports whether the role grants code
func (r *Role) HasPermission(code string) bool {
	return slices.Contains(r.Permissions, code)
}

// MarkDeleted queues the deletion event. System roles cannot be deleted.
func (r *Role) MarkDeleted() error {
	if r.IsSystem {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}
	r.AddDomainEvent(NewRoleEvent(EventTypeRoleDeleted, r))
	return nil
}

func (r *Role) apply(name, description string, permissions []string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Role name must be 1 to 100 characters")
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	perms, err := NormalizePermissions(permissions)
	if err != nil {
		return err
	}
	r.Name = name
	r.Description = description
	r.Permissions = perms
	return nil
}
