package identity

import (
	"strings"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
)

// Tenant is the organisation that owns a set of books. Every other
// aggregate is scoped to one tenant.
type Tenant struct {
	shared.BaseAggregateRoot
	Name     string `gorm:"type:varchar(200);not null" json:"name"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates an active organisation
func NewTenant(name string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Organisation name must be 1 to 200 characters")
	}
	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		IsActive:          true,
	}, nil
}
