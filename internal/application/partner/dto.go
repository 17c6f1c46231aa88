package partner

import (
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Shared DTOs
// =============================================================================

// ListFilter holds query parameters for customer and supplier lists
type ListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"min=0,max=100000"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by" binding:"max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ContactFields are the editable contact columns of customers and suppliers
type ContactFields struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	TaxID   string `json:"tax_id" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	City    string `json:"city" binding:"max=100"`
	Country string `json:"country" binding:"omitempty,len=2"`
	Notes   string `json:"notes" binding:"max=2000"`
}

func (f ContactFields) details() partner.PartyDetails {
	return partner.PartyDetails{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Phone,
		TaxID:   f.TaxID,
		Address: f.Address,
		City:    f.City,
		Country: f.Country,
		Notes:   f.Notes,
	}
}

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	ContactFields
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	CreatedBy   uuid.UUID        `json:"-"` // Set from JWT context, not from request body
}

// UpdateCustomerRequest replaces the editable fields of a customer
type UpdateCustomerRequest struct {
	ContactFields
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	TaxID       string          `json:"tax_id"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Country     string          `json:"country"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"is_active"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		Code:        c.Code,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		TaxID:       c.TaxID,
		Address:     c.Address,
		City:        c.City,
		Country:     c.Country,
		CreditLimit: c.CreditLimit,
		Balance:     c.Balance,
		IsActive:    c.IsActive,
		Status:      c.Status(),
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// CreateSupplierRequest represents a request to create a new supplier
type CreateSupplierRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	ContactFields
	ContactName      string    `json:"contact_name" binding:"max=100"`
	PaymentTermsDays *int      `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	CreatedBy        uuid.UUID `json:"-"`
}

// UpdateSupplierRequest replaces the editable fields of a supplier
type UpdateSupplierRequest struct {
	ContactFields
	ContactName      string `json:"contact_name" binding:"max=100"`
	PaymentTermsDays *int   `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
}

// SupplierResponse is the supplier view model. Status is derived from IsActive.
type SupplierResponse struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"tenant_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	ContactName      string          `json:"contact_name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	TaxID            string          `json:"tax_id"`
	Address          string          `json:"address"`
	City             string          `json:"city"`
	Country          string          `json:"country"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	Balance          decimal.Decimal `json:"balance"`
	IsActive         bool            `json:"is_active"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:               s.ID,
		TenantID:         s.TenantID,
		Code:             s.Code,
		Name:             s.Name,
		ContactName:      s.ContactName,
		Email:            s.Email,
		Phone:            s.Phone,
		TaxID:            s.TaxID,
		Address:          s.Address,
		City:             s.City,
		Country:          s.Country,
		PaymentTermsDays: s.PaymentTermsDays,
		Balance:          s.Balance,
		IsActive:         s.IsActive,
		Status:           s.Status(),
		Notes:            s.Notes,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
	}
}

// ToSupplierResponses converts a slice of suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out
}
