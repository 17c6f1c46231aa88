package partner

import (
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is the aggregate root for the people and companies the tenant invoices
type Customer struct {
	shared.TenantAggregateRoot
	Party       `gorm:"embedded"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"credit_limit"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"balance"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates an active customer
func NewCustomer(tenantID uuid.UUID, code, name string) (*Customer, error) {
	party, err := newParty(code, name)
	if err != nil {
		return nil, err
	}
	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Party:               party,
		CreditLimit:         decimal.Zero,
		Balance:             decimal.Zero,
	}
	c.AddDomainEvent(NewCustomerEvent(EventTypeCustomerCreated, c))
	return c, nil
}

// Status returns the derived status label
func (c *Customer) Status() string {
	return StatusLabel(c.IsActive)
}

// UpdateDetails replaces the contact details
func (c *Customer) UpdateDetails(d PartyDetails, phones PhoneNormalizer) error {
	if err := c.Party.apply(d, phones); err != nil {
		return err
	}
	c.changed()
	return nil
}

// SetCreditLimit sets the maximum outstanding receivable
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	c.CreditLimit = limit
	c.changed()
	return nil
}

// AdjustBalance adds delta to the receivable balance. Invoices increase it,
// payments decrease it.
func (c *Customer) AdjustBalance(delta decimal.Decimal) {
	c.Balance = c.Balance.Add(delta)
	c.changed()
}

// Activate marks the customer active
func (c *Customer) Activate() error {
	if c.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}
	c.IsActive = true
	c.changed()
	return nil
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}
	c.IsActive = false
	c.changed()
	return nil
}

// MarkDeleted records the deletion event. The repository removes the row.
func (c *Customer) MarkDeleted() {
	c.AddDomainEvent(NewCustomerEvent(EventTypeCustomerDeleted, c))
}

func (c *Customer) changed() {
	c.Touch()
	c.AddDomainEvent(NewCustomerEvent(EventTypeCustomerUpdated, c))
}
