package partner

import (
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is the aggregate root for vendors the tenant buys from
type Supplier struct {
	shared.TenantAggregateRoot
	Party            `gorm:"embedded"`
	ContactName      string          `gorm:"type:varchar(100)" json:"contact_name"`
	PaymentTermsDays int             `gorm:"not null;default:30" json:"payment_terms_days"`
	Balance          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"balance"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// DefaultPaymentTermsDays applies when a supplier is created without terms
const DefaultPaymentTermsDays = 30

// NewSupplier creates an active supplier
func NewSupplier(tenantID uuid.UUID, code, name string) (*Supplier, error) {
	party, err := newParty(code, name)
	if err != nil {
		return nil, err
	}
	s := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Party:               party,
		PaymentTermsDays:    DefaultPaymentTermsDays,
		Balance:             decimal.Zero,
	}
	s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierCreated, s))
	return s, nil
}

// Status returns the derived status label ("active" or "inactive")
func (s *Supplier) Status() string {
	return StatusLabel(s.IsActive)
}

// UpdateDetails replaces the contact details
func (s *Supplier) UpdateDetails(d PartyDetails, contactName string, phones PhoneNormalizer) error {
	if len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT", "Contact name cannot exceed 100 characters")
	}
	if err := s.Party.apply(d, phones); err != nil {
		return err
	}
	s.ContactName = contactName
	s.changed()
	return nil
}

// SetPaymentTerms sets the number of days until supplier invoices fall due
func (s *Supplier) SetPaymentTerms(days int) error {
	if days < 0 || days > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be between 0 and 365 days")
	}
	s.PaymentTermsDays = days
	s.changed()
	return nil
}

// AdjustBalance adds delta to the payable balance
func (s *Supplier) AdjustBalance(delta decimal.Decimal) {
	s.Balance = s.Balance.Add(delta)
	s.changed()
}

// Activate marks the supplier active
func (s *Supplier) Activate() error {
	if s.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}
	s.IsActive = true
	s.changed()
	return nil
}

// Deactivate marks the supplier inactive
func (s *Supplier) Deactivate() error {
	if !s.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Supplier is already inactive")
	}
	s.IsActive = false
	s.changed()
	return nil
}

// MarkDeleted records the deletion event
func (s *Supplier) MarkDeleted() {
	s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierDeleted, s))
}

func (s *Supplier) changed() {
	s.Touch()
	s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierUpdated, s))
}
