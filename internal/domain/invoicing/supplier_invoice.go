package invoicing

import (
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/settings"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierInvoiceStatus is the lifecycle state of a bill received from a supplier
type SupplierInvoiceStatus string

const (
	SupplierInvoicePending   SupplierInvoiceStatus = "pending"
	SupplierInvoiceApproved  SupplierInvoiceStatus = "approved"
	SupplierInvoicePaid      SupplierInvoiceStatus = "paid"
	SupplierInvoiceCancelled SupplierInvoiceStatus = "cancelled"
)

// IsValid reports whether s is a known status
func (s SupplierInvoiceStatus) IsValid() bool {
	switch s {
	case SupplierInvoicePending, SupplierInvoiceApproved, SupplierInvoicePaid, SupplierInvoiceCancelled:
		return true
	}
	return false
}

// SupplierInvoiceItem is a line of a supplier invoice
type SupplierInvoiceItem struct {
	LineItem  `gorm:"embedded"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
}

// TableName returns the table name for GORM
func (SupplierInvoiceItem) TableName() string {
	return "supplier_invoice_items"
}

// SupplierInvoice is the aggregate root for bills received from suppliers.
// InvoiceNumber is the supplier's own reference and is unique per supplier.
type SupplierInvoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber   string                `gorm:"type:varchar(100);not null" json:"invoice_number"`
	SupplierID      uuid.UUID             `gorm:"type:uuid;not null;index" json:"supplier_id"`
	PurchaseOrderID *uuid.UUID            `gorm:"type:uuid;index" json:"purchase_order_id,omitempty"`
	IssueDate       time.Time             `gorm:"type:date;not null" json:"issue_date"`
	DueDate         time.Time             `gorm:"type:date;not null" json:"due_date"`
	Status          SupplierInvoiceStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Currency        string                `gorm:"type:varchar(3);not null" json:"currency"`
	Totals          `gorm:"embedded"`
	AmountPaid      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0" json:"amount_paid"`
	Notes           string                `gorm:"type:text" json:"notes"`
	ApprovedAt      *time.Time            `json:"approved_at,omitempty"`
	PaidAt          *time.Time            `json:"paid_at,omitempty"`
	CancelledAt     *time.Time            `json:"cancelled_at,omitempty"`
	Items           []SupplierInvoiceItem `gorm:"foreignKey:InvoiceID;references:ID" json:"items"`
}

// TableName returns the table name for GORM
func (SupplierInvoice) TableName() string {
	return "supplier_invoices"
}

// SupplierInvoiceHeader is the editable header of a pending supplier invoice
type SupplierInvoiceHeader struct {
	InvoiceNumber   string
	SupplierID      uuid.UUID
	PurchaseOrderID *uuid.UUID
	IssueDate       time.Time
	DueDate         time.Time
	Currency        string
	Notes           string
}

// NewSupplierInvoice creates a pending supplier invoice
func NewSupplierInvoice(tenantID uuid.UUID, header SupplierInvoiceHeader, lines []LineInput) (*SupplierInvoice, error) {
	inv := &SupplierInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              SupplierInvoicePending,
		AmountPaid:          decimal.Zero,
	}
	if err := inv.setHeader(header); err != nil {
		return nil, err
	}
	if err := inv.setLines(lines); err != nil {
		return nil, err
	}
	inv.AddDomainEvent(NewSupplierInvoiceEvent(EventTypeSupplierInvoiceCreated, inv, decimal.Zero))
	return inv, nil
}

// Update replaces header and lines while the invoice is pending
func (inv *SupplierInvoice) Update(header SupplierInvoiceHeader, lines []LineInput) error {
	if inv.Status != SupplierInvoicePending {
		return shared.NewDomainError("INVALID_STATE", "Only pending supplier invoices can be edited")
	}
	if err := inv.setHeader(header); err != nil {
		return err
	}
	if err := inv.setLines(lines); err != nil {
		return err
	}
	inv.changed(EventTypeSupplierInvoiceUpdated, decimal.Zero)
	return nil
}

// Approve accepts the bill for payment. A bill with nothing due is settled
// on approval.
func (inv *SupplierInvoice) Approve(at time.Time) error {
	if inv.Status != SupplierInvoicePending {
		return shared.NewDomainError("INVALID_STATE", "Only pending supplier invoices can be approved")
	}
	inv.Status = SupplierInvoiceApproved
	inv.ApprovedAt = &at
	if !inv.AmountDue().IsPositive() {
		inv.Status = SupplierInvoicePaid
		inv.PaidAt = &at
	}
	inv.changed(EventTypeSupplierInvoiceApproved, inv.Total)
	return nil
}

// RecordPayment applies a payment to an approved bill
func (inv *SupplierInvoice) RecordPayment(amount decimal.Decimal, at time.Time) error {
	if inv.Status != SupplierInvoiceApproved {
		return shared.NewDomainError("INVALID_STATE", "Payments can only be recorded on approved supplier invoices")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be greater than zero")
	}
	if amount.GreaterThan(inv.AmountDue()) {
		return shared.NewDomainError("OVERPAYMENT", "Payment exceeds the amount due")
	}
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	if inv.AmountDue().IsZero() {
		inv.Status = SupplierInvoicePaid
		inv.PaidAt = &at
	}
	inv.changed(EventTypeSupplierInvoicePaymentRecorded, amount)
	return nil
}

// Cancel voids the bill. The event amount is the payable written off.
func (inv *SupplierInvoice) Cancel(at time.Time) error {
	if inv.Status != SupplierInvoicePending && inv.Status != SupplierInvoiceApproved {
		return shared.NewDomainError("INVALID_STATE", "Supplier invoice cannot be cancelled in its current state")
	}
	outstanding := decimal.Zero
	if inv.Status == SupplierInvoiceApproved {
		outstanding = inv.AmountDue()
	}
	inv.Status = SupplierInvoiceCancelled
	inv.CancelledAt = &at
	inv.changed(EventTypeSupplierInvoiceCancelled, outstanding)
	return nil
}

// MarkDeleted records the deletion event. Only pending bills can be deleted.
func (inv *SupplierInvoice) MarkDeleted() error {
	if inv.Status != SupplierInvoicePending {
		return shared.NewDomainError("INVALID_STATE", "Only pending supplier invoices can be deleted")
	}
	inv.AddDomainEvent(NewSupplierInvoiceEvent(EventTypeSupplierInvoiceDeleted, inv, decimal.Zero))
	return nil
}

// AmountDue is the unpaid remainder
func (inv *SupplierInvoice) AmountDue() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid)
}

func (inv *SupplierInvoice) setHeader(h SupplierInvoiceHeader) error {
	number := strings.TrimSpace(h.InvoiceNumber)
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Supplier invoice number cannot be empty")
	}
	if len(number) > 100 {
		return shared.NewDomainError("INVALID_NUMBER", "Supplier invoice number cannot exceed 100 characters")
	}
	if h.SupplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if err := validateDates(h.IssueDate, h.DueDate); err != nil {
		return err
	}
	currency, err := settings.NormalizeCurrency(h.Currency)
	if err != nil {
		return err
	}
	inv.InvoiceNumber = number
	inv.SupplierID = h.SupplierID
	inv.PurchaseOrderID = h.PurchaseOrderID
	inv.IssueDate = h.IssueDate
	inv.DueDate = h.DueDate
	inv.Currency = currency
	inv.Notes = h.Notes
	return nil
}

func (inv *SupplierInvoice) setLines(inputs []LineInput) error {
	lines, err := buildLines(inputs)
	if err != nil {
		return err
	}
	items := make([]SupplierInvoiceItem, len(lines))
	for i, l := range lines {
		items[i] = SupplierInvoiceItem{LineItem: l, InvoiceID: inv.ID}
	}
	inv.Items = items
	inv.Totals = SumLines(lines)
	return nil
}

func (inv *SupplierInvoice) changed(eventType string, amount decimal.Decimal) {
	inv.Touch()
	inv.AddDomainEvent(NewSupplierInvoiceEvent(eventType, inv, amount))
}
