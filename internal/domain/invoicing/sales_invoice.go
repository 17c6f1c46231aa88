package invoicing

import (
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/settings"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesInvoiceStatus is the lifecycle state of a sales invoice
type SalesInvoiceStatus string

const (
	SalesInvoiceDraft     SalesInvoiceStatus = "draft"
	SalesInvoiceSent      SalesInvoiceStatus = "sent"
	SalesInvoicePaid      SalesInvoiceStatus = "paid"
	SalesInvoiceOverdue   SalesInvoiceStatus = "overdue"
	SalesInvoiceCancelled SalesInvoiceStatus = "cancelled"
)

// IsValid reports whether s is a known status
func (s SalesInvoiceStatus) IsValid() bool {
	switch s {
	case SalesInvoiceDraft, SalesInvoiceSent, SalesInvoicePaid, SalesInvoiceOverdue, SalesInvoiceCancelled:
		return true
	}
	return false
}

// SalesInvoiceItem is a line of a sales invoice
type SalesInvoiceItem struct {
	LineItem  `gorm:"embedded"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
}

// TableName returns the table name for GORM
func (SalesInvoiceItem) TableName() string {
	return "sales_invoice_items"
}

// SalesInvoice is the aggregate root for invoices issued to customers
type SalesInvoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string             `gorm:"type:varchar(50);not null" json:"invoice_number"`
	CustomerID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	IssueDate     time.Time          `gorm:"type:date;not null" json:"issue_date"`
	DueDate       time.Time          `gorm:"type:date;not null" json:"due_date"`
	Status        SalesInvoiceStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Currency      string             `gorm:"type:varchar(3);not null" json:"currency"`
	Totals        `gorm:"embedded"`
	AmountPaid    decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0" json:"amount_paid"`
	Notes         string             `gorm:"type:text" json:"notes"`
	SentAt        *time.Time         `json:"sent_at,omitempty"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	CancelledAt   *time.Time         `json:"cancelled_at,omitempty"`
	Items         []SalesInvoiceItem `gorm:"foreignKey:InvoiceID;references:ID" json:"items"`
}

// TableName returns the table name for GORM
func (SalesInvoice) TableName() string {
	return "sales_invoices"
}

// SalesInvoiceHeader is the editable header of a draft invoice
type SalesInvoiceHeader struct {
	CustomerID uuid.UUID
	IssueDate  time.Time
	DueDate    time.Time
	Currency   string
	Notes      string
}

// NewSalesInvoice creates a draft invoice with priced lines
func NewSalesInvoice(tenantID uuid.UUID, number string, header SalesInvoiceHeader, lines []LineInput) (*SalesInvoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	inv := &SalesInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       number,
		Status:              SalesInvoiceDraft,
		AmountPaid:          decimal.Zero,
	}
	if err := inv.setHeader(header); err != nil {
		return nil, err
	}
	if err := inv.setLines(lines); err != nil {
		return nil, err
	}
	inv.AddDomainEvent(NewSalesInvoiceEvent(EventTypeSalesInvoiceCreated, inv, decimal.Zero))
	return inv, nil
}

// Update replaces header and lines. Only drafts are editable.
func (inv *SalesInvoice) Update(header SalesInvoiceHeader, lines []LineInput) error {
	if inv.Status != SalesInvoiceDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if err := inv.setHeader(header); err != nil {
		return err
	}
	if err := inv.setLines(lines); err != nil {
		return err
	}
	inv.changed(EventTypeSalesInvoiceUpdated, decimal.Zero)
	return nil
}

// Send issues the invoice to the customer. An invoice with nothing due is
// settled on sending.
func (inv *SalesInvoice) Send(at time.Time) error {
	if inv.Status != SalesInvoiceDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be sent")
	}
	inv.Status = SalesInvoiceSent
	inv.SentAt = &at
	if !inv.AmountDue().IsPositive() {
		inv.Status = SalesInvoicePaid
		inv.PaidAt = &at
	}
	inv.changed(EventTypeSalesInvoiceSent, inv.Total)
	return nil
}

// RecordPayment applies a payment. The invoice becomes paid once the total
// is covered; over-payment is rejected.
func (inv *SalesInvoice) RecordPayment(amount decimal.Decimal, at time.Time) error {
	if inv.Status != SalesInvoiceSent && inv.Status != SalesInvoiceOverdue {
		return shared.NewDomainError("INVALID_STATE", "Payments can only be recorded on sent or overdue invoices")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be greater than zero")
	}
	if amount.GreaterThan(inv.AmountDue()) {
		return shared.NewDomainError("OVERPAYMENT", "Payment exceeds the amount due")
	}
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	if inv.AmountDue().IsZero() {
		inv.Status = SalesInvoicePaid
		inv.PaidAt = &at
	}
	inv.changed(EventTypeSalesInvoicePaymentRecorded, amount)
	return nil
}

// MarkOverdue moves a sent invoice past its due date to overdue.
// It reports whether the status changed.
func (inv *SalesInvoice) MarkOverdue(now time.Time) bool {
	if inv.Status != SalesInvoiceSent || !inv.IsPastDue(now) {
		return false
	}
	inv.Status = SalesInvoiceOverdue
	inv.changed(EventTypeSalesInvoiceUpdated, decimal.Zero)
	return true
}

// IsPastDue reports whether now is after the end of the due date
func (inv *SalesInvoice) IsPastDue(now time.Time) bool {
	due := time.Date(inv.DueDate.Year(), inv.DueDate.Month(), inv.DueDate.Day(), 0, 0, 0, 0, now.Location())
	return now.After(due.AddDate(0, 0, 1))
}

// Cancel voids the invoice. The event amount is the receivable written off.
func (inv *SalesInvoice) Cancel(at time.Time) error {
	switch inv.Status {
	case SalesInvoiceDraft, SalesInvoiceSent, SalesInvoiceOverdue:
	default:
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be cancelled in its current state")
	}
	outstanding := decimal.Zero
	if inv.Status != SalesInvoiceDraft {
		outstanding = inv.AmountDue()
	}
	inv.Status = SalesInvoiceCancelled
	inv.CancelledAt = &at
	inv.changed(EventTypeSalesInvoiceCancelled, outstanding)
	return nil
}

// CanDelete reports whether the invoice may be removed. Only drafts qualify.
func (inv *SalesInvoice) CanDelete() bool {
	return inv.Status == SalesInvoiceDraft
}

// MarkDeleted records the deletion event
func (inv *SalesInvoice) MarkDeleted() error {
	if !inv.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}
	inv.AddDomainEvent(NewSalesInvoiceEvent(EventTypeSalesInvoiceDeleted, inv, decimal.Zero))
	return nil
}

// AmountDue is the unpaid remainder
func (inv *SalesInvoice) AmountDue() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid)
}

// ItemCount returns the number of lines
func (inv *SalesInvoice) ItemCount() int {
	return len(inv.Items)
}

func (inv *SalesInvoice) setHeader(h SalesInvoiceHeader) error {
	if h.CustomerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if err := validateDates(h.IssueDate, h.DueDate); err != nil {
		return err
	}
	currency, err := settings.NormalizeCurrency(h.Currency)
	if err != nil {
		return err
	}
	inv.CustomerID = h.CustomerID
	inv.IssueDate = h.IssueDate
	inv.DueDate = h.DueDate
	inv.Currency = currency
	inv.Notes = h.Notes
	return nil
}

func (inv *SalesInvoice) setLines(inputs []LineInput) error {
	lines, err := buildLines(inputs)
	if err != nil {
		return err
	}
	items := make([]SalesInvoiceItem, len(lines))
	for i, l := range lines {
		items[i] = SalesInvoiceItem{LineItem: l, InvoiceID: inv.ID}
	}
	inv.Items = items
	inv.Totals = SumLines(lines)
	return nil
}

func (inv *SalesInvoice) changed(eventType string, amount decimal.Decimal) {
	inv.Touch()
	inv.AddDomainEvent(NewSalesInvoiceEvent(eventType, inv, amount))
}

func validateDates(issue, due time.Time) error {
	if issue.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Issue date is required")
	}
	if due.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Due date is required")
	}
	if due.Before(issue) {
		return shared.NewDomainError("INVALID_DATE", "Due date cannot be before the issue date")
	}
	return nil
}
