package invoicing

import (
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/settings"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderSubmitted PurchaseOrderStatus = "submitted"
	PurchaseOrderReceived  PurchaseOrderStatus = "received"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
)

// IsValid reports whether s is a known status
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderDraft, PurchaseOrderSubmitted, PurchaseOrderReceived, PurchaseOrderCancelled:
		return true
	}
	return false
}

// PurchaseOrderItem is a line of a purchase order
type PurchaseOrderItem struct {
	LineItem `gorm:"embedded"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// PurchaseOrder is the aggregate root for orders placed with suppliers
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber  string              `gorm:"type:varchar(50);not null" json:"order_number"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id"`
	OrderDate    time.Time           `gorm:"type:date;not null" json:"order_date"`
	ExpectedDate *time.Time          `gorm:"type:date" json:"expected_date,omitempty"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Currency     string              `gorm:"type:varchar(3);not null" json:"currency"`
	Totals       `gorm:"embedded"`
	Notes        string              `gorm:"type:text" json:"notes"`
	SubmittedAt  *time.Time          `json:"submitted_at,omitempty"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	Items        []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID" json:"items"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderHeader is the editable header of a draft order
type PurchaseOrderHeader struct {
	SupplierID   uuid.UUID
	OrderDate    time.Time
	ExpectedDate *time.Time
	Currency     string
	Notes        string
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(tenantID uuid.UUID, number string, header PurchaseOrderHeader, lines []LineInput) (*PurchaseOrder, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	po := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         number,
		Status:              PurchaseOrderDraft,
	}
	if err := po.setHeader(header); err != nil {
		return nil, err
	}
	if err := po.setLines(lines); err != nil {
		return nil, err
	}
	po.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderCreated, po))
	return po, nil
}

// Update replaces header and lines of a draft order
func (po *PurchaseOrder) Update(header PurchaseOrderHeader, lines []LineInput) error {
	if po.Status != PurchaseOrderDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft purchase orders can be edited")
	}
	if err := po.setHeader(header); err != nil {
		return err
	}
	if err := po.setLines(lines); err != nil {
		return err
	}
	po.changed()
	return nil
}

// Submit sends the order to the supplier
func (po *PurchaseOrder) Submit(at time.Time) error {
	if po.Status != PurchaseOrderDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft purchase orders can be submitted")
	}
	po.Status = PurchaseOrderSubmitted
	po.SubmittedAt = &at
	po.changed()
	return nil
}

// Receive marks the goods as received
func (po *PurchaseOrder) Receive(at time.Time) error {
	if po.Status != PurchaseOrderSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only submitted purchase orders can be received")
	}
	po.Status = PurchaseOrderReceived
	po.ReceivedAt = &at
	po.changed()
	return nil
}

// Cancel voids a draft or submitted order
func (po *PurchaseOrder) Cancel(at time.Time) error {
	if po.Status != PurchaseOrderDraft && po.Status != PurchaseOrderSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Purchase order cannot be cancelled in its current state")
	}
	po.Status = PurchaseOrderCancelled
	po.CancelledAt = &at
	po.changed()
	return nil
}

// MarkDeleted records the deletion event. Only drafts can be deleted.
func (po *PurchaseOrder) MarkDeleted() error {
	if po.Status != PurchaseOrderDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft purchase orders can be deleted")
	}
	po.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderDeleted, po))
	return nil
}

func (po *PurchaseOrder) setHeader(h PurchaseOrderHeader) error {
	if h.SupplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if h.OrderDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Order date is required")
	}
	if h.ExpectedDate != nil && h.ExpectedDate.Before(h.OrderDate) {
		return shared.NewDomainError("INVALID_DATE", "Expected date cannot be before the order date")
	}
	currency, err := settings.NormalizeCurrency(h.Currency)
	if err != nil {
		return err
	}
	po.SupplierID = h.SupplierID
	po.OrderDate = h.OrderDate
	po.ExpectedDate = h.ExpectedDate
	po.Currency = currency
	po.Notes = h.Notes
	return nil
}

func (po *PurchaseOrder) setLines(inputs []LineInput) error {
	lines, err := buildLines(inputs)
	if err != nil {
		return err
	}
	items := make([]PurchaseOrderItem, len(lines))
	for i, l := range lines {
		items[i] = PurchaseOrderItem{LineItem: l, OrderID: po.ID}
	}
	po.Items = items
	po.Totals = SumLines(lines)
	return nil
}

func (po *PurchaseOrder) changed() {
	po.Touch()
	po.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderUpdated, po))
}
