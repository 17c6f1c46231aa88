package invoicing

import (
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypeSalesInvoice    = "SalesInvoice"
	AggregateTypeSupplierInvoice = "SupplierInvoice"
	AggregateTypePurchaseOrder   = "PurchaseOrder"
)

// Event types
const (
	EventTypeSalesInvoiceCreated         = "SalesInvoiceCreated"
	EventTypeSalesInvoiceUpdated         = "SalesInvoiceUpdated"
	EventTypeSalesInvoiceSent            = "SalesInvoiceSent"
	EventTypeSalesInvoicePaymentRecorded = "SalesInvoicePaymentRecorded"
	EventTypeSalesInvoiceCancelled       = "SalesInvoiceCancelled"
	EventTypeSalesInvoiceDeleted         = "SalesInvoiceDeleted"

	EventTypeSupplierInvoiceCreated         = "SupplierInvoiceCreated"
	EventTypeSupplierInvoiceUpdated         = "SupplierInvoiceUpdated"
	EventTypeSupplierInvoiceApproved        = "SupplierInvoiceApproved"
	EventTypeSupplierInvoicePaymentRecorded = "SupplierInvoicePaymentRecorded"
	EventTypeSupplierInvoiceCancelled       = "SupplierInvoiceCancelled"
	EventTypeSupplierInvoiceDeleted         = "SupplierInvoiceDeleted"

	EventTypePurchaseOrderCreated = "PurchaseOrderCreated"
	EventTypePurchaseOrderUpdated = "PurchaseOrderUpdated"
	EventTypePurchaseOrderDeleted = "PurchaseOrderDeleted"
)

// SalesInvoiceEvent snapshots a sales invoice. Amount is the balance effect
// of the event: the invoice total on send, the payment on payment, and the
// written-off remainder on cancel.
type SalesInvoiceEvent struct {
	shared.BaseDomainEvent
	Invoice SalesInvoice    `json:"invoice"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewSalesInvoiceEvent creates a sales invoice event
func NewSalesInvoiceEvent(eventType string, inv *SalesInvoice, amount decimal.Decimal) *SalesInvoiceEvent {
	snapshot := *inv
	snapshot.ClearDomainEvents()
	return &SalesInvoiceEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSalesInvoice, inv.ID, inv.TenantID),
		Invoice:         snapshot,
		Amount:          amount,
	}
}

// Snapshot implements shared.SnapshotEvent
func (e *SalesInvoiceEvent) Snapshot() any {
	return e.Invoice
}

// SupplierInvoiceEvent snapshots a supplier invoice. Amount follows the same
// rules as SalesInvoiceEvent with approval in place of send.
type SupplierInvoiceEvent struct {
	shared.BaseDomainEvent
	Invoice SupplierInvoice `json:"invoice"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewSupplierInvoiceEvent creates a supplier invoice event
func NewSupplierInvoiceEvent(eventType string, inv *SupplierInvoice, amount decimal.Decimal) *SupplierInvoiceEvent {
	snapshot := *inv
	snapshot.ClearDomainEvents()
	return &SupplierInvoiceEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSupplierInvoice, inv.ID, inv.TenantID),
		Invoice:         snapshot,
		Amount:          amount,
	}
}

// Snapshot implements shared.SnapshotEvent
func (e *SupplierInvoiceEvent) Snapshot() any {
	return e.Invoice
}

// PurchaseOrderEvent snapshots a purchase order
type PurchaseOrderEvent struct {
	shared.BaseDomainEvent
	Order PurchaseOrder `json:"order"`
}

// NewPurchaseOrderEvent creates a purchase order event
func NewPurchaseOrderEvent(eventType string, po *PurchaseOrder) *PurchaseOrderEvent {
	snapshot := *po
	snapshot.ClearDomainEvents()
	return &PurchaseOrderEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		Order:           snapshot,
	}
}

// Snapshot implements shared.SnapshotEvent
func (e *PurchaseOrderEvent) Snapshot() any {
	return e.Order
}
