package partner

import (
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
)

// Aggregate types
const (
	AggregateTypeCustomer = "Customer"
	AggregateTypeSupplier = "Supplier"
)

// Event types
const (
	EventTypeCustomerCreated = "CustomerCreated"
	EventTypeCustomerUpdated = "CustomerUpdated"
	EventTypeCustomerDeleted = "CustomerDeleted"
	EventTypeSupplierCreated = "SupplierCreated"
	EventTypeSupplierUpdated = "SupplierUpdated"
	EventTypeSupplierDeleted = "SupplierDeleted"
)

// CustomerEvent carries a copy of the customer after the change
type CustomerEvent struct {
	shared.BaseDomainEvent
	Customer Customer `json:"customer"`
}

// NewCustomerEvent snapshots c under the given event type
func NewCustomerEvent(eventType string, c *Customer) *CustomerEvent {
	snapshot := *c
	snapshot.ClearDomainEvents()
	return &CustomerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCustomer, c.ID, c.TenantID),
		Customer:        snapshot,
	}
}

// Snapshot implements shared.SnapshotEvent
func (e *CustomerEvent) Snapshot() any {
	return e.Customer
}

// SupplierEvent carries a copy of the supplier after the change
type SupplierEvent struct {
	shared.BaseDomainEvent
	Supplier Supplier `json:"supplier"`
}

// NewSupplierEvent snapshots s under the given event type
func NewSupplierEvent(eventType string, s *Supplier) *SupplierEvent {
	snapshot := *s
	snapshot.ClearDomainEvents()
	return &SupplierEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSupplier, s.ID, s.TenantID),
		Supplier:        snapshot,
	}
}

// Snapshot implements shared.SnapshotEvent
func (e *SupplierEvent) Snapshot() any {
	return e.Supplier
}
