package realtime

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/ledger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/google/uuid"
)

// ChangeType is the kind of row change
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Watched tables
const (
	TableCustomers        = "customers"
	TableSuppliers        = "suppliers"
	TableSalesInvoices    = "sales_invoices"
	TableSupplierInvoices = "supplier_invoices"
	TablePurchaseOrders   = "purchase_orders"
	TableJournalEntries   = "journal_entries"
	TableLedgerAccounts   = "ledger_accounts"
)

var tablesByAggregate = map[string]string{
	partner.AggregateTypeCustomer:          TableCustomers,
	partner.AggregateTypeSupplier:          TableSuppliers,
	invoicing.AggregateTypeSalesInvoice:    TableSalesInvoices,
	invoicing.AggregateTypeSupplierInvoice: TableSupplierInvoices,
	invoicing.AggregateTypePurchaseOrder:   TablePurchaseOrders,
	ledger.AggregateTypeJournalEntry:       TableJournalEntries,
	ledger.AggregateTypeAccount:            TableLedgerAccounts,
}

// Tables returns every table the change feed publishes
func Tables() []string {
	return []string{
		TableCustomers, TableSuppliers, TableSalesInvoices, TableSupplierInvoices,
		TablePurchaseOrders, TableJournalEntries, TableLedgerAccounts,
	}
}

// IsTable reports whether name is a watched table
func IsTable(name string) bool {
	for _, t := range tablesByAggregate {
		if t == name {
			return true
		}
	}
	return false
}

// ChangeEvent describes one inserted, updated or deleted row. Clients patch
// their local lists by RecordID, so applying an event twice is harmless.
type ChangeEvent struct {
	ID              uuid.UUID       `json:"id"`
	Table           string          `json:"table"`
	Type            ChangeType      `json:"type"`
	RecordID        uuid.UUID       `json:"record_id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	Record          json.RawMessage `json:"record,omitempty"`
	CommitTimestamp time.Time       `json:"commit_timestamp"`
	// Origin is the instance that produced the event
	Origin string `json:"origin,omitempty"`
}

// changeTypeOf derives the row change from a domain event type name
func changeTypeOf(eventType string) ChangeType {
	switch {
	case strings.HasSuffix(eventType, "Created"):
		return ChangeInsert
	case strings.HasSuffix(eventType, "Deleted"):
		return ChangeDelete
	default:
		return ChangeUpdate
	}
}
