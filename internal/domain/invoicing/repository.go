package invoicing

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesInvoiceRepository defines persistence for sales invoices.
// Save writes the header and its items in one transaction.
type SalesInvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesInvoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesInvoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindOverdueCandidates returns sent invoices due before the given date, across tenants
	FindOverdueCandidates(ctx context.Context, before time.Time, limit int) ([]SalesInvoice, error)
	// FindRecent returns the latest invoices by issue date
	FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]SalesInvoice, error)
	Save(ctx context.Context, invoice *SalesInvoice) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SupplierInvoiceRepository defines persistence for supplier invoices
type SupplierInvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SupplierInvoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SupplierInvoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNumber(ctx context.Context, tenantID, supplierID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, invoice *SupplierInvoice) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PurchaseOrderRepository defines persistence for purchase orders
type PurchaseOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PeriodSummary aggregates invoice amounts over a date range
type PeriodSummary struct {
	Revenue      decimal.Decimal
	Expenses     decimal.Decimal
	Receivables  decimal.Decimal
	InvoiceCount int64
}

// SummaryReader computes dashboard aggregates
type SummaryReader interface {
	// Summarize returns revenue from paid sales invoices and expenses from
	// paid supplier invoices whose paid_at falls in [from, to), the number of
	// sales invoices issued in the range, and receivables outstanding at to.
	Summarize(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (PeriodSummary, error)
}
