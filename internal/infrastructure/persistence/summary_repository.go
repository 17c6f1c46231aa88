package persistence

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSummaryReader computes dashboard aggregates with SQL sums
type GormSummaryReader struct {
	db *gorm.DB
}

// NewGormSummaryReader creates a new GormSummaryReader
func NewGormSummaryReader(db *gorm.DB) *GormSummaryReader {
	return &GormSummaryReader{db: db}
}

// Summarize returns revenue and expenses paid in [from, to), sales invoices
// issued in the range that were not cancelled, and the amount still owed on
// sent or overdue invoices issued before to.
func (r *GormSummaryReader) Summarize(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (invoicing.PeriodSummary, error) {
	db := dbFrom(ctx, r.db)
	var summary invoicing.PeriodSummary
	var err error

	summary.Revenue, err = sumColumn(db.Model(&invoicing.SalesInvoice{}).
		Where("tenant_id = ? AND status = ? AND paid_at >= ? AND paid_at < ?",
			tenantID, invoicing.SalesInvoicePaid, from, to), "total")
	if err != nil {
		return summary, err
	}

	summary.Expenses, err = sumColumn(db.Model(&invoicing.SupplierInvoice{}).
		Where("tenant_id = ? AND status = ? AND paid_at >= ? AND paid_at < ?",
			tenantID, invoicing.SupplierInvoicePaid, from, to), "total")
	if err != nil {
		return summary, err
	}

	summary.Receivables, err = sumColumn(db.Model(&invoicing.SalesInvoice{}).
		Where("tenant_id = ? AND status IN ? AND issue_date < ?",
			tenantID, []invoicing.SalesInvoiceStatus{invoicing.SalesInvoiceSent, invoicing.SalesInvoiceOverdue}, to),
		"total - amount_paid")
	if err != nil {
		return summary, err
	}

	err = db.Model(&invoicing.SalesInvoice{}).
		Where("tenant_id = ? AND status <> ? AND issue_date >= ? AND issue_date < ?",
			tenantID, invoicing.SalesInvoiceCancelled, from, to).
		Count(&summary.InvoiceCount).Error
	return summary, err
}

func sumColumn(query *gorm.DB, expr string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := query.Select("SUM(" + expr + ")").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

var _ invoicing.SummaryReader = (*GormSummaryReader)(nil)
