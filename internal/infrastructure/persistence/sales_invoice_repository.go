package persistence

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesInvoiceRepository implements SalesInvoiceRepository using GORM.
// Items are always loaded with their invoice because Save rewrites them.
type GormSalesInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSalesInvoiceRepository creates a new GormSalesInvoiceRepository
func NewGormSalesInvoiceRepository(db *gorm.DB) *GormSalesInvoiceRepository {
	return &GormSalesInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice with its items
func (r *GormSalesInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.SalesInvoice, error) {
	var invoice invoicing.SalesInvoice
	err := dbFrom(ctx, r.db).
		Preload("Items", orderItems).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

// FindAllForTenant lists invoices matching the filter
func (r *GormSalesInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.SalesInvoice, error) {
	var invoices []invoicing.SalesInvoice
	query := applyPaging(r.scoped(ctx, tenantID, filter), filter, SalesInvoiceSortFields, "created_at")
	if err := query.Preload("Items", orderItems).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountForTenant counts invoices matching the filter, ignoring paging
func (r *GormSalesInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindOverdueCandidates returns sent invoices due before the given date, across tenants
func (r *GormSalesInvoiceRepository) FindOverdueCandidates(ctx context.Context, before time.Time, limit int) ([]invoicing.SalesInvoice, error) {
	var invoices []invoicing.SalesInvoice
	err := dbFrom(ctx, r.db).
		Preload("Items", orderItems).
		Where("status = ? AND due_date < ?", invoicing.SalesInvoiceSent, before).
		Order("due_date ASC").Order("id ASC").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindRecent returns the latest invoices by issue date
func (r *GormSalesInvoiceRepository) FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]invoicing.SalesInvoice, error) {
	var invoices []invoicing.SalesInvoice
	err := dbFrom(ctx, r.db).
		Preload("Items", orderItems).
		Where("tenant_id = ?", tenantID).
		Order("issue_date DESC").Order("created_at DESC").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save writes the header and replaces the items in one transaction
func (r *GormSalesInvoiceRepository) Save(ctx context.Context, invoice *invoicing.SalesInvoice) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := saveAggregate(tx, invoice, &invoice.BaseAggregateRoot); err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&invoicing.SalesInvoiceItem{}).Error; err != nil {
			return err
		}
		if len(invoice.Items) == 0 {
			return nil
		}
		for i := range invoice.Items {
			invoice.Items[i].InvoiceID = invoice.ID
		}
		return tx.Create(&invoice.Items).Error
	})
}

// DeleteForTenant deletes an invoice and its items
func (r *GormSalesInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := deleteForTenant(tx, &invoicing.SalesInvoice{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("invoice_id = ?", id).Delete(&invoicing.SalesInvoiceItem{}).Error
	})
}

func (r *GormSalesInvoiceRepository) scoped(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := dbFrom(ctx, r.db).Model(&invoicing.SalesInvoice{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "invoice_number", "notes")
	query = applyDateRange(query, filter.Filters, "issue_date")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}
	return query
}

// orderItems keeps document lines in entry order
func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

var _ invoicing.SalesInvoiceRepository = (*GormSalesInvoiceRepository)(nil)
