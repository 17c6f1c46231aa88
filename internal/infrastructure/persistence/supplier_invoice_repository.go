package persistence

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierInvoiceRepository implements SupplierInvoiceRepository using GORM
type GormSupplierInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSupplierInvoiceRepository creates a new GormSupplierInvoiceRepository
func NewGormSupplierInvoiceRepository(db *gorm.DB) *GormSupplierInvoiceRepository {
	return &GormSupplierInvoiceRepository{db: db}
}

// FindByIDForTenant finds a supplier invoice with its items
func (r *GormSupplierInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.SupplierInvoice, error) {
	var invoice invoicing.SupplierInvoice
	err := dbFrom(ctx, r.db).
		Preload("Items", orderItems).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

// FindAllForTenant lists supplier invoices matching the filter
func (r *GormSupplierInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.SupplierInvoice, error) {
	var invoices []invoicing.SupplierInvoice
	query := applyPaging(r.scoped(ctx, tenantID, filter), filter, SupplierInvoiceSortFields, "created_at")
	if err := query.Preload("Items", orderItems).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountForTenant counts supplier invoices matching the filter, ignoring paging
func (r *GormSupplierInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber reports whether the supplier already billed under number.
// excludeID skips the invoice being edited.
func (r *GormSupplierInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID, supplierID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	query := dbFrom(ctx, r.db).Model(&invoicing.SupplierInvoice{}).
		Where("tenant_id = ? AND supplier_id = ? AND invoice_number = ?", tenantID, supplierID, number)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// Save writes the header and replaces the items in one transaction
func (r *GormSupplierInvoiceRepository) Save(ctx context.Context, invoice *invoicing.SupplierInvoice) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := saveAggregate(tx, invoice, &invoice.BaseAggregateRoot); err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&invoicing.SupplierInvoiceItem{}).Error; err != nil {
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

// DeleteForTenant deletes a supplier invoice and its items
func (r *GormSupplierInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := deleteForTenant(tx, &invoicing.SupplierInvoice{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("invoice_id = ?", id).Delete(&invoicing.SupplierInvoiceItem{}).Error
	})
}

func (r *GormSupplierInvoiceRepository) scoped(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := dbFrom(ctx, r.db).Model(&invoicing.SupplierInvoice{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "invoice_number", "notes")
	query = applyDateRange(query, filter.Filters, "issue_date")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "purchase_order_id":
			query = query.Where("purchase_order_id = ?", value)
		}
	}
	return query
}

var _ invoicing.SupplierInvoiceRepository = (*GormSupplierInvoiceRepository)(nil)
