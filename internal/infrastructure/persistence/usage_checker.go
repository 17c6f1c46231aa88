package persistence

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUsageChecker looks for documents that reference a partner
type GormUsageChecker struct {
	db *gorm.DB
}

// NewGormUsageChecker creates a new GormUsageChecker
func NewGormUsageChecker(db *gorm.DB) *GormUsageChecker {
	return &GormUsageChecker{db: db}
}

// CustomerInUse reports whether any sales invoice references the customer
func (c *GormUsageChecker) CustomerInUse(ctx context.Context, tenantID, customerID uuid.UUID) (bool, error) {
	return exists(dbFrom(ctx, c.db).Model(&invoicing.SalesInvoice{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID))
}

// SupplierInUse reports whether any supplier invoice or purchase order references the supplier
func (c *GormUsageChecker) SupplierInUse(ctx context.Context, tenantID, supplierID uuid.UUID) (bool, error) {
	db := dbFrom(ctx, c.db)
	used, err := exists(db.Model(&invoicing.SupplierInvoice{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID))
	if err != nil || used {
		return used, err
	}
	return exists(db.Model(&invoicing.PurchaseOrder{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID))
}

var _ partner.UsageChecker = (*GormUsageChecker)(nil)
