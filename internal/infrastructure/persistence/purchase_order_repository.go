package persistence

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByIDForTenant finds a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.PurchaseOrder, error) {
	var order invoicing.PurchaseOrder
	err := dbFrom(ctx, r.db).
		Preload("Items", orderItems).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindAllForTenant lists purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.PurchaseOrder, error) {
	var orders []invoicing.PurchaseOrder
	query := applyPaging(r.scoped(ctx, tenantID, filter), filter, PurchaseOrderSortFields, "created_at")
	if err := query.Preload("Items", orderItems).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountForTenant counts purchase orders matching the filter, ignoring paging
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save writes the header and replaces the items in one transaction
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *invoicing.PurchaseOrder) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := saveAggregate(tx, order, &order.BaseAggregateRoot); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&invoicing.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		return tx.Create(&order.Items).Error
	})
}

// DeleteForTenant deletes a purchase order and its items
func (r *GormPurchaseOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := deleteForTenant(tx, &invoicing.PurchaseOrder{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("order_id = ?", id).Delete(&invoicing.PurchaseOrderItem{}).Error
	})
}

func (r *GormPurchaseOrderRepository) scoped(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := dbFrom(ctx, r.db).Model(&invoicing.PurchaseOrder{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "order_number", "notes")
	query = applyDateRange(query, filter.Filters, "order_date")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		}
	}
	return query
}

var _ invoicing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
