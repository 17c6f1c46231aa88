package invoicing

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo      invoicing.PurchaseOrderRepository
	supplierRepo   partner.SupplierRepository
	sequences      shared.SequenceGenerator
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
	opts           Options
	logger         *zap.Logger
	now            func() time.Time
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo invoicing.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	sequences shared.SequenceGenerator,
	txManager shared.TransactionManager,
	opts Options,
	logger *zap.Logger,
) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		sequences:    sequences,
		txManager:    txManager,
		opts:         opts,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create numbers and stores a draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req PurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	header, err := req.header(s.opts.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, header.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is inactive")
	}

	var order *invoicing.PurchaseOrder
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		number, err := shared.NextDocumentNumber(txCtx, s.sequences, tenantID, shared.PrefixPurchaseOrder, header.OrderDate)
		if err != nil {
			return err
		}
		order, err = invoicing.NewPurchaseOrder(tenantID, number, header, toLineInputs(req.Items))
		if err != nil {
			return err
		}
		order.SetCreatedBy(req.CreatedBy)
		return s.orderRepo.Save(txCtx, order)
	})
	if err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order with its items
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with search, filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]PurchaseOrderResponse, int64, error) {
	domainFilter := filter.toDomain("supplier_id")
	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseOrderResponses(orders), total, nil
}

// ListAll returns every purchase order matching the filter, without paging
func (s *PurchaseOrderService) ListAll(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]PurchaseOrderResponse, error) {
	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter.toDomain("supplier_id").WithoutPaging())
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponses(orders), nil
}

// Update replaces header and items of a draft order
func (s *PurchaseOrderService) Update(ctx context.Context, tenantID, orderID uuid.UUID, req PurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	header, err := req.header(s.opts.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if header.SupplierID != order.SupplierID {
		if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, header.SupplierID); err != nil {
			return nil, err
		}
	}
	if err := order.Update(header, toLineInputs(req.Items)); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// Submit sends a draft order to the supplier
func (s *PurchaseOrderService) Submit(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, tenantID, orderID, (*invoicing.PurchaseOrder).Submit)
}

// Receive marks a submitted order as received
func (s *PurchaseOrderService) Receive(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, tenantID, orderID, (*invoicing.PurchaseOrder).Receive)
}

// Cancel cancels a draft or submitted order
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, tenantID, orderID, (*invoicing.PurchaseOrder).Cancel)
}

// Delete removes a draft order
func (s *PurchaseOrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if err := order.MarkDeleted(); err != nil {
		return err
	}
	if err := s.orderRepo.DeleteForTenant(ctx, tenantID, orderID); err != nil {
		return err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, order)
	return nil
}

func (s *PurchaseOrderService) transition(ctx context.Context, tenantID, orderID uuid.UUID, apply func(*invoicing.PurchaseOrder, time.Time) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := apply(order, s.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

func (s *PurchaseOrderService) save(ctx context.Context, order *invoicing.PurchaseOrder) (*PurchaseOrderResponse, error) {
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, order)
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}
