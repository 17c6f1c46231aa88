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

// SupplierInvoiceService handles bills received from suppliers
type SupplierInvoiceService struct {
	invoiceRepo    invoicing.SupplierInvoiceRepository
	orderRepo      invoicing.PurchaseOrderRepository
	supplierRepo   partner.SupplierRepository
	eventPublisher shared.EventPublisher
	opts           Options
	logger         *zap.Logger
	now            func() time.Time
}

// NewSupplierInvoiceService creates a new SupplierInvoiceService
func NewSupplierInvoiceService(
	invoiceRepo invoicing.SupplierInvoiceRepository,
	orderRepo invoicing.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	opts Options,
	logger *zap.Logger,
) *SupplierInvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	return &SupplierInvoiceService{
		invoiceRepo:  invoiceRepo,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		opts:         opts,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SupplierInvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a supplier invoice. The supplier's reference must be unique
// for that supplier and a linked purchase order must belong to the same supplier.
func (s *SupplierInvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req SupplierInvoiceRequest) (*SupplierInvoiceResponse, error) {
	header, err := req.header(s.opts.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, tenantID, header, nil); err != nil {
		return nil, err
	}

	invoice, err := invoicing.NewSupplierInvoice(tenantID, header, toLineInputs(req.Items))
	if err != nil {
		return nil, err
	}
	invoice.SetCreatedBy(req.CreatedBy)
	return s.save(ctx, invoice)
}

// GetByID retrieves a supplier invoice with its items
func (s *SupplierInvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*SupplierInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves supplier invoices with search, filtering and pagination
func (s *SupplierInvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]SupplierInvoiceResponse, int64, error) {
	domainFilter := filter.toDomain("supplier_id")
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSupplierInvoiceResponses(invoices), total, nil
}

// ListAll returns every supplier invoice matching the filter, without paging
func (s *SupplierInvoiceService) ListAll(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]SupplierInvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter.toDomain("supplier_id").WithoutPaging())
	if err != nil {
		return nil, err
	}
	return ToSupplierInvoiceResponses(invoices), nil
}

// Update replaces header and items of a pending supplier invoice
func (s *SupplierInvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req SupplierInvoiceRequest) (*SupplierInvoiceResponse, error) {
	header, err := req.header(s.opts.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, tenantID, header, &invoice.ID); err != nil {
		return nil, err
	}
	if err := invoice.Update(header, toLineInputs(req.Items)); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// Approve accepts a pending supplier invoice for payment
func (s *SupplierInvoiceService) Approve(ctx context.Context, tenantID, invoiceID uuid.UUID) (*SupplierInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Approve(s.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// RecordPayment applies a payment to an approved supplier invoice
func (s *SupplierInvoiceService) RecordPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, req PaymentRequest) (*SupplierInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	paidAt := s.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	if err := invoice.RecordPayment(req.Amount, paidAt); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// Cancel voids a pending or approved supplier invoice
func (s *SupplierInvoiceService) Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID) (*SupplierInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Cancel(s.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// Delete removes a pending supplier invoice
func (s *SupplierInvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if err := invoice.MarkDeleted(); err != nil {
		return err
	}
	if err := s.invoiceRepo.DeleteForTenant(ctx, tenantID, invoiceID); err != nil {
		return err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, invoice)
	return nil
}

func (s *SupplierInvoiceService) checkReferences(ctx context.Context, tenantID uuid.UUID, header invoicing.SupplierInvoiceHeader, excludeID *uuid.UUID) error {
	if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, header.SupplierID); err != nil {
		return err
	}
	exists, err := s.invoiceRepo.ExistsByNumber(ctx, tenantID, header.SupplierID, header.InvoiceNumber, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "This supplier already has an invoice with this number")
	}
	if header.PurchaseOrderID != nil {
		order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, *header.PurchaseOrderID)
		if err != nil {
			return err
		}
		if order.SupplierID != header.SupplierID {
			return shared.NewDomainError("INVALID_PURCHASE_ORDER", "Purchase order belongs to a different supplier")
		}
		if order.Status == invoicing.PurchaseOrderCancelled {
			return shared.NewDomainError("INVALID_PURCHASE_ORDER", "Purchase order is cancelled")
		}
	}
	return nil
}

func (s *SupplierInvoiceService) save(ctx context.Context, invoice *invoicing.SupplierInvoice) (*SupplierInvoiceResponse, error) {
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, invoice)
	response := ToSupplierInvoiceResponse(invoice)
	return &response, nil
}
