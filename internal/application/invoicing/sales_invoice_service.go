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

// Options are the service-wide invoicing settings
type Options struct {
	DefaultCurrency string
}

// SalesInvoiceService handles sales invoice business operations
type SalesInvoiceService struct {
	invoiceRepo    invoicing.SalesInvoiceRepository
	customerRepo   partner.CustomerRepository
	sequences      shared.SequenceGenerator
	txManager      shared.TransactionManager
	printer        InvoicePrinter
	eventPublisher shared.EventPublisher
	opts           Options
	logger         *zap.Logger
	now            func() time.Time
}

// NewSalesInvoiceService creates a new SalesInvoiceService
func NewSalesInvoiceService(
	invoiceRepo invoicing.SalesInvoiceRepository,
	customerRepo partner.CustomerRepository,
	sequences shared.SequenceGenerator,
	txManager shared.TransactionManager,
	opts Options,
	logger *zap.Logger,
) *SalesInvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	return &SalesInvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		sequences:    sequences,
		txManager:    txManager,
		opts:         opts,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SalesInvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetPrinter sets the PDF renderer
func (s *SalesInvoiceService) SetPrinter(printer InvoicePrinter) {
	s.printer = printer
}

// Create allocates an invoice number and stores the invoice with its items.
// Number allocation, header and items share one transaction.
func (s *SalesInvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req SalesInvoiceRequest) (*SalesInvoiceResponse, error) {
	header, err := req.header(s.opts.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is inactive")
	}

	var invoice *invoicing.SalesInvoice
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		number, err := shared.NextDocumentNumber(txCtx, s.sequences, tenantID, shared.PrefixSalesInvoice, header.IssueDate)
		if err != nil {
			return err
		}
		invoice, err = invoicing.NewSalesInvoice(tenantID, number, header, toLineInputs(req.Items))
		if err != nil {
			return err
		}
		invoice.SetCreatedBy(req.CreatedBy)
		return s.invoiceRepo.Save(txCtx, invoice)
	})
	if err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, invoice)

	response := ToSalesInvoiceResponse(invoice)
	response.CustomerName = customer.Name
	return &response, nil
}

// GetByID retrieves a sales invoice with its items
func (s *SalesInvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*SalesInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToSalesInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves sales invoices with search, filtering and pagination
func (s *SalesInvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]SalesInvoiceResponse, int64, error) {
	domainFilter := filter.toDomain("customer_id")
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSalesInvoiceResponses(invoices), total, nil
}

// ListAll returns every invoice matching the filter, without paging
func (s *SalesInvoiceService) ListAll(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]SalesInvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter.toDomain("customer_id").WithoutPaging())
	if err != nil {
		return nil, err
	}
	return ToSalesInvoiceResponses(invoices), nil
}

// Recent returns the latest invoices for the dashboard
func (s *SalesInvoiceService) Recent(ctx context.Context, tenantID uuid.UUID, limit int) ([]SalesInvoiceResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	invoices, err := s.invoiceRepo.FindRecent(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}
	return ToSalesInvoiceResponses(invoices), nil
}

// Update replaces header and items of a draft invoice
func (s *SalesInvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req SalesInvoiceRequest) (*SalesInvoiceResponse, error) {
	header, err := req.header(s.opts.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if header.CustomerID != invoice.CustomerID {
		if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, header.CustomerID); err != nil {
			return nil, err
		}
	}
	if err := invoice.Update(header, toLineInputs(req.Items)); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// Send issues a draft invoice
func (s *SalesInvoiceService) Send(ctx context.Context, tenantID, invoiceID uuid.UUID) (*SalesInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Send(s.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// RecordPayment applies a payment to a sent or overdue invoice
func (s *SalesInvoiceService) RecordPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, req PaymentRequest) (*SalesInvoiceResponse, error) {
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

// Cancel voids an unpaid invoice
func (s *SalesInvoiceService) Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID) (*SalesInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Cancel(s.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// Delete removes a draft invoice and its items
func (s *SalesInvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
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

// RenderPDF renders the invoice through the configured printer
func (s *SalesInvoiceService) RenderPDF(ctx context.Context, tenantID, invoiceID uuid.UUID, currencyLocale string) ([]byte, string, error) {
	if s.printer == nil {
		return nil, "", shared.NewDomainError("PRINTING_DISABLED", "PDF printing is not configured")
	}
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, invoice.CustomerID)
	if err != nil {
		return nil, "", err
	}
	doc := NewInvoiceDocument(invoice, customer, currencyLocale)
	pdf, err := s.printer.RenderInvoice(ctx, doc)
	if err != nil {
		s.logger.Error("failed to render invoice pdf",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}
	return pdf, invoice.InvoiceNumber + ".pdf", nil
}

func (s *SalesInvoiceService) save(ctx context.Context, invoice *invoicing.SalesInvoice) (*SalesInvoiceResponse, error) {
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, invoice)
	response := ToSalesInvoiceResponse(invoice)
	return &response, nil
}
