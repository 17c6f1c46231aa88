package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxBalanceAttempts bounds retries on optimistic-lock conflicts
const maxBalanceAttempts = 3

// BalanceHandler keeps customer receivables and supplier payables in step
// with invoice events. Sent or approved invoices raise the balance, payments
// and cancellations lower it.
type BalanceHandler struct {
	customerRepo   partner.CustomerRepository
	supplierRepo   partner.SupplierRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(
	customerRepo partner.CustomerRepository,
	supplierRepo partner.SupplierRepository,
	logger *zap.Logger,
) *BalanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BalanceHandler{
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for the partner updates the handler makes
func (h *BalanceHandler) SetEventPublisher(publisher shared.EventPublisher) {
	h.eventPublisher = publisher
}

// EventTypes returns the event types this handler is interested in
func (h *BalanceHandler) EventTypes() []string {
	return []string{
		invoicing.EventTypeSalesInvoiceSent,
		invoicing.EventTypeSalesInvoicePaymentRecorded,
		invoicing.EventTypeSalesInvoiceCancelled,
		invoicing.EventTypeSupplierInvoiceApproved,
		invoicing.EventTypeSupplierInvoicePaymentRecorded,
		invoicing.EventTypeSupplierInvoiceCancelled,
	}
}

// Handle applies the balance effect of an invoice event
func (h *BalanceHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch e := evt.(type) {
	case *invoicing.SalesInvoiceEvent:
		delta := e.Amount
		if e.EventType() != invoicing.EventTypeSalesInvoiceSent {
			delta = delta.Neg()
		}
		return h.adjustCustomer(ctx, e, delta)
	case *invoicing.SupplierInvoiceEvent:
		delta := e.Amount
		if e.EventType() != invoicing.EventTypeSupplierInvoiceApproved {
			delta = delta.Neg()
		}
		return h.adjustSupplier(ctx, e, delta)
	default:
		h.logger.Error("unexpected event type", zap.String("actual", evt.EventType()))
		return fmt.Errorf("unexpected event type: %s", evt.EventType())
	}
}

func (h *BalanceHandler) adjustCustomer(ctx context.Context, e *invoicing.SalesInvoiceEvent, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	var err error
	for attempt := 1; attempt <= maxBalanceAttempts; attempt++ {
		var customer *partner.Customer
		customer, err = h.customerRepo.FindByIDForTenant(ctx, e.TenantID(), e.Invoice.CustomerID)
		if err != nil {
			break
		}
		customer.AdjustBalance(delta)
		if err = h.customerRepo.Save(ctx, customer); err == nil {
			event.PublishPending(ctx, h.eventPublisher, h.logger, customer)
			h.logger.Debug("customer balance adjusted",
				zap.String("customer_id", customer.ID.String()),
				zap.String("invoice_number", e.Invoice.InvoiceNumber),
				zap.String("delta", delta.String()),
			)
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
	}
	h.logger.Error("failed to adjust customer balance",
		zap.String("customer_id", e.Invoice.CustomerID.String()),
		zap.String("invoice_number", e.Invoice.InvoiceNumber),
		zap.Error(err),
	)
	return fmt.Errorf("adjust customer balance: %w", err)
}

func (h *BalanceHandler) adjustSupplier(ctx context.Context, e *invoicing.SupplierInvoiceEvent, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	var err error
	for attempt := 1; attempt <= maxBalanceAttempts; attempt++ {
		var supplier *partner.Supplier
		supplier, err = h.supplierRepo.FindByIDForTenant(ctx, e.TenantID(), e.Invoice.SupplierID)
		if err != nil {
			break
		}
		supplier.AdjustBalance(delta)
		if err = h.supplierRepo.Save(ctx, supplier); err == nil {
			event.PublishPending(ctx, h.eventPublisher, h.logger, supplier)
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
	}
	h.logger.Error("failed to adjust supplier balance",
		zap.String("supplier_id", e.Invoice.SupplierID.String()),
		zap.String("invoice_number", e.Invoice.InvoiceNumber),
		zap.Error(err),
	)
	return fmt.Errorf("adjust supplier balance: %w", err)
}

// Ensure BalanceHandler implements shared.EventHandler
var _ shared.EventHandler = (*BalanceHandler)(nil)
