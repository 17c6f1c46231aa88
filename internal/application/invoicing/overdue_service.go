package invoicing

import (
	"context"
	"errors"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultOverdueBatchSize caps how many invoices one sweep touches
const DefaultOverdueBatchSize = 500

// OverdueService moves sent invoices past their due date to overdue
type OverdueService struct {
	invoiceRepo    invoicing.SalesInvoiceRepository
	eventPublisher shared.EventPublisher
	batchSize      int
	logger         *zap.Logger
}

// NewOverdueService creates a new OverdueService
func NewOverdueService(invoiceRepo invoicing.SalesInvoiceRepository, batchSize int, logger *zap.Logger) *OverdueService {
	if batchSize <= 0 {
		batchSize = DefaultOverdueBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueService{
		invoiceRepo: invoiceRepo,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for the change feed
func (s *OverdueService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Sweep marks every sent invoice past due at now as overdue and returns the
// number changed. Invoices modified concurrently are skipped and picked up by
// the next sweep.
func (s *OverdueService) Sweep(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.invoiceRepo.FindOverdueCandidates(ctx, now, s.batchSize)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		inv := &candidates[i]
		if !inv.MarkOverdue(now) {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				s.logger.Debug("overdue sweep skipped modified invoice",
					zap.String("invoice_id", inv.ID.String()))
				continue
			}
			return changed, err
		}
		event.PublishPending(ctx, s.eventPublisher, s.logger, inv)
		changed++
	}
	if changed > 0 {
		s.logger.Info("overdue sweep completed",
			zap.Int("candidates", len(candidates)),
			zap.Int("marked_overdue", changed),
		)
	}
	return changed, nil
}
