package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is given
var ErrMeterNil = errors.New("meter cannot be nil")

// Amount kinds recorded on erp_invoice_amount_total
const (
	AmountIssued     = "issued"
	AmountPaid       = "paid"
	AmountWrittenOff = "written_off"
)

// BusinessMetrics records accounting activity. It subscribes to the event
// bus for document activity; exports and PDF renders are recorded by their
// handlers.
type BusinessMetrics struct {
	logger *zap.Logger

	documentEvents metric.Int64Counter
	invoiceAmount  metric.Float64Counter
	exports        metric.Int64Counter
	pdfRenders     metric.Int64Counter
	pdfDuration    metric.Float64Histogram
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}
	var err error
	if bm.documentEvents, err = meter.Int64Counter("erp_document_events_total",
		metric.WithDescription("Domain events by aggregate and event type"),
		metric.WithUnit("{events}")); err != nil {
		return nil, err
	}
	if bm.invoiceAmount, err = meter.Float64Counter("erp_invoice_amount_total",
		metric.WithDescription("Invoice amounts issued, paid and written off"),
		metric.WithUnit("{currency}")); err != nil {
		return nil, err
	}
	if bm.exports, err = meter.Int64Counter("erp_exports_total",
		metric.WithDescription("Generated CSV and XLSX exports"),
		metric.WithUnit("{files}")); err != nil {
		return nil, err
	}
	if bm.pdfRenders, err = meter.Int64Counter("erp_pdf_renders_total",
		metric.WithDescription("Invoice PDF renders by outcome"),
		metric.WithUnit("{documents}")); err != nil {
		return nil, err
	}
	if bm.pdfDuration, err = meter.Float64Histogram("erp_pdf_render_duration_seconds",
		metric.WithDescription("Invoice PDF render time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30)); err != nil {
		return nil, err
	}
	return bm, nil
}

// EventTypes returns nil to receive every event
func (bm *BusinessMetrics) EventTypes() []string {
	return nil
}

// Handle counts the event and, for invoices, the amount it moved
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	bm.documentEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("aggregate", event.AggregateType()),
		attribute.String("event_type", event.EventType()),
	))

	switch e := event.(type) {
	case *invoicing.SalesInvoiceEvent:
		bm.recordAmount(ctx, "sales", e.EventType(), e.Invoice.Currency, e.Amount.InexactFloat64())
	case *invoicing.SupplierInvoiceEvent:
		bm.recordAmount(ctx, "supplier", e.EventType(), e.Invoice.Currency, e.Amount.InexactFloat64())
	}
	return nil
}

func (bm *BusinessMetrics) recordAmount(ctx context.Context, ledger, eventType, currency string, amount float64) {
	kind := amountKind(eventType)
	if kind == "" || amount <= 0 {
		return
	}
	bm.invoiceAmount.Add(ctx, amount, metric.WithAttributes(
		attribute.String("ledger", ledger),
		attribute.String("kind", kind),
		attribute.String("currency", strings.ToUpper(currency)),
	))
}

func amountKind(eventType string) string {
	switch eventType {
	case invoicing.EventTypeSalesInvoiceSent, invoicing.EventTypeSupplierInvoiceApproved:
		return AmountIssued
	case invoicing.EventTypeSalesInvoicePaymentRecorded, invoicing.EventTypeSupplierInvoicePaymentRecorded:
		return AmountPaid
	case invoicing.EventTypeSalesInvoiceCancelled, invoicing.EventTypeSupplierInvoiceCancelled:
		return AmountWrittenOff
	}
	return ""
}

// RecordExport counts one generated export. Safe on a nil receiver.
func (bm *BusinessMetrics) RecordExport(ctx context.Context, resource, format string, archived bool) {
	if bm == nil {
		return
	}
	bm.exports.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("format", format),
		attribute.Bool("archived", archived),
	))
}

// RecordPDFRender records one render. Safe on a nil receiver.
func (bm *BusinessMetrics) RecordPDFRender(ctx context.Context, d time.Duration, err error) {
	if bm == nil {
		return
	}
	outcome := attribute.String("outcome", "success")
	if err != nil {
		outcome = attribute.String("outcome", "error")
	}
	bm.pdfRenders.Add(ctx, 1, metric.WithAttributes(outcome))
	bm.pdfDuration.Record(ctx, d.Seconds(), metric.WithAttributes(outcome))
}

// RegisterRealtimeGauges reports hub state on every collection
func RegisterRealtimeGauges(meter metric.Meter, clients func() int, dropped func() int64) error {
	clientGauge, err := meter.Int64ObservableGauge("erp_realtime_clients",
		metric.WithDescription("Connected realtime subscribers"),
		metric.WithUnit("{clients}"))
	if err != nil {
		return err
	}
	droppedCounter, err := meter.Int64ObservableCounter("erp_realtime_dropped_total",
		metric.WithDescription("Change events dropped for slow subscribers"),
		metric.WithUnit("{events}"))
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(clientGauge, int64(clients()))
		o.ObserveInt64(droppedCounter, dropped())
		return nil
	}, clientGauge, droppedCounter)
	return err
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
