package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestMetrics(t *testing.T) (*BusinessMetrics, *sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := NewBusinessMetrics(provider.Meter("test"), zap.NewNop())
	require.NoError(t, err)
	return bm, reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func intSum(data metricdata.Aggregation, attrs ...attribute.KeyValue) int64 {
	sum, ok := data.(metricdata.Sum[int64])
	if !ok {
		return 0
	}
	want := attribute.NewSet(attrs...)
	var total int64
	for _, dp := range sum.DataPoints {
		if matches(dp.Attributes, want) {
			total += dp.Value
		}
	}
	return total
}

func floatSum(data metricdata.Aggregation, attrs ...attribute.KeyValue) float64 {
	sum, ok := data.(metricdata.Sum[float64])
	if !ok {
		return 0
	}
	want := attribute.NewSet(attrs...)
	var total float64
	for _, dp := range sum.DataPoints {
		if matches(dp.Attributes, want) {
			total += dp.Value
		}
	}
	return total
}

// matches reports whether every attribute in want is present in got
func matches(got attribute.Set, want attribute.Set) bool {
	iter := want.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		v, ok := got.Value(kv.Key)
		if !ok || v != kv.Value {
			return false
		}
	}
	return true
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	_, err := NewBusinessMetrics(nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestBusinessMetrics_CountsEvents(t *testing.T) {
	bm, reader, _ := newTestMetrics(t)
	ctx := context.Background()
	tenantID := uuid.New()

	assert.Nil(t, bm.EventTypes())

	customer := shared.NewBaseDomainEvent(partner.EventTypeCustomerCreated, partner.AggregateTypeCustomer, uuid.New(), tenantID)
	require.NoError(t, bm.Handle(ctx, &customer))
	require.NoError(t, bm.Handle(ctx, &customer))

	data := collect(t, reader)
	assert.Equal(t, int64(2), intSum(data["erp_document_events_total"],
		attribute.String("aggregate", partner.AggregateTypeCustomer),
		attribute.String("event_type", partner.EventTypeCustomerCreated)))
}

func TestBusinessMetrics_InvoiceAmounts(t *testing.T) {
	bm, reader, _ := newTestMetrics(t)
	ctx := context.Background()

	inv := &invoicing.SalesInvoice{Currency: "usd"}
	require.NoError(t, bm.Handle(ctx, invoicing.NewSalesInvoiceEvent(invoicing.EventTypeSalesInvoiceSent, inv, decimal.NewFromInt(500))))
	require.NoError(t, bm.Handle(ctx, invoicing.NewSalesInvoiceEvent(invoicing.EventTypeSalesInvoicePaymentRecorded, inv, decimal.NewFromFloat(120.5))))
	require.NoError(t, bm.Handle(ctx, invoicing.NewSalesInvoiceEvent(invoicing.EventTypeSalesInvoiceCancelled, inv, decimal.NewFromInt(379))))
	// updates carry no amount
	require.NoError(t, bm.Handle(ctx, invoicing.NewSalesInvoiceEvent(invoicing.EventTypeSalesInvoiceUpdated, inv, decimal.NewFromInt(999))))

	bill := &invoicing.SupplierInvoice{Currency: "EUR"}
	require.NoError(t, bm.Handle(ctx, invoicing.NewSupplierInvoiceEvent(invoicing.EventTypeSupplierInvoiceApproved, bill, decimal.NewFromInt(80))))

	data := collect(t, reader)
	amounts := data["erp_invoice_amount_total"]
	sales := attribute.String("ledger", "sales")
	usd := attribute.String("currency", "USD")
	assert.InDelta(t, 500, floatSum(amounts, sales, usd, attribute.String("kind", AmountIssued)), 0.001)
	assert.InDelta(t, 120.5, floatSum(amounts, sales, usd, attribute.String("kind", AmountPaid)), 0.001)
	assert.InDelta(t, 379, floatSum(amounts, sales, usd, attribute.String("kind", AmountWrittenOff)), 0.001)
	assert.InDelta(t, 80, floatSum(amounts,
		attribute.String("ledger", "supplier"),
		attribute.String("currency", "EUR"),
		attribute.String("kind", AmountIssued)), 0.001)
	assert.InDelta(t, 999.5, floatSum(amounts), 0.001)
}

func TestBusinessMetrics_ExportsAndRenders(t *testing.T) {
	bm, reader, _ := newTestMetrics(t)
	ctx := context.Background()

	bm.RecordExport(ctx, "customers", "csv", false)
	bm.RecordExport(ctx, "customers", "xlsx", true)
	bm.RecordPDFRender(ctx, 300*time.Millisecond, nil)
	bm.RecordPDFRender(ctx, time.Second, errors.New("boom"))

	data := collect(t, reader)
	assert.Equal(t, int64(2), intSum(data["erp_exports_total"], attribute.String("resource", "customers")))
	assert.Equal(t, int64(1), intSum(data["erp_exports_total"], attribute.Bool("archived", true)))
	assert.Equal(t, int64(1), intSum(data["erp_pdf_renders_total"], attribute.String("outcome", "error")))

	hist, ok := data["erp_pdf_render_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestBusinessMetrics_NilReceiver(t *testing.T) {
	var bm *BusinessMetrics
	assert.NotPanics(t, func() {
		bm.RecordExport(context.Background(), "customers", "csv", false)
		bm.RecordPDFRender(context.Background(), time.Second, nil)
	})
}

func TestRegisterRealtimeGauges(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	require.NoError(t, RegisterRealtimeGauges(provider.Meter("test"),
		func() int { return 3 },
		func() int64 { return 7 }))

	data := collect(t, reader)
	gauge, ok := data["erp_realtime_clients"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(3), gauge.DataPoints[0].Value)
	assert.Equal(t, int64(7), intSum(data["erp_realtime_dropped_total"]))
}
