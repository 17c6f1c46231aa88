package dashboard

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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSummaryReader struct {
	mock.Mock
}

func (m *MockSummaryReader) Summarize(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (invoicing.PeriodSummary, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(invoicing.PeriodSummary), args.Error(1)
}

// customerCounter implements only the counting part of the repository
type customerCounter struct {
	partner.CustomerRepository
	counts map[time.Time]int64
	err    error
}

func (c *customerCounter) CountForTenant(_ context.Context, _ uuid.UUID, filter shared.Filter) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.counts[filter.Filters["created_from"].(time.Time)], nil
}

func TestPeriodRanges(t *testing.T) {
	now := time.Date(2026, time.May, 17, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		period   Period
		cur      Range
		previous Range
	}{
		{
			period:   PeriodMonth,
			cur:      Range{From: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
			previous: Range{From: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		},
		{
			period:   PeriodQuarter,
			cur:      Range{From: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
			previous: Range{From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		},
		{
			period:   PeriodYear,
			cur:      Range{From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
			previous: Range{From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			cur, prev := PeriodRanges(tt.period, now)
			assert.Equal(t, tt.cur, cur)
			assert.Equal(t, tt.previous, prev)
		})
	}

	t.Run("january rolls back into the previous year", func(t *testing.T) {
		_, prev := PeriodRanges(PeriodMonth, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), prev.From)
	})
}

func TestService_Stats(t *testing.T) {
	tenantID := uuid.New()
	now := time.Date(2026, time.May, 17, 12, 0, 0, 0, time.UTC)
	cur, prev := PeriodRanges(PeriodMonth, now)

	summaries := new(MockSummaryReader)
	summaries.On("Summarize", mock.Anything, tenantID, cur.From, cur.To).Return(invoicing.PeriodSummary{
		Revenue:      decimal.NewFromInt(250),
		Expenses:     decimal.NewFromInt(80),
		Receivables:  decimal.NewFromInt(40),
		InvoiceCount: 6,
	}, nil)
	summaries.On("Summarize", mock.Anything, tenantID, prev.From, prev.To).Return(invoicing.PeriodSummary{
		Revenue:      decimal.NewFromInt(200),
		Expenses:     decimal.NewFromInt(100),
		Receivables:  decimal.Zero,
		InvoiceCount: 4,
	}, nil)
	customers := &customerCounter{counts: map[time.Time]int64{cur.From: 3, prev.From: 0}}

	svc := NewService(summaries, customers, nil)
	svc.now = func() time.Time { return now }

	stats, err := svc.Stats(context.Background(), tenantID, StatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, stats.Period)
	assert.Equal(t, "25", stats.Revenue.ChangePercent.String())
	assert.Equal(t, "-20", stats.Expenses.ChangePercent.String())
	assert.Equal(t, "100", stats.Receivables.ChangePercent.String())
	assert.Equal(t, "50", stats.InvoiceCount.ChangePercent.String())
	assert.Equal(t, "100", stats.NewCustomers.ChangePercent.String())
	assert.True(t, stats.NewCustomers.Current.Equal(decimal.NewFromInt(3)))

	t.Run("propagates reader errors", func(t *testing.T) {
		failing := &customerCounter{err: errors.New("db down")}
		svc := NewService(summaries, failing, nil)
		svc.now = func() time.Time { return now }
		_, err := svc.Stats(context.Background(), tenantID, StatsQuery{Period: "month"})
		assert.Error(t, err)
	})
}
