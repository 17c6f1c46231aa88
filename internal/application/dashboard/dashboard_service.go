package dashboard

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/view"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Period is the comparison window of the stats endpoint
type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// StatsQuery holds query parameters for GET /dashboard/stats
type StatsQuery struct {
	Period string `form:"period" binding:"omitempty,oneof=month quarter year"`
}

// Metric compares a value across two periods
type Metric struct {
	Current       decimal.Decimal `json:"current"`
	Previous      decimal.Decimal `json:"previous"`
	ChangePercent decimal.Decimal `json:"change_percent"`
}

// NewMetric builds a Metric with its percentage change
func NewMetric(previous, current decimal.Decimal) Metric {
	return Metric{
		Current:       current,
		Previous:      previous,
		ChangePercent: view.PercentChange(previous, current),
	}
}

// Range is a half-open date range [From, To)
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// StatsResponse is returned by GET /dashboard/stats
type StatsResponse struct {
	Period       Period `json:"period"`
	Current      Range  `json:"current_range"`
	Previous     Range  `json:"previous_range"`
	Revenue      Metric `json:"revenue"`
	Expenses     Metric `json:"expenses"`
	Receivables  Metric `json:"outstanding_receivables"`
	InvoiceCount Metric `json:"invoice_count"`
	NewCustomers Metric `json:"new_customers"`
}

// Service computes dashboard figures
type Service struct {
	summaries invoicing.SummaryReader
	customers partner.CustomerRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a dashboard Service
func NewService(summaries invoicing.SummaryReader, customers partner.CustomerRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{summaries: summaries, customers: customers, logger: logger, now: time.Now}
}

// Stats compares the current calendar period with the one before it
func (s *Service) Stats(ctx context.Context, tenantID uuid.UUID, q StatsQuery) (*StatsResponse, error) {
	period := Period(q.Period)
	if period == "" {
		period = PeriodMonth
	}
	current, previous := PeriodRanges(period, s.now())

	cur, err := s.collect(ctx, tenantID, current)
	if err != nil {
		return nil, err
	}
	prev, err := s.collect(ctx, tenantID, previous)
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		Period:       period,
		Current:      current,
		Previous:     previous,
		Revenue:      NewMetric(prev.Revenue, cur.Revenue),
		Expenses:     NewMetric(prev.Expenses, cur.Expenses),
		Receivables:  NewMetric(prev.Receivables, cur.Receivables),
		InvoiceCount: NewMetric(decimal.NewFromInt(prev.InvoiceCount), decimal.NewFromInt(cur.InvoiceCount)),
		NewCustomers: NewMetric(decimal.NewFromInt(prev.newCustomers), decimal.NewFromInt(cur.newCustomers)),
	}, nil
}

type periodFigures struct {
	invoicing.PeriodSummary
	newCustomers int64
}

func (s *Service) collect(ctx context.Context, tenantID uuid.UUID, r Range) (periodFigures, error) {
	summary, err := s.summaries.Summarize(ctx, tenantID, r.From, r.To)
	if err != nil {
		return periodFigures{}, err
	}
	filter := shared.Filter{Filters: map[string]any{
		"created_from": r.From,
		"created_to":   r.To,
	}}
	count, err := s.customers.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return periodFigures{}, err
	}
	return periodFigures{PeriodSummary: summary, newCustomers: count}, nil
}

// PeriodRanges returns the calendar period containing now and the one
// immediately before it, both in now's location.
func PeriodRanges(period Period, now time.Time) (current, previous Range) {
	y, m, _ := now.Date()
	loc := now.Location()

	var start time.Time
	var months int
	switch period {
	case PeriodYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		months = 12
	case PeriodQuarter:
		q := (int(m) - 1) / 3
		start = time.Date(y, time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
		months = 3
	default:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		months = 1
	}
	current = Range{From: start, To: start.AddDate(0, months, 0)}
	previous = Range{From: start.AddDate(0, -months, 0), To: start}
	return current, previous
}
