package handler

import (
	"context"
	"net/http"
	"testing"

	dashboardapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/dashboard"
	invoicingapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Stats(ctx context.Context, tenantID uuid.UUID, q dashboardapp.StatsQuery) (*dashboardapp.StatsResponse, error) {
	args := m.Called(ctx, tenantID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboardapp.StatsResponse), args.Error(1)
}

func TestDashboardHandler_Stats(t *testing.T) {
	stats := new(MockDashboardService)
	r := newTestRouter(testClaims())
	h := NewDashboardHandler(stats, new(MockSalesInvoiceService))
	r.GET("/dashboard/stats", h.Stats)

	stats.On("Stats", mock.Anything, testTenantID, dashboardapp.StatsQuery{Period: "quarter"}).
		Return(&dashboardapp.StatsResponse{
			Period:  dashboardapp.PeriodQuarter,
			Revenue: dashboardapp.NewMetric(decimal.NewFromInt(100), decimal.NewFromInt(150)),
		}, nil)

	w := performRequest(r, http.MethodGet, "/dashboard/stats?period=quarter", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeData[dashboardapp.StatsResponse](t, decodeEnvelope(t, w))
	assert.True(t, got.Revenue.ChangePercent.Equal(decimal.NewFromInt(50)), got.Revenue.ChangePercent.String())
}

func TestDashboardHandler_Stats_InvalidPeriod(t *testing.T) {
	stats := new(MockDashboardService)
	r := newTestRouter(testClaims())
	h := NewDashboardHandler(stats, new(MockSalesInvoiceService))
	r.GET("/dashboard/stats", h.Stats)

	w := performRequest(r, http.MethodGet, "/dashboard/stats?period=week", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	stats.AssertNotCalled(t, "Stats", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardHandler_RecentInvoices(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLimit int
		wantCode  int
	}{
		{"default", "", 5, http.StatusOK},
		{"explicit", "?limit=10", 10, http.StatusOK},
		{"capped", "?limit=500", 50, http.StatusOK},
		{"zero", "?limit=0", 0, http.StatusBadRequest},
		{"garbage", "?limit=abc", 0, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoices := new(MockSalesInvoiceService)
			r := newTestRouter(testClaims())
			h := NewDashboardHandler(new(MockDashboardService), invoices)
			r.GET("/dashboard/recent-invoices", h.RecentInvoices)
			if tt.wantCode == http.StatusOK {
				invoices.On("Recent", mock.Anything, testTenantID, tt.wantLimit).
					Return([]invoicingapp.SalesInvoiceResponse{}, nil).Once()
			}

			w := performRequest(r, http.MethodGet, "/dashboard/recent-invoices"+tt.query, nil)

			assert.Equal(t, tt.wantCode, w.Code)
			invoices.AssertExpectations(t)
		})
	}
}
