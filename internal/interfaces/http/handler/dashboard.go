package handler

import (
	"context"
	"net/http"
	"strconv"

	dashboardapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/dashboard"
	invoicingapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 50
)

// DashboardService computes the headline figures
type DashboardService interface {
	Stats(ctx context.Context, tenantID uuid.UUID, q dashboardapp.StatsQuery) (*dashboardapp.StatsResponse, error)
}

// RecentInvoiceSource lists the latest sales invoices
type RecentInvoiceSource interface {
	Recent(ctx context.Context, tenantID uuid.UUID, limit int) ([]invoicingapp.SalesInvoiceResponse, error)
}

// DashboardHandler serves /dashboard
type DashboardHandler struct {
	BaseHandler
	stats   DashboardService
	recents RecentInvoiceSource
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(stats DashboardService, recents RecentInvoiceSource) *DashboardHandler {
	return &DashboardHandler{stats: stats, recents: recents}
}

// Stats handles GET /dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q dashboardapp.StatsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	stats, err := h.stats.Stats(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// RecentInvoices handles GET /dashboard/recent-invoices. limit defaults to
// 5 and is capped at 50.
func (h *DashboardHandler) RecentInvoices(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRecentLimit)
	}
	invoices, err := h.recents.Recent(c.Request.Context(), tenantID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}
