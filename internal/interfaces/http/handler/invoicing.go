package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	invoicingapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/invoicing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SalesInvoiceService is the receivables API
type SalesInvoiceService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req invoicingapp.SalesInvoiceRequest) (*invoicingapp.SalesInvoiceResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.SalesInvoiceResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter invoicingapp.ListFilter) ([]invoicingapp.SalesInvoiceResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req invoicingapp.SalesInvoiceRequest) (*invoicingapp.SalesInvoiceResponse, error)
	Send(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.SalesInvoiceResponse, error)
	RecordPayment(ctx context.Context, tenantID, id uuid.UUID, req invoicingapp.PaymentRequest) (*invoicingapp.SalesInvoiceResponse, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.SalesInvoiceResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	RenderPDF(ctx context.Context, tenantID, id uuid.UUID, locale string) ([]byte, string, error)
}

// SupplierInvoiceService is the payables API
type SupplierInvoiceService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req invoicingapp.SupplierInvoiceRequest) (*invoicingapp.SupplierInvoiceResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.SupplierInvoiceResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter invoicingapp.ListFilter) ([]invoicingapp.SupplierInvoiceResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req invoicingapp.SupplierInvoiceRequest) (*invoicingapp.SupplierInvoiceResponse, error)
	Approve(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.SupplierInvoiceResponse, error)
	RecordPayment(ctx context.Context, tenantID, id uuid.UUID, req invoicingapp.PaymentRequest) (*invoicingapp.SupplierInvoiceResponse, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.SupplierInvoiceResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// PurchaseOrderService is the purchase order API
type PurchaseOrderService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req invoicingapp.PurchaseOrderRequest) (*invoicingapp.PurchaseOrderResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.PurchaseOrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter invoicingapp.ListFilter) ([]invoicingapp.PurchaseOrderResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req invoicingapp.PurchaseOrderRequest) (*invoicingapp.PurchaseOrderResponse, error)
	Submit(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.PurchaseOrderResponse, error)
	Receive(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.PurchaseOrderResponse, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.PurchaseOrderResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// PDFRenderRecorder observes invoice renders
type PDFRenderRecorder interface {
	RecordPDFRender(ctx context.Context, d time.Duration, err error)
}

// SalesInvoiceHandler serves /invoicing/sales-invoices
type SalesInvoiceHandler struct {
	BaseHandler
	invoiceService SalesInvoiceService
	renders        PDFRenderRecorder
}

// NewSalesInvoiceHandler creates a new sales invoice handler. renders may be nil.
func NewSalesInvoiceHandler(invoiceService SalesInvoiceService, renders PDFRenderRecorder) *SalesInvoiceHandler {
	return &SalesInvoiceHandler{invoiceService: invoiceService, renders: renders}
}

// Create handles POST /invoicing/sales-invoices
func (h *SalesInvoiceHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req invoicingapp.SalesInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID handles GET /invoicing/sales-invoices/:id
func (h *SalesInvoiceHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.invoiceService.GetByID)
}

// List handles GET /invoicing/sales-invoices
func (h *SalesInvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter invoicingapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, invoices, total, page, size)
}

// Update handles PUT /invoicing/sales-invoices/:id
func (h *SalesInvoiceHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req invoicingapp.SalesInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Send handles POST /invoicing/sales-invoices/:id/send
func (h *SalesInvoiceHandler) Send(c *gin.Context) {
	byID(&h.BaseHandler, c, h.invoiceService.Send)
}

// RecordPayment handles POST /invoicing/sales-invoices/:id/payments
func (h *SalesInvoiceHandler) RecordPayment(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req invoicingapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Cancel handles POST /invoicing/sales-invoices/:id/cancel
func (h *SalesInvoiceHandler) Cancel(c *gin.Context) {
	byID(&h.BaseHandler, c, h.invoiceService.Cancel)
}

// Delete handles DELETE /invoicing/sales-invoices/:id
func (h *SalesInvoiceHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.invoiceService.Delete)
}

// PDF handles GET /invoicing/sales-invoices/:id/pdf. The locale query
// parameter, then Accept-Language, selects number formatting.
func (h *SalesInvoiceHandler) PDF(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	start := time.Now()
	pdf, filename, err := h.invoiceService.RenderPDF(c.Request.Context(), tenantID, id, requestLocale(c))
	if h.renders != nil {
		h.renders.RecordPDFRender(c.Request.Context(), time.Since(start), err)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// requestLocale returns the first language the client asked for
func requestLocale(c *gin.Context) string {
	if locale := strings.TrimSpace(c.Query("locale")); locale != "" {
		return locale
	}
	accept := c.GetHeader("Accept-Language")
	if accept == "" {
		return ""
	}
	first, _, _ := strings.Cut(accept, ",")
	tag, _, _ := strings.Cut(first, ";")
	return strings.TrimSpace(tag)
}

// SupplierInvoiceHandler serves /invoicing/supplier-invoices
type SupplierInvoiceHandler struct {
	BaseHandler
	invoiceService SupplierInvoiceService
}

// NewSupplierInvoiceHandler creates a new supplier invoice handler
func NewSupplierInvoiceHandler(invoiceService SupplierInvoiceService) *SupplierInvoiceHandler {
	return &SupplierInvoiceHandler{invoiceService: invoiceService}
}

// Create handles POST /invoicing/supplier-invoices
func (h *SupplierInvoiceHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req invoicingapp.SupplierInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID handles GET /invoicing/supplier-invoices/:id
func (h *SupplierInvoiceHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.invoiceService.GetByID)
}

// List handles GET /invoicing/supplier-invoices
func (h *SupplierInvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter invoicingapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, invoices, total, page, size)
}

// Update handles PUT /invoicing/supplier-invoices/:id
func (h *SupplierInvoiceHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req invoicingapp.SupplierInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Approve handles POST /invoicing/supplier-invoices/:id/approve
func (h *SupplierInvoiceHandler) Approve(c *gin.Context) {
	byID(&h.BaseHandler, c, h.invoiceService.Approve)
}

// RecordPayment handles POST /invoicing/supplier-invoices/:id/payments
func (h *SupplierInvoiceHandler) RecordPayment(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req invoicingapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Cancel handles POST /invoicing/supplier-invoices/:id/cancel
func (h *SupplierInvoiceHandler) Cancel(c *gin.Context) {
	byID(&h.BaseHandler, c, h.invoiceService.Cancel)
}

// Delete handles DELETE /invoicing/supplier-invoices/:id
func (h *SupplierInvoiceHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.invoiceService.Delete)
}

// PurchaseOrderHandler serves /invoicing/purchase-orders
type PurchaseOrderHandler struct {
	BaseHandler
	orderService PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(orderService PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// Create handles POST /invoicing/purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req invoicingapp.PurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	order, err := h.orderService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID handles GET /invoicing/purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.GetByID)
}

// List handles GET /invoicing/purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter invoicingapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, size)
}

// Update handles PUT /invoicing/purchase-orders/:id
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req invoicingapp.PurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Submit handles POST /invoicing/purchase-orders/:id/submit
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.Submit)
}

// Receive handles POST /invoicing/purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.Receive)
}

// Cancel handles POST /invoicing/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.Cancel)
}

// Delete handles DELETE /invoicing/purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.orderService.Delete)
}
