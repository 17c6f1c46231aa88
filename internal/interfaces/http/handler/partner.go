package handler

import (
	"context"

	partnerapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerService is the customer directory API
type CustomerService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req partnerapp.CreateCustomerRequest) (*partnerapp.CustomerResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.CustomerResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter partnerapp.ListFilter) ([]partnerapp.CustomerResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req partnerapp.UpdateCustomerRequest) (*partnerapp.CustomerResponse, error)
	Activate(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.CustomerResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.CustomerResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// SupplierService is the supplier directory API
type SupplierService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req partnerapp.CreateSupplierRequest) (*partnerapp.SupplierResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.SupplierResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter partnerapp.ListFilter) ([]partnerapp.SupplierResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req partnerapp.UpdateSupplierRequest) (*partnerapp.SupplierResponse, error)
	Activate(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.SupplierResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.SupplierResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CustomerHandler serves /partner/customers
type CustomerHandler struct {
	BaseHandler
	customerService CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create handles POST /partner/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	customer, err := h.customerService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID handles GET /partner/customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.customerService.GetByID)
}

// List handles GET /partner/customers
func (h *CustomerHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter partnerapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	customers, total, err := h.customerService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, customers, total, page, size)
}

// Update handles PUT /partner/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Activate handles POST /partner/customers/:id/activate
func (h *CustomerHandler) Activate(c *gin.Context) {
	byID(&h.BaseHandler, c, h.customerService.Activate)
}

// Deactivate handles POST /partner/customers/:id/deactivate
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	byID(&h.BaseHandler, c, h.customerService.Deactivate)
}


// Delete handles DELETE /partner/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.customerService.Delete)
}

// SupplierHandler serves /partner/suppliers
type SupplierHandler struct {
	BaseHandler
	supplierService SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierService SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// Create handles POST /partner/suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req partnerapp.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	supplier, err := h.supplierService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// GetByID handles GET /partner/suppliers/:id
func (h *SupplierHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.supplierService.GetByID)
}

// List handles GET /partner/suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter partnerapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	suppliers, total, err := h.supplierService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, suppliers, total, page, size)
}

// Update handles PUT /partner/suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Activate handles POST /partner/suppliers/:id/activate
func (h *SupplierHandler) Activate(c *gin.Context) {
	byID(&h.BaseHandler, c, h.supplierService.Activate)
}

// Deactivate handles POST /partner/suppliers/:id/deactivate
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	byID(&h.BaseHandler, c, h.supplierService.Deactivate)
}


// Delete handles DELETE /partner/suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.supplierService.Delete)
}
