package invoicing

import (
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// =============================================================================
// Shared DTOs
// =============================================================================

// LineRequest is one priced line of an invoice or order
type LineRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

func toLineInputs(lines []LineRequest) []invoicing.LineInput {
	out := make([]invoicing.LineInput, len(lines))
	for i, l := range lines {
		out[i] = invoicing.LineInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
		}
	}
	return out
}

// LineResponse is a computed line in API responses
type LineResponse struct {
	ID           uuid.UUID       `json:"id"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineTax      decimal.Decimal `json:"line_tax"`
	LineTotal    decimal.Decimal `json:"line_total"`
	SortOrder    int             `json:"sort_order"`
}

func toLineResponse(l invoicing.LineItem) LineResponse {
	return LineResponse{
		ID:           l.ID,
		Description:  l.Description,
		Quantity:     l.Quantity,
		UnitPrice:    l.UnitPrice,
		TaxRate:      l.TaxRate,
		LineSubtotal: l.LineSubtotal,
		LineTax:      l.LineTax,
		LineTotal:    l.LineTotal,
		SortOrder:    l.SortOrder,
	}
}

// PaymentRequest records a payment against an invoice
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt *time.Time      `json:"paid_at"`
}

// ListFilter holds query parameters for document lists
type ListFilter struct {
	Search    string     `form:"search" binding:"max=100"`
	Status    string     `form:"status" binding:"max=20"`
	PartnerID *uuid.UUID `form:"partner_id"`
	DateFrom  string     `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo    string     `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page      int        `form:"page" binding:"min=0,max=100000"`
	PageSize  int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy   string     `form:"order_by" binding:"max=50"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toDomain(partnerColumn string) shared.Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if f.OrderDir == "" {
		f.OrderDir = "desc"
	}
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]any),
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.PartnerID != nil {
		filter.Filters[partnerColumn] = *f.PartnerID
	}
	if d, err := time.Parse(DateLayout, f.DateFrom); err == nil {
		filter.Filters["date_from"] = d
	}
	if d, err := time.Parse(DateLayout, f.DateTo); err == nil {
		filter.Filters["date_to"] = d
	}
	return filter
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", field+" must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

// =============================================================================
// Sales invoice DTOs
// =============================================================================

// SalesInvoiceRequest creates or replaces a draft sales invoice
type SalesInvoiceRequest struct {
	CustomerID uuid.UUID     `json:"customer_id" binding:"required"`
	IssueDate  string        `json:"issue_date" binding:"required,datetime=2006-01-02"`
	DueDate    string        `json:"due_date" binding:"required,datetime=2006-01-02"`
	Currency   string        `json:"currency" binding:"omitempty,currency"`
	Notes      string        `json:"notes" binding:"max=2000"`
	Items      []LineRequest `json:"items" binding:"required,min=1,dive"`
	CreatedBy  uuid.UUID     `json:"-"`
}

func (r SalesInvoiceRequest) header(defaultCurrency string) (invoicing.SalesInvoiceHeader, error) {
	issue, err := parseDate("issue_date", r.IssueDate)
	if err != nil {
		return invoicing.SalesInvoiceHeader{}, err
	}
	due, err := parseDate("due_date", r.DueDate)
	if err != nil {
		return invoicing.SalesInvoiceHeader{}, err
	}
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return invoicing.SalesInvoiceHeader{
		CustomerID: r.CustomerID,
		IssueDate:  issue,
		DueDate:    due,
		Currency:   currency,
		Notes:      r.Notes,
	}, nil
}

// SalesInvoiceResponse represents a sales invoice in API responses
type SalesInvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	Status        string          `json:"status"`
	Currency      string          `json:"currency"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	Notes         string          `json:"notes"`
	SentAt        *time.Time      `json:"sent_at,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	Items         []LineResponse  `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToSalesInvoiceResponse converts a domain SalesInvoice
func ToSalesInvoiceResponse(inv *invoicing.SalesInvoice) SalesInvoiceResponse {
	items := make([]LineResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = toLineResponse(it.LineItem)
	}
	return SalesInvoiceResponse{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		IssueDate:     inv.IssueDate.Format(DateLayout),
		DueDate:       inv.DueDate.Format(DateLayout),
		Status:        string(inv.Status),
		Currency:      inv.Currency,
		Subtotal:      inv.Subtotal,
		TaxTotal:      inv.TaxTotal,
		Total:         inv.Total,
		AmountPaid:    inv.AmountPaid,
		AmountDue:     inv.AmountDue(),
		Notes:         inv.Notes,
		SentAt:        inv.SentAt,
		PaidAt:        inv.PaidAt,
		CancelledAt:   inv.CancelledAt,
		Items:         items,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Version:       inv.Version,
	}
}

// ToSalesInvoiceResponses converts a slice of sales invoices
func ToSalesInvoiceResponses(invoices []invoicing.SalesInvoice) []SalesInvoiceResponse {
	out := make([]SalesInvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToSalesInvoiceResponse(&invoices[i])
	}
	return out
}

// =============================================================================
// Supplier invoice DTOs
// =============================================================================

// SupplierInvoiceRequest creates or replaces a pending supplier invoice
type SupplierInvoiceRequest struct {
	InvoiceNumber   string        `json:"invoice_number" binding:"required,min=1,max=100"`
	SupplierID      uuid.UUID     `json:"supplier_id" binding:"required"`
	PurchaseOrderID *uuid.UUID    `json:"purchase_order_id"`
	IssueDate       string        `json:"issue_date" binding:"required,datetime=2006-01-02"`
	DueDate         string        `json:"due_date" binding:"required,datetime=2006-01-02"`
	Currency        string        `json:"currency" binding:"omitempty,currency"`
	Notes           string        `json:"notes" binding:"max=2000"`
	Items           []LineRequest `json:"items" binding:"required,min=1,dive"`
	CreatedBy       uuid.UUID     `json:"-"`
}

func (r SupplierInvoiceRequest) header(defaultCurrency string) (invoicing.SupplierInvoiceHeader, error) {
	issue, err := parseDate("issue_date", r.IssueDate)
	if err != nil {
		return invoicing.SupplierInvoiceHeader{}, err
	}
	due, err := parseDate("due_date", r.DueDate)
	if err != nil {
		return invoicing.SupplierInvoiceHeader{}, err
	}
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return invoicing.SupplierInvoiceHeader{
		InvoiceNumber:   r.InvoiceNumber,
		SupplierID:      r.SupplierID,
		PurchaseOrderID: r.PurchaseOrderID,
		IssueDate:       issue,
		DueDate:         due,
		Currency:        currency,
		Notes:           r.Notes,
	}, nil
}

// SupplierInvoiceResponse represents a supplier invoice in API responses
type SupplierInvoiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order_id,omitempty"`
	IssueDate       string          `json:"issue_date"`
	DueDate         string          `json:"due_date"`
	Status          string          `json:"status"`
	Currency        string          `json:"currency"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxTotal        decimal.Decimal `json:"tax_total"`
	Total           decimal.Decimal `json:"total"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	Notes           string          `json:"notes"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	Items           []LineResponse  `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ToSupplierInvoiceResponse converts a domain SupplierInvoice
func ToSupplierInvoiceResponse(inv *invoicing.SupplierInvoice) SupplierInvoiceResponse {
	items := make([]LineResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = toLineResponse(it.LineItem)
	}
	return SupplierInvoiceResponse{
		ID:              inv.ID,
		TenantID:        inv.TenantID,
		InvoiceNumber:   inv.InvoiceNumber,
		SupplierID:      inv.SupplierID,
		PurchaseOrderID: inv.PurchaseOrderID,
		IssueDate:       inv.IssueDate.Format(DateLayout),
		DueDate:         inv.DueDate.Format(DateLayout),
		Status:          string(inv.Status),
		Currency:        inv.Currency,
		Subtotal:        inv.Subtotal,
		TaxTotal:        inv.TaxTotal,
		Total:           inv.Total,
		AmountPaid:      inv.AmountPaid,
		AmountDue:       inv.AmountDue(),
		Notes:           inv.Notes,
		ApprovedAt:      inv.ApprovedAt,
		PaidAt:          inv.PaidAt,
		CancelledAt:     inv.CancelledAt,
		Items:           items,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Version:         inv.Version,
	}
}

// ToSupplierInvoiceResponses converts a slice of supplier invoices
func ToSupplierInvoiceResponses(invoices []invoicing.SupplierInvoice) []SupplierInvoiceResponse {
	out := make([]SupplierInvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToSupplierInvoiceResponse(&invoices[i])
	}
	return out
}

// =============================================================================
// Purchase order DTOs
// =============================================================================

// PurchaseOrderRequest creates or replaces a draft purchase order
type PurchaseOrderRequest struct {
	SupplierID   uuid.UUID     `json:"supplier_id" binding:"required"`
	OrderDate    string        `json:"order_date" binding:"required,datetime=2006-01-02"`
	ExpectedDate string        `json:"expected_date" binding:"omitempty,datetime=2006-01-02"`
	Currency     string        `json:"currency" binding:"omitempty,currency"`
	Notes        string        `json:"notes" binding:"max=2000"`
	Items        []LineRequest `json:"items" binding:"required,min=1,dive"`
	CreatedBy    uuid.UUID     `json:"-"`
}

func (r PurchaseOrderRequest) header(defaultCurrency string) (invoicing.PurchaseOrderHeader, error) {
	orderDate, err := parseDate("order_date", r.OrderDate)
	if err != nil {
		return invoicing.PurchaseOrderHeader{}, err
	}
	var expected *time.Time
	if r.ExpectedDate != "" {
		d, err := parseDate("expected_date", r.ExpectedDate)
		if err != nil {
			return invoicing.PurchaseOrderHeader{}, err
		}
		expected = &d
	}
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return invoicing.PurchaseOrderHeader{
		SupplierID:   r.SupplierID,
		OrderDate:    orderDate,
		ExpectedDate: expected,
		Currency:     currency,
		Notes:        r.Notes,
	}, nil
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	OrderNumber  string          `json:"order_number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	OrderDate    string          `json:"order_date"`
	ExpectedDate string          `json:"expected_date,omitempty"`
	Status       string          `json:"status"`
	Currency     string          `json:"currency"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxTotal     decimal.Decimal `json:"tax_total"`
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes"`
	SubmittedAt  *time.Time      `json:"submitted_at,omitempty"`
	ReceivedAt   *time.Time      `json:"received_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	Items        []LineResponse  `json:"items,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder
func ToPurchaseOrderResponse(po *invoicing.PurchaseOrder) PurchaseOrderResponse {
	items := make([]LineResponse, len(po.Items))
	for i, it := range po.Items {
		items[i] = toLineResponse(it.LineItem)
	}
	resp := PurchaseOrderResponse{
		ID:          po.ID,
		TenantID:    po.TenantID,
		OrderNumber: po.OrderNumber,
		SupplierID:  po.SupplierID,
		OrderDate:   po.OrderDate.Format(DateLayout),
		Status:      string(po.Status),
		Currency:    po.Currency,
		Subtotal:    po.Subtotal,
		TaxTotal:    po.TaxTotal,
		Total:       po.Total,
		Notes:       po.Notes,
		SubmittedAt: po.SubmittedAt,
		ReceivedAt:  po.ReceivedAt,
		CancelledAt: po.CancelledAt,
		Items:       items,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
		Version:     po.Version,
	}
	if po.ExpectedDate != nil {
		resp.ExpectedDate = po.ExpectedDate.Format(DateLayout)
	}
	return resp
}

// ToPurchaseOrderResponses converts a slice of purchase orders
func ToPurchaseOrderResponses(orders []invoicing.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return out
}
