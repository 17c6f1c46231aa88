package invoicing

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/invoicing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// InvoicePrinter renders an invoice document to PDF
type InvoicePrinter interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// InvoiceDocument is the printable view of a sales invoice
type InvoiceDocument struct {
	Number    string
	Status    string
	IssueDate time.Time
	DueDate   time.Time
	Currency  string
	Locale    string
	Customer  InvoiceParty
	Lines     []invoicing.LineItem
	Subtotal  decimal.Decimal
	TaxTotal  decimal.Decimal
	Total     decimal.Decimal
	Paid      decimal.Decimal
	Due       decimal.Decimal
	Notes     string
}

// InvoiceParty is the billed party block of a printed invoice
type InvoiceParty struct {
	Code    string
	Name    string
	Email   string
	TaxID   string
	Address string
	City    string
	Country string
}

// NewInvoiceDocument builds the printable view of inv billed to c
func NewInvoiceDocument(inv *invoicing.SalesInvoice, c *partner.Customer, locale string) InvoiceDocument {
	lines := make([]invoicing.LineItem, len(inv.Items))
	for i, it := range inv.Items {
		lines[i] = it.LineItem
	}
	return InvoiceDocument{
		Number:    inv.InvoiceNumber,
		Status:    string(inv.Status),
		IssueDate: inv.IssueDate,
		DueDate:   inv.DueDate,
		Currency:  inv.Currency,
		Locale:    locale,
		Customer: InvoiceParty{
			Code:    c.Code,
			Name:    c.Name,
			Email:   c.Email,
			TaxID:   c.TaxID,
			Address: c.Address,
			City:    c.City,
			Country: c.Country,
		},
		Lines:    lines,
		Subtotal: inv.Subtotal,
		TaxTotal: inv.TaxTotal,
		Total:    inv.Total,
		Paid:     inv.AmountPaid,
		Due:      inv.AmountDue(),
		Notes:    inv.Notes,
	}
}
