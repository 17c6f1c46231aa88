package printing

import (
	"context"
	"html/template"

	invoicingapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/invoicing"
	"go.uber.org/zap"
)

const invoiceFooter = `<div style="font-size:8px;width:100%;text-align:center;color:#777;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// InvoicePrinter renders sales invoices to PDF through a PDFRenderer
type InvoicePrinter struct {
	renderer PDFRenderer
	engine   *TemplateEngine
	paper    PaperFormat
	template string
	logger   *zap.Logger
}

// InvoicePrinterOption configures an InvoicePrinter
type InvoicePrinterOption func(*InvoicePrinter)

// WithInvoiceTemplate replaces the built-in layout
func WithInvoiceTemplate(content string) InvoicePrinterOption {
	return func(p *InvoicePrinter) {
		p.template = content
	}
}

// NewInvoicePrinter creates an InvoicePrinter. An empty paper format selects A4.
func NewInvoicePrinter(renderer PDFRenderer, paper PaperFormat, logger *zap.Logger, opts ...InvoicePrinterOption) (*InvoicePrinter, error) {
	if paper == "" {
		paper = PaperA4
	}
	if !paper.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(paper), nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &InvoicePrinter{
		renderer: renderer,
		engine:   NewTemplateEngine(WithFuncs(template.FuncMap{"statusLabel": statusLabel})),
		paper:    paper,
		template: invoiceTemplate,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// RenderHTML produces the invoice page without printing it
func (p *InvoicePrinter) RenderHTML(doc invoicingapp.InvoiceDocument) (string, error) {
	return p.engine.RenderString("invoice", p.template, doc.Locale, doc)
}

// RenderInvoice renders the invoice to PDF bytes
func (p *InvoicePrinter) RenderInvoice(ctx context.Context, doc invoicingapp.InvoiceDocument) ([]byte, error) {
	html, err := p.RenderHTML(doc)
	if err != nil {
		return nil, err
	}

	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		Title:      "Invoice " + doc.Number,
		Paper:      p.paper,
		Margins:    DefaultMargins(),
		FooterHTML: invoiceFooter,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Debug("invoice printed",
		zap.String("invoice_number", doc.Number),
		zap.Int("pages", result.PageCount))
	return result.PDFData, nil
}

var _ invoicingapp.InvoicePrinter = (*InvoicePrinter)(nil)
