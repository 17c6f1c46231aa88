package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	invoicingapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/invoicing"
	ledgerapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/ledger"
	partnerapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/view"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/ledger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sources are the list operations exports read from
type Sources struct {
	Customers interface {
		ListAll(ctx context.Context, tenantID uuid.UUID, filter partnerapp.ListFilter) ([]partnerapp.CustomerResponse, error)
	}
	Suppliers interface {
		ListAll(ctx context.Context, tenantID uuid.UUID, filter partnerapp.ListFilter) ([]partnerapp.SupplierResponse, error)
	}
	SalesInvoices interface {
		ListAll(ctx context.Context, tenantID uuid.UUID, filter invoicingapp.ListFilter) ([]invoicingapp.SalesInvoiceResponse, error)
	}
	SupplierInvoices interface {
		ListAll(ctx context.Context, tenantID uuid.UUID, filter invoicingapp.ListFilter) ([]invoicingapp.SupplierInvoiceResponse, error)
	}
	PurchaseOrders interface {
		ListAll(ctx context.Context, tenantID uuid.UUID, filter invoicingapp.ListFilter) ([]invoicingapp.PurchaseOrderResponse, error)
	}
	JournalEntries interface {
		ListAll(ctx context.Context, tenantID uuid.UUID, filter ledgerapp.JournalListFilter) ([]ledgerapp.JournalEntryResponse, error)
	}
	Accounts interface {
		ListAll(ctx context.Context, tenantID uuid.UUID, filter ledgerapp.AccountListFilter) ([]ledgerapp.AccountResponse, error)
	}
	TrialBalance interface {
		Compute(ctx context.Context, tenantID uuid.UUID, q ledgerapp.TrialBalanceQuery) (*ledger.TrialBalance, error)
	}
}

// Request describes one export
type Request struct {
	Resource Resource `uri:"resource" binding:"required"`
	Format   Format   `form:"format" binding:"omitempty,oneof=csv xlsx"`
	Search   string   `form:"search" binding:"max=100"`
	Archive  bool     `form:"archive"`
	// From and To bound the trial balance
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// Result is either an in-memory file or, when archived, a download link
type Result struct {
	FileName    string
	ContentType string
	Body        []byte
	RowCount    int
	URL         string
	ExpiresAt   time.Time
}

// Service builds CSV and XLSX exports of list views
type Service struct {
	sources  Sources
	encoders map[Format]Encoder
	archiver Archiver
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates an export Service. archiver may be nil when object
// storage is not configured.
func NewService(sources Sources, encoders []Encoder, archiver Archiver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	byFormat := make(map[Format]Encoder, len(encoders))
	for _, e := range encoders {
		byFormat[e.Format()] = e
	}
	return &Service{
		sources:  sources,
		encoders: byFormat,
		archiver: archiver,
		logger:   logger,
		now:      time.Now,
	}
}

// CanArchive reports whether archived exports are available
func (s *Service) CanArchive() bool {
	return s.archiver != nil
}

// Export builds the file for req
func (s *Service) Export(ctx context.Context, tenantID uuid.UUID, req Request) (*Result, error) {
	if !IsResource(req.Resource) {
		return nil, shared.NewDomainError("INVALID_RESOURCE", fmt.Sprintf("Cannot export %q", req.Resource))
	}
	format := req.Format
	if format == "" {
		format = FormatCSV
	}
	encoder, ok := s.encoders[format]
	if !ok {
		return nil, shared.NewDomainError("INVALID_FORMAT", fmt.Sprintf("Unsupported export format %q", format))
	}
	if req.Archive && s.archiver == nil {
		return nil, shared.NewDomainError("ARCHIVE_UNAVAILABLE", "Object storage is not configured")
	}

	table, err := s.Table(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, table); err != nil {
		return nil, fmt.Errorf("failed to encode %s export: %w", format, err)
	}

	now := s.now()
	result := &Result{
		FileName:    fmt.Sprintf("%s-%s.%s", req.Resource, now.Format("20060102-150405"), format),
		ContentType: encoder.ContentType(),
		Body:        buf.Bytes(),
		RowCount:    len(table.Rows),
	}

	if req.Archive {
		key := fmt.Sprintf("exports/%s/%s", tenantID, result.FileName)
		url, expiresAt, err := s.archiver.Archive(ctx, key, result.ContentType, result.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to archive export: %w", err)
		}
		result.URL = url
		result.ExpiresAt = expiresAt
		result.Body = nil
	}

	s.logger.Info("export built",
		zap.String("tenant_id", tenantID.String()),
		zap.String("resource", string(req.Resource)),
		zap.String("format", string(format)),
		zap.Int("rows", result.RowCount),
		zap.Bool("archived", req.Archive))
	return result, nil
}

// Table loads the records of req.Resource, filtered by req.Search, as rows
// in Columns order
func (s *Service) Table(ctx context.Context, tenantID uuid.UUID, req Request) (*Table, error) {
	rows, err := s.rows(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	return &Table{
		Sheet:   sheetName(req.Resource),
		Columns: Columns(req.Resource),
		Rows:    rows,
	}, nil
}

func (s *Service) rows(ctx context.Context, tenantID uuid.UUID, req Request) ([][]any, error) {
	switch req.Resource {
	case ResourceCustomers:
		list, err := s.sources.Customers.ListAll(ctx, tenantID, partnerapp.ListFilter{Search: req.Search})
		return mapRows(list, customerRow), err
	case ResourceSuppliers:
		list, err := s.sources.Suppliers.ListAll(ctx, tenantID, partnerapp.ListFilter{Search: req.Search})
		return mapRows(list, supplierRow), err
	case ResourceSalesInvoices:
		list, err := s.sources.SalesInvoices.ListAll(ctx, tenantID, invoicingapp.ListFilter{Search: req.Search})
		return mapRows(list, salesInvoiceRow), err
	case ResourceSupplierInvoices:
		list, err := s.sources.SupplierInvoices.ListAll(ctx, tenantID, invoicingapp.ListFilter{Search: req.Search})
		return mapRows(list, supplierInvoiceRow), err
	case ResourcePurchaseOrders:
		list, err := s.sources.PurchaseOrders.ListAll(ctx, tenantID, invoicingapp.ListFilter{Search: req.Search})
		return mapRows(list, purchaseOrderRow), err
	case ResourceJournalEntries:
		list, err := s.sources.JournalEntries.ListAll(ctx, tenantID, ledgerapp.JournalListFilter{Search: req.Search})
		return mapRows(list, journalEntryRow), err
	case ResourceAccounts:
		list, err := s.sources.Accounts.ListAll(ctx, tenantID, ledgerapp.AccountListFilter{Search: req.Search})
		return mapRows(list, accountRow), err
	case ResourceTrialBalance:
		return s.trialBalanceRows(ctx, tenantID, req)
	}
	return nil, shared.NewDomainError("INVALID_RESOURCE", fmt.Sprintf("Cannot export %q", req.Resource))
}

// trialBalanceRows defaults to the current year to date. The trial balance
// is computed in memory, so the search filter is applied here.
func (s *Service) trialBalanceRows(ctx context.Context, tenantID uuid.UUID, req Request) ([][]any, error) {
	now := s.now()
	q := ledgerapp.TrialBalanceQuery{From: req.From, To: req.To}
	if q.From == "" {
		q.From = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()).Format(ledgerapp.DateLayout)
	}
	if q.To == "" {
		q.To = now.Format(ledgerapp.DateLayout)
	}
	tb, err := s.sources.TrialBalance.Compute(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}
	lines := view.FilterSlice(tb.Lines, req.Search, ledgerapp.TrialBalanceSearchFields)
	return mapRows(lines, trialBalanceRow), nil
}

func mapRows[T any](items []T, row func(T) []any) [][]any {
	out := make([][]any, len(items))
	for i, item := range items {
		out[i] = row(item)
	}
	return out
}

func sheetName(r Resource) string {
	switch r {
	case ResourceCustomers:
		return "Customers"
	case ResourceSuppliers:
		return "Suppliers"
	case ResourceSalesInvoices:
		return "Sales Invoices"
	case ResourceSupplierInvoices:
		return "Supplier Invoices"
	case ResourcePurchaseOrders:
		return "Purchase Orders"
	case ResourceJournalEntries:
		return "Journal Entries"
	case ResourceAccounts:
		return "Chart of Accounts"
	case ResourceTrialBalance:
		return "Trial Balance"
	}
	return "Export"
}
