package ledger

import (
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/ledger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// =============================================================================
// Account DTOs
// =============================================================================

// AccountListFilter holds query parameters for the chart of accounts
type AccountListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Type     string `form:"type" binding:"omitempty,oneof=asset liability equity revenue expense"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"min=0,max=100000"`
	PageSize int    `form:"page_size" binding:"min=0,max=500"`
	OrderBy  string `form:"order_by" binding:"max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f AccountListFilter) toDomain() shared.Filter {
	filter := pagedFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir, "code", "asc")
	filter.Search = f.Search
	if f.Type != "" {
		filter.Filters["type"] = f.Type
	}
	if f.IsActive != nil {
		filter.Filters["is_active"] = *f.IsActive
	}
	return filter
}

// CreateAccountRequest represents a request to add an account
type CreateAccountRequest struct {
	Code        string     `json:"code" binding:"required,min=1,max=20"`
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Type        string     `json:"type" binding:"required,oneof=asset liability equity revenue expense"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Description string     `json:"description" binding:"max=2000"`
	CreatedBy   uuid.UUID  `json:"-"`
}

// UpdateAccountRequest represents a request to edit an account
type UpdateAccountRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Description string     `json:"description" binding:"max=2000"`
	IsActive    *bool      `json:"is_active"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	NormalSide  string     `json:"normal_side"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// ToAccountResponse converts a domain Account
func ToAccountResponse(a *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		TenantID:    a.TenantID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        string(a.Type),
		NormalSide:  string(a.Type.NormalSide()),
		ParentID:    a.ParentID,
		Description: a.Description,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Version:     a.Version,
	}
}

// ToAccountResponses converts a slice of accounts
func ToAccountResponses(accounts []ledger.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}

// =============================================================================
// Journal entry DTOs
// =============================================================================

// JournalListFilter holds query parameters for journal entry lists
type JournalListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=draft posted void"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"min=0,max=100000"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by" binding:"max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f JournalListFilter) toDomain() shared.Filter {
	filter := pagedFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir, "entry_date", "desc")
	filter.Search = f.Search
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if d, err := time.Parse(DateLayout, f.DateFrom); err == nil {
		filter.Filters["date_from"] = d
	}
	if d, err := time.Parse(DateLayout, f.DateTo); err == nil {
		filter.Filters["date_to"] = d
	}
	return filter
}

// JournalLineRequest is one debit or credit line
type JournalLineRequest struct {
	AccountID uuid.UUID       `json:"account_id" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo" binding:"max=500"`
}

// JournalEntryRequest creates or replaces a draft journal entry
type JournalEntryRequest struct {
	EntryDate   string               `json:"entry_date" binding:"required,datetime=2006-01-02"`
	Description string               `json:"description" binding:"max=2000"`
	Reference   string               `json:"reference" binding:"max=100"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
	CreatedBy   uuid.UUID            `json:"-"`
}

func (r JournalEntryRequest) date() (time.Time, error) {
	return parseDate("entry_date", r.EntryDate)
}

func (r JournalEntryRequest) lineInputs() []ledger.JournalLineInput {
	out := make([]ledger.JournalLineInput, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = ledger.JournalLineInput{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return out
}

// JournalLineResponse represents a journal line in API responses
type JournalLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	SortOrder int             `json:"sort_order"`
}

// JournalEntryResponse represents a journal entry in API responses
type JournalEntryResponse struct {
	ID          uuid.UUID             `json:"id"`
	TenantID    uuid.UUID             `json:"tenant_id"`
	EntryNumber string                `json:"entry_number"`
	EntryDate   string                `json:"entry_date"`
	Description string                `json:"description"`
	Reference   string                `json:"reference"`
	Status      string                `json:"status"`
	TotalDebit  decimal.Decimal       `json:"total_debit"`
	TotalCredit decimal.Decimal       `json:"total_credit"`
	Balanced    bool                  `json:"balanced"`
	PostedAt    *time.Time            `json:"posted_at,omitempty"`
	VoidedAt    *time.Time            `json:"voided_at,omitempty"`
	Lines       []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Version     int                   `json:"version"`
}

// ToJournalEntryResponse converts a domain JournalEntry
func ToJournalEntryResponse(je *ledger.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(je.Lines))
	for i, l := range je.Lines {
		lines[i] = JournalLineResponse{
			ID:        l.ID,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
			SortOrder: l.SortOrder,
		}
	}
	return JournalEntryResponse{
		ID:          je.ID,
		TenantID:    je.TenantID,
		EntryNumber: je.EntryNumber,
		EntryDate:   je.EntryDate.Format(DateLayout),
		Description: je.Description,
		Reference:   je.Reference,
		Status:      string(je.Status),
		TotalDebit:  je.TotalDebit,
		TotalCredit: je.TotalCredit,
		Balanced:    je.IsBalanced(),
		PostedAt:    je.PostedAt,
		VoidedAt:    je.VoidedAt,
		Lines:       lines,
		CreatedAt:   je.CreatedAt,
		UpdatedAt:   je.UpdatedAt,
		Version:     je.Version,
	}
}

// ToJournalEntryResponses converts a slice of journal entries
func ToJournalEntryResponses(entries []ledger.JournalEntry) []JournalEntryResponse {
	out := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToJournalEntryResponse(&entries[i])
	}
	return out
}

// TrialBalanceQuery selects the period of a trial balance. Search, order
// and page only narrow the returned lines; without a page every line is
// returned.
type TrialBalanceQuery struct {
	From     string `form:"from" binding:"required,datetime=2006-01-02"`
	To       string `form:"to" binding:"required,datetime=2006-01-02"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=code name type"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1,max=100000"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

func pagedFilter(page, pageSize int, orderBy, orderDir, defaultOrder, defaultDir string) shared.Filter {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if orderBy == "" {
		orderBy = defaultOrder
	}
	if orderDir == "" {
		orderDir = defaultDir
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Filters:  make(map[string]any),
	}
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", field+" must be a date in YYYY-MM-DD format")
	}
	return d, nil
}
