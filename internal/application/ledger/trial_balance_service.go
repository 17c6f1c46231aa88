package ledger

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/view"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/ledger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// TrialBalanceService computes trial balances from posted journal lines
type TrialBalanceService struct {
	entryRepo   ledger.JournalEntryRepository
	accountRepo ledger.AccountRepository
}

// NewTrialBalanceService creates a new TrialBalanceService
func NewTrialBalanceService(entryRepo ledger.JournalEntryRepository, accountRepo ledger.AccountRepository) *TrialBalanceService {
	return &TrialBalanceService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
	}
}

// Compute returns per-account posted totals for the inclusive date range
func (s *TrialBalanceService) Compute(ctx context.Context, tenantID uuid.UUID, query TrialBalanceQuery) (*ledger.TrialBalance, error) {
	from, err := parseDate("from", query.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDate("to", query.To)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "to must not be before from")
	}

	totals, err := s.entryRepo.PostedTotals(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(totals))
	for i, t := range totals {
		ids[i] = t.AccountID
	}
	var accounts []ledger.Account
	if len(ids) > 0 {
		accounts, err = s.accountRepo.FindByIDs(ctx, tenantID, ids)
		if err != nil {
			return nil, err
		}
	}
	tb := ledger.BuildTrialBalance(from, to, accounts, totals)
	return &tb, nil
}

// TrialBalanceView is a trial balance whose lines were narrowed by a query.
// Totals still cover every account in the period.
type TrialBalanceView struct {
	*ledger.TrialBalance
	Meta *view.PageMeta `json:"meta,omitempty"`
}

// View computes the trial balance and then filters, orders and pages its
// lines
func (s *TrialBalanceService) View(ctx context.Context, tenantID uuid.UUID, query TrialBalanceQuery) (*TrialBalanceView, error) {
	tb, err := s.Compute(ctx, tenantID, query)
	if err != nil {
		return nil, err
	}

	lines := view.FilterSlice(tb.Lines, query.Search, TrialBalanceSearchFields)
	desc := query.OrderDir == "desc"
	switch query.OrderBy {
	case "name":
		lines = view.SortSlice(lines, func(l ledger.TrialBalanceLine) string { return l.Name }, desc)
	case "type":
		lines = view.SortSlice(lines, func(l ledger.TrialBalanceLine) string { return string(l.Type) }, desc)
	default:
		if desc {
			lines = view.SortSlice(lines, func(l ledger.TrialBalanceLine) string { return l.Code }, true)
		}
	}

	out := &TrialBalanceView{TrialBalance: tb}
	if query.Page > 0 {
		page, meta := view.Paginate(lines, query.Page, query.PageSize)
		lines = page
		out.Meta = &meta
	}
	tb.Lines = lines
	return out, nil
}

// TrialBalanceSearchFields lists the text a trial balance search matches
func TrialBalanceSearchFields(l ledger.TrialBalanceLine) []string {
	return []string{l.Code, l.Name, string(l.Type)}
}
