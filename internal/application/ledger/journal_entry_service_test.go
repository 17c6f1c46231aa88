package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/ledger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type journalFixture struct {
	entries  *MockJournalEntryRepository
	accounts *MockAccountRepository
	svc      *JournalEntryService
	cash     ledger.Account
	sales    ledger.Account
}

func newJournalFixture(tenantID uuid.UUID) *journalFixture {
	f := &journalFixture{
		entries:  new(MockJournalEntryRepository),
		accounts: new(MockAccountRepository),
	}
	f.svc = NewJournalEntryService(f.entries, f.accounts, newMemorySequences(), inlineTx{}, zap.NewNop())
	cash, _ := ledger.NewAccount(tenantID, "1000", "Cash", ledger.AccountTypeAsset, nil)
	sales, _ := ledger.NewAccount(tenantID, "4000", "Sales", ledger.AccountTypeRevenue, nil)
	f.cash, f.sales = *cash, *sales
	return f
}

func (f *journalFixture) request(debit, credit int64) JournalEntryRequest {
	return JournalEntryRequest{
		EntryDate:   "2026-03-15",
		Description: "Cash sale",
		Lines: []JournalLineRequest{
			{AccountID: f.cash.ID, Debit: decimal.NewFromInt(debit)},
			{AccountID: f.sales.ID, Credit: decimal.NewFromInt(credit)},
		},
	}
}

func TestJournalEntryService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("numbers entries per year", func(t *testing.T) {
		f := newJournalFixture(tenantID)
		f.accounts.On("FindByIDs", ctx, tenantID, []uuid.UUID{f.cash.ID, f.sales.ID}).Return([]ledger.Account{f.cash, f.sales}, nil)
		f.entries.On("Save", ctx, mock.AnythingOfType("*ledger.JournalEntry")).Return(nil)

		first, err := f.svc.Create(ctx, tenantID, f.request(100, 100))
		require.NoError(t, err)
		second, err := f.svc.Create(ctx, tenantID, f.request(50, 50))
		require.NoError(t, err)

		assert.Equal(t, "JE-2026-00001", first.EntryNumber)
		assert.Equal(t, "JE-2026-00002", second.EntryNumber)
		assert.Equal(t, "draft", first.Status)
		assert.True(t, first.Balanced)
	})

	t.Run("unbalanced drafts are allowed", func(t *testing.T) {
		f := newJournalFixture(tenantID)
		f.accounts.On("FindByIDs", ctx, tenantID, mock.Anything).Return([]ledger.Account{f.cash, f.sales}, nil)
		f.entries.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.svc.Create(ctx, tenantID, f.request(100, 90))
		require.NoError(t, err)
		assert.False(t, resp.Balanced)
	})

	t.Run("rejects unknown account", func(t *testing.T) {
		f := newJournalFixture(tenantID)
		f.accounts.On("FindByIDs", ctx, tenantID, mock.Anything).Return([]ledger.Account{f.cash}, nil)

		_, err := f.svc.Create(ctx, tenantID, f.request(100, 100))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ACCOUNT", domainErr.Code)
		f.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects inactive account", func(t *testing.T) {
		f := newJournalFixture(tenantID)
		f.sales.IsActive = false
		f.accounts.On("FindByIDs", ctx, tenantID, mock.Anything).Return([]ledger.Account{f.cash, f.sales}, nil)

		_, err := f.svc.Create(ctx, tenantID, f.request(100, 100))
		assert.Error(t, err)
	})
}

func TestJournalEntryService_PostAndVoid(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newJournalFixture(tenantID)

	unbalanced, err := ledger.NewJournalEntry(tenantID, "JE-2026-00001", time.Now(), "", "", []ledger.JournalLineInput{
		{AccountID: f.cash.ID, Debit: decimal.NewFromInt(10)},
		{AccountID: f.sales.ID, Credit: decimal.NewFromInt(9)},
	})
	require.NoError(t, err)
	f.entries.On("FindByIDForTenant", ctx, tenantID, unbalanced.ID).Return(unbalanced, nil)

	_, err = f.svc.Post(ctx, tenantID, unbalanced.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNBALANCED_ENTRY", domainErr.Code)

	balanced, err := ledger.NewJournalEntry(tenantID, "JE-2026-00002", time.Now(), "", "", []ledger.JournalLineInput{
		{AccountID: f.cash.ID, Debit: decimal.NewFromInt(10)},
		{AccountID: f.sales.ID, Credit: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	f.entries.On("FindByIDForTenant", ctx, tenantID, balanced.ID).Return(balanced, nil)
	f.entries.On("Save", ctx, balanced).Return(nil)

	posted, err := f.svc.Post(ctx, tenantID, balanced.ID)
	require.NoError(t, err)
	assert.Equal(t, "posted", posted.Status)

	f.accounts.On("FindByIDs", ctx, tenantID, mock.Anything).Return([]ledger.Account{f.cash, f.sales}, nil)
	_, err = f.svc.Update(ctx, tenantID, balanced.ID, f.request(10, 10))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Error(t, f.svc.Delete(ctx, tenantID, balanced.ID))

	voided, err := f.svc.Void(ctx, tenantID, balanced.ID)
	require.NoError(t, err)
	assert.Equal(t, "void", voided.Status)
}

func TestTrialBalanceService_Compute(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entries := new(MockJournalEntryRepository)
	accounts := new(MockAccountRepository)
	svc := NewTrialBalanceService(entries, accounts)

	cash, _ := ledger.NewAccount(tenantID, "1000", "Cash", ledger.AccountTypeAsset, nil)
	sales, _ := ledger.NewAccount(tenantID, "4000", "Sales", ledger.AccountTypeRevenue, nil)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	entries.On("PostedTotals", ctx, tenantID, from, to).Return([]ledger.AccountTotals{
		{AccountID: sales.ID, Debit: decimal.Zero, Credit: decimal.NewFromInt(250)},
		{AccountID: cash.ID, Debit: decimal.NewFromInt(250), Credit: decimal.Zero},
	}, nil)
	accounts.On("FindByIDs", ctx, tenantID, []uuid.UUID{sales.ID, cash.ID}).Return([]ledger.Account{*cash, *sales}, nil)

	tb, err := svc.Compute(ctx, tenantID, TrialBalanceQuery{From: "2026-01-01", To: "2026-03-31"})
	require.NoError(t, err)
	require.Len(t, tb.Lines, 2)
	assert.Equal(t, "1000", tb.Lines[0].Code)
	assert.True(t, tb.Lines[0].Balance.Equal(decimal.NewFromInt(250)))
	assert.True(t, tb.Lines[1].Balance.Equal(decimal.NewFromInt(250)))
	assert.True(t, tb.Balanced)

	_, err = svc.Compute(ctx, tenantID, TrialBalanceQuery{From: "2026-03-31", To: "2026-01-01"})
	assert.Error(t, err)
}

func TestTrialBalanceService_View(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entries := new(MockJournalEntryRepository)
	accounts := new(MockAccountRepository)
	svc := NewTrialBalanceService(entries, accounts)

	cash, _ := ledger.NewAccount(tenantID, "1000", "Cash", ledger.AccountTypeAsset, nil)
	bank, _ := ledger.NewAccount(tenantID, "1100", "Bank", ledger.AccountTypeAsset, nil)
	sales, _ := ledger.NewAccount(tenantID, "4000", "Sales", ledger.AccountTypeRevenue, nil)
	entries.On("PostedTotals", ctx, tenantID, mock.Anything, mock.Anything).Return([]ledger.AccountTotals{
		{AccountID: cash.ID, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
		{AccountID: bank.ID, Debit: decimal.NewFromInt(150), Credit: decimal.Zero},
		{AccountID: sales.ID, Debit: decimal.Zero, Credit: decimal.NewFromInt(250)},
	}, nil)
	accounts.On("FindByIDs", ctx, tenantID, mock.Anything).Return([]ledger.Account{*cash, *bank, *sales}, nil)

	base := TrialBalanceQuery{From: "2026-01-01", To: "2026-03-31"}
	codes := func(v *TrialBalanceView) []string {
		out := make([]string, len(v.Lines))
		for i, l := range v.Lines {
			out[i] = l.Code
		}
		return out
	}

	t.Run("without a page every line is returned", func(t *testing.T) {
		v, err := svc.View(ctx, tenantID, base)
		require.NoError(t, err)
		assert.Equal(t, []string{"1000", "1100", "4000"}, codes(v))
		assert.Nil(t, v.Meta)
	})

	t.Run("search narrows lines but not totals", func(t *testing.T) {
		q := base
		q.Search = "ASSET"
		v, err := svc.View(ctx, tenantID, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"1000", "1100"}, codes(v))
		assert.True(t, v.TotalDebit.Equal(decimal.NewFromInt(250)))
		assert.True(t, v.Balanced)
	})

	t.Run("orders and pages", func(t *testing.T) {
		q := base
		q.OrderBy, q.OrderDir, q.Page, q.PageSize = "name", "asc", 1, 2
		v, err := svc.View(ctx, tenantID, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"1100", "1000"}, codes(v))
		require.NotNil(t, v.Meta)
		assert.Equal(t, 3, v.Meta.Total)
		assert.Equal(t, 2, v.Meta.TotalPages)

		q.OrderBy, q.OrderDir, q.Page = "", "desc", 2
		v, err = svc.View(ctx, tenantID, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"1000"}, codes(v))
	})

	t.Run("page far past the end is empty", func(t *testing.T) {
		q := base
		q.Page, q.PageSize = 100000, 500
		v, err := svc.View(ctx, tenantID, q)
		require.NoError(t, err)
		assert.Empty(t, v.Lines)
	})
}
