package ledger

import (
	"testing"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAccountType_NormalSide(t *testing.T) {
	assert.Equal(t, SideDebit, AccountTypeAsset.NormalSide())
	assert.Equal(t, SideDebit, AccountTypeExpense.NormalSide())
	assert.Equal(t, SideCredit, AccountTypeLiability.NormalSide())
	assert.Equal(t, SideCredit, AccountTypeEquity.NormalSide())
	assert.Equal(t, SideCredit, AccountTypeRevenue.NormalSide())
	assert.False(t, AccountType("cash").IsValid())
}

func TestNewAccount_ParentMustShareType(t *testing.T) {
	tenantID := uuid.New()
	assets, err := NewAccount(tenantID, "1000", "Assets", AccountTypeAsset, nil)
	require.NoError(t, err)

	bank, err := NewAccount(tenantID, "1010", "Bank", AccountTypeAsset, assets)
	require.NoError(t, err)
	require.NotNil(t, bank.ParentID)
	assert.Equal(t, assets.ID, *bank.ParentID)

	_, err = NewAccount(tenantID, "4000", "Sales", AccountTypeRevenue, assets)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PARENT", domainErr.Code)
}

func TestJournalEntry_Validation(t *testing.T) {
	tenantID := uuid.New()
	a, b := uuid.New(), uuid.New()
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewJournalEntry(tenantID, "JE-1", date, "", "", []JournalLineInput{{AccountID: a, Debit: d(1)}})
	assert.Error(t, err, "single line")

	_, err = NewJournalEntry(tenantID, "JE-1", date, "", "", []JournalLineInput{
		{AccountID: a, Debit: d(1), Credit: d(1)},
		{AccountID: b, Credit: d(1)},
	})
	assert.Error(t, err, "both sides on one line")

	_, err = NewJournalEntry(tenantID, "JE-1", date, "", "", []JournalLineInput{
		{AccountID: a},
		{AccountID: b, Credit: d(1)},
	})
	assert.Error(t, err, "empty line")
}

func TestJournalEntry_PostRequiresBalance(t *testing.T) {
	tenantID := uuid.New()
	cash, sales := uuid.New(), uuid.New()
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	je, err := NewJournalEntry(tenantID, "JE-2026-00001", date, "Cash sale", "", []JournalLineInput{
		{AccountID: cash, Debit: d(100)},
		{AccountID: sales, Credit: d(90)},
	})
	require.NoError(t, err, "drafts may be unbalanced")
	assert.False(t, je.IsBalanced())

	err = je.Post(time.Now())
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNBALANCED_ENTRY", domainErr.Code)

	require.NoError(t, je.Update(date, "Cash sale", "R-1", []JournalLineInput{
		{AccountID: cash, Debit: d(100)},
		{AccountID: sales, Credit: d(100)},
	}))
	require.NoError(t, je.Post(time.Now()))
	assert.Equal(t, JournalPosted, je.Status)
	assert.Error(t, je.Update(date, "", "", nil))
	assert.Error(t, je.MarkDeleted())

	require.NoError(t, je.Void(time.Now()))
	assert.Equal(t, JournalVoid, je.Status)
	assert.ElementsMatch(t, []uuid.UUID{cash, sales}, je.AccountIDs())
}

func TestBuildTrialBalance(t *testing.T) {
	tenantID := uuid.New()
	cash, _ := NewAccount(tenantID, "1000", "Cash", AccountTypeAsset, nil)
	revenue, _ := NewAccount(tenantID, "4000", "Sales", AccountTypeRevenue, nil)
	rent, _ := NewAccount(tenantID, "6000", "Rent", AccountTypeExpense, nil)
	idle, _ := NewAccount(tenantID, "9000", "Idle", AccountTypeEquity, nil)

	tb := BuildTrialBalance(time.Time{}, time.Now(),
		[]Account{*rent, *cash, *revenue, *idle},
		[]AccountTotals{
			{AccountID: revenue.ID, Debit: d(0), Credit: d(500)},
			{AccountID: cash.ID, Debit: d(500), Credit: d(200)},
			{AccountID: rent.ID, Debit: d(200), Credit: d(0)},
			{AccountID: idle.ID, Debit: d(0), Credit: d(0)},
		})

	require.Len(t, tb.Lines, 3)
	assert.Equal(t, "1000", tb.Lines[0].Code)
	assert.Equal(t, "4000", tb.Lines[1].Code)
	assert.Equal(t, "6000", tb.Lines[2].Code)

	assert.True(t, tb.Lines[0].Balance.Equal(d(300)))
	assert.True(t, tb.Lines[1].Balance.Equal(d(500)))
	assert.Equal(t, SideCredit, tb.Lines[1].NormalSide)
	assert.True(t, tb.Lines[2].Balance.Equal(d(200)))

	assert.True(t, tb.TotalDebit.Equal(d(700)))
	assert.True(t, tb.TotalCredit.Equal(d(700)))
	assert.True(t, tb.Balanced)
}

func TestBuildTrialBalance_Unbalanced(t *testing.T) {
	tb := BuildTrialBalance(time.Time{}, time.Now(), nil, []AccountTotals{
		{AccountID: uuid.New(), Debit: d(10)},
	})
	assert.False(t, tb.Balanced)
	assert.Equal(t, "Unknown account", tb.Lines[0].Name)
}
