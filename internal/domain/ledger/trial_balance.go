package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountTotals are the posted debit and credit sums of one account
type AccountTotals struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// TrialBalanceLine is one account row of a trial balance
type TrialBalanceLine struct {
	AccountID  uuid.UUID       `json:"account_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Type       AccountType     `json:"type"`
	NormalSide Side            `json:"normal_side"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Balance    decimal.Decimal `json:"balance"`
}

// TrialBalance lists posted activity per account over a period
type TrialBalance struct {
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Balanced    bool               `json:"balanced"`
}

// BuildTrialBalance joins account metadata with posted totals. Accounts
// without activity are omitted. Balance is measured on the account's normal
// side, so a debit-normal account with more credits shows a negative balance.
// Lines are ordered by account code.
func BuildTrialBalance(from, to time.Time, accounts []Account, totals []AccountTotals) TrialBalance {
	byID := make(map[uuid.UUID]Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	tb := TrialBalance{
		From:        from,
		To:          to,
		Lines:       make([]TrialBalanceLine, 0, len(totals)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, t := range totals {
		if t.Debit.IsZero() && t.Credit.IsZero() {
			continue
		}
		acct, ok := byID[t.AccountID]
		if !ok {
			acct = Account{Code: "?", Name: "Unknown account", Type: AccountTypeAsset}
			acct.ID = t.AccountID
		}
		side := acct.Type.NormalSide()
		balance := t.Debit.Sub(t.Credit)
		if side == SideCredit {
			balance = balance.Neg()
		}
		tb.Lines = append(tb.Lines, TrialBalanceLine{
			AccountID:  t.AccountID,
			Code:       acct.Code,
			Name:       acct.Name,
			Type:       acct.Type,
			NormalSide: side,
			Debit:      t.Debit,
			Credit:     t.Credit,
			Balance:    balance,
		})
		tb.TotalDebit = tb.TotalDebit.Add(t.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(t.Credit)
	}
	sort.SliceStable(tb.Lines, func(i, j int) bool {
		return tb.Lines[i].Code < tb.Lines[j].Code
	})
	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit)
	return tb
}
