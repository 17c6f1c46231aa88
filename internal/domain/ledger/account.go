package ledger

import (
	"strings"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountType is one of the five account classes of the chart of accounts
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Side is the normal balance side of an account
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// IsValid reports whether t is one of the five classes
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// NormalSide returns debit for assets and expenses, credit otherwise
func (t AccountType) NormalSide() Side {
	if t == AccountTypeAsset || t == AccountTypeExpense {
		return SideDebit
	}
	return SideCredit
}

// Account is a chart-of-accounts entry
type Account struct {
	shared.TenantAggregateRoot
	Code        string      `gorm:"type:varchar(20);not null" json:"code"`
	Name        string      `gorm:"type:varchar(200);not null" json:"name"`
	Type        AccountType `gorm:"type:varchar(20);not null" json:"type"`
	ParentID    *uuid.UUID  `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Description string      `gorm:"type:text" json:"description"`
	IsActive    bool        `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "ledger_accounts"
}

// NewAccount creates an active account. A parent, when given, must share the type.
func NewAccount(tenantID uuid.UUID, code, name string, accountType AccountType, parent *Account) (*Account, error) {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Account code must be 1 to 20 characters")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Account type must be asset, liability, equity, revenue or expense")
	}
	a := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Type:                accountType,
		IsActive:            true,
	}
	if err := a.rename(name); err != nil {
		return nil, err
	}
	if err := a.setParent(parent); err != nil {
		return nil, err
	}
	a.AddDomainEvent(NewAccountEvent(EventTypeAccountCreated, a))
	return a, nil
}

// Update changes the name, description and parent
func (a *Account) Update(name, description string, parent *Account) error {
	if err := a.rename(name); err != nil {
		return err
	}
	if err := a.setParent(parent); err != nil {
		return err
	}
	a.Description = description
	a.changed()
	return nil
}

// SetActive toggles whether new journal lines may use the account
func (a *Account) SetActive(active bool) {
	if a.IsActive == active {
		return
	}
	a.IsActive = active
	a.changed()
}

// MarkDeleted records the deletion event
func (a *Account) MarkDeleted() {
	a.AddDomainEvent(NewAccountEvent(EventTypeAccountDeleted, a))
}

func (a *Account) rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Account name must be 1 to 200 characters")
	}
	a.Name = name
	return nil
}

func (a *Account) setParent(parent *Account) error {
	if parent == nil {
		a.ParentID = nil
		return nil
	}
	if parent.ID == a.ID {
		return shared.NewDomainError("INVALID_PARENT", "An account cannot be its own parent")
	}
	if parent.Type != a.Type {
		return shared.NewDomainError("INVALID_PARENT", "Parent account must have the same type")
	}
	id := parent.ID
	a.ParentID = &id
	return nil
}

func (a *Account) changed() {
	a.Touch()
	a.AddDomainEvent(NewAccountEvent(EventTypeAccountUpdated, a))
}
