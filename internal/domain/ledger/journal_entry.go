package ledger

import (
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalStatus is the lifecycle state of a journal entry
type JournalStatus string

const (
	JournalDraft  JournalStatus = "draft"
	JournalPosted JournalStatus = "posted"
	JournalVoid   JournalStatus = "void"
)

// IsValid reports whether s is a known status
func (s JournalStatus) IsValid() bool {
	return s == JournalDraft || s == JournalPosted || s == JournalVoid
}

// JournalLineInput is a caller-supplied journal line
type JournalLineInput struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// JournalLine is one debit or credit posting
type JournalLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EntryID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"entry_id"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Debit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"debit"`
	Credit    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"credit"`
	Memo      string          `gorm:"type:varchar(500)" json:"memo"`
	SortOrder int             `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (JournalLine) TableName() string {
	return "journal_lines"
}

// JournalEntry is a double-entry transaction
type JournalEntry struct {
	shared.TenantAggregateRoot
	EntryNumber string          `gorm:"type:varchar(50);not null" json:"entry_number"`
	EntryDate   time.Time       `gorm:"type:date;not null;index" json:"entry_date"`
	Description string          `gorm:"type:text" json:"description"`
	Reference   string          `gorm:"type:varchar(100)" json:"reference"`
	Status      JournalStatus   `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	TotalDebit  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_debit"`
	TotalCredit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_credit"`
	PostedAt    *time.Time      `json:"posted_at,omitempty"`
	VoidedAt    *time.Time      `json:"voided_at,omitempty"`
	Lines       []JournalLine   `gorm:"foreignKey:EntryID;references:ID" json:"lines"`
}

// TableName returns the table name for GORM
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// NewJournalEntry creates a draft entry
func NewJournalEntry(tenantID uuid.UUID, number string, date time.Time, description, reference string, lines []JournalLineInput) (*JournalEntry, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Entry number cannot be empty")
	}
	je := &JournalEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntryNumber:         number,
		Status:              JournalDraft,
	}
	if err := je.set(date, description, reference, lines); err != nil {
		return nil, err
	}
	je.AddDomainEvent(NewJournalEntryEvent(EventTypeJournalEntryCreated, je))
	return je, nil
}

// Update replaces the content of a draft entry
func (je *JournalEntry) Update(date time.Time, description, reference string, lines []JournalLineInput) error {
	if je.Status != JournalDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft journal entries can be edited")
	}
	if err := je.set(date, description, reference, lines); err != nil {
		return err
	}
	je.changed()
	return nil
}

// IsBalanced reports whether total debits equal total credits
func (je *JournalEntry) IsBalanced() bool {
	return je.TotalDebit.Equal(je.TotalCredit)
}

// Post books a balanced draft. Posted entries are immutable.
func (je *JournalEntry) Post(at time.Time) error {
	if je.Status != JournalDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft journal entries can be posted")
	}
	if !je.IsBalanced() {
		return shared.NewDomainError("UNBALANCED_ENTRY", "Total debits must equal total credits")
	}
	je.Status = JournalPosted
	je.PostedAt = &at
	je.changed()
	return nil
}

// Void reverses a posted entry's effect on balances
func (je *JournalEntry) Void(at time.Time) error {
	if je.Status != JournalPosted {
		return shared.NewDomainError("INVALID_STATE", "Only posted journal entries can be voided")
	}
	je.Status = JournalVoid
	je.VoidedAt = &at
	je.changed()
	return nil
}

// MarkDeleted records the deletion event. Only drafts can be deleted.
func (je *JournalEntry) MarkDeleted() error {
	if je.Status != JournalDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft journal entries can be deleted")
	}
	je.AddDomainEvent(NewJournalEntryEvent(EventTypeJournalEntryDeleted, je))
	return nil
}

// AccountIDs returns the distinct accounts referenced by the lines
func (je *JournalEntry) AccountIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(je.Lines))
	ids := make([]uuid.UUID, 0, len(je.Lines))
	for _, l := range je.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

func (je *JournalEntry) set(date time.Time, description, reference string, inputs []JournalLineInput) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Entry date is required")
	}
	if len(inputs) < 2 {
		return shared.NewDomainError("INVALID_LINES", "A journal entry needs at least two lines")
	}
	lines := make([]JournalLine, 0, len(inputs))
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i, in := range inputs {
		if in.AccountID == uuid.Nil {
			return shared.NewDomainError("INVALID_ACCOUNT", "Every line needs an account")
		}
		if in.Debit.IsNegative() || in.Credit.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Debit and credit cannot be negative")
		}
		if in.Debit.IsPositive() == in.Credit.IsPositive() {
			return shared.NewDomainError("INVALID_AMOUNT", "Each line must have exactly one of debit or credit")
		}
		lines = append(lines, JournalLine{
			ID:        uuid.New(),
			EntryID:   je.ID,
			AccountID: in.AccountID,
			Debit:     in.Debit,
			Credit:    in.Credit,
			Memo:      in.Memo,
			SortOrder: i,
		})
		totalDebit = totalDebit.Add(in.Debit)
		totalCredit = totalCredit.Add(in.Credit)
	}
	je.EntryDate = date
	je.Description = description
	je.Reference = reference
	je.Lines = lines
	je.TotalDebit = totalDebit
	je.TotalCredit = totalCredit
	return nil
}

func (je *JournalEntry) changed() {
	je.Touch()
	je.AddDomainEvent(NewJournalEntryEvent(EventTypeJournalEntryUpdated, je))
}
