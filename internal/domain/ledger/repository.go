package ledger

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountRepository defines persistence for the chart of accounts
type AccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Account, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Account, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	// HasActivity reports whether any journal line or child account references the account
	HasActivity(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	Save(ctx context.Context, account *Account) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// JournalEntryRepository defines persistence for journal entries
type JournalEntryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*JournalEntry, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]JournalEntry, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, entry *JournalEntry) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	// PostedTotals sums debits and credits of posted entries dated in [from, to]
	PostedTotals(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]AccountTotals, error)
}
