package persistence

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/ledger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByIDForTenant finds an entry with its lines
func (r *GormJournalEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.JournalEntry, error) {
	var entry ledger.JournalEntry
	err := dbFrom(ctx, r.db).
		Preload("Lines", orderItems).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entry).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &entry, nil
}

// FindAllForTenant lists entries matching the filter
func (r *GormJournalEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.JournalEntry, error) {
	var entries []ledger.JournalEntry
	query := applyPaging(r.scoped(ctx, tenantID, filter), filter, JournalEntrySortFields, "entry_date")
	if err := query.Preload("Lines", orderItems).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountForTenant counts entries matching the filter, ignoring paging
func (r *GormJournalEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save writes the entry and replaces its lines in one transaction
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *ledger.JournalEntry) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := saveAggregate(tx, entry, &entry.BaseAggregateRoot); err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&ledger.JournalLine{}).Error; err != nil {
			return err
		}
		if len(entry.Lines) == 0 {
			return nil
		}
		for i := range entry.Lines {
			entry.Lines[i].EntryID = entry.ID
		}
		return tx.Create(&entry.Lines).Error
	})
}

// DeleteForTenant deletes an entry and its lines
func (r *GormJournalEntryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := deleteForTenant(tx, &ledger.JournalEntry{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("entry_id = ?", id).Delete(&ledger.JournalLine{}).Error
	})
}

// PostedTotals sums debits and credits of posted entries dated in [from, to]
func (r *GormJournalEntryRepository) PostedTotals(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]ledger.AccountTotals, error) {
	var totals []ledger.AccountTotals
	err := dbFrom(ctx, r.db).
		Table("journal_lines").
		Select("journal_lines.account_id AS account_id, COALESCE(SUM(journal_lines.debit), 0) AS debit, COALESCE(SUM(journal_lines.credit), 0) AS credit").
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Where("journal_entries.tenant_id = ? AND journal_entries.status = ?", tenantID, ledger.JournalPosted).
		Where("journal_entries.entry_date >= ? AND journal_entries.entry_date <= ?", from, to).
		Group("journal_lines.account_id").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *GormJournalEntryRepository) scoped(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := dbFrom(ctx, r.db).Model(&ledger.JournalEntry{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "entry_number", "description", "reference")
	query = applyDateRange(query, filter.Filters, "entry_date")

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ ledger.JournalEntryRepository = (*GormJournalEntryRepository)(nil)
