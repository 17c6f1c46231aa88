package persistence

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/ledger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	var account ledger.Account
	if err := dbFrom(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindByIDs loads the given accounts. Unknown IDs are skipped.
func (r *GormAccountRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.Account, error) {
	if len(ids) == 0 {
		return []ledger.Account{}, nil
	}
	var accounts []ledger.Account
	err := dbFrom(ctx, r.db).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("code ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindAllForTenant lists accounts matching the filter
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.Account, error) {
	var accounts []ledger.Account
	query := applyPaging(r.scoped(ctx, tenantID, filter), filter, AccountSortFields, "code")
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// CountForTenant counts accounts matching the filter, ignoring paging
func (r *GormAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode reports whether an account code is taken within a tenant
func (r *GormAccountRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(dbFrom(ctx, r.db).Model(&ledger.Account{}).Where("tenant_id = ? AND code = ?", tenantID, code))
}

// HasActivity reports whether any journal line or child account references the account
func (r *GormAccountRepository) HasActivity(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	db := dbFrom(ctx, r.db)
	used, err := exists(db.Model(&ledger.JournalLine{}).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Where("journal_entries.tenant_id = ? AND journal_lines.account_id = ?", tenantID, id))
	if err != nil || used {
		return used, err
	}
	return exists(db.Model(&ledger.Account{}).Where("tenant_id = ? AND parent_id = ?", tenantID, id))
}

// Save creates or updates an account with optimistic locking
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	return saveAggregate(dbFrom(ctx, r.db), account, &account.BaseAggregateRoot)
}

// DeleteForTenant deletes an account within a tenant
func (r *GormAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(dbFrom(ctx, r.db), &ledger.Account{}, tenantID, id)
}

func (r *GormAccountRepository) scoped(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := dbFrom(ctx, r.db).Model(&ledger.Account{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "code", "name")

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "parent_id":
			query = query.Where("parent_id = ?", value)
		}
	}
	return query
}

var _ ledger.AccountRepository = (*GormAccountRepository)(nil)
