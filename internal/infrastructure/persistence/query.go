package persistence

import (
	"errors"
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applyPaging adds ordering and the page window. Sort fields outside the
// whitelist fall back to defaultOrder. A zero page or page size selects every row.
func applyPaging(query *gorm.DB, filter shared.Filter, allowed SortColumns, defaultOrder string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultOrder)
	// id breaks ties so pages are stable
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		page := min(filter.Page, shared.MaxPage)
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applySearch matches the search term case-insensitively as a literal
// substring of any column
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// applyDateRange bounds column by the inclusive date_from and date_to filters
func applyDateRange(query *gorm.DB, filters map[string]any, column string) *gorm.DB {
	if from, ok := filters["date_from"].(time.Time); ok {
		query = query.Where(column+" >= ?", from)
	}
	if to, ok := filters["date_to"].(time.Time); ok {
		query = query.Where(column+" <= ?", to)
	}
	return query
}

// translateError maps driver errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

// saveAggregate updates the row guarded by the aggregate's version and bumps
// it on success. Tenant columns are never rewritten. When nothing matched, a
// missing row is inserted and a stale version is a concurrency conflict.
func saveAggregate(tx *gorm.DB, model any, root *shared.BaseAggregateRoot) error {
	expected := root.Version
	root.Version = expected + 1

	result := tx.Model(model).
		Where("version = ?", expected).
		Select("*").
		Omit(clause.Associations, "id", "created_at", "tenant_id", "created_by").
		Updates(model)
	if result.Error != nil {
		root.Version = expected
		return translateError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	root.Version = expected
	var count int64
	if err := tx.Model(model).Where("id = ?", root.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrConcurrencyConflict
	}
	return translateError(tx.Omit(clause.Associations).Create(model).Error)
}

// deleteForTenant removes one tenant-scoped row
func deleteForTenant(tx *gorm.DB, model any, tenantID, id uuid.UUID) error {
	result := tx.Delete(model, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// exists reports whether any row matches the query
func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
