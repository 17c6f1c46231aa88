package persistence

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/settings"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPreferenceRepository implements PreferenceRepository using GORM
type GormPreferenceRepository struct {
	db *gorm.DB
}

// NewGormPreferenceRepository creates a new GormPreferenceRepository
func NewGormPreferenceRepository(db *gorm.DB) *GormPreferenceRepository {
	return &GormPreferenceRepository{db: db}
}

// FindByUserID returns shared.ErrNotFound when nothing is stored
func (r *GormPreferenceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*settings.UserPreference, error) {
	var pref settings.UserPreference
	if err := dbFrom(ctx, r.db).Where("user_id = ?", userID).First(&pref).Error; err != nil {
		return nil, translateError(err)
	}
	return &pref, nil
}

// Save upserts the preference row keyed by user
func (r *GormPreferenceRepository) Save(ctx context.Context, pref *settings.UserPreference) error {
	return dbFrom(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"currency", "updated_at"}),
	}).Create(pref).Error
}

var _ settings.PreferenceRepository = (*GormPreferenceRepository)(nil)
