package persistence

import (
	"context"
	"errors"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentSequence is the per tenant, prefix and year numbering counter
type DocumentSequence struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix    string    `gorm:"type:varchar(10);primaryKey"`
	Year      int       `gorm:"primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// GormSequenceGenerator allocates document numbers under a row lock. When
// the caller's transaction is in ctx the number is rolled back with it, so
// numbers stay gap-free.
type GormSequenceGenerator struct {
	db *gorm.DB
}

// NewGormSequenceGenerator creates a new GormSequenceGenerator
func NewGormSequenceGenerator(db *gorm.DB) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: db}
}

// Next returns the next value of the counter, starting at 1
func (g *GormSequenceGenerator) Next(ctx context.Context, tenantID uuid.UUID, prefix string, year int) (int64, error) {
	var next int64
	err := inTx(ctx, g.db, func(tx *gorm.DB) error {
		seq, err := lockSequence(tx, tenantID, prefix, year)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// concurrent first callers race here; DO NOTHING lets the loser
			// fall through to the lock taken by the winner
			err = tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&DocumentSequence{TenantID: tenantID, Prefix: prefix, Year: year}).Error
			if err != nil {
				return err
			}
			seq, err = lockSequence(tx, tenantID, prefix, year)
		}
		if err != nil {
			return err
		}

		next = seq.LastValue + 1
		return tx.Model(&DocumentSequence{}).
			Where("tenant_id = ? AND prefix = ? AND year = ?", tenantID, prefix, year).
			Update("last_value", next).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

func lockSequence(tx *gorm.DB, tenantID uuid.UUID, prefix string, year int) (*DocumentSequence, error) {
	var seq DocumentSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND prefix = ? AND year = ?", tenantID, prefix, year).
		Take(&seq).Error
	if err != nil {
		return nil, err
	}
	return &seq, nil
}

var _ shared.SequenceGenerator = (*GormSequenceGenerator)(nil)
