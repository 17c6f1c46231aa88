package settings

import (
	"context"
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// DefaultCurrency is used when no preference has been stored
const DefaultCurrency = "USD"

// UserPreference holds per-user dashboard settings
type UserPreference struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Currency  string    `gorm:"type:varchar(3);not null" json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (UserPreference) TableName() string {
	return "user_preferences"
}

// NewUserPreference creates a preference record with the given currency
func NewUserPreference(tenantID, userID uuid.UUID, code string) (*UserPreference, error) {
	p := &UserPreference{UserID: userID, TenantID: tenantID}
	if err := p.SetCurrency(code); err != nil {
		return nil, err
	}
	return p, nil
}

// SetCurrency validates and stores an ISO 4217 code
func (p *UserPreference) SetCurrency(code string) error {
	normalized, err := NormalizeCurrency(code)
	if err != nil {
		return err
	}
	p.Currency = normalized
	p.UpdatedAt = time.Now()
	return nil
}

// NormalizeCurrency upper-cases code and checks it against ISO 4217
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO 4217 code")
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", shared.NewDomainError("INVALID_CURRENCY", "Unknown currency: "+code)
	}
	return unit.String(), nil
}

// PreferenceRepository persists user preferences
type PreferenceRepository interface {
	// FindByUserID returns shared.ErrNotFound when nothing is stored
	FindByUserID(ctx context.Context, userID uuid.UUID) (*UserPreference, error)
	Save(ctx context.Context, pref *UserPreference) error
}
