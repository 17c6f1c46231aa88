package settings

import (
	"context"
	"errors"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/settings"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpdatePreferenceRequest changes the caller's display currency
type UpdatePreferenceRequest struct {
	Currency string `json:"currency" binding:"required,currency"`
}

// PreferenceResponse is the caller's stored or default preference
type PreferenceResponse struct {
	Currency  string     `json:"currency"`
	IsDefault bool       `json:"is_default"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// PreferenceService reads and writes per-user preferences
type PreferenceService struct {
	repo            settings.PreferenceRepository
	defaultCurrency string
	logger          *zap.Logger
}

// NewPreferenceService creates a PreferenceService. An empty or invalid
// defaultCurrency falls back to settings.DefaultCurrency.
func NewPreferenceService(repo settings.PreferenceRepository, defaultCurrency string, logger *zap.Logger) *PreferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	normalized, err := settings.NormalizeCurrency(defaultCurrency)
	if err != nil {
		normalized = settings.DefaultCurrency
	}
	return &PreferenceService{repo: repo, defaultCurrency: normalized, logger: logger}
}

// Get returns the user's preference, or the configured default when none
// has been saved
func (s *PreferenceService) Get(ctx context.Context, userID uuid.UUID) (*PreferenceResponse, error) {
	pref, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &PreferenceResponse{Currency: s.defaultCurrency, IsDefault: true}, nil
		}
		return nil, err
	}
	return toResponse(pref), nil
}

// Update stores the user's currency
func (s *PreferenceService) Update(ctx context.Context, tenantID, userID uuid.UUID, req UpdatePreferenceRequest) (*PreferenceResponse, error) {
	pref, err := s.repo.FindByUserID(ctx, userID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		pref, err = settings.NewUserPreference(tenantID, userID, req.Currency)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := pref.SetCurrency(req.Currency); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, pref); err != nil {
		return nil, err
	}
	s.logger.Debug("preference updated",
		zap.String("user_id", userID.String()),
		zap.String("currency", pref.Currency))
	return toResponse(pref), nil
}

func toResponse(pref *settings.UserPreference) *PreferenceResponse {
	updated := pref.UpdatedAt
	return &PreferenceResponse{Currency: pref.Currency, UpdatedAt: &updated}
}
