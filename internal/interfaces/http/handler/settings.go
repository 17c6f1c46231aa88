package handler

import (
	"context"

	settingsapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/settings"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PreferenceService stores per-user display preferences
type PreferenceService interface {
	Get(ctx context.Context, userID uuid.UUID) (*settingsapp.PreferenceResponse, error)
	Update(ctx context.Context, tenantID, userID uuid.UUID, req settingsapp.UpdatePreferenceRequest) (*settingsapp.PreferenceResponse, error)
}

// SettingsHandler serves /settings
type SettingsHandler struct {
	BaseHandler
	preferences PreferenceService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(preferences PreferenceService) *SettingsHandler {
	return &SettingsHandler{preferences: preferences}
}

// GetPreferences handles GET /settings/preferences
func (h *SettingsHandler) GetPreferences(c *gin.Context) {
	_, userID, ok := h.scope(c)
	if !ok {
		return
	}
	pref, err := h.preferences.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pref)
}

// UpdatePreferences handles PUT /settings/preferences
func (h *SettingsHandler) UpdatePreferences(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req settingsapp.UpdatePreferenceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pref, err := h.preferences.Update(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pref)
}
