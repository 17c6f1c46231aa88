package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("load customer: %w", shared.ErrNotFound), http.StatusNotFound, "ERR_NOT_FOUND"},
		{"concurrency", shared.ErrConcurrencyConflict, http.StatusConflict, "ERR_CONCURRENCY_CONFLICT"},
		{"specific domain code", shared.NewDomainError("INVALID_TRANSITION", "cannot send"), http.StatusUnprocessableEntity, "INVALID_TRANSITION"},
		{"required field", shared.NewDomainError("CUSTOMER_REQUIRED", "missing"), http.StatusBadRequest, "CUSTOMER_REQUIRED"},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(nil)
			h := &BaseHandler{}
			r.GET("/x", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := performRequest(r, http.MethodGet, "/x", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.NotEmpty(t, env.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_HidesInternalDetails(t *testing.T) {
	r := newTestRouter(nil)
	h := &BaseHandler{}
	r.GET("/x", func(c *gin.Context) { h.HandleError(c, errors.New("pq: password authentication failed")) })

	w := performRequest(r, http.MethodGet, "/x", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password authentication")
}

func TestBaseHandler_RequiresClaims(t *testing.T) {
	r := newTestRouter(nil)
	h := NewCustomerHandler(new(MockCustomerService))
	r.GET("/customers", h.List)

	w := performRequest(r, http.MethodGet, "/customers", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", decodeEnvelope(t, w).Error.Code)
}
