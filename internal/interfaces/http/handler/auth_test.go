package handler

import (
	"net/http"
	"testing"

	identityapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/identity"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAuthRouter(svc *MockAuthService, claims *auth.Claims) *gin.Engine {
	r := newTestRouter(claims)
	h := NewAuthHandler(svc)
	r.POST("/auth/sign-up", h.SignUp)
	r.POST("/auth/sign-in", h.SignIn)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/sign-out", h.SignOut)
	r.GET("/auth/session", h.Session)
	r.PUT("/auth/password", h.ChangePassword)
	return r
}

func TestAuthHandler_SignIn(t *testing.T) {
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, nil)
	svc.On("SignIn", mock.Anything, identityapp.SignInRequest{Email: "owner@example.com", Password: "s3cret-pass"}).
		Return(&identityapp.AuthResponse{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}, nil)

	w := performRequest(r, http.MethodPost, "/auth/sign-in", map[string]string{
		"email":    "owner@example.com",
		"password": "s3cret-pass",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeData[identityapp.AuthResponse](t, decodeEnvelope(t, w))
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "Bearer", got.TokenType)
}

func TestAuthHandler_SignIn_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"bad credentials", shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password"), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"locked", shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed attempts"), http.StatusLocked, "ACCOUNT_LOCKED"},
		{"deactivated", shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account is deactivated"), http.StatusForbidden, "ACCOUNT_DEACTIVATED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			r := setupAuthRouter(svc, nil)
			svc.On("SignIn", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := performRequest(r, http.MethodPost, "/auth/sign-in", map[string]string{
				"email":    "owner@example.com",
				"password": "wrong",
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeEnvelope(t, w).Error.Code)
		})
	}
}

func TestAuthHandler_SignUp_Validation(t *testing.T) {
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, nil)

	w := performRequest(r, http.MethodPost, "/auth/sign-up", map[string]string{
		"email":    "owner@example.com",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	fields := map[string]bool{}
	for _, d := range env.Error.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["password"])
	assert.True(t, fields["organisation"])
}

func TestAuthHandler_SignUp_Malformed(t *testing.T) {
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, nil)

	w := performRequest(r, http.MethodPost, "/auth/sign-up", `{"email":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "ERR_VALIDATION", env.Error.Code)
	assert.Empty(t, env.Error.Details)
}

func TestAuthHandler_SignOut(t *testing.T) {
	claims := testClaims()
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, claims)
	svc.On("SignOut", mock.Anything, claims).Return(nil)

	w := performRequest(r, http.MethodPost, "/auth/sign-out", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_SignOut_Anonymous(t *testing.T) {
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, nil)

	w := performRequest(r, http.MethodPost, "/auth/sign-out", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
}

func TestAuthHandler_Session(t *testing.T) {
	claims := testClaims("customer:read")
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, claims)
	svc.On("Session", mock.Anything, claims).Return(&identityapp.SessionResponse{
		Permissions: []string{"customer:read"},
		SessionID:   "jti-1",
	}, nil)

	w := performRequest(r, http.MethodGet, "/auth/session", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeData[identityapp.SessionResponse](t, decodeEnvelope(t, w))
	assert.Equal(t, []string{"customer:read"}, got.Permissions)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	claims := testClaims()
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, claims)
	req := identityapp.ChangePasswordRequest{OldPassword: "old-password", NewPassword: "new-password-123"}
	svc.On("ChangePassword", mock.Anything, claims, req).Return(nil)

	w := performRequest(r, http.MethodPut, "/auth/password", map[string]string{
		"old_password": req.OldPassword,
		"new_password": req.NewPassword,
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
