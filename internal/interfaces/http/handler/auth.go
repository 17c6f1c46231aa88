package handler

import (
	"context"

	identityapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/identity"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
)

// AuthService is the sign-up, sign-in and session API
type AuthService interface {
	SignUp(ctx context.Context, req identityapp.SignUpRequest) (*identityapp.AuthResponse, error)
	SignIn(ctx context.Context, req identityapp.SignInRequest) (*identityapp.AuthResponse, error)
	Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.AuthResponse, error)
	SignOut(ctx context.Context, claims *auth.Claims) error
	Session(ctx context.Context, claims *auth.Claims) (*identityapp.SessionResponse, error)
	ChangePassword(ctx context.Context, claims *auth.Claims, req identityapp.ChangePasswordRequest) error
}

// AuthHandler serves /auth
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp handles POST /auth/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req identityapp.SignUpRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// SignIn handles POST /auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req identityapp.SignInRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.SignIn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SignOut handles POST /auth/sign-out
func (h *AuthHandler) SignOut(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	if err := h.authService.SignOut(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	resp, err := h.authService.Session(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword handles PUT /auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	var req identityapp.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), claims, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
