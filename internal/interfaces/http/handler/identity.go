package handler

import (
	"context"

	identityapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfileService reads and edits user profiles
type ProfileService interface {
	GetProfile(ctx context.Context, tenantID, userID uuid.UUID) (*identityapp.UserResponse, error)
	UpdateProfile(ctx context.Context, tenantID, userID uuid.UUID, req identityapp.UpdateProfileRequest) (*identityapp.UserResponse, error)
	ListUsers(ctx context.Context, tenantID uuid.UUID, filter identityapp.UserListFilter) ([]identityapp.UserResponse, int64, error)
}

// RoleService manages roles and their assignment
type RoleService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req identityapp.CreateRoleRequest) (*identityapp.RoleResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*identityapp.RoleResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]identityapp.RoleResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req identityapp.UpdateRoleRequest) (*identityapp.RoleResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	AssignRoles(ctx context.Context, tenantID, userID uuid.UUID, req identityapp.AssignRolesRequest) (*identityapp.UserResponse, error)
	Permissions() []string
}

// IdentityHandler serves /identity
type IdentityHandler struct {
	BaseHandler
	profiles ProfileService
	roles    RoleService
}

// NewIdentityHandler creates a new identity handler
func NewIdentityHandler(profiles ProfileService, roles RoleService) *IdentityHandler {
	return &IdentityHandler{profiles: profiles, roles: roles}
}

// GetProfile handles GET /identity/profile
func (h *IdentityHandler) GetProfile(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	resp, err := h.profiles.GetProfile(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProfile handles PUT /identity/profile
func (h *IdentityHandler) UpdateProfile(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req identityapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.profiles.UpdateProfile(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListUsers handles GET /identity/users
func (h *IdentityHandler) ListUsers(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter identityapp.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	users, total, err := h.profiles.ListUsers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, users, total, page, size)
}

// AssignRoles handles PUT /identity/users/:id/roles
func (h *IdentityHandler) AssignRoles(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	userID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req identityapp.AssignRolesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.roles.AssignRoles(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListRoles handles GET /identity/roles
func (h *IdentityHandler) ListRoles(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	roles, err := h.roles.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, roles)
}

// CreateRole handles POST /identity/roles
func (h *IdentityHandler) CreateRole(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req identityapp.CreateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.roles.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetRole handles GET /identity/roles/:id
func (h *IdentityHandler) GetRole(c *gin.Context) {
	byID(&h.BaseHandler, c, h.roles.GetByID)
}

// UpdateRole handles PUT /identity/roles/:id
func (h *IdentityHandler) UpdateRole(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req identityapp.UpdateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.roles.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteRole handles DELETE /identity/roles/:id
func (h *IdentityHandler) DeleteRole(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.roles.Delete)
}

// ListPermissions handles GET /identity/permissions
func (h *IdentityHandler) ListPermissions(c *gin.Context) {
	h.Success(c, h.roles.Permissions())
}

// pageOf applies the list defaults of the application layer to echo them in meta
func pageOf(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return page, pageSize
}
