package identity

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/identity"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleService handles role management and role assignment
type RoleService struct {
	roleRepo       identity.RoleRepository
	userRepo       identity.UserRepository
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(
	roleRepo identity.RoleRepository,
	userRepo identity.UserRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{
		roleRepo:  roleRepo,
		userRepo:  userRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *RoleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new role
func (s *RoleService) Create(ctx context.Context, tenantID uuid.UUID, req CreateRoleRequest) (*RoleResponse, error) {
	role, err := identity.NewRole(tenantID, req.Code, req.Name, req.Description, req.Permissions)
	if err != nil {
		return nil, err
	}
	exists, err := s.roleRepo.ExistsByCode(ctx, tenantID, role.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Role with this code already exists")
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, role)

	s.logger.Info("role created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", role.Code))

	resp := ToRoleResponse(role)
	return &resp, nil
}

// GetByID returns a role
func (s *RoleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRoleResponse(role)
	return &resp, nil
}

// List returns all roles of the tenant
func (s *RoleService) List(ctx context.Context, tenantID uuid.UUID) ([]RoleResponse, error) {
	roles, err := s.roleRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToRoleResponses(roles), nil
}

// Update changes a custom role
func (s *RoleService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := role.Update(req.Name, req.Description, req.Permissions); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, role)
	resp := ToRoleResponse(role)
	return &resp, nil
}

// Delete removes a custom role that is not assigned to anyone
func (s *RoleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := role.MarkDeleted(); err != nil {
		return err
	}
	assigned, err := s.roleRepo.IsAssigned(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if assigned {
		return shared.NewDomainError("INVALID_STATE", "Role is assigned to users and cannot be deleted")
	}
	if err := s.roleRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, role)
	return nil
}

// AssignRoles replaces the roles of a user. Every role must belong to the
// tenant. The new permissions take effect on the user's next token refresh.
func (s *RoleService) AssignRoles(ctx context.Context, tenantID, userID uuid.UUID, req AssignRolesRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	user.SetRoles(req.RoleIDs)

	if len(user.RoleIDs) > 0 {
		roles, err := s.roleRepo.FindByIDs(ctx, tenantID, user.RoleIDs)
		if err != nil {
			return nil, err
		}
		if len(roles) != len(user.RoleIDs) {
			return nil, shared.NewDomainError("INVALID_ROLE", "One or more roles do not exist")
		}
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Save(txCtx, user); err != nil {
			return err
		}
		return s.userRepo.SaveRoles(txCtx, user)
	})
	if err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, user)

	s.logger.Info("roles assigned",
		zap.String("user_id", userID.String()),
		zap.Int("role_count", len(user.RoleIDs)))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Permissions returns the permission catalog
func (s *RoleService) Permissions() []string {
	return identity.AllPermissions()
}
