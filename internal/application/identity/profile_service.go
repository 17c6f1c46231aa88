package identity

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/identity"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileService reads and edits user profiles
type ProfileService struct {
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo identity.UserRepository, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{userRepo: userRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProfileService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetProfile returns a user with their role assignments
func (s *ProfileService) GetProfile(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.LoadRoleIDs(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile edits the caller's own profile
func (s *ProfileService) UpdateProfile(ctx context.Context, tenantID, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.FullName, req.Phone, req.AvatarURL); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, user)

	if err := s.userRepo.LoadRoleIDs(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListUsers returns the tenant's users
func (s *ProfileService) ListUsers(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := filter.toDomain()
	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}
