package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/identity"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/auth"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles sign up, sign in and session operations
type AuthService struct {
	tenantRepo     identity.TenantRepository
	userRepo       identity.UserRepository
	roleRepo       identity.RoleRepository
	txManager      shared.TransactionManager
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	config         config.AuthConfig
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	txManager shared.TransactionManager,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	cfg config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		txManager:  txManager,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SignUp creates an organisation, its administrator role and the first user
// in one transaction, then signs the user in.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	tenant, err := identity.NewTenant(req.Organisation)
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(tenant.ID, req.Email, req.Password, req.FullName)
	if err != nil {
		return nil, err
	}
	admin := identity.NewAdminRole(tenant.ID)
	user.SetRoles([]uuid.UUID{admin.ID})

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tenantRepo.Save(txCtx, tenant); err != nil {
			return err
		}
		if err := s.roleRepo.Save(txCtx, admin); err != nil {
			return err
		}
		if err := s.userRepo.Save(txCtx, user); err != nil {
			return err
		}
		return s.userRepo.SaveRoles(txCtx, user)
	})
	if err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, admin, user)

	s.logger.Info("organisation registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("user_id", user.ID.String()))

	return s.issue(user, admin.Permissions)
}

// SignIn verifies credentials and returns a token pair. Repeated failures
// lock the account for the configured duration.
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	now := s.now()
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("sign in for unknown email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin(now) {
		if user.Status == identity.UserStatusLocked {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(now, s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after failed sign in attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed sign in attempts. Account has been locked")
		}
		return nil, errInvalidCredentials
	}

	permissions, err := s.permissionsFor(ctx, user)
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess(now)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("failed to record login success", zap.Error(err))
	}

	s.logger.Info("user signed in", zap.String("user_id", user.ID.String()))
	return s.issue(user, permissions)
}

// Refresh exchanges a refresh token for a new pair carrying the user's
// current permissions
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserUUID())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "User no longer exists")
		}
		return nil, err
	}
	if !user.CanLogin(s.now()) {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	permissions, err := s.permissionsFor(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, subjectOf(user, permissions))
	if err != nil {
		return nil, tokenError(err)
	}
	return newAuthResponse(pair, user, permissions), nil
}

// SignOut revokes the access token until it would have expired
func (s *AuthService) SignOut(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.RemainingTTL(s.now())
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}
	s.logger.Info("user signed out",
		zap.String("user_id", claims.UserID),
		zap.Duration("revoked_for", ttl))
	return nil
}

// Session returns the caller's profile and the permissions in their token
func (s *AuthService) Session(ctx context.Context, claims *auth.Claims) (*SessionResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, claims.TenantUUID(), claims.UserUUID())
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.LoadRoleIDs(ctx, user); err != nil {
		return nil, err
	}

	resp := &SessionResponse{
		User:        ToUserResponse(user),
		Permissions: claims.Permissions,
		SessionID:   claims.ID,
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	return resp, nil
}

// ChangePassword replaces the caller's password
func (s *AuthService) ChangePassword(ctx context.Context, claims *auth.Claims, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, claims.TenantUUID(), claims.UserUUID())
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, user)
	s.logger.Info("user password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) issue(user *identity.User, permissions []string) (*AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(subjectOf(user, permissions))
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return newAuthResponse(pair, user, permissions), nil
}

func (s *AuthService) permissionsFor(ctx context.Context, user *identity.User) ([]string, error) {
	if err := s.userRepo.LoadRoleIDs(ctx, user); err != nil {
		return nil, err
	}
	if len(user.RoleIDs) == 0 {
		return []string{}, nil
	}
	roles, err := s.roleRepo.FindByIDs(ctx, user.TenantID, user.RoleIDs)
	if err != nil {
		return nil, err
	}
	return identity.MergePermissions(roles), nil
}

func subjectOf(user *identity.User, permissions []string) auth.Subject {
	return auth.Subject{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		Email:       user.Email,
		RoleIDs:     user.RoleIDs,
		Permissions: permissions,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please sign in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
