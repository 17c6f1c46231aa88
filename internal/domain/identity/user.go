package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// BcryptCost is the work factor for password hashes
var BcryptCost = 12

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

// User is a person who signs in to the dashboard. The profile columns live
// on the same row.
type User struct {
	shared.TenantAggregateRoot
	Email          string      `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	PasswordHash   string      `gorm:"type:varchar(255);not null" json:"-"`
	FullName       string      `gorm:"type:varchar(200)" json:"full_name"`
	Phone          string      `gorm:"type:varchar(50)" json:"phone"`
	AvatarURL      string      `gorm:"type:varchar(500)" json:"avatar_url"`
	Status         UserStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	RoleIDs        []uuid.UUID `gorm:"-" json:"role_ids"`
	LastLoginAt    *time.Time  `json:"last_login_at,omitempty"`
	FailedAttempts int         `gorm:"not null;default:0" json:"-"`
	LockedUntil    *time.Time  `json:"-"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserRole links users to roles
type UserRole struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (UserRole) TableName() string {
	return "user_roles"
}

// NewUser creates an active user with a hashed password
func NewUser(tenantID uuid.UUID, email, password, fullName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		PasswordHash:        hash,
		FullName:            strings.TrimSpace(fullName),
		Status:              UserStatusActive,
		RoleIDs:             make([]uuid.UUID, 0),
	}
	u.AddDomainEvent(NewUserEvent(EventTypeUserCreated, u))
	return u, nil
}

// UpdateProfile changes the editable profile columns
func (u *User) UpdateProfile(fullName, phone, avatarURL string) error {
	if len(fullName) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 200 characters")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if len(avatarURL) > 500 {
		return shared.NewDomainError("INVALID_AVATAR", "Avatar URL cannot exceed 500 characters")
	}
	u.FullName = strings.TrimSpace(fullName)
	u.Phone = strings.TrimSpace(phone)
	u.AvatarURL = strings.TrimSpace(avatarURL)
	u.changed()
	return nil
}

// ChangePassword replaces the password after verifying the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.changed()
	return nil
}

// VerifyPassword compares a plaintext password with the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetRoles replaces the role assignments
func (u *User) SetRoles(roleIDs []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(roleIDs))
	ids := make([]uuid.UUID, 0, len(roleIDs))
	for _, id := range roleIDs {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	u.RoleIDs = ids
	u.changed()
}

// RecordLoginSuccess stamps the login time and resets the failure counter
func (u *User) RecordLoginSuccess(at time.Time) {
	u.LastLoginAt = &at
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.Touch()
}

// RecordLoginFailure counts a failed attempt and locks the account once
// maxAttempts is reached. It reports whether the account is now locked.
func (u *User) RecordLoginFailure(at time.Time, maxAttempts int, lockFor time.Duration) bool {
	u.FailedAttempts++
	u.Touch()
	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		until := at.Add(lockFor)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
		return true
	}
	return false
}

// CanLogin reports whether the user may sign in at the given time
func (u *User) CanLogin(at time.Time) bool {
	switch u.Status {
	case UserStatusActive:
		return true
	case UserStatusLocked:
		return u.LockedUntil != nil && at.After(*u.LockedUntil)
	default:
		return false
	}
}

// Deactivate blocks sign-in
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already deactivated")
	}
	u.Status = UserStatusDeactivated
	u.changed()
	return nil
}

// Activate re-enables sign-in
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.changed()
	return nil
}

func (u *User) changed() {
	u.Touch()
	u.AddDomainEvent(NewUserEvent(EventTypeUserUpdated, u))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// ValidatePassword enforces the password policy: 8 to 128 characters with
// at least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
