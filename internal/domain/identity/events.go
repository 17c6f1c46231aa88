package identity

import (
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate types
const (
	AggregateTypeUser = "User"
	AggregateTypeRole = "Role"
)

// Event types
const (
	EventTypeUserCreated = "UserCreated"
	EventTypeUserUpdated = "UserUpdated"
	EventTypeRoleCreated = "RoleCreated"
	EventTypeRoleUpdated = "RoleUpdated"
	EventTypeRoleDeleted = "RoleDeleted"
)

// UserEvent is raised when a user is created or changed
type UserEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// NewUserEvent creates a user event
func NewUserEvent(eventType string, u *User) *UserEvent {
	return &UserEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeUser, u.ID, u.TenantID),
		UserID:          u.ID,
		Email:           u.Email,
	}
}

// RoleEvent carries a copy of the role after the change
type RoleEvent struct {
	shared.BaseDomainEvent
	Role Role `json:"role"`
}

// NewRoleEvent snapshots r under the given event type
func NewRoleEvent(eventType string, r *Role) *RoleEvent {
	snapshot := *r
	snapshot.ClearDomainEvents()
	return &RoleEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeRole, r.ID, r.TenantID),
		Role:            snapshot,
	}
}

// Snapshot implements shared.SnapshotEvent
func (e *RoleEvent) Snapshot() any {
	return e.Role
}
