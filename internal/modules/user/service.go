package user

import (
	"context"

	"github.com/georgemunganga/storefront/internal/modules/access"
	"github.com/google/uuid"
)

// Service defines the interface for user-related business logic.
type Service interface {
	// RegisterUser creates an inactive account and mails its activation link.
	RegisterUser(ctx context.Context, req RegisterRequest) (*User, error)
	// Activate consumes an activation token. A token for an account that is
	// already active is rejected.
	Activate(ctx context.Context, token string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req ProfileRequest) (*User, error)
	// ResetPassword mails a freshly generated password. Unknown addresses are
	// accepted silently.
	ResetPassword(ctx context.Context, req PasswordResetRequest) error

	HasPermission(ctx context.Context, id uuid.UUID, perm access.Permission) (bool, error)
	// CreateSuperuser creates an active account that bypasses permission checks.
	CreateSuperuser(ctx context.Context, email, password string) (*User, error)
	// SetupRoles creates the role catalog with its permissions.
	SetupRoles(ctx context.Context) ([]*Role, error)
	AddToRole(ctx context.Context, userID uuid.UUID, roleName string) error
}

// ActivationTokens issues and verifies signed one-time activation tokens.
type ActivationTokens interface {
	IssueActivation(userID uuid.UUID) (string, error)
	ParseActivation(token string) (uuid.UUID, error)
}
