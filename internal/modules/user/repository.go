package user

import (
	"context"

	"github.com/georgemunganga/storefront/internal/modules/access"
	"github.com/google/uuid"
)

// Repository defines the interface for user data storage.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	Activate(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, user *User) error
	SetPassword(ctx context.Context, id uuid.UUID, hash string) error

	// HasPermission reports whether an active user holds perm through any of
	// their roles or is a superuser.
	HasPermission(ctx context.Context, id uuid.UUID, perm access.Permission) (bool, error)
	// EnsureRole creates the role if needed and replaces its permission set.
	EnsureRole(ctx context.Context, name string, perms []access.Permission) (*Role, error)
	AddToRole(ctx context.Context, userID uuid.UUID, roleName string) error
}
