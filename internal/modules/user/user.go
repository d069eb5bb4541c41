package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
// New accounts start inactive until the emailed activation link is followed.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Country      string    `json:"country,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role is a named bundle of permissions.
type Role struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Phone     string `json:"phone" validate:"max=35"`
	Country   string `json:"country" validate:"max=100"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

// ProfileRequest holds the editable profile fields.
type ProfileRequest struct {
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Phone     string `json:"phone" validate:"max=35"`
	Country   string `json:"country" validate:"max=100"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

// PasswordResetRequest asks for a new password to be mailed.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}
