package contact

import (
	"github.com/georgemunganga/storefront/internal/forms"
	"github.com/google/uuid"
)

// Info is the shop's published contact details.
type Info struct {
	ID      uuid.UUID `json:"id"`
	Phone   string    `json:"phone"`
	Email   string    `json:"email"`
	Address string    `json:"address"`
}

// Feedback is a visitor message. It is validated and acknowledged, never stored.
type Feedback struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// Page is the contacts page: the first contact record and the feedback form.
type Page struct {
	Info *Info         `json:"contact_info"`
	Form []forms.Field `json:"form"`
}
