package blog

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry. The slug is derived from the title when not given.
type Post struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	PreviewImageURL string    `json:"preview_image_url,omitempty"`
	Published       bool      `json:"is_published"`
	ViewCount       int       `json:"view_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// PostRequest is the blog post form.
type PostRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	Slug            string `json:"slug" validate:"max=255"`
	Content         string `json:"content" validate:"required"`
	PreviewImageURL string `json:"preview_image_url" validate:"omitempty,url"`
	Published       bool   `json:"is_published"`
}
