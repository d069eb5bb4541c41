package blog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines blog post storage. Missing rows yield sql.ErrNoRows.
type Repository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	ListPublished(ctx context.Context) ([]*Post, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementViews adds one view and returns the new count.
	IncrementViews(ctx context.Context, id uuid.UUID) (int, error)
	// SlugTaken reports whether another post than exclude uses slug.
	SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
}
