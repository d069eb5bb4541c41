package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the storage of categories, products and versions.
// Lookups of missing rows return sql.ErrNoRows.
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)

	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	SetImage(ctx context.Context, id uuid.UUID, url string) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateVersion(ctx context.Context, v *Version) error
	GetVersion(ctx context.Context, id uuid.UUID) (*Version, error)
	ListVersions(ctx context.Context, productID uuid.UUID) ([]Version, error)
	CurrentVersions(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*Version, error)
	UpdateVersion(ctx context.Context, v *Version) error
	DeleteVersion(ctx context.Context, id uuid.UUID) error
}
