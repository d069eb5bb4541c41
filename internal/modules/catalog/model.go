package catalog

import (
	"sort"
	"time"

	"github.com/georgemunganga/storefront/internal/forms"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDescription is stored when a product is created without one.
const DefaultDescription = "Default description"

// Category groups products. Deleting a category deletes its products.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// Product is a catalog item owned by the user who created it.
type Product struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Available      bool            `json:"available"`
	Published      bool            `json:"is_published"`
	ImageURL       string          `json:"image_url,omitempty"`
	ManufacturedAt time.Time       `json:"manufactured_at"`
	CategoryID     uuid.UUID       `json:"category_id"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	CreatedAt      time.Time       `json:"created_at"`
	Versions       []Version       `json:"versions,omitempty"`
}

// Version is a named release of a product. Several versions of one product
// may be current at the same time.
type Version struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Number    string    `json:"version_number"`
	Name      string    `json:"version_name"`
	IsCurrent bool      `json:"is_current"`
}

// SortVersions orders current versions first, then by version number
// descending. Numbers compare as plain strings, so "9.0" sorts above "10.0".
func SortVersions(vs []Version) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].IsCurrent != vs[j].IsCurrent {
			return vs[i].IsCurrent
		}
		return vs[i].Number > vs[j].Number
	})
}

// CurrentVersion returns the first current version in display order.
func CurrentVersion(vs []Version) *Version {
	for i := range vs {
		if vs[i].IsCurrent {
			return &vs[i]
		}
	}
	return nil
}

// ProductRequest is the product form. Available defaults to true on create.
type ProductRequest struct {
	Name           string          `json:"name" validate:"required,max=255"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	CategoryID     uuid.UUID       `json:"category_id"`
	Available      *bool           `json:"available"`
	ManufacturedAt string          `json:"manufactured_at" validate:"omitempty,datetime=2006-01-02"`
}

// VersionRequest is the version form.
type VersionRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Number    string    `json:"version_number" validate:"required,max=20"`
	Name      string    `json:"version_name" validate:"required,max=100"`
	IsCurrent bool      `json:"is_current"`
}

// ProductEdit is what the edit page shows: the product and its decorated form.
type ProductEdit struct {
	Product *Product      `json:"product"`
	Form    []forms.Field `json:"form"`
}

// Homepage is the landing page content.
type Homepage struct {
	Products       []*Product             `json:"products"`
	Latest         []*Product             `json:"latest_products"`
	CurrentVersion map[uuid.UUID]*Version `json:"current_versions"`
}
