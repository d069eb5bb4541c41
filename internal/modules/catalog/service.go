package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/georgemunganga/storefront/internal/cache"
	"github.com/georgemunganga/storefront/internal/forms"
	"github.com/georgemunganga/storefront/internal/modules/access"
	"github.com/georgemunganga/storefront/internal/modules/media"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CategoriesCacheKey = "categories_list"
	ProductsCacheKey   = "products_list"
	// ListingTTL bounds how stale a cached listing may be. Writes do not
	// invalidate listings.
	ListingTTL = 900 * time.Second

	latestCount = 5
	dateLayout  = "2006-01-02"
)

// maxPrice is the first value that no longer fits eight integer digits.
var maxPrice = decimal.New(1, 8)

// Service defines catalog business logic. Guarded operations return
// access.ErrNotFound for a missing product before any permission check, and
// access.ErrForbidden when the gate denies.
type Service interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	Homepage(ctx context.Context) (*Homepage, error)
	GetProduct(ctx context.Context, id string) (*Product, error)

	CreateProduct(ctx context.Context, subject *access.Subject, req ProductRequest) (*Product, error)
	EditForm(ctx context.Context, subject *access.Subject, id string) (*ProductEdit, error)
	UpdateProduct(ctx context.Context, subject *access.Subject, id string, req ProductRequest) (*Product, error)
	ConfirmDelete(ctx context.Context, subject *access.Subject, id string) (*Product, error)
	DeleteProduct(ctx context.Context, subject *access.Subject, id string) error
	UnpublishProduct(ctx context.Context, subject *access.Subject, id string) (*Product, error)
	UploadImage(ctx context.Context, subject *access.Subject, id string, image io.Reader) (*Product, error)

	CreateVersion(ctx context.Context, subject *access.Subject, req VersionRequest) (*Version, error)
	UpdateVersion(ctx context.Context, subject *access.Subject, id string, req VersionRequest) (*Version, error)
	DeleteVersion(ctx context.Context, subject *access.Subject, id string) (*Version, error)
}

type service struct {
	repo           Repository
	cache          cache.Store
	gate           *access.Gate
	images         media.Uploader
	forbiddenWords []string
	now            func() time.Time
}

func NewService(repo Repository, store cache.Store, gate *access.Gate, images media.Uploader, forbiddenWords []string) Service {
	return &service{
		repo:           repo,
		cache:          store,
		gate:           gate,
		images:         images,
		forbiddenWords: forbiddenWords,
		now:            time.Now,
	}
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return cache.ReadThrough(ctx, s.cache, CategoriesCacheKey, ListingTTL, s.repo.ListCategories)
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return cache.ReadThrough(ctx, s.cache, ProductsCacheKey, ListingTTL, s.repo.ListProducts)
}

func (s *service) Homepage(ctx context.Context) (*Homepage, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	// The cached slice is shared; sort a copy.
	latest := append(make([]*Product, 0, len(products)), products...)
	sort.SliceStable(latest, func(i, j int) bool {
		return latest[i].CreatedAt.After(latest[j].CreatedAt)
	})
	if len(latest) > latestCount {
		latest = latest[:latestCount]
	}

	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	current, err := s.repo.CurrentVersions(ctx, ids)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*Product{}
	}
	return &Homepage{Products: products, Latest: latest, CurrentVersion: current}, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	versions, err := s.repo.ListVersions(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	SortVersions(versions)
	p.Versions = versions
	return p, nil
}

func (s *service) CreateProduct(ctx context.Context, subject *access.Subject, req ProductRequest) (*Product, error) {
	if subject == nil {
		return nil, access.ErrForbidden
	}
	if err := s.validateProduct(ctx, req); err != nil {
		return nil, err
	}

	p := &Product{
		ID:             uuid.New(),
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Available:      true,
		Published:      false,
		ManufacturedAt: truncateDay(s.now()),
		CategoryID:     req.CategoryID,
		OwnerID:        subject.UserID,
	}
	if p.Description == "" {
		p.Description = DefaultDescription
	}
	if req.Available != nil {
		p.Available = *req.Available
	}
	if req.ManufacturedAt != "" {
		p.ManufacturedAt, _ = time.Parse(dateLayout, req.ManufacturedAt)
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *service) EditForm(ctx context.Context, subject *access.Subject, id string) (*ProductEdit, error) {
	p, err := s.guard(ctx, subject, access.ActionEdit, id)
	if err != nil {
		return nil, err
	}
	return &ProductEdit{Product: p, Form: productForm(p)}, nil
}

// UpdateProduct applies the form to the product. Ownership never changes.
func (s *service) UpdateProduct(ctx context.Context, subject *access.Subject, id string, req ProductRequest) (*Product, error) {
	p, err := s.guard(ctx, subject, access.ActionEdit, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateProduct(ctx, req); err != nil {
		return nil, err
	}

	p.Name = req.Name
	p.Description = req.Description
	if p.Description == "" {
		p.Description = DefaultDescription
	}
	p.Price = req.Price
	p.CategoryID = req.CategoryID
	if req.Available != nil {
		p.Available = *req.Available
	}
	if req.ManufacturedAt != "" {
		p.ManufacturedAt, _ = time.Parse(dateLayout, req.ManufacturedAt)
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ConfirmDelete(ctx context.Context, subject *access.Subject, id string) (*Product, error) {
	return s.guard(ctx, subject, access.ActionDelete, id)
}

func (s *service) DeleteProduct(ctx context.Context, subject *access.Subject, id string) error {
	p, err := s.guard(ctx, subject, access.ActionDelete, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteProduct(ctx, p.ID)
}

// UnpublishProduct clears the published flag. Repeating it is harmless.
func (s *service) UnpublishProduct(ctx context.Context, subject *access.Subject, id string) (*Product, error) {
	p, err := s.guard(ctx, subject, access.ActionUnpublish, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetPublished(ctx, p.ID, false); err != nil {
		return nil, err
	}
	p.Published = false
	return p, nil
}

func (s *service) UploadImage(ctx context.Context, subject *access.Subject, id string, image io.Reader) (*Product, error) {
	p, err := s.guard(ctx, subject, access.ActionEdit, id)
	if err != nil {
		return nil, err
	}
	url, err := s.images.Upload(ctx, "products", p.ID.String(), image)
	if errors.Is(err, media.ErrDisabled) {
		return nil, forms.Errors{"image": err.Error()}
	}
	if err != nil {
		return nil, fmt.Errorf("upload image for %s: %w", p.ID, err)
	}
	if err := s.repo.SetImage(ctx, p.ID, url); err != nil {
		return nil, err
	}
	p.ImageURL = url
	return p, nil
}

func (s *service) CreateVersion(ctx context.Context, subject *access.Subject, req VersionRequest) (*Version, error) {
	p, err := s.versionTarget(ctx, subject, req)
	if err != nil {
		return nil, err
	}
	v := &Version{
		ID:        uuid.New(),
		ProductID: p.ID,
		Number:    req.Number,
		Name:      req.Name,
		IsCurrent: req.IsCurrent,
	}
	if err := s.repo.CreateVersion(ctx, v); err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}
	return v, nil
}

// UpdateVersion needs the edit right on the version's product and, when the
// version moves, on the new product too.
func (s *service) UpdateVersion(ctx context.Context, subject *access.Subject, id string, req VersionRequest) (*Version, error) {
	v, err := s.guardVersion(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	p, err := s.versionTarget(ctx, subject, req)
	if err != nil {
		return nil, err
	}
	v.ProductID = p.ID
	v.Number = req.Number
	v.Name = req.Name
	v.IsCurrent = req.IsCurrent
	if err := s.repo.UpdateVersion(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) DeleteVersion(ctx context.Context, subject *access.Subject, id string) (*Version, error) {
	v, err := s.guardVersion(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteVersion(ctx, v.ID); err != nil {
		return nil, err
	}
	return v, nil
}

// load fetches a product, mapping unknown or malformed ids to access.ErrNotFound.
func (s *service) load(ctx context.Context, id string) (*Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, access.ErrNotFound
	}
	p, err := s.repo.GetProduct(ctx, pid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, access.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", pid, err)
	}
	return p, nil
}

func (s *service) guard(ctx context.Context, subject *access.Subject, action access.Action, id string) (*Product, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, subject, action, p.OwnerID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) guardVersion(ctx context.Context, subject *access.Subject, id string) (*Version, error) {
	vid, err := uuid.Parse(id)
	if err != nil {
		return nil, access.ErrNotFound
	}
	v, err := s.repo.GetVersion(ctx, vid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, access.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get version %s: %w", vid, err)
	}
	if _, err := s.guard(ctx, subject, access.ActionEdit, v.ProductID.String()); err != nil {
		return nil, err
	}
	return v, nil
}

// versionTarget validates a version form and authorizes an edit of the
// product it points at.
func (s *service) versionTarget(ctx context.Context, subject *access.Subject, req VersionRequest) (*Product, error) {
	errs := forms.Validate(req)
	if req.ProductID == uuid.Nil {
		errs.Add("product_id", "this field is required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	p, err := s.guard(ctx, subject, access.ActionEdit, req.ProductID.String())
	if errors.Is(err, access.ErrNotFound) {
		return nil, forms.Errors{"product_id": "select a valid product"}
	}
	return p, err
}

func (s *service) validateProduct(ctx context.Context, req ProductRequest) error {
	errs := forms.Validate(req)
	if word, found := forms.CheckForbiddenWords(req.Name, s.forbiddenWords); found {
		errs.Add("name", forms.ForbiddenWordMessage(word))
	}
	if word, found := forms.CheckForbiddenWords(req.Description, s.forbiddenWords); found {
		errs.Add("description", forms.ForbiddenWordMessage(word))
	}
	if msg := checkPrice(req.Price); msg != "" {
		errs.Add("price", msg)
	}
	if req.CategoryID == uuid.Nil {
		errs.Add("category_id", "this field is required")
	} else if _, err := s.repo.GetCategory(ctx, req.CategoryID); errors.Is(err, sql.ErrNoRows) {
		errs.Add("category_id", "select a valid category")
	} else if err != nil {
		return fmt.Errorf("get category %s: %w", req.CategoryID, err)
	}
	return errs.Err()
}

// checkPrice enforces NUMERIC(10,2).
func checkPrice(price decimal.Decimal) string {
	switch {
	case price.IsNegative():
		return "ensure this value is greater than or equal to 0"
	case !price.Equal(price.Round(2)):
		return "ensure that there are no more than 2 decimal places"
	case price.GreaterThanOrEqual(maxPrice):
		return "ensure that there are no more than 10 digits in total"
	}
	return ""
}

func productForm(p *Product) []forms.Field {
	return forms.Decorate([]forms.Field{
		{Name: "name", Label: "Name", Widget: forms.WidgetText, Value: p.Name},
		{Name: "description", Label: "Description", Widget: forms.WidgetTextarea, Value: p.Description},
		{Name: "price", Label: "Price", Widget: forms.WidgetNumber, Value: p.Price.StringFixed(2)},
		{Name: "category_id", Label: "Category", Widget: forms.WidgetSelect, Value: p.CategoryID},
		{Name: "available", Label: "Available", Widget: forms.WidgetCheckbox, Value: p.Available},
		{Name: "manufactured_at", Label: "Manufactured at", Widget: forms.WidgetText, Value: p.ManufacturedAt.Format(dateLayout)},
		{Name: "image", Label: "Image", Widget: forms.WidgetFile, Value: p.ImageURL},
	})
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
