package catalog

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/storefront/internal/cache"
	"github.com/georgemunganga/storefront/internal/forms"
	"github.com/georgemunganga/storefront/internal/modules/access"
	"github.com/georgemunganga/storefront/internal/modules/media"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memoryRepo struct {
	mu         sync.Mutex
	categories []*Category
	products   []*Product
	versions   []*Version

	categoryLoads int
	productLoads  int
	failWith      error
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{} }

func (m *memoryRepo) CreateCategory(ctx context.Context, c *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.categories = append(m.categories, &cp)
	return nil
}

func (m *memoryRepo) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categoryLoads++
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []*Category
	for _, c := range m.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memoryRepo) CreateProduct(ctx context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	m.products = append(m.products, &cp)
	return nil
}

func (m *memoryRepo) find(id uuid.UUID) (int, *Product) {
	for i, p := range m.products {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

func (m *memoryRepo) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	_, p := m.find(id)
	if p == nil {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *memoryRepo) ListProducts(ctx context.Context) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.productLoads++
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []*Product
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memoryRepo) UpdateProduct(ctx context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, _ := m.find(p.ID)
	if i < 0 {
		return sql.ErrNoRows
	}
	cp := *p
	cp.Versions = nil
	m.products[i] = &cp
	return nil
}

func (m *memoryRepo) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, p := m.find(id)
	if p == nil {
		return sql.ErrNoRows
	}
	p.Published = published
	return nil
}

func (m *memoryRepo) SetImage(ctx context.Context, id uuid.UUID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, p := m.find(id)
	if p == nil {
		return sql.ErrNoRows
	}
	p.ImageURL = url
	return nil
}

func (m *memoryRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, _ := m.find(id)
	if i < 0 {
		return sql.ErrNoRows
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	kept := m.versions[:0]
	for _, v := range m.versions {
		if v.ProductID != id {
			kept = append(kept, v)
		}
	}
	m.versions = kept
	return nil
}

func (m *memoryRepo) CreateVersion(ctx context.Context, v *Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.versions = append(m.versions, &cp)
	return nil
}

func (m *memoryRepo) GetVersion(ctx context.Context, id uuid.UUID) (*Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.versions {
		if v.ID == id {
			cp := *v
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryRepo) ListVersions(ctx context.Context, productID uuid.UUID) ([]Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Version
	for _, v := range m.versions {
		if v.ProductID == productID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *memoryRepo) CurrentVersions(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*Version, error) {
	out := make(map[uuid.UUID]*Version)
	for _, id := range productIDs {
		vs, _ := m.ListVersions(ctx, id)
		SortVersions(vs)
		if v := CurrentVersion(vs); v != nil {
			out[id] = v
		}
	}
	return out, nil
}

func (m *memoryRepo) UpdateVersion(ctx context.Context, v *Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, old := range m.versions {
		if old.ID == v.ID {
			cp := *v
			m.versions[i] = &cp
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memoryRepo) DeleteVersion(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range m.versions {
		if v.ID == id {
			m.versions = append(m.versions[:i], m.versions[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// rolePerms grants permissions per user.
type rolePerms map[uuid.UUID][]access.Permission

func (r rolePerms) HasPermission(ctx context.Context, userID uuid.UUID, perm access.Permission) (bool, error) {
	for _, p := range r[userID] {
		if p == perm {
			return true, nil
		}
	}
	return false, nil
}

type fakeUploader struct {
	got []byte
}

func (f *fakeUploader) Upload(ctx context.Context, folder, name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.got = b
	return "https://img.test/" + folder + "/" + name, nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	svc       Service
	repo      *memoryRepo
	store     *cache.Memory
	clock     *clock
	uploader  *fakeUploader
	owner     *access.Subject
	stranger  *access.Subject
	moderator *access.Subject
	category  *Category
	product   *Product
}

func newFixture(t *testing.T, forbidden ...string) *fixture {
	t.Helper()
	f := &fixture{
		repo:      newMemoryRepo(),
		clock:     &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		uploader:  &fakeUploader{},
		owner:     &access.Subject{UserID: uuid.New()},
		stranger:  &access.Subject{UserID: uuid.New()},
		moderator: &access.Subject{UserID: uuid.New()},
	}
	f.store = cache.NewMemory(cache.WithClock(f.clock.Now))
	perms := rolePerms{
		f.moderator.UserID: access.Roles()[access.RoleModerators],
	}
	f.svc = NewService(f.repo, f.store, access.NewGate(perms), f.uploader, forbidden)

	f.category = &Category{ID: uuid.New(), Name: "Phones"}
	_ = f.repo.CreateCategory(context.Background(), f.category)
	f.product = &Product{
		ID:          uuid.New(),
		Name:        "Pixel",
		Description: "A phone",
		Price:       decimal.RequireFromString("1000.00"),
		Available:   true,
		Published:   true,
		CategoryID:  f.category.ID,
		OwnerID:     f.owner.UserID,
		CreatedAt:   f.clock.Now(),
	}
	_ = f.repo.CreateProduct(context.Background(), f.product)
	return f
}

func (f *fixture) request(name string) ProductRequest {
	return ProductRequest{
		Name:       name,
		Price:      decimal.RequireFromString("19.99"),
		CategoryID: f.category.ID,
	}
}

func (f *fixture) stored(t *testing.T) *Product {
	t.Helper()
	p, err := f.repo.GetProduct(context.Background(), f.product.ID)
	if err != nil {
		t.Fatalf("stored product: %v", err)
	}
	return p
}

func TestCategoriesServedFromCacheUntilCleared(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.repo.CreateCategory(ctx, &Category{ID: uuid.New(), Name: "Books"})

	first, err := f.svc.ListCategories(ctx)
	if err != nil || len(first) != 2 {
		t.Fatalf("ListCategories() = %v, %v", first, err)
	}

	f.repo.categories = nil
	cached, _ := f.svc.ListCategories(ctx)
	if len(cached) != 2 || cached[0].Name != first[0].Name || cached[1].Name != first[1].Name {
		t.Fatalf("Expected the stale cached list, got %v", cached)
	}
	if f.repo.categoryLoads != 1 {
		t.Errorf("Expected one storage read, got %d", f.repo.categoryLoads)
	}

	_ = f.store.Clear(ctx)
	fresh, _ := f.svc.ListCategories(ctx)
	if len(fresh) != 0 {
		t.Errorf("Expected current storage state after clear, got %v", fresh)
	}
}

func TestEmptyCategoriesAlwaysHitStorage(t *testing.T) {
	f := newFixture(t)
	f.repo.categories = nil
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.svc.ListCategories(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if f.repo.categoryLoads != 2 {
		t.Errorf("Expected two storage reads, got %d", f.repo.categoryLoads)
	}
}

func TestProductListStaysStaleUntilTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, _ := f.svc.ListProducts(ctx)
	if _, err := f.svc.CreateProduct(ctx, f.owner, f.request("Galaxy")); err != nil {
		t.Fatal(err)
	}
	after, _ := f.svc.ListProducts(ctx)
	if len(after) != len(before) {
		t.Fatalf("Expected writes to stay invisible within the TTL, got %d products", len(after))
	}

	f.clock.Advance(ListingTTL)
	expired, _ := f.svc.ListProducts(ctx)
	if len(expired) != len(before)+1 {
		t.Errorf("Expected the new product after expiry, got %d products", len(expired))
	}
}

func TestListingPropagatesStorageError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection refused")
	f.repo.failWith = boom

	if _, err := f.svc.ListCategories(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected storage error, got %v", err)
	}
	if _, err := f.svc.ListProducts(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected storage error, got %v", err)
	}
}

func TestEditRule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product.ID.String()

	if _, err := f.svc.EditForm(ctx, f.owner, id); err != nil {
		t.Errorf("Expected owner to open the edit form, got %v", err)
	}
	if _, err := f.svc.EditForm(ctx, f.moderator, id); err != nil {
		t.Errorf("Expected moderator to open the edit form, got %v", err)
	}

	_, err := f.svc.UpdateProduct(ctx, f.stranger, id, f.request("Hijacked"))
	if !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for a stranger, got %v", err)
	}
	if got := f.stored(t); got.Name != "Pixel" {
		t.Errorf("Expected product unchanged after a denied edit, got %q", got.Name)
	}

	updated, err := f.svc.UpdateProduct(ctx, f.moderator, id, f.request("Pixel 2"))
	if err != nil {
		t.Fatalf("Expected moderator edit to succeed, got %v", err)
	}
	if updated.OwnerID != f.owner.UserID || f.stored(t).OwnerID != f.owner.UserID {
		t.Error("Expected owner to be unchanged by an edit")
	}
	if f.stored(t).Name != "Pixel 2" {
		t.Errorf("Expected stored name to change, got %q", f.stored(t).Name)
	}
}

func TestEditIgnoresUnrelatedPermissions(t *testing.T) {
	f := newFixture(t)
	other := &access.Subject{UserID: uuid.New()}
	perms := rolePerms{other.UserID: {access.PermUnpublishProduct, access.PermChangeAnyCategory, access.PermManageBlog}}
	svc := NewService(f.repo, f.store, access.NewGate(perms), f.uploader, nil)

	if _, err := svc.EditForm(context.Background(), other, f.product.ID.String()); !errors.Is(err, access.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestDeleteRule(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	if err := f.svc.DeleteProduct(ctx, f.stranger, f.product.ID.String()); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for a stranger, got %v", err)
	}
	if err := f.svc.DeleteProduct(ctx, f.owner, f.product.ID.String()); err != nil {
		t.Fatalf("Expected owner delete to succeed, got %v", err)
	}
	if _, err := f.repo.GetProduct(ctx, f.product.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Error("Expected product to be gone")
	}

	f = newFixture(t)
	catOnly := &access.Subject{UserID: uuid.New()}
	svc := NewService(f.repo, f.store, access.NewGate(rolePerms{
		catOnly.UserID: {access.PermChangeAnyCategory},
	}), f.uploader, nil)
	if err := svc.DeleteProduct(ctx, catOnly, f.product.ID.String()); err != nil {
		t.Errorf("Expected can_change_any_category to grant delete, got %v", err)
	}
}

func TestUnpublishRequiresPermission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product.ID.String()

	if _, err := f.svc.UnpublishProduct(ctx, f.owner, id); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("Expected owner without permission to be denied, got %v", err)
	}
	if !f.stored(t).Published {
		t.Fatal("Expected product to stay published after a denied unpublish")
	}

	for i := 0; i < 2; i++ {
		p, err := f.svc.UnpublishProduct(ctx, f.moderator, id)
		if err != nil {
			t.Fatalf("UnpublishProduct() call %d error: %v", i+1, err)
		}
		if p.Published || f.stored(t).Published {
			t.Fatalf("Expected product unpublished after call %d", i+1)
		}
	}
}

func TestNotFoundBeforePermission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{uuid.NewString(), "42", ""} {
		if _, err := f.svc.EditForm(ctx, nil, id); !errors.Is(err, access.ErrNotFound) {
			t.Errorf("EditForm(%q) expected ErrNotFound, got %v", id, err)
		}
		if err := f.svc.DeleteProduct(ctx, f.stranger, id); !errors.Is(err, access.ErrNotFound) {
			t.Errorf("DeleteProduct(%q) expected ErrNotFound, got %v", id, err)
		}
		if _, err := f.svc.UnpublishProduct(ctx, f.moderator, id); !errors.Is(err, access.ErrNotFound) {
			t.Errorf("UnpublishProduct(%q) expected ErrNotFound, got %v", id, err)
		}
	}

	if _, err := f.svc.EditForm(ctx, nil, f.product.ID.String()); !errors.Is(err, access.ErrForbidden) {
		t.Errorf("Expected anonymous edit to be forbidden, got %v", err)
	}
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreateProduct(ctx, f.stranger, f.request("Galaxy"))
	if err != nil {
		t.Fatalf("CreateProduct() error: %v", err)
	}
	if p.OwnerID != f.stranger.UserID {
		t.Errorf("Expected creator to own the product")
	}
	if p.Description != DefaultDescription || p.Published || !p.Available {
		t.Errorf("Unexpected defaults %+v", p)
	}
	if !p.ManufacturedAt.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected manufactured_at to default to today, got %v", p.ManufacturedAt)
	}

	if _, err := f.svc.CreateProduct(ctx, nil, f.request("Anon")); !errors.Is(err, access.ErrForbidden) {
		t.Errorf("Expected anonymous create to be rejected, got %v", err)
	}
}

func TestProductValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   ProductRequest
		field string
	}{
		{"missing name", ProductRequest{Price: decimal.NewFromInt(1), CategoryID: f.category.ID}, "name"},
		{"missing category", ProductRequest{Name: "X", Price: decimal.NewFromInt(1)}, "category_id"},
		{"unknown category", ProductRequest{Name: "X", Price: decimal.NewFromInt(1), CategoryID: uuid.New()}, "category_id"},
		{"negative price", ProductRequest{Name: "X", Price: decimal.NewFromInt(-1), CategoryID: f.category.ID}, "price"},
		{"three decimals", ProductRequest{Name: "X", Price: decimal.RequireFromString("1.005"), CategoryID: f.category.ID}, "price"},
		{"too many digits", ProductRequest{Name: "X", Price: decimal.RequireFromString("123456789.00"), CategoryID: f.category.ID}, "price"},
		{"bad date", ProductRequest{Name: "X", Price: decimal.NewFromInt(1), CategoryID: f.category.ID, ManufacturedAt: "01/02/2024"}, "manufactured_at"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.svc.CreateProduct(ctx, f.owner, c.req)
			fe, ok := forms.AsErrors(err)
			if !ok || fe[c.field] == "" {
				t.Fatalf("Expected a %s field error, got %v", c.field, err)
			}
		})
	}
}

func TestForbiddenWords(t *testing.T) {
	f := newFixture(t, "casino", "crypto")
	ctx := context.Background()

	req := f.request("Best CASINO phone")
	req.Description = "pays in Crypto"
	_, err := f.svc.UpdateProduct(ctx, f.owner, f.product.ID.String(), req)
	fe, ok := forms.AsErrors(err)
	if !ok {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if fe["name"] != forms.ForbiddenWordMessage("casino") || fe["description"] != forms.ForbiddenWordMessage("crypto") {
		t.Errorf("Unexpected field errors %v", fe)
	}
	if f.stored(t).Name != "Pixel" {
		t.Error("Expected no mutation on validation failure")
	}

	plain := newFixture(t)
	if _, err := plain.svc.CreateProduct(ctx, plain.owner, plain.request("casino")); err != nil {
		t.Errorf("Expected no word rule without a configured list, got %v", err)
	}
}

func TestGetProductOrdersVersions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, v := range []struct {
		number  string
		current bool
	}{{"1.0", false}, {"10.0", true}, {"9.0", false}, {"2.0", true}} {
		_ = f.repo.CreateVersion(ctx, &Version{ID: uuid.New(), ProductID: f.product.ID, Number: v.number, Name: "v" + v.number, IsCurrent: v.current})
	}

	p, err := f.svc.GetProduct(ctx, f.product.ID.String())
	if err != nil {
		t.Fatalf("GetProduct() error: %v", err)
	}
	var got []string
	for _, v := range p.Versions {
		got = append(got, v.Number)
	}
	if want := "2.0,10.0,9.0,1.0"; strings.Join(got, ",") != want {
		t.Errorf("Version order = %v; want %s", got, want)
	}
}

func TestHomepage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := f.clock.Now()
	var newest uuid.UUID
	for i := 1; i <= 6; i++ {
		p := &Product{ID: uuid.New(), Name: "p", CategoryID: f.category.ID, OwnerID: f.owner.UserID, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		_ = f.repo.CreateProduct(ctx, p)
		newest = p.ID
	}
	current := &Version{ID: uuid.New(), ProductID: f.product.ID, Number: "1.0", IsCurrent: true}
	_ = f.repo.CreateVersion(ctx, current)

	page, err := f.svc.Homepage(ctx)
	if err != nil {
		t.Fatalf("Homepage() error: %v", err)
	}
	if len(page.Products) != 7 || len(page.Latest) != 5 {
		t.Fatalf("Expected 7 products and 5 latest, got %d and %d", len(page.Products), len(page.Latest))
	}
	if page.Latest[0].ID != newest {
		t.Error("Expected latest products newest first")
	}
	if page.Products[0].ID != f.product.ID {
		t.Error("Expected the product list to keep storage order")
	}
	if v := page.CurrentVersion[f.product.ID]; v == nil || v.ID != current.ID {
		t.Errorf("Expected current version of the first product, got %+v", v)
	}
}

func TestVersionsFollowEditRule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := VersionRequest{ProductID: f.product.ID, Number: "1.0", Name: "Initial", IsCurrent: true}

	if _, err := f.svc.CreateVersion(ctx, f.stranger, req); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("Expected stranger to be denied, got %v", err)
	}
	v, err := f.svc.CreateVersion(ctx, f.owner, req)
	if err != nil {
		t.Fatalf("CreateVersion() error: %v", err)
	}

	second, err := f.svc.CreateVersion(ctx, f.moderator, VersionRequest{ProductID: f.product.ID, Number: "2.0", Name: "Second", IsCurrent: true})
	if err != nil {
		t.Fatalf("Expected a second current version to be accepted, got %v", err)
	}

	foreign := &Product{ID: uuid.New(), Name: "Other", CategoryID: f.category.ID, OwnerID: f.stranger.UserID}
	_ = f.repo.CreateProduct(ctx, foreign)
	moved := req
	moved.ProductID = foreign.ID
	if _, err := f.svc.UpdateVersion(ctx, f.owner, v.ID.String(), moved); !errors.Is(err, access.ErrForbidden) {
		t.Errorf("Expected moving a version to a foreign product to be denied, got %v", err)
	}

	renamed := req
	renamed.Name = "Renamed"
	if got, err := f.svc.UpdateVersion(ctx, f.owner, v.ID.String(), renamed); err != nil || got.Name != "Renamed" {
		t.Errorf("UpdateVersion() = %+v, %v", got, err)
	}

	if _, err := f.svc.DeleteVersion(ctx, f.stranger, second.ID.String()); !errors.Is(err, access.ErrForbidden) {
		t.Errorf("Expected stranger delete to be denied, got %v", err)
	}
	if _, err := f.svc.DeleteVersion(ctx, f.owner, second.ID.String()); err != nil {
		t.Errorf("DeleteVersion() error: %v", err)
	}
	if _, err := f.svc.DeleteVersion(ctx, f.owner, uuid.NewString()); !errors.Is(err, access.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing version, got %v", err)
	}

	_, err = f.svc.CreateVersion(ctx, f.owner, VersionRequest{ProductID: uuid.New(), Number: "1", Name: "x"})
	if fe, ok := forms.AsErrors(err); !ok || fe["product_id"] == "" {
		t.Errorf("Expected a product_id field error, got %v", err)
	}
	_, err = f.svc.CreateVersion(ctx, f.owner, VersionRequest{})
	if fe, ok := forms.AsErrors(err); !ok || fe["version_number"] == "" || fe["product_id"] == "" {
		t.Errorf("Expected required field errors, got %v", err)
	}
}

func TestUploadImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.UploadImage(ctx, f.owner, f.product.ID.String(), strings.NewReader("png"))
	if err != nil {
		t.Fatalf("UploadImage() error: %v", err)
	}
	want := "https://img.test/products/" + f.product.ID.String()
	if p.ImageURL != want || f.stored(t).ImageURL != want || string(f.uploader.got) != "png" {
		t.Errorf("Unexpected upload result %q", p.ImageURL)
	}

	if _, err := f.svc.UploadImage(ctx, f.stranger, f.product.ID.String(), strings.NewReader("png")); !errors.Is(err, access.ErrForbidden) {
		t.Errorf("Expected stranger upload to be denied, got %v", err)
	}

	disabled, _ := media.NewCloudinaryUploader("")
	svc := NewService(f.repo, f.store, access.NewGate(rolePerms{}), disabled, nil)
	_, err = svc.UploadImage(ctx, f.owner, f.product.ID.String(), strings.NewReader("png"))
	if fe, ok := forms.AsErrors(err); !ok || fe["image"] == "" {
		t.Errorf("Expected an image field error when uploads are disabled, got %v", err)
	}
}
