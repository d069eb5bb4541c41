package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/contact"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fixtureFile struct {
	Categories []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"categories"`
	Products []struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		Category    string          `json:"category"`
		Available   *bool           `json:"available"`
		Published   bool            `json:"is_published"`
	} `json:"products"`
	Contacts []struct {
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		Address string `json:"address"`
	} `json:"contact_info"`
}

// parseFixtures decodes a fixture file and checks that every product names a
// category defined in the same file.
func parseFixtures(r io.Reader) (*fixtureFile, error) {
	var f fixtureFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	names := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		if c.Name == "" {
			return nil, errors.New("category without a name")
		}
		names[c.Name] = true
	}
	for _, p := range f.Products {
		if !names[p.Category] {
			return nil, fmt.Errorf("product %q: unknown category %q", p.Name, p.Category)
		}
	}
	return &f, nil
}

type fixtureLoader struct {
	catalog  catalog.Repository
	contacts contact.Repository
	ownerID  uuid.UUID
}

func (l *fixtureLoader) Load(ctx context.Context, f *fixtureFile) error {
	ids := make(map[string]uuid.UUID, len(f.Categories))
	for _, c := range f.Categories {
		cat := &catalog.Category{ID: uuid.New(), Name: c.Name, Description: c.Description}
		if err := l.catalog.CreateCategory(ctx, cat); err != nil {
			return fmt.Errorf("category %q: %w", c.Name, err)
		}
		ids[c.Name] = cat.ID
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, p := range f.Products {
		product := &catalog.Product{
			ID:             uuid.New(),
			Name:           p.Name,
			Description:    p.Description,
			Price:          p.Price,
			Available:      true,
			Published:      p.Published,
			ManufacturedAt: today,
			CategoryID:     ids[p.Category],
			OwnerID:        l.ownerID,
		}
		if product.Description == "" {
			product.Description = catalog.DefaultDescription
		}
		if p.Available != nil {
			product.Available = *p.Available
		}
		if err := l.catalog.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product %q: %w", p.Name, err)
		}
	}

	for _, c := range f.Contacts {
		info := &contact.Info{ID: uuid.New(), Phone: c.Phone, Email: c.Email, Address: c.Address}
		if err := l.contacts.Create(ctx, info); err != nil {
			return fmt.Errorf("contact %q: %w", c.Email, err)
		}
	}
	return nil
}
