package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateCategory(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description) VALUES ($1,$2,$3)`,
		c.ID, c.Name, c.Description)
	return err
}

func (r *postgresRepo) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	c := &Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const productColumns = `id, name, description, price, available, is_published, image_url,
	manufactured_at, category_id, owner_id, created_at`

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	err := scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Available, &p.Published,
		&p.ImageURL, &p.ManufacturedAt, &p.CategoryID, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products
		  (id, name, description, price, available, is_published, image_url, manufactured_at, category_id, owner_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		p.ID, p.Name, p.Description, p.Price, p.Available, p.Published,
		p.ImageURL, p.ManufacturedAt, p.CategoryID, p.OwnerID,
	).Scan(&p.CreatedAt)
}

func (r *postgresRepo) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	return scanProduct(row.Scan)
}

// ListProducts returns products in storage order.
func (r *postgresRepo) ListProducts(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) UpdateProduct(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, price=$3, available=$4, manufactured_at=$5, category_id=$6
		WHERE id=$7`,
		p.Name, p.Description, p.Price, p.Available, p.ManufacturedAt, p.CategoryID, p.ID)
	if err != nil {
		return fmt.Errorf("update product %s: %w", p.ID, err)
	}
	return expectOne(res)
}

func (r *postgresRepo) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET is_published=$1 WHERE id=$2`, published, id)
	if err != nil {
		return fmt.Errorf("set published %s: %w", id, err)
	}
	return expectOne(res)
}

func (r *postgresRepo) SetImage(ctx context.Context, id uuid.UUID, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET image_url=$1 WHERE id=$2`, url, id)
	if err != nil {
		return fmt.Errorf("set image %s: %w", id, err)
	}
	return expectOne(res)
}

// DeleteProduct removes the product; its versions go with it by cascade.
func (r *postgresRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return expectOne(res)
}

func (r *postgresRepo) CreateVersion(ctx context.Context, v *Version) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO versions (id, product_id, version_number, version_name, is_current)
		VALUES ($1,$2,$3,$4,$5)`,
		v.ID, v.ProductID, v.Number, v.Name, v.IsCurrent)
	return err
}

func (r *postgresRepo) GetVersion(ctx context.Context, id uuid.UUID) (*Version, error) {
	v := &Version{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_id, version_number, version_name, is_current
		FROM versions WHERE id=$1`, id,
	).Scan(&v.ID, &v.ProductID, &v.Number, &v.Name, &v.IsCurrent)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *postgresRepo) ListVersions(ctx context.Context, productID uuid.UUID) ([]Version, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, version_number, version_name, is_current
		FROM versions WHERE product_id=$1
		ORDER BY is_current DESC, version_number DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []Version
	for rows.Next() {
		var v Version
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Number, &v.Name, &v.IsCurrent); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// CurrentVersions returns, per product, the first current version in display
// order. Products without a current version are absent from the map.
func (r *postgresRepo) CurrentVersions(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*Version, error) {
	out := make(map[uuid.UUID]*Version)
	if len(productIDs) == 0 {
		return out, nil
	}
	ids := make([]string, len(productIDs))
	for i, id := range productIDs {
		ids[i] = id.String()
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (product_id) id, product_id, version_number, version_name, is_current
		FROM versions
		WHERE is_current AND product_id = ANY($1::uuid[])
		ORDER BY product_id, version_number DESC`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("current versions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v := &Version{}
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Number, &v.Name, &v.IsCurrent); err != nil {
			return nil, err
		}
		out[v.ProductID] = v
	}
	return out, rows.Err()
}

func (r *postgresRepo) UpdateVersion(ctx context.Context, v *Version) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE versions SET product_id=$1, version_number=$2, version_name=$3, is_current=$4
		WHERE id=$5`,
		v.ProductID, v.Number, v.Name, v.IsCurrent, v.ID)
	if err != nil {
		return fmt.Errorf("update version %s: %w", v.ID, err)
	}
	return expectOne(res)
}

func (r *postgresRepo) DeleteVersion(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM versions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete version %s: %w", id, err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
