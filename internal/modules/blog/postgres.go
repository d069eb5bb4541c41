package blog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const postColumns = `id, title, slug, content, preview_image_url, is_published, view_count, created_at`

func scanPost(scan func(...interface{}) error) (*Post, error) {
	p := &Post{}
	err := scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.PreviewImageURL,
		&p.Published, &p.ViewCount, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p *Post) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (id, title, slug, content, preview_image_url, is_published)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING view_count, created_at`,
		p.ID, p.Title, p.Slug, p.Content, p.PreviewImageURL, p.Published,
	).Scan(&p.ViewCount, &p.CreatedAt)
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id=$1`, id)
	return scanPost(row.Scan)
}

func (r *postgresRepo) ListPublished(ctx context.Context) ([]*Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM blog_posts
		WHERE is_published
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Post) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE blog_posts
		SET title=$1, slug=$2, content=$3, preview_image_url=$4, is_published=$5
		WHERE id=$6`,
		p.Title, p.Slug, p.Content, p.PreviewImageURL, p.Published, p.ID)
	if err != nil {
		return fmt.Errorf("update post %s: %w", p.ID, err)
	}
	return expectOne(res)
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return expectOne(res)
}

func (r *postgresRepo) IncrementViews(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`UPDATE blog_posts SET view_count = view_count + 1 WHERE id=$1 RETURNING view_count`, id,
	).Scan(&n)
	return n, err
}

func (r *postgresRepo) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug=$1 AND id<>$2)`, slug, exclude,
	).Scan(&taken)
	return taken, err
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
