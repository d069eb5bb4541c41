package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/storefront/internal/forms"
	"github.com/georgemunganga/storefront/internal/modules/access"
	"github.com/google/uuid"
)

// Service defines blog business logic. Writes require can_manage_blog.
type Service interface {
	ListPublished(ctx context.Context) ([]*Post, error)
	// View returns a post and counts the read. Unpublished posts are only
	// visible to blog managers.
	View(ctx context.Context, subject *access.Subject, id string) (*Post, error)
	Create(ctx context.Context, subject *access.Subject, req PostRequest) (*Post, error)
	Update(ctx context.Context, subject *access.Subject, id string, req PostRequest) (*Post, error)
	Delete(ctx context.Context, subject *access.Subject, id string) error
}

type service struct {
	repo Repository
	gate *access.Gate
}

func NewService(repo Repository, gate *access.Gate) Service {
	return &service{repo: repo, gate: gate}
}

func (s *service) ListPublished(ctx context.Context) ([]*Post, error) {
	return s.repo.ListPublished(ctx)
}

func (s *service) View(ctx context.Context, subject *access.Subject, id string) (*Post, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Published {
		if err := s.gate.Require(ctx, subject, access.PermManageBlog); errors.Is(err, access.ErrForbidden) {
			return nil, access.ErrNotFound
		} else if err != nil {
			return nil, err
		}
	}
	n, err := s.repo.IncrementViews(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("count view of %s: %w", p.ID, err)
	}
	p.ViewCount = n
	return p, nil
}

func (s *service) Create(ctx context.Context, subject *access.Subject, req PostRequest) (*Post, error) {
	if err := s.gate.Require(ctx, subject, access.PermManageBlog); err != nil {
		return nil, err
	}
	p := &Post{ID: uuid.New()}
	if err := s.apply(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, subject *access.Subject, id string, req PostRequest) (*Post, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, subject, access.PermManageBlog); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, subject *access.Subject, id string) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.Require(ctx, subject, access.PermManageBlog); err != nil {
		return err
	}
	return s.repo.Delete(ctx, p.ID)
}

func (s *service) load(ctx context.Context, id string) (*Post, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, access.ErrNotFound
	}
	p, err := s.repo.GetByID(ctx, pid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, access.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", pid, err)
	}
	return p, nil
}

// apply validates req and copies it onto p, deriving the slug from the
// title when none is given.
func (s *service) apply(ctx context.Context, p *Post, req PostRequest) error {
	errs := forms.Validate(req)
	slug := forms.Slugify(req.Slug)
	if slug == "" {
		slug = forms.Slugify(req.Title)
	}
	if slug == "" {
		errs.Add("slug", "enter a valid slug")
	}
	if err := errs.Err(); err != nil {
		return err
	}
	taken, err := s.repo.SlugTaken(ctx, slug, p.ID)
	if err != nil {
		return fmt.Errorf("check slug %q: %w", slug, err)
	}
	if taken {
		return forms.Errors{"slug": "a post with this slug already exists"}
	}

	p.Title = req.Title
	p.Slug = slug
	p.Content = req.Content
	p.PreviewImageURL = req.PreviewImageURL
	p.Published = req.Published
	return nil
}
