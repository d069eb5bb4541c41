package contact

import (
	"context"
	"fmt"

	"github.com/georgemunganga/storefront/internal/forms"
	"go.uber.org/zap"
)

// Service defines the contacts page logic.
type Service interface {
	Page(ctx context.Context) (*Page, error)
	// Submit validates feedback and returns the acknowledgement to show.
	Submit(ctx context.Context, fb Feedback) (string, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Page(ctx context.Context) (*Page, error) {
	info, err := s.repo.First(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contact info: %w", err)
	}
	return &Page{Info: info, Form: feedbackForm()}, nil
}

func (s *service) Submit(ctx context.Context, fb Feedback) (string, error) {
	if err := forms.Validate(fb).Err(); err != nil {
		return "", err
	}
	zap.S().Infow("feedback received", "name", fb.Name, "email", fb.Email)
	return fmt.Sprintf("Thank you, %s! We will contact you shortly.", fb.Name), nil
}

func feedbackForm() []forms.Field {
	return forms.Decorate([]forms.Field{
		{Name: "name", Label: "Your name", Widget: forms.WidgetText, Attrs: map[string]string{"maxlength": "100"}},
		{Name: "email", Label: "Your email", Widget: forms.WidgetEmail},
		{Name: "message", Label: "Message", Widget: forms.WidgetTextarea},
	})
}
