package user

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/georgemunganga/storefront/internal/forms"
	"github.com/georgemunganga/storefront/internal/modules/access"
	"github.com/georgemunganga/storefront/internal/modules/mail"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidActivation is returned for bad, expired or already used
// activation links.
var ErrInvalidActivation = errors.New("activation link is invalid or has expired")

const (
	passwordAlphabet     = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	generatedPasswordLen = 8
)

type service struct {
	repo    Repository
	tokens  ActivationTokens
	mailer  mail.Mailer
	baseURL string
}

// NewService creates a new user service. baseURL prefixes activation links.
func NewService(repo Repository, tokens ActivationTokens, mailer mail.Mailer, baseURL string) Service {
	return &service{repo: repo, tokens: tokens, mailer: mailer, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *service) RegisterUser(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := forms.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, forms.Errors{"email": "a user with this email already exists"}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Country:      req.Country,
		AvatarURL:    req.AvatarURL,
		IsActive:     false,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueActivation(user.ID)
	if err != nil {
		return nil, err
	}
	link := fmt.Sprintf("%s/users/activate/%s", s.baseURL, token)
	body := fmt.Sprintf("Welcome!\n\nFollow this link to activate your account:\n%s\n", link)
	if err := s.mailer.Send(ctx, user.Email, "Activate your account", body); err != nil {
		return nil, fmt.Errorf("send activation email: %w", err)
	}
	return user, nil
}

func (s *service) Activate(ctx context.Context, token string) (*User, error) {
	id, err := s.tokens.ParseActivation(token)
	if err != nil {
		return nil, ErrInvalidActivation
	}
	user, err := s.repo.GetUserByID(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidActivation
	}
	if err != nil {
		return nil, err
	}
	if user.IsActive {
		return nil, ErrInvalidActivation
	}
	if err := s.repo.Activate(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsActive = true
	zap.S().Infow("account activated", "user_id", user.ID)
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req ProfileRequest) (*User, error) {
	if errs := forms.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	user, err := s.repo.GetUserByID(ctx, id.String())
	if err != nil {
		return nil, err
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.Country = req.Country
	user.AvatarURL = req.AvatarURL
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) ResetPassword(ctx context.Context, req PasswordResetRequest) error {
	if errs := forms.Validate(req); len(errs) > 0 {
		return errs
	}
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	password, err := generatePassword(generatedPasswordLen)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.SetPassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	body := fmt.Sprintf("Your new password: %s\nPlease change it after logging in.\n", password)
	if err := s.mailer.Send(ctx, user.Email, "Your new password", body); err != nil {
		return fmt.Errorf("send password email: %w", err)
	}
	return nil
}

func (s *service) HasPermission(ctx context.Context, id uuid.UUID, perm access.Permission) (bool, error) {
	return s.repo.HasPermission(ctx, id, perm)
}

func (s *service) CreateSuperuser(ctx context.Context, email, password string) (*User, error) {
	req := RegisterRequest{Email: strings.ToLower(strings.TrimSpace(email)), Password: password}
	if errs := forms.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, forms.Errors{"email": "a user with this email already exists"}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) SetupRoles(ctx context.Context) ([]*Role, error) {
	catalog := access.Roles()
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	roles := make([]*Role, 0, len(names))
	for _, name := range names {
		role, err := s.repo.EnsureRole(ctx, name, catalog[name])
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (s *service) AddToRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	return s.repo.AddToRole(ctx, userID, roleName)
}

func generatePassword(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = passwordAlphabet[idx.Int64()]
	}
	return string(b), nil
}
