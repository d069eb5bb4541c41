package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// ErrInvalidToken covers malformed, expired and wrongly scoped tokens.
var ErrInvalidToken = errors.New("invalid token")

const (
	purposeSession    = "session"
	purposeActivation = "activation"
	sessionTTL        = 24 * time.Hour
)

type claims struct {
	Purpose string `json:"purpose"`
	jwt.StandardClaims
}

// Tokens signs and verifies HS256 tokens for sessions and account activation.
type Tokens struct {
	key           []byte
	activationTTL time.Duration
	now           func() time.Time
}

func NewTokens(secret string, activationTTL time.Duration) *Tokens {
	return &Tokens{key: []byte(secret), activationTTL: activationTTL, now: time.Now}
}

// Issue returns a session token for userID.
func (t *Tokens) Issue(userID uuid.UUID) (string, error) {
	return t.sign(userID, purposeSession, sessionTTL)
}

// Parse returns the user id of a valid session token.
func (t *Tokens) Parse(token string) (uuid.UUID, error) {
	return t.parse(token, purposeSession)
}

func (t *Tokens) IssueActivation(userID uuid.UUID) (string, error) {
	return t.sign(userID, purposeActivation, t.activationTTL)
}

func (t *Tokens) ParseActivation(token string) (uuid.UUID, error) {
	return t.parse(token, purposeActivation)
}

func (t *Tokens) sign(userID uuid.UUID, purpose string, ttl time.Duration) (string, error) {
	now := t.now()
	c := &claims{
		Purpose: purpose,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.key)
}

func (t *Tokens) parse(token, purpose string) (uuid.UUID, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.key, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	if c.Purpose != purpose {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
