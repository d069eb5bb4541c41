// Package web holds the HTTP helpers shared by every module handler.
package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/storefront/internal/forms"
	"github.com/georgemunganga/storefront/internal/modules/access"
	"go.uber.org/zap"
)

// ErrUnauthenticated is returned when an operation needs a logged-in user.
var ErrUnauthenticated = errors.New("authentication required")

type subjectKey struct{}

// WithSubject attaches the authenticated requester to ctx.
func WithSubject(ctx context.Context, s *access.Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

// SubjectFrom returns the requester, or nil for anonymous requests.
func SubjectFrom(ctx context.Context) *access.Subject {
	s, _ := ctx.Value(subjectKey{}).(*access.Subject)
	return s
}

func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return forms.Errors{"_": "malformed request body"}
	}
	return nil
}

// Error writes the response for err. Authorization outcomes are reported
// without detail; storage failures are logged and hidden behind a 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, access.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		Respond(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, access.ErrForbidden):
		Respond(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrUnauthenticated):
		Respond(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	default:
		if fe, ok := forms.AsErrors(err); ok {
			Respond(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  "validation failed",
				"fields": fe,
			})
			return
		}
		zap.S().Errorw("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		Respond(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
