package auth

import (
	"net/http"
	"strings"

	"github.com/georgemunganga/storefront/internal/modules/access"
	"github.com/georgemunganga/storefront/internal/web"
)

// Middleware attaches the requester identified by a bearer token to the
// request context. Requests without a valid token continue anonymously.
func Middleware(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := web.WithSubject(r.Context(), &access.Subject{UserID: id})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if web.SubjectFrom(r.Context()) == nil {
			web.Error(w, r, web.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}
