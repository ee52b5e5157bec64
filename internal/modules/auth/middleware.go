package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
)

type contextKey struct{}

// Middleware rejects requests without a valid bearer token and stores the
// verified claims in the request context.
func Middleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tokens.Verify(bearerToken(r))
			if err != nil {
				if errors.Is(err, ErrMissingToken) {
					httpx.Respond(w, http.StatusUnauthorized, httpx.ErrorResponse{Error: "Access token required"})
					return
				}
				httpx.Respond(w, http.StatusForbidden, httpx.ErrorResponse{Error: "Invalid token"})
				return
			}
			ctx := context.WithValue(r.Context(), contextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
