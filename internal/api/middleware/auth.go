package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/istehunt/hunt/internal/admin"
	"github.com/istehunt/hunt/internal/api/response"
)

const claimsKey contextKey = "adminClaims"

// TokenVerifier resolves a bearer token to admin session claims.
type TokenVerifier interface {
	Verify(token string) (*admin.Claims, error)
}

// AdminAuth is middleware that requires a valid Authorization: Bearer token
// issued by the admin service. Missing or invalid tokens return 401.
func AdminAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token is required", requestID)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the authenticated admin claims from the context.
func GetClaims(ctx context.Context) *admin.Claims {
	if c, ok := ctx.Value(claimsKey).(*admin.Claims); ok {
		return c
	}
	return nil
}
