package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-auth-tasks/internal/model"
	"go-auth-tasks/internal/token"
)

type tokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

// AuthMiddleware authorizes requests with a bearer access token. It needs
// only the public-key verifier, so any trusting service can embed it.
type AuthMiddleware struct {
	verifier tokenVerifier
}

func NewAuthMiddleware(verifier tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeUnauthorized(w, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		claims, err := m.verifier.Verify(strings.TrimSpace(header[7:]))
		if err != nil {
			writeUnauthorized(w, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		// Refresh tokens verify fine but must never authorize resource
		// access.
		if claims.Type != token.TypeAccess {
			writeUnauthorized(w, "WRONG_TOKEN_TYPE", "access token required")
			return
		}

		if claims.UserID == 0 {
			writeUnauthorized(w, "MALFORMED_CLAIMS", "token is missing subject claims")
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*token.Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated subject's id. Handlers use it
// as the authorization key for every per-resource query.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

func writeUnauthorized(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = jsonEncode(w, model.ErrorResponse{
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
