package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/token"
)

type ctxKey int

const userIDKey ctxKey = iota

// TokenParser verifies a bearer token and returns the user it was issued for.
// *token.Issuer satisfies it.
type TokenParser interface {
	Parse(raw string) (uuid.UUID, error)
}

// NewAuthenticator returns a middleware that requires an
// "Authorization: Bearer <token>" header. A missing or invalid token is
// answered with 401, telling an expired token apart from a bad one. A valid
// token puts the user id into the request context.
func NewAuthenticator(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="wanderlust"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			userID, err := tokens.Parse(raw)
			if err != nil {
				msg := "invalid token"
				if token.IsExpired(err) {
					msg = "token expired"
				}
				w.Header().Set("WWW-Authenticate", `Bearer realm="wanderlust", error="invalid_token", error_description="`+msg+`"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying the authenticated user's id.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext returns the id stored by NewAuthenticator, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, raw, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// writeError writes the API's JSON error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
