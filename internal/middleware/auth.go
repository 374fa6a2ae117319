// Package middleware provides the HTTP cross-cutting layers: request
// logging, prometheus metrics, and bearer-token authentication.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tallyhq/tally/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ParticipantIDKey is the context key for the authenticated participant ID.
const ParticipantIDKey contextKey = "participant_id"

// GetParticipantID extracts the authenticated participant ID from the
// context. Returns empty string if not found.
func GetParticipantID(ctx context.Context) string {
	id, _ := ctx.Value(ParticipantIDKey).(string)
	return id
}

// RequireAuth validates the bearer JWT on every request and adds the
// participant ID to the request context.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, auth.ErrMissingToken)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), ParticipantIDKey, claims.ParticipantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
