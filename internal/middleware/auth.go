package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/solacejournal/solace-backend/internal/services"
)

type contextKey string

// UserIDKey is the request-context key carrying the authenticated user's ID
// (hex ObjectID). Owner scoping always reads this, never the request body.
const UserIDKey contextKey = "user_id"

// ExtractBearerToken returns the token from an "Authorization: Bearer x" header.
func ExtractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth validates the bearer JWT and puts the user ID into the request
// context. Unauthenticated requests get a 401 JSON envelope.
func RequireAuth(tokens *services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				unauthorized(w, "Not authorized, no token provided")
				return
			}
			userID, err := tokens.Validate(r.Context(), token)
			if err != nil {
				unauthorized(w, "Invalid or expired token. Please log in again.")
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user's ID set by RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
