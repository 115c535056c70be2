package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacejournal/solace-backend/internal/services"
)

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc123", ExtractBearerToken("Bearer abc123"))
	assert.Equal(t, "abc123", ExtractBearerToken("bearer abc123"))
	assert.Equal(t, "", ExtractBearerToken(""))
	assert.Equal(t, "", ExtractBearerToken("abc123"))
	assert.Equal(t, "", ExtractBearerToken("Basic abc123"))
}

func TestRequireAuth(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour, nil)

	var seenUserID string
	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		token, err := tokens.Issue("64f000000000000000000001")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/journal", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "64f000000000000000000001", seenUserID)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/journal", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":false`)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/journal", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signing secret", func(t *testing.T) {
		otherIssuer := services.NewTokenService("different-secret", time.Hour, nil)
		token, err := otherIssuer.Issue("64f000000000000000000001")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/journal", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
