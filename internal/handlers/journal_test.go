package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/solacejournal/solace-backend/internal/apperrors"
	"github.com/solacejournal/solace-backend/internal/middleware"
	"github.com/solacejournal/solace-backend/internal/models"
	"github.com/solacejournal/solace-backend/internal/services"
	"github.com/solacejournal/solace-backend/internal/services/ai"
)

type memoryStore struct {
	entries []models.JournalEntry
}

func (s *memoryStore) Create(ctx context.Context, entry *models.JournalEntry) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memoryStore) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.JournalEntry, error) {
	out := make([]models.JournalEntry, 0)
	for _, e := range s.entries {
		if e.UserID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memoryStore) GetByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.JournalEntry, error) {
	for _, e := range s.entries {
		if e.ID == id && e.UserID == ownerID {
			found := e
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: journal entry", apperrors.ErrNotFound)
}

// asUser injects an authenticated user ID the way RequireAuth would.
func asUser(userID primitive.ObjectID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID.Hex())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func journalTestRouter(t *testing.T, store *memoryStore, userID primitive.ObjectID) *chi.Mux {
	t.Helper()

	classifier := ai.NewClassifier(ai.ClassifierConfig{})
	suggester := ai.NewSuggester(ai.SuggesterConfig{})
	InitJournalHandlers(services.NewJournalService(store, classifier, suggester), classifier.Enabled(), suggester.Enabled())

	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(asUser(userID))
		pr.Post("/api/journal", CreateEntry)
		pr.Get("/api/journal", GetEntries)
		pr.Get("/api/journal/{id}", GetEntry)
	})
	r.Get("/api/ai/status", AIStatus)
	return r
}

func TestCreateEntryHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	store := &memoryStore{}
	r := journalTestRouter(t, store, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/journal", strings.NewReader(`{"content":"long day"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp EntryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Entry)
	assert.Equal(t, "long day", resp.Entry.Content)
	assert.Equal(t, userID, resp.Entry.UserID)
	assert.Equal(t, ai.NeutralEmotion, resp.Entry.Emotion)
	assert.NotEmpty(t, resp.Entry.Suggestion)
	require.Len(t, store.entries, 1)
}

func TestCreateEntryHandlerRejectsBlankContent(t *testing.T) {
	store := &memoryStore{}
	r := journalTestRouter(t, store, primitive.NewObjectID())

	for _, body := range []string{`{"content":""}`, `{"content":"   "}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/journal", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp EntryResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.False(t, resp.Success)
	}
	assert.Empty(t, store.entries)
}

func TestCreateEntryHandlerRejectsMalformedBody(t *testing.T) {
	r := journalTestRouter(t, &memoryStore{}, primitive.NewObjectID())

	req := httptest.NewRequest(http.MethodPost, "/api/journal", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEntriesHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	store := &memoryStore{entries: []models.JournalEntry{
		{ID: primitive.NewObjectID(), UserID: userID, Content: "mine"},
		{ID: primitive.NewObjectID(), UserID: other, Content: "theirs"},
	}}
	r := journalTestRouter(t, store, userID)

	req := httptest.NewRequest(http.MethodGet, "/api/journal", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListEntriesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "mine", resp.Entries[0].Content)
}

func TestGetEntriesHandlerEmptyIsJSONArray(t *testing.T) {
	r := journalTestRouter(t, &memoryStore{}, primitive.NewObjectID())

	req := httptest.NewRequest(http.MethodGet, "/api/journal", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"entries":[]`)
}

func TestGetEntryHandlerNotFoundCases(t *testing.T) {
	userID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	foreignEntry := models.JournalEntry{ID: primitive.NewObjectID(), UserID: other, Content: "theirs"}
	store := &memoryStore{entries: []models.JournalEntry{foreignEntry}}
	r := journalTestRouter(t, store, userID)

	// A malformed ID, a missing entry and a foreign entry all yield 404.
	paths := []string{
		"/api/journal/not-a-hex-id",
		"/api/journal/" + primitive.NewObjectID().Hex(),
		"/api/journal/" + foreignEntry.ID.Hex(),
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestGetEntryHandlerReturnsOwnedEntry(t *testing.T) {
	userID := primitive.NewObjectID()
	entry := models.JournalEntry{ID: primitive.NewObjectID(), UserID: userID, Content: "mine", Emotion: "joy", Confidence: 0.8}
	store := &memoryStore{entries: []models.JournalEntry{entry}}
	r := journalTestRouter(t, store, userID)

	req := httptest.NewRequest(http.MethodGet, "/api/journal/"+entry.ID.Hex(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp EntryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Entry)
	assert.Equal(t, entry.ID, resp.Entry.ID)
	assert.Equal(t, "joy", resp.Entry.Emotion)
}

func TestAIStatusHandler(t *testing.T) {
	r := journalTestRouter(t, &memoryStore{}, primitive.NewObjectID())

	req := httptest.NewRequest(http.MethodGet, "/api/ai/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AIStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Classifier)
	assert.False(t, resp.Suggester)
}
