package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/solacejournal/solace-backend/internal/apperrors"
	"github.com/solacejournal/solace-backend/internal/middleware"
	"github.com/solacejournal/solace-backend/internal/models"
	"github.com/solacejournal/solace-backend/internal/services"
)

var (
	journalService    *services.JournalService
	classifierEnabled bool
	suggesterEnabled  bool
)

// InitJournalHandlers wires the journal handlers to the entry service and
// records which AI adapters are live. The flags are advisory only.
func InitJournalHandlers(svc *services.JournalService, classifierOn, suggesterOn bool) {
	journalService = svc
	classifierEnabled = classifierOn
	suggesterEnabled = suggesterOn
}

type CreateEntryRequest struct {
	Content string `json:"content"`
}

type EntryResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Entry   *models.JournalEntry `json:"entry,omitempty"`
}

type ListEntriesResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Count   int                   `json:"count"`
	Entries []models.JournalEntry `json:"entries"`
}

type AIStatusResponse struct {
	Success    bool `json:"success"`
	Classifier bool `json:"classifier"`
	Suggester  bool `json:"suggester"`
}

func ownerID(r *http.Request) (primitive.ObjectID, bool) {
	hex, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateEntry accepts journal content, runs the AI pipeline and persists
// the finished entry.
func CreateEntry(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid request body"})
		return
	}

	entry, err := journalService.CreateEntry(r.Context(), owner, req.Content)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Journal content is required"})
			return
		}
		log.Printf("⚠️ Entry creation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Message: "Failed to save journal entry"})
		return
	}

	writeJSON(w, http.StatusCreated, EntryResponse{
		Success: true,
		Message: "Journal entry created",
		Entry:   entry,
	})
}

// GetEntries lists the caller's entries, newest first.
func GetEntries(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ListEntriesResponse{Success: false, Message: "Authentication required", Entries: []models.JournalEntry{}})
		return
	}

	entries, err := journalService.ListEntries(r.Context(), owner)
	if err != nil {
		log.Printf("⚠️ Entry listing failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ListEntriesResponse{Success: false, Message: "Failed to load journal entries", Entries: []models.JournalEntry{}})
		return
	}

	writeJSON(w, http.StatusOK, ListEntriesResponse{
		Success: true,
		Count:   len(entries),
		Entries: entries,
	})
}

// GetEntry fetches a single entry owned by the caller. A malformed ID, a
// missing entry and someone else's entry all look the same: 404.
func GetEntry(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{Success: false, Message: "Authentication required"})
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, EntryResponse{Success: false, Message: "Journal entry not found"})
		return
	}

	entry, err := journalService.GetEntry(r.Context(), id, owner)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, EntryResponse{Success: false, Message: "Journal entry not found"})
			return
		}
		log.Printf("⚠️ Entry lookup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Message: "Failed to load journal entry"})
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{Success: true, Entry: entry})
}

// AIStatus reports which AI adapters were configured at startup.
func AIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AIStatusResponse{
		Success:    true,
		Classifier: classifierEnabled,
		Suggester:  suggesterEnabled,
	})
}
