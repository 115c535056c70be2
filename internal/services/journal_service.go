package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/solacejournal/solace-backend/internal/apperrors"
	"github.com/solacejournal/solace-backend/internal/models"
	"github.com/solacejournal/solace-backend/internal/services/ai"
)

// EntryStore persists journal entries scoped by owning user. Entries are
// append-only: there is no update or delete.
type EntryStore interface {
	// Create assigns the entry's ID and CreatedAt and persists it.
	Create(ctx context.Context, entry *models.JournalEntry) error
	// ListByOwner returns all of the owner's entries, newest first. An owner
	// with no entries yields an empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.JournalEntry, error)
	// GetByID returns the entry only when it belongs to ownerID. Missing and
	// foreign entries are both apperrors.ErrNotFound.
	GetByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.JournalEntry, error)
}

// EmotionClassifier labels entry text. Implementations never fail; they fall
// back to a neutral classification instead.
type EmotionClassifier interface {
	Classify(ctx context.Context, text string) ai.Classification
}

// SuggestionGenerator produces a coping suggestion for a classified entry.
// Implementations never fail; they return a fixed fallback string instead.
type SuggestionGenerator interface {
	Suggest(ctx context.Context, emotion, content string) string
}

// JournalService orchestrates entry creation: classify, suggest, persist.
// Because both AI steps are fail-open, its only failure paths are validation
// and persistence.
type JournalService struct {
	store      EntryStore
	classifier EmotionClassifier
	suggester  SuggestionGenerator
}

func NewJournalService(store EntryStore, classifier EmotionClassifier, suggester SuggestionGenerator) *JournalService {
	return &JournalService{
		store:      store,
		classifier: classifier,
		suggester:  suggester,
	}
}

// CreateEntry validates and persists a new journal entry for ownerID.
// Nothing is written until the AI steps have produced values (real or
// fallback), so a failed call never leaves a partial record behind.
func (s *JournalService) CreateEntry(ctx context.Context, ownerID primitive.ObjectID, rawContent string) (*models.JournalEntry, error) {
	content := strings.TrimSpace(rawContent)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required and cannot be empty", apperrors.ErrValidation)
	}

	// Strictly sequential: the suggestion prompt depends on the classification.
	cls := s.classifier.Classify(ctx, content)
	suggestion := s.suggester.Suggest(ctx, cls.Emotion, content)

	entry := &models.JournalEntry{
		UserID:     ownerID,
		Content:    content,
		Emotion:    cls.Emotion,
		Confidence: cls.Confidence,
		Suggestion: suggestion,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns all entries for the owner, newest first.
func (s *JournalService) ListEntries(ctx context.Context, ownerID primitive.ObjectID) ([]models.JournalEntry, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// GetEntry returns a single owned entry or apperrors.ErrNotFound.
func (s *JournalService) GetEntry(ctx context.Context, id, ownerID primitive.ObjectID) (*models.JournalEntry, error) {
	return s.store.GetByID(ctx, id, ownerID)
}

// MongoEntryStore is the MongoDB-backed EntryStore, collection journal_entries.
type MongoEntryStore struct {
	entries *mongo.Collection
}

func NewMongoEntryStore(db *mongo.Database) *MongoEntryStore {
	return &MongoEntryStore{entries: db.Collection("journal_entries")}
}

func (m *MongoEntryStore) Create(ctx context.Context, entry *models.JournalEntry) error {
	if entry.UserID.IsZero() {
		return fmt.Errorf("%w: entry has no owner", apperrors.ErrPersistence)
	}
	if entry.Content == "" {
		return fmt.Errorf("%w: entry has no content", apperrors.ErrPersistence)
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = storageNow()
	}
	if _, err := m.entries.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (m *MongoEntryStore) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.JournalEntry, error) {
	findOptions := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := m.entries.Find(ctx, bson.M{"user_id": ownerID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.JournalEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return entries, nil
}

// storageNow returns the current time at the millisecond precision BSON
// datetimes keep, so timestamps handed back at create read back identical on
// every later retrieval.
func storageNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (m *MongoEntryStore) GetByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.JournalEntry, error) {
	// Owner scoping by construction: the filter carries both _id and user_id,
	// so another owner's entry is indistinguishable from a missing one.
	var entry models.JournalEntry
	err := m.entries.FindOne(ctx, bson.M{"_id": id, "user_id": ownerID}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return &entry, nil
}
