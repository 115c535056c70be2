package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JournalEntry is a single journal submission together with the emotion label
// and coping suggestion derived for it at creation time. Entries are immutable
// once stored; there are no update or delete endpoints.
type JournalEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	// Always set from the authenticated caller, never from the request body.
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Content string `bson:"content" json:"content"`

	// Emotion/Confidence and Suggestion are always populated: either by the
	// AI backends or by their fixed fallback values.
	Emotion    string  `bson:"emotion" json:"emotion"`
	Confidence float64 `bson:"confidence" json:"confidence"`
	Suggestion string  `bson:"suggestion" json:"suggestion"`
}
