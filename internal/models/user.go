package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // Don't return password in JSON

	// Password reset (sha256 of the mailed token; raw token never stored)
	PasswordResetToken   string     `bson:"password_reset_token,omitempty" json:"-"`
	PasswordResetExpires *time.Time `bson:"password_reset_expires,omitempty" json:"-"`
}
