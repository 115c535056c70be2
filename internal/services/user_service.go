package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/solacejournal/solace-backend/internal/apperrors"
	"github.com/solacejournal/solace-backend/internal/models"
	"github.com/solacejournal/solace-backend/pkg/utils"
)

// PasswordResetTTL is how long a mailed reset token stays valid.
const PasswordResetTTL = 1 * time.Hour

// UserService manages user accounts in the users collection. Callers pass
// already-validated input; this layer only enforces uniqueness and hashing.
type UserService struct {
	users *mongo.Collection
}

func NewUserService(db *mongo.Database) *UserService {
	return &UserService{users: db.Collection("users")}
}

// Register creates a new user with a hashed password. Username and email are
// expected normalized (lowercase, trimmed) by the caller.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	// Friendlier than waiting for the unique index to reject the insert.
	count, err := s.users.CountDocuments(ctx, bson.M{"$or": []bson.M{{"email": email}, {"username": username}}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicate
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := storageNow()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Username:  username,
		Email:     email,
		Password:  hash,
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return user, nil
}

// Authenticate verifies email+password. Unknown email and wrong password are
// deliberately indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	if !utils.VerifyPassword(password, user.Password) {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

// GetByID looks up a user by hex ObjectID.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}
	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return &user, nil
}

// CreatePasswordResetToken stores a hashed single-use reset token on the user
// and returns the raw token for mailing. Only the sha256 of the token is kept.
func (s *UserService) CreatePasswordResetToken(ctx context.Context, email string) (string, *models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return "", nil, apperrors.ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	raw := uuid.NewString()
	expires := time.Now().Add(PasswordResetTTL)
	_, err = s.users.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"password_reset_token":   hashResetToken(raw),
		"password_reset_expires": expires,
		"updated_at":             time.Now(),
	}})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return raw, &user, nil
}

// ResetPassword consumes a valid unexpired reset token and sets a new password.
func (s *UserService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{
		"password_reset_token":   hashResetToken(rawToken),
		"password_reset_expires": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = s.users.UpdateByID(ctx, user.ID, bson.M{
		"$set":   bson.M{"password": hash, "updated_at": time.Now()},
		"$unset": bson.M{"password_reset_token": "", "password_reset_expires": ""},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
