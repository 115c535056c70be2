package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidToken covers malformed, expired, and revoked tokens alike.
var ErrInvalidToken = errors.New("invalid or expired token")

// RevokedTokenKeyPrefix is the Redis key prefix for revoked JWT IDs.
const RevokedTokenKeyPrefix = "revoked_token:"

// TokenService issues and verifies the HS256 JWTs that identify users.
// Logout is implemented as a Redis denylist keyed by JWT ID: a revoked token
// stays listed until its natural expiry, after which the signature check
// alone rejects it.
type TokenService struct {
	secret []byte
	expiry time.Duration
	redis  *redis.Client
}

func NewTokenService(secret string, expiry time.Duration, redisClient *redis.Client) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
		redis:  redisClient,
	}
}

// Issue creates a signed token for the given user ID.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate checks the token signature, standard claims, and the revocation
// denylist. It returns the user ID carried in the subject claim.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}

	// A Redis outage fails open here: the token still carries a signed
	// expiry, only explicit logout is best-effort.
	if claims.ID != "" && s.redis != nil {
		n, err := s.redis.Exists(ctx, RevokedTokenKeyPrefix+claims.ID).Result()
		if err == nil && n > 0 {
			return "", ErrInvalidToken
		}
	}
	return claims.Subject, nil
}

// Revoke denylists the token's JWT ID until the token would have expired.
func (s *TokenService) Revoke(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if claims.ID == "" || claims.ExpiresAt == nil || s.redis == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, RevokedTokenKeyPrefix+claims.ID, "1", ttl).Err()
}

func (s *TokenService) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
