package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hyperlocal/internal/cache"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
)

// ErrRefreshTokenNotFound is returned when a refresh token is unknown or expired.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore handles storage and retrieval of tokens in Redis. Unlike the
// read caches it surfaces redis errors.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

type refreshTokenData struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	payload, err := json.Marshal(refreshTokenData{UserID: userID, Email: email})
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	return s.cache.Store(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl)
}

// GetRefreshToken retrieves refresh token data from Redis.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email string, err error) {
	data, err := s.cache.Lookup(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil {
		return 0, "", fmt.Errorf("get refresh token: %w", err)
	}
	if data == nil {
		return 0, "", ErrRefreshTokenNotFound
	}

	var tokenData refreshTokenData
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return 0, "", fmt.Errorf("%w: unmarshal token data: %v", ErrRefreshTokenNotFound, err)
	}
	if tokenData.Email == "" {
		return 0, "", fmt.Errorf("%w: invalid email in token data", ErrRefreshTokenNotFound)
	}
	return tokenData.UserID, tokenData.Email, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Remove(ctx, refreshTokenKeyPrefix+tokenID)
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Store(ctx, accessTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted checks if an access token is blacklisted. Redis
// errors are returned so callers can fail closed.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Lookup(ctx, accessTokenKeyPrefix+tokenID)
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return data != nil, nil
}
