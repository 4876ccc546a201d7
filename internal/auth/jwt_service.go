package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// AccessTokenExpiry is the duration for which access tokens are valid.
	AccessTokenExpiry = 15 * time.Minute
	// RefreshTokenExpiry is the duration for which refresh tokens are valid.
	RefreshTokenExpiry = 7 * 24 * time.Hour

	// TokenTypeAccess marks bearer credentials.
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks tokens that may only be exchanged at refresh.
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType is returned when a valid token is used for the other purpose.
var ErrWrongTokenType = errors.New("wrong token type")

// Claims represents JWT claims. Both token kinds carry a unique ID so they
// can be revoked individually.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// Remaining returns how long the token stays valid from now.
func (c *Claims) Remaining() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := time.Until(c.ExpiresAt.Time); d > 0 {
		return d
	}
	return 0
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// GenerateAccessToken generates a new access token for the user.
func (s *JWTService) GenerateAccessToken(userID uint, email string) (string, error) {
	_, token, err := s.sign(userID, email, TokenTypeAccess, AccessTokenExpiry)
	return token, err
}

// GenerateRefreshToken generates a new refresh token for the user.
// The refresh token ID is returned separately for storage in Redis.
func (s *JWTService) GenerateRefreshToken(userID uint, email string) (tokenID string, token string, err error) {
	return s.sign(userID, email, TokenTypeRefresh, RefreshTokenExpiry)
}

func (s *JWTService) sign(userID uint, email, tokenType string, ttl time.Duration) (string, string, error) {
	now := time.Now()
	tokenID := uuid.New().String()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return tokenID, token, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// ValidateAccessToken validates a token and requires it to be an access token.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validateType(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates a token and requires it to be a refresh token.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validateType(tokenString, TokenTypeRefresh)
}

func (s *JWTService) validateType(tokenString, tokenType string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// ExtractRefreshTokenID extracts the token ID (JTI) from a refresh token.
func (s *JWTService) ExtractRefreshTokenID(tokenString string) (string, error) {
	claims, err := s.ValidateRefreshToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("token ID not found")
	}
	return claims.ID, nil
}
