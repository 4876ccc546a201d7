package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateAccessToken(7, "asha@x.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "asha@x.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, AccessTokenExpiry.Seconds(), claims.Remaining().Seconds(), 5)
}

func TestJWTService_RefreshTokenCarriesID(t *testing.T) {
	svc := NewJWTService("test-secret")

	tokenID, token, err := svc.GenerateRefreshToken(7, "asha@x.com")
	require.NoError(t, err)

	extracted, err := svc.ExtractRefreshTokenID(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, extracted)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, err := NewJWTService("other-secret").GenerateAccessToken(1, "a@b.c")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret")
	claims := &Claims{
		UserID: 1,
		Email:  "a@b.c",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
	assert.Zero(t, claims.Remaining())
}

func TestJWTService_TokenTypesAreNotInterchangeable(t *testing.T) {
	svc := NewJWTService("test-secret")

	access, err := svc.GenerateAccessToken(7, "asha@x.com")
	require.NoError(t, err)
	_, refresh, err := svc.GenerateRefreshToken(7, "asha@x.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(access)
	assert.NoError(t, err)
	_, err = svc.ValidateRefreshToken(refresh)
	assert.NoError(t, err)

	_, err = svc.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = svc.ExtractRefreshTokenID(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTService_RejectsUntypedToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	claims := &Claims{
		UserID: 1,
		Email:  "a@b.c",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "untyped",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}
