package service

import (
	"context"
	"errors"
	"fmt"

	"hyperlocal/internal/auth"
	apperrors "hyperlocal/internal/errors"
	"hyperlocal/internal/model"
	"hyperlocal/internal/session"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *model.User
	Session      session.Session
}

// AuthService issues and revokes tokens and resolves them into sessions.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, err error)
	Logout(ctx context.Context, refreshToken string, access *auth.Claims) error
	ResolveSession(ctx context.Context, access *auth.Claims) (session.Session, *model.User, error)
}

type authService struct {
	accounts   AccountService
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(accounts AccountService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		accounts:   accounts,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Login authenticates the user and returns access and refresh tokens along
// with the resulting session.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := s.issue(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		Session:      session.Anon().Authenticated(user),
	}, nil
}

func (s *authService) issue(ctx context.Context, userID uint, email string) (string, string, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(userID, email)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(userID, email)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, userID, email, auth.RefreshTokenExpiry); err != nil {
		return "", "", storageErr("store refresh token", err)
	}
	return accessToken, refreshToken, nil
}

// RefreshToken validates a refresh token and rotates it.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil || claims.ID == "" {
		return "", "", apperrors.ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenNotFound) {
			return "", "", apperrors.ErrInvalidRefreshToken
		}
		return "", "", storageErr("get refresh token", err)
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", "", apperrors.ErrInvalidRefreshToken
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return "", "", storageErr("delete refresh token", err)
	}
	return s.issue(ctx, claims.UserID, claims.Email)
}

// Logout revokes the refresh token and blacklists the access token for the
// rest of its lifetime.
func (s *authService) Logout(ctx context.Context, refreshToken string, access *auth.Claims) error {
	if refreshToken != "" {
		tokenID, err := s.jwtService.ExtractRefreshTokenID(refreshToken)
		if err != nil {
			return apperrors.ErrInvalidRefreshToken
		}
		if err := s.tokenStore.DeleteRefreshToken(ctx, tokenID); err != nil {
			return storageErr("delete refresh token", err)
		}
	}

	if access != nil && access.ID != "" {
		if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, access.Remaining()); err != nil {
			return storageErr("blacklist access token", err)
		}
	}
	return nil
}

// ResolveSession turns validated access token claims into a session. Refresh
// tokens and tokens revoked at logout resolve to ErrUnauthenticated, and a
// blacklist that cannot be read fails closed.
func (s *authService) ResolveSession(ctx context.Context, access *auth.Claims) (session.Session, *model.User, error) {
	if access == nil || access.Email == "" || access.ID == "" || access.Type != auth.TokenTypeAccess {
		return session.Anon(), nil, apperrors.ErrUnauthenticated
	}

	revoked, err := s.tokenStore.IsAccessTokenBlacklisted(ctx, access.ID)
	if err != nil {
		return session.Anon(), nil, storageErr("check blacklist", err)
	}
	if revoked {
		return session.Anon(), nil, apperrors.ErrUnauthenticated
	}

	user, err := s.accounts.GetByEmail(ctx, access.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return session.Anon(), nil, apperrors.ErrUnauthenticated
		}
		return session.Anon(), nil, err
	}
	return session.Anon().Authenticated(user), user, nil
}
