// Package middleware resolves bearer tokens into request-scoped sessions and
// guards routes by session state.
package middleware

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"hyperlocal/internal/auth"
	apperrors "hyperlocal/internal/errors"
	"hyperlocal/internal/model"
	"hyperlocal/internal/service"
	"hyperlocal/internal/session"
)

const (
	claimsKey = "claims"
	userKey   = "current_user"
)

// Authenticate validates the bearer token and attaches the caller's
// session, user and claims to the request.
func Authenticate(jwtService *auth.JWTService, authService service.AuthService) []echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateAccessToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return Error(apperrors.ErrUnauthenticated)
		},
	})

	resolve := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsKey).(*auth.Claims)
			if !ok {
				return Error(apperrors.ErrUnauthenticated)
			}

			req := c.Request()
			sess, user, err := authService.ResolveSession(req.Context(), claims)
			if err != nil {
				return Error(err)
			}

			c.Set(userKey, user)
			c.SetRequest(req.WithContext(session.WithSession(req.Context(), sess)))
			return next(c)
		}
	}

	return []echo.MiddlewareFunc{parse, resolve}
}

// RequireCompleteProfile rejects sessions that cannot read the feed.
func RequireCompleteProfile(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := Session(c).RequireFeed(); err != nil {
			return Error(err)
		}
		return next(c)
	}
}

// Session returns the caller's session; anonymous when none was resolved.
func Session(c echo.Context) session.Session {
	return session.FromContext(c.Request().Context())
}

// CurrentUser returns the user resolved from the bearer token.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userKey).(*model.User)
	return user
}

// CurrentClaims returns the validated access token claims.
func CurrentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

// Error converts a domain error into an echo HTTP error with a standard body.
func Error(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// ValidationError reports a malformed or invalid request body.
func ValidationError(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: msg,
		Code:  "VALIDATION_ERROR",
	})
}
