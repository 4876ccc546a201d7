package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hyperlocal/internal/middleware"
	"hyperlocal/internal/model"
	"hyperlocal/internal/service"
	"hyperlocal/internal/session"
)

// AuthHandler handles sign-up and token endpoints.
type AuthHandler struct {
	accountService service.AccountService
	authService    service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accountService service.AccountService, authService service.AuthService) *AuthHandler {
	return &AuthHandler{accountService: accountService, authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest represents a logout request. The refresh token is optional.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterResponse represents a registration response.
type RegisterResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken     string        `json:"access_token"`
	RefreshToken    string        `json:"refresh_token,omitempty"`
	User            *model.User   `json:"user,omitempty"`
	Session         session.State `json:"session,omitempty"`
	ProfileComplete bool          `json:"profile_complete"`
}

// SessionResponse reports the caller's session state.
type SessionResponse struct {
	Message string        `json:"message,omitempty"`
	Session session.State `json:"session"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return middleware.ValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return middleware.ValidationError(err.Error())
	}

	user, err := h.accountService.Register(c.Request().Context(), req.FullName, req.Phone, req.Email, req.Password)
	if err != nil {
		return middleware.Error(err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "user registered successfully",
		User:    user,
	})
}

// Login godoc
// @Summary Login user
// @Description Unknown emails and wrong passwords both return INVALID_CREDENTIALS.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return middleware.ValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return middleware.ValidationError(err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return middleware.Error(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken:     result.AccessToken,
		RefreshToken:    result.RefreshToken,
		User:            result.User,
		Session:         result.Session.State,
		ProfileComplete: result.Session.ProfileComplete(),
	})
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return middleware.ValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return middleware.ValidationError(err.Error())
	}

	accessToken, refreshToken, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return middleware.Error(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Logout godoc
// @Summary Logout user
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LogoutRequest false "Refresh token"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return middleware.ValidationError("invalid request body")
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken, middleware.CurrentClaims(c)); err != nil {
		return middleware.Error(err)
	}

	return c.JSON(http.StatusOK, SessionResponse{
		Message: "logged out successfully",
		Session: middleware.Session(c).LoggedOut().State,
	})
}
