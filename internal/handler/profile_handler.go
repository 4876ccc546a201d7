package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hyperlocal/internal/middleware"
	"hyperlocal/internal/model"
	"hyperlocal/internal/service"
	"hyperlocal/internal/session"
)

// ProfileHandler handles the current user's profile.
type ProfileHandler struct {
	accountService service.AccountService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(accountService service.AccountService) *ProfileHandler {
	return &ProfileHandler{accountService: accountService}
}

// ProfileRequest represents a profile setup request. Country, state and
// district fall back to the configured defaults when omitted.
type ProfileRequest struct {
	PublicName string `json:"public_name" validate:"required"`
	Country    string `json:"country"`
	State      string `json:"state"`
	District   string `json:"district"`
	PinCode    string `json:"pin_code" validate:"required"`
	Area       string `json:"area" validate:"required"`
}

// ProfileResponse returns the user with the session it now has.
type ProfileResponse struct {
	User            *model.User   `json:"user"`
	Session         session.State `json:"session"`
	ProfileComplete bool          `json:"profile_complete"`
}

// Me godoc
// @Summary Current user and session state
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	sess := middleware.Session(c)
	return c.JSON(http.StatusOK, ProfileResponse{
		User:            middleware.CurrentUser(c),
		Session:         sess.State,
		ProfileComplete: sess.ProfileComplete(),
	})
}

// CompleteProfile godoc
// @Summary Set public name and home location
// @Description Seeds starter posts for the location when its feed is empty.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile data"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /profile [post]
func (h *ProfileHandler) CompleteProfile(c echo.Context) error {
	sess := middleware.Session(c)
	if err := sess.RequireProfileSetup(); err != nil {
		return middleware.Error(err)
	}

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return middleware.ValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return middleware.ValidationError(err.Error())
	}

	user, err := h.accountService.CompleteProfile(c.Request().Context(), sess.Email, service.ProfileInput{
		PublicName: req.PublicName,
		Country:    req.Country,
		State:      req.State,
		District:   req.District,
		PinCode:    req.PinCode,
		Area:       req.Area,
	})
	if err != nil {
		return middleware.Error(err)
	}

	next, err := sess.ProfileCompleted()
	if err != nil {
		return middleware.Error(err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{
		User:            user,
		Session:         next.State,
		ProfileComplete: next.ProfileComplete(),
	})
}
