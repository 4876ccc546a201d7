package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hyperlocal/internal/middleware"
	"hyperlocal/internal/model"
	"hyperlocal/internal/service"
)

// PostHandler handles feed endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest represents a new post. The image reference is an
// opaque path or URL.
type CreatePostRequest struct {
	Content        string `json:"content"`
	ImageReference string `json:"image_reference"`
}

// FeedResponse lists the posts of one location.
type FeedResponse struct {
	Location model.Location `json:"location"`
	Posts    []model.Post   `json:"posts"`
}

// List godoc
// @Summary List posts for a location
// @Description Defaults to the caller's home location when pin_code and area are omitted.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param pin_code query string false "Pin code"
// @Param area query string false "Area"
// @Success 200 {object} FeedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	loc := model.Location{PinCode: c.QueryParam("pin_code"), Area: c.QueryParam("area")}
	if loc.PinCode == "" && loc.Area == "" {
		if user := middleware.CurrentUser(c); user != nil {
			loc = model.Location{PinCode: user.PinCode, Area: user.Area}
		}
	}
	if loc.PinCode == "" || loc.Area == "" {
		return middleware.ValidationError("pin_code and area are required together")
	}

	posts, err := h.postService.ListByLocation(c.Request().Context(), loc.PinCode, loc.Area)
	if err != nil {
		return middleware.Error(err)
	}
	return c.JSON(http.StatusOK, FeedResponse{Location: loc, Posts: posts})
}

// Create godoc
// @Summary Post a notice to the home location
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post data"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return middleware.ValidationError("invalid request body")
	}

	user := middleware.CurrentUser(c)
	post, err := h.postService.Create(c.Request().Context(), service.CreatePostInput{
		Author:         user.PublicName,
		Content:        req.Content,
		ImageReference: req.ImageReference,
		PinCode:        user.PinCode,
		Area:           user.Area,
	})
	if err != nil {
		return middleware.Error(err)
	}
	return c.JSON(http.StatusCreated, post)
}
