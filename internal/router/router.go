package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"hyperlocal/internal/auth"
	"hyperlocal/internal/handler"
	"hyperlocal/internal/logging"
	appmiddleware "hyperlocal/internal/middleware"
	"hyperlocal/internal/service"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Post     *handler.PostHandler
	Location *handler.LocationHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	logger *zap.Logger,
	jwtService *auth.JWTService,
	authService service.AuthService,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.POST("/refresh", h.Auth.Refresh)
	api.GET("/locations", h.Location.List)

	// Authenticated routes, any profile state
	secured := api.Group("", appmiddleware.Authenticate(jwtService, authService)...)
	secured.POST("/logout", h.Auth.Logout)
	secured.GET("/me", h.Profile.Me)
	secured.POST("/profile", h.Profile.CompleteProfile)

	// Feed routes require a completed profile
	feed := secured.Group("", appmiddleware.RequireCompleteProfile)
	feed.GET("/posts", h.Post.List)
	feed.POST("/posts", h.Post.Create)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
