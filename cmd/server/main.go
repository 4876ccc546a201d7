package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	_ "hyperlocal/docs" // swagger docs

	"hyperlocal/internal/auth"
	"hyperlocal/internal/cache"
	"hyperlocal/internal/config"
	"hyperlocal/internal/db"
	"hyperlocal/internal/handler"
	"hyperlocal/internal/location"
	"hyperlocal/internal/logging"
	"hyperlocal/internal/repository"
	"hyperlocal/internal/router"
	"hyperlocal/internal/service"
)

// @title Hyperlocal Feed API
// @version 1.0
// @description Neighbourhood notices scoped by pin code and area, with JWT authentication and first-run profile setup.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, err := db.Open(cfg)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Warn("failed to drop tables (may not exist)", zap.Error(err))
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if err := cacheClient.Ping(context.Background()); err != nil {
		logger.Warn("redis unreachable, caching disabled and token operations will fail until it recovers", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	directory := location.NewDirectory(location.Defaults{
		Country:  cfg.DefaultCountry,
		State:    cfg.DefaultState,
		District: cfg.DefaultDistrict,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	postService := service.NewPostService(postRepo, cacheClient, logger)
	accountService := service.NewAccountService(userRepo, postService, cacheClient, directory.Defaults())
	authService := service.NewAuthService(accountService, jwtService, tokenStore)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, logger, jwtService, authService, router.Handlers{
		Auth:     handler.NewAuthHandler(accountService, authService),
		Profile:  handler.NewProfileHandler(accountService),
		Post:     handler.NewPostHandler(postService),
		Location: handler.NewLocationHandler(directory),
	})

	logger.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
