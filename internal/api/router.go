package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/identity-api/internal/api/handler"
	"github.com/userhub/identity-api/internal/api/middleware"
	"github.com/userhub/identity-api/internal/core/ports"
	"github.com/userhub/identity-api/internal/core/service"
	"github.com/userhub/identity-api/internal/infrastructure/config"
	mongodb "github.com/userhub/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/identity-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit ports.AuditRecorder, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	revoker := redisdb.NewRevocationStore(rdb)
	authService := service.NewAuthService(userRepo, hasher, tokens, revoker, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	authMiddleware := middleware.Auth(tokens, revoker, log)

	// --- User routes ---
	e.POST("/users/register", authHandler.Register)
	e.GET("/users", userHandler.List)
	e.GET("/users/:id", userHandler.Get)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/profile", authHandler.Profile, authMiddleware)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
