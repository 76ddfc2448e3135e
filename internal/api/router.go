package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sirpyerre/storefront-api/docs" // swagger docs

	"github.com/sirpyerre/storefront-api/internal/api/handler"
	"github.com/sirpyerre/storefront-api/internal/api/middleware"
	"github.com/sirpyerre/storefront-api/internal/core/domain"
	"github.com/sirpyerre/storefront-api/internal/core/ports"
	"github.com/sirpyerre/storefront-api/internal/infrastructure/http/handlers"
)

// Dependencies are the use cases and probes the router exposes.
type Dependencies struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Products ports.ProductService

	// Readiness lists the backing services pinged by /health/ready.
	Readiness []handlers.Dependency

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Ops endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(deps.Readiness...)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Auth(deps.Auth)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	productHandler := handler.NewProductHandler(deps.Products)

	api := e.Group("/api")

	// --- Auth ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/profile", authHandler.Profile, authn)
	// Paths kept for older clients.
	api.POST("/auth/profile", authHandler.Profile, authn)
	api.POST("/users/register", authHandler.Register)

	// --- Users (admin) ---
	users := api.Group("/users", authn, adminOnly)
	users.GET("", userHandler.List)
	users.PATCH("/:id/ban", userHandler.Ban)
	users.PATCH("/:id/unban", userHandler.Unban)
	users.PATCH("/:id/role", userHandler.ChangeRole)

	// --- Products (listing is public, everything else needs a user) ---
	api.GET("/products", productHandler.List)
	api.POST("/products", productHandler.Create, authn)
	api.PATCH("/products/:id", productHandler.Update, authn)
	api.DELETE("/products/:id", productHandler.Delete, authn)
	api.PATCH("/products/:id/approve", productHandler.Approve, authn, adminOnly)

	return e
}
