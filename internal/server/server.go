// Package server contains the HTTP handlers for the marketplace API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "marketplace/docs" // swagger docs
	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/middleware"
	"marketplace/internal/observability"
	"marketplace/internal/repository"
	"marketplace/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// requestTimeout bounds the persistence work of a single request.
const requestTimeout = 5 * time.Second

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	listingRepo    repository.ListingRepository
	userService    *service.UserService
	listingService *service.ListingService
}

// NewServer connects to the configured database and builds a Server on top of it.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return NewServerWithDeps(cfg, db)
}

// NewServerWithDeps creates a Server using an already-initialized database.
// Use this in tests or when a bootstrap layer establishes the DB and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		userRepo:       repository.NewUserRepository(db),
		listingRepo:    repository.NewListingRepository(db),
	}
	s.userService = service.NewUserService(s.userRepo)
	s.listingService = service.NewListingService(s.listingRepo, cfg.ListingsDefaultLimit, cfg.ListingsMaxLimit)

	return s, nil
}

// NewApp returns a Fiber app configured for the API.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "Student Marketplace API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: ErrorHandler,
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for log correlation
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// Tracing must run before the context middleware so the trace ID is in locals.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		MaxAge:       86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Student Marketplace Metrics",
	}))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	users := app.Group("/users")
	users.Get("/", s.ListUsers)
	users.Post("/", s.CreateUser)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	listings := app.Group("/listings")
	listings.Get("/", s.ListListings)
	listings.Post("/", s.CreateListing)
	listings.Get("/:id", s.GetListing)
	listings.Put("/:id", s.UpdateListing)
	listings.Delete("/:id", s.DeleteListing)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
		middleware.Logger.WarnContext(ctx, "readiness check failed", slog.String("error", err.Error()))
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases the server's resources.
func (s *Server) Shutdown(ctx context.Context) error {
	middleware.Logger.InfoContext(ctx, "closing database connections")
	return database.Close(s.db)
}
