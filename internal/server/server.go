// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"caerus/internal/cache"
	"caerus/internal/config"
	"caerus/internal/database"
	"caerus/internal/ledger"
	"caerus/internal/middleware"
	"caerus/internal/notifications"
	"caerus/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	ledger         *ledger.Ledger
	notifier       *notifications.Notifier
	userRepo       repository.UserRepository
	pitchRepo      repository.PitchRepository
	subRepo        repository.SubscriptionRepository
	templateRepo   repository.QuestionTemplateRepository
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: fiberprometheus.New("caerus-api"),
		userRepo:       repository.NewUserRepository(db),
		pitchRepo:      repository.NewPitchRepository(db),
		subRepo:        repository.NewSubscriptionRepository(db),
		templateRepo:   repository.NewQuestionTemplateRepository(db),
	}

	// The notifier tolerates a nil Redis client, so the ledger always gets
	// an Events implementation and never special-cases delivery.
	server.notifier = notifications.NewNotifier(redisClient)
	server.ledger = ledger.New(db, server.notifier)

	return server, nil
}

// Ledger exposes the engagement ledger, mainly for bootstrap code and tests.
func (s *Server) Ledger() *ledger.Ledger {
	return s.ledger
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Distributed tracing spans (before context middleware so traceID lands
	// in locals first)
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before anything that can short-circuit, so browser clients still
	// receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Caerus Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/sync", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "sync"), s.Sync)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Profile routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/me/quotas", s.GetMyQuotas)
	users.Put("/me/push-token", s.UpdatePushToken)

	// Startup + pitch routes (founder side)
	startups := protected.Group("/startups")
	startups.Post("/", s.CreateStartup)
	startups.Get("/me", s.GetMyStartups)
	startups.Post("/:id/pitch", s.CreatePitch)
	startups.Post("/:id/pitch/publish", s.PublishPitch)

	// Pitch feed (investor side). Viewing is quota-gated, hence the tighter
	// per-user limit on the view endpoint.
	pitches := protected.Group("/pitches")
	pitches.Get("/", s.GetPitchFeed)
	pitches.Post("/:id/view", middleware.RateLimit(
		s.redis, 30, time.Minute, "pitch_view"), s.RequestPitchView)

	// Talent browse (founder and investor side)
	talent := protected.Group("/talent")
	talent.Get("/", s.GetTalentFeed)
	talent.Post("/pitches/:id/view", middleware.RateLimit(
		s.redis, 30, time.Minute, "talent_view"), s.RequestTalentView)
	talent.Post("/pitches/:id/threads", middleware.RateLimit(
		s.redis, 10, time.Minute, "talent_dm"), s.CreateTalentThread)
	talent.Get("/threads", s.ListTalentThreads)
	talent.Get("/threads/:id/messages", s.GetTalentThreadMessages)
	talent.Post("/threads/:id/messages", middleware.RateLimit(
		s.redis, 15, time.Minute, "talent_chat"), s.PostTalentThreadMessage)

	// Q&A thread routes
	qa := protected.Group("/qa/threads")
	qa.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "qa_create"), s.CreateThread)
	qa.Get("/", s.ListThreads)
	// Specific /:id/:resource routes BEFORE generic /:id route
	qa.Get("/:id/messages", s.GetThreadMessages)
	qa.Post("/:id/messages", middleware.RateLimit(
		s.redis, 15, time.Minute, "qa_chat"), s.PostThreadMessage)
	qa.Post("/:id/status", s.TransitionThread)
	qa.Post("/:id/contact", s.OpenContact)
	qa.Get("/:id", s.GetThread)

	// Question template routes (investor side)
	templates := protected.Group("/question-templates")
	templates.Get("/", s.GetQuestionTemplates)
	templates.Post("/", s.CreateQuestionTemplate)
	templates.Delete("/:id", s.DeleteQuestionTemplate)

	// Support tickets
	support := protected.Group("/support")
	support.Post("/tickets", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "support_create"), s.CreateSupportTicket)
	support.Get("/tickets", s.ListSupportTickets)
	support.Get("/tickets/:id", s.GetSupportTicket)
	support.Post("/tickets/:id/messages", middleware.RateLimit(
		s.redis, 15, time.Minute, "support_chat"), s.PostSupportTicketMessage)

	// Subscription routes (investor side)
	subs := protected.Group("/subscriptions")
	subs.Get("/me", s.GetSubscriptionStatus)
	subs.Post("/", s.RecordSubscription)
}

// LivenessCheck reports whether the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the server can reach its dependencies.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"db":     "unreachable",
		})
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "ok"
		ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unreachable"
		}
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"db":     "ok",
		"redis":  redisStatus,
	})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(_ context.Context) error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
