// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/cache"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/config"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/database"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/featureflags"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/middleware"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/notifications"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/service"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/storage"

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

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	notifier     *notifications.Notifier
	feedHub      *notifications.FeedHub
	featureFlags *featureflags.Manager

	userService     *service.UserService
	postService     *service.PostService
	commentService  *service.CommentService
	reactionService *service.ReactionService
	counterService  *service.CounterService
	feedService     *service.FeedService
	friendService   *service.FriendService
	mediaService    *service.MediaService
}

// NewServer creates a server instance, connecting the database, Redis,
// and object storage from config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis may come up nil; realtime delivery degrades to no-op and the
	// write path stays available.
	redisClient := cache.Connect(cfg.RedisURL).Client()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := storage.New(ctx, cfg)
	if err != nil {
		log.Printf("object storage unavailable, media uploads disabled: %v", err)
		store = nil
	}

	return NewServerWithDeps(cfg, db, redisClient, store)
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests and the bootstrap layer use this directly.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.Store) (*Server, error) {
	middleware.InitMiddleware(cfg)

	// The cache shares the notifier's Redis client; a nil client makes
	// every cache operation a pass-through.
	rdb := cache.NewFromClient(redisClient)

	userRepo := repository.NewUserRepository(db, rdb)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	counterRepo := repository.NewCounterRepository(db, rdb)
	shareRepo := repository.NewShareRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	feedRepo := repository.NewFeedRepository(db)

	prom := middleware.InitMetrics("ummah-connect-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	server.userService = service.NewUserService(userRepo)
	server.postService = service.NewPostService(db, postRepo, mediaRepo, counterRepo, reactionRepo, shareRepo, friendRepo)
	server.commentService = service.NewCommentService(db, commentRepo, counterRepo, postRepo)
	server.reactionService = service.NewReactionService(db, reactionRepo, counterRepo, postRepo)
	server.counterService = service.NewCounterService(db, counterRepo)
	server.feedService = service.NewFeedService(feedRepo, rdb)
	server.friendService = service.NewFriendService(friendRepo, userRepo)
	if store != nil {
		server.mediaService = service.NewMediaService(mediaRepo, store)
	}

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}
	server.feedHub = notifications.NewFeedHub()

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	// Request ID for tracing.
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers.
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. the
	// limiter) so browser clients still get CORS headers on errors.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (120 requests per minute per IP).
	app.Use(limiter.New(limiter.Config{
		Max:        120,
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

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks.
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus.
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Ummah Connect Metrics Dashboard",
	}))

	// Auth routes.
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Protected routes.
	protected := api.Group("", middleware.AuthRequired)

	// User routes. Specific routes must precede the generic /:id route.
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me/password", s.UpdateMyPassword)
	users.Put("/me", s.UpdateMyProfile)
	api.Get("/users/search", middleware.OptionalAuth, s.SearchUsers)
	api.Get("/users/:id/posts", middleware.OptionalAuth, s.GetUserPosts)
	api.Get("/users/:id/top-posts", middleware.OptionalAuth, s.GetTopPosts)
	api.Get("/users/:id/photos", middleware.OptionalAuth, s.GetUserPhotos)
	api.Get("/users/:id", middleware.OptionalAuth, s.GetUserProfile)

	// Feature flag snapshot for the signed-in user.
	protected.Get("/flags", s.GetFeatureFlags)

	// Home feed.
	protected.Get("/feed", s.GetFeed)

	// Protected post mutations. Specific /:id/:resource routes precede
	// the generic /:id routes.
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Put("/:id/reaction", middleware.RateLimit(
		s.redis, 60, time.Minute, "set_reaction"), s.SetReaction)
	posts.Delete("/:id/reaction", s.ClearReaction)
	posts.Get("/:id/reaction", s.GetMyReaction)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/share", middleware.RateLimit(
		s.redis, 10, time.Minute, "share_post"), s.SharePost)
	posts.Post("/:id/recount", middleware.RateLimit(
		s.redis, 5, time.Minute, "recount"), s.RecountPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Public post reads (viewer resolved when a token is present).
	api.Get("/posts/:id/comments", middleware.OptionalAuth, s.GetComments)
	api.Get("/posts/:id/reactions/summary", middleware.OptionalAuth, s.GetReactionBreakdown)
	api.Get("/posts/:id/reactions", middleware.OptionalAuth, s.GetReactions)
	api.Get("/posts/:id/counter", middleware.OptionalAuth, s.GetCounter)
	api.Get("/posts/:id/snapshot", middleware.OptionalAuth, s.GetPostSnapshot)
	api.Get("/posts/:id", middleware.OptionalAuth, s.GetPost)

	// Comment and reply mutations.
	comments := protected.Group("/comments")
	comments.Post("/:id/replies", s.CreateReply)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)
	protected.Delete("/replies/:id", s.DeleteReply)

	// Friend routes. Specific /requests routes precede generic /:userId.
	friends := protected.Group("/friends")
	friends.Get("/", s.GetFriends)
	friends.Post("/requests/:userId", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	friends.Get("/requests", s.GetPendingRequests)
	friends.Post("/requests/:requestId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:requestId/reject", s.RejectFriendRequest)
	friends.Delete("/:userId", s.RemoveFriend)

	// Media staging and photo galleries.
	protected.Post("/media", middleware.RateLimit(
		s.redis, 20, time.Hour, "upload_media"), s.UploadPostMedia)
	photos := protected.Group("/photos")
	photos.Post("/", middleware.RateLimit(
		s.redis, 20, time.Hour, "upload_photo"), s.UploadPhoto)
	photos.Delete("/:id", s.DeletePhoto)

	// Websocket endpoint for the live engagement feed.
	ws := api.Group("/ws", middleware.WebSocketAuthRequired)
	ws.Get("/feed", s.FeedWebsocketHandler())
}

// HealthCheck is a simple alias for ReadinessCheck.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API works without Redis, but live delivery does not.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Assalamu alaikum",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Ummah Connect API",
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the feed hub to the Redis subscriber if available.
	if s.notifier != nil {
		go func() {
			if err := s.feedHub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start %s wiring: %v", s.feedHub.Name(), err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.feedHub != nil {
		if err := s.feedHub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", s.feedHub.Name(), err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
