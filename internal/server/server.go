package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "blogapp/docs" // swagger docs
	"blogapp/internal/config"
	"blogapp/internal/featureflags"
	"blogapp/internal/media"
	"blogapp/internal/middleware"
	"blogapp/internal/models"
	"blogapp/internal/notifications"
	"blogapp/internal/repository"
	"blogapp/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	notifier       *notifications.Notifier
	media          *media.Store
	featureFlags   *featureflags.Manager

	authService        *service.AuthService
	profileService     *service.ProfileService
	postService        *service.PostService
	interactionService *service.InteractionService
	dashboardService   *service.DashboardService
}

// NewServer wires repositories and services over already-initialized
// dependencies. redisClient may be nil; caching, rate limits and
// notification publishing then degrade to no-ops, except the production
// sign-in limit, which fails closed.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server requires config and database")
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postRepo := repository.NewPostRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	store := media.NewStore(cfg, flags)
	notifier := notifications.NewNotifier(redisClient)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("blogapp-api"),
		notifier:       notifier,
		media:          store,
		featureFlags:   flags,

		authService:        service.NewAuthService(userRepo, cfg),
		profileService:     service.NewProfileService(userRepo, store),
		postService:        service.NewPostService(postRepo, categoryRepo, userRepo, store),
		interactionService: service.NewInteractionService(interactionRepo, commentRepo, notificationRepo, notifier),
		dashboardService:   service.NewDashboardService(dashboardRepo),
	}, nil
}

// App builds the Fiber app with the middleware stack and routes.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	maxMB := s.config.MediaMaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	app := fiber.New(fiber.Config{
		AppName:       "Blog API",
		BodyLimit:     (maxMB + 1) * 1024 * 1024,
		StrictRouting: false,
		ErrorHandler:  ErrorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	mediaURL := s.config.MediaBaseURL
	if mediaURL == "" {
		mediaURL = "/media"
	}
	app.Static(mediaURL, s.media.Dir())

	api := app.Group("/api/v1")
	auth := middleware.AuthRequired(s.authService)

	user := api.Group("/user")
	user.Post("/token", middleware.RateLimitWithPolicy(s.redis, 10, 5*time.Minute, middleware.FailClosed, "token"), s.ObtainTokenPair)
	user.Post("/token/refresh", s.RefreshToken)
	user.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	user.Get("/profile/:user_id", s.GetProfile)
	user.Put("/profile/:user_id", auth, s.UpdateProfile)

	post := api.Group("/post")
	post.Get("/category/list", s.ListCategories)
	post.Get("/category/posts/:category_slug", s.ListCategoryPosts)
	post.Get("/list", s.ListPosts)
	post.Get("/details/:slug", s.GetPostDetail)
	post.Post("/like-post", auth, s.LikePost)
	post.Post("/comment-post", middleware.RateLimit(s.redis, 5, time.Minute, "comment"), s.CommentPost)
	post.Post("/bookmark-post", auth, s.BookmarkPost)

	dashboard := api.Group("/author/dashboard", auth)
	dashboard.Get("/stats/:user_id", s.DashboardStats)
	dashboard.Get("/flags", s.DashboardFeatureFlags)
	dashboard.Get("/post-list/:user_id", s.DashboardPostList)
	dashboard.Get("/comment-list/:user_id", s.DashboardCommentList)
	dashboard.Get("/noti-list/:user_id", s.DashboardNotificationList)
	dashboard.Post("/noti-mark-seen", s.MarkNotificationSeen)
	dashboard.Post("/reply-comment", s.ReplyComment)
	dashboard.Post("/post-create", middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	dashboard.Get("/post-detail/:user_id/:post_id", s.GetAuthorPost)
	dashboard.Put("/post-detail/:user_id/:post_id", s.UpdatePost)
	dashboard.Delete("/post-detail/:user_id/:post_id", s.DeletePost)
}

// ErrorHandler renders errors that escape handlers in the API error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return models.RespondWithError(c, fe.Code, &models.AppError{
			Code:    codeForStatus(fe.Code),
			Message: fe.Message,
		})
	}

	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		err = models.NewInternalError(err)
	}
	return models.Respond(c, err)
}

func codeForStatus(status int) string {
	switch {
	case status == fiber.StatusNotFound:
		return models.CodeNotFound
	case status == fiber.StatusUnauthorized:
		return models.CodeUnauthorized
	case status == fiber.StatusForbidden:
		return models.CodeForbidden
	case status >= fiber.StatusInternalServerError:
		return models.CodeInternal
	default:
		return models.CodeValidation
	}
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
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
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
		redisStatus = "unavailable"
	}

	// Without Redis the API degrades, except in production where sign-in
	// rate limiting fails closed.
	redisFatal := redisStatus == "unhealthy" ||
		(redisStatus == "unavailable" && s.config.IsProduction())

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisFatal {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// StartNotificationLog follows every user notification channel and logs each
// delivered event until ctx ends.
func (s *Server) StartNotificationLog(ctx context.Context) error {
	return s.notifier.StartUserSubscriber(ctx, func(channel, payload string) {
		middleware.Logger.Debug("notification delivered",
			slog.String("channel", channel),
			slog.Int("bytes", len(payload)),
		)
	})
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close sql db: %w", cerr))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", rerr))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return errors.Join(errs...)
}
