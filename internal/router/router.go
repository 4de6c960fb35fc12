package router

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/tanvirio/openblog/backend/internal/handlers"
	"github.com/tanvirio/openblog/backend/internal/middleware"
	"github.com/tanvirio/openblog/backend/internal/models"
	"github.com/tanvirio/openblog/backend/internal/repositories"
	"github.com/tanvirio/openblog/backend/pkg/config"
)

// SetupMiddleware registers the global middleware chain.
func SetupMiddleware(e *echo.Echo) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	limiter := middleware.NewRateLimiter(60, time.Minute, nil)
	e.Use(limiter.Middleware())
}

// SetupRoutes migrates the schema, wires repositories into handlers and
// registers every route.
func SetupRoutes(e *echo.Echo, db *config.DB) {
	err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostImage{},
		&models.PostTag{},
		&models.Comment{},
		&models.PostLike{},
		&models.CommentLike{},
		&models.Follow{},
		&models.Notification{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	// Repositories
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	postRepo := repositories.NewPostgresPostRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	notifRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	reportRepo := repositories.NewPostgresReportRepository(db.Postgres)
	mediaRepo := repositories.NewMongoMediaRepository(db.Mongo.Database("openblog"))

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo)
	userHandler := handlers.NewUserHandler(userRepo, followRepo, postRepo, notifRepo)
	postHandler := handlers.NewPostHandler(postRepo, userRepo, likeRepo, commentRepo, followRepo, notifRepo, reportRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, likeRepo, notifRepo, userRepo)
	notifHandler := handlers.NewNotificationHandler(notifRepo, userRepo)
	reportHandler := handlers.NewReportHandler(reportRepo, userRepo, postRepo)
	dashboardHandler := handlers.NewDashboardHandler(userRepo, postRepo, reportRepo)
	searchHandler := handlers.NewSearchHandler(postRepo, userRepo, postHandler)
	mediaHandler := handlers.NewMediaHandler(mediaRepo, userRepo)

	e.GET("/health", handlers.HealthCheck)

	// Public routes
	auth := e.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	e.GET("/api/v1/media/:name", mediaHandler.Serve)

	// Public reads. A token is honored when present so viewer-dependent
	// flags like isLiked still resolve, but anonymous browsing works.
	public := e.Group("/api/v1", middleware.OptionalJWTAuthMiddleware())
	public.GET("/posts", postHandler.GetPosts)
	public.GET("/posts/user/:userId", postHandler.GetPostsByAuthor)
	public.GET("/posts/:id", postHandler.GetPost)
	public.GET("/posts/:id/comments", commentHandler.GetComments)
	public.GET("/search", searchHandler.Search)

	// Authenticated routes
	api := e.Group("/api/v1", middleware.JWTAuthMiddleware())
	adminOnly := middleware.AdminOnly()

	api.GET("/users/me", userHandler.Me)
	api.PUT("/users/me", userHandler.UpdateProfile)
	api.PUT("/users/me/subscribe", userHandler.ToggleSubscription)
	api.GET("/users", userHandler.ListUsers)
	api.GET("/users/:id", userHandler.GetUser)
	api.POST("/users/:id/follow", userHandler.ToggleFollow)
	api.GET("/users/:id/followers", userHandler.GetFollowers)
	api.GET("/users/:id/following", userHandler.GetFollowing)

	api.POST("/posts", postHandler.CreatePost)
	api.PUT("/posts/:id", postHandler.UpdatePost)
	api.DELETE("/posts/:id", postHandler.DeletePost)
	api.PUT("/posts/:id/hide", postHandler.ToggleHide)
	api.POST("/posts/:id/like", postHandler.ToggleLike)
	api.POST("/posts/:id/comment", commentHandler.CreateComment)
	api.DELETE("/posts/comment/:commentId", commentHandler.DeleteComment)
	api.POST("/posts/comment/:commentId/like", commentHandler.ToggleCommentLike)
	api.POST("/posts/upload", mediaHandler.Upload)

	api.GET("/notifications", notifHandler.GetNotifications)
	api.PUT("/notifications/read-all", notifHandler.MarkAllAsRead)
	api.PUT("/notifications/:id/read", notifHandler.MarkAsRead)

	api.POST("/reports", reportHandler.CreateReport)

	// Admin routes
	api.GET("/reports", reportHandler.GetReports, adminOnly)
	api.PUT("/reports/:id/status", reportHandler.UpdateReportStatus, adminOnly)
	api.GET("/dashboard", dashboardHandler.GetStats, adminOnly)
	api.PUT("/users/:id/ban", userHandler.BanUser, adminOnly)
	api.PUT("/users/:id", userHandler.AdminUpdateUser, adminOnly)
	api.DELETE("/users/:id", userHandler.DeleteUser, adminOnly)
}
