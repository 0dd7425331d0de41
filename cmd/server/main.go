package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/prylics/prylics-data/data"
	"github.com/prylics/prylics-data/internal/config"
	"github.com/prylics/prylics-data/internal/database"
	"github.com/prylics/prylics-data/internal/handlers"
	"github.com/prylics/prylics-data/internal/middleware"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/internal/types"

	_ "github.com/prylics/prylics-data/docs/api" // Swagger docs
)

// @title Prylics Data API
// @version 1.0.0
// @description Data service for the Prylics research network: feed, posts, circles, projects, conversations
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/prylics/prylics-data

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Optional .env, mainly for local development
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Fatalf("Failed to load environment file %s: %v", envFile, err)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	st := store.New(db)

	// Seed the demo feed on first run
	seedPosts, err := data.SeedPosts()
	if err != nil {
		log.Fatalf("Failed to decode embedded seed posts: %v", err)
	}
	if cfg.SeedDemoData {
		if err := services.SeedInitialData(st, seedPosts); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Authorizer client; a failure here is not fatal so the service can
	// start before the identity provider does, but auth routes will reject
	// until it succeeds on restart.
	if err := services.InitAuthorizer(cfg, "http", "localhost:"+cfg.Port); err != nil {
		log.Printf("WARN authorizer initialization failed: %v", err)
	}

	// Tag suggestion model
	suggester, err := services.NewTagSuggester(context.Background(), cfg.GenAIAPIKey, cfg.GenAIModel)
	if err != nil {
		log.Fatalf("Failed to create tag suggester: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("prylics_data")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	healthHandler := &handlers.HealthHandler{Cfg: cfg, DB: db}
	feedHandler := &handlers.FeedHandler{Store: st}
	postsHandler := &handlers.PostsHandler{Store: st}
	usersHandler := &handlers.UsersHandler{Store: st}
	conversationsHandler := &handlers.ConversationsHandler{Store: st}
	circlesHandler := &handlers.CirclesHandler{Store: st}
	projectsHandler := &handlers.ProjectsHandler{Store: st}
	suggestHandler := &handlers.SuggestHandler{Suggester: suggester}
	adminHandler := &handlers.AdminHandler{Store: st, SeedPosts: seedPosts}

	authUser := middleware.AuthUser(st)
	authAdmin := middleware.AuthAdmin(st)

	// Health
	api.Get("/health", healthHandler.GetHealth)

	// Feed (public reads)
	api.Get("/feed", feedHandler.GetFeed)
	api.Get("/crowdfunding", feedHandler.GetCrowdfunding)

	// Tag suggestions
	api.Post("/suggest/tags", authUser, suggestHandler.SuggestTags)

	// Posts
	api.Post("/posts", authUser, postsHandler.CreatePost)
	api.Get("/posts/:postId", postsHandler.GetPost)
	api.Delete("/posts/:postId", authUser, postsHandler.DeletePost)
	api.Post("/posts/:postId/comments", authUser, postsHandler.AddComment)
	api.Post("/posts/:postId/like", authUser, postsHandler.LikePost)

	// Users
	api.Get("/users", usersHandler.SearchUsers)
	api.Get("/users/:userId", usersHandler.GetUser)
	api.Post("/users/:userId/follow", authUser, usersHandler.ToggleFollow)

	// Conversations
	api.Get("/conversations", authUser, conversationsHandler.ListConversations)
	api.Post("/conversations", authUser, conversationsHandler.StartConversation)
	api.Get("/conversations/:conversationId", authUser, conversationsHandler.GetConversation)
	api.Post("/conversations/:conversationId/messages", authUser, conversationsHandler.PostMessage)

	// Circles
	api.Get("/circles", circlesHandler.ListCircles)
	api.Post("/circles", authUser, circlesHandler.CreateCircle)
	api.Get("/circles/:circleId", circlesHandler.GetCircle)
	api.Delete("/circles/:circleId", authUser, circlesHandler.DeleteCircle)
	api.Post("/circles/:circleId/membership", authUser, circlesHandler.ToggleMembership)
	api.Get("/circles/:circleId/messages", authUser, circlesHandler.GetMessages)
	api.Post("/circles/:circleId/messages", authUser, circlesHandler.PostMessage)

	// Projects
	api.Get("/projects", projectsHandler.ListProjects)
	api.Post("/projects", authUser, projectsHandler.CreateProject)
	api.Get("/projects/:projectId", projectsHandler.GetProject)
	api.Post("/projects/:projectId/collaboration", authUser, projectsHandler.ToggleCollaboration)
	api.Get("/projects/:projectId/messages", authUser, projectsHandler.GetMessages)
	api.Post("/projects/:projectId/messages", authUser, projectsHandler.PostMessage)

	// Admin
	api.Post("/admin/seed", authAdmin, adminHandler.Reseed)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	switch e := err.(type) {
	case *fiber.Error:
		code = e.Code
		message = e.Message
	case *types.CustomError:
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
