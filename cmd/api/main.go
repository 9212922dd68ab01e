package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"project-workspaces/backend/internal/config"
	"project-workspaces/backend/internal/database"
	"project-workspaces/backend/internal/handlers"
	"project-workspaces/backend/internal/hierarchy"
	"project-workspaces/backend/internal/middleware"
	"project-workspaces/backend/internal/ownership"
	"project-workspaces/backend/internal/store/postgres"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("unable to connect to database", zap.Error(err))
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("unable to migrate database", zap.Error(err))
	}

	users := postgres.NewUserStore(pool)
	projects := postgres.NewProjectStore(pool)
	files := postgres.NewFileStore(pool)
	conversations := postgres.NewConversationStore(pool)

	resolver := ownership.NewResolver(users, projects, files, conversations)
	manager := hierarchy.NewManager(resolver, files)

	authHandler := handlers.NewAuthHandler(users, cfg.JWTSecret, logger)
	projectHandler := handlers.NewProjectHandler(resolver, projects, files, conversations, logger)
	fileHandler := handlers.NewFileHandler(manager, logger)
	conversationHandler := handlers.NewConversationHandler(resolver, conversations, logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes. Auth only establishes identity; ownership of the
		// individual resources is resolved inside each operation.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			r.Get("/projects", projectHandler.List)
			r.Post("/projects", projectHandler.Create)
			r.Get("/projects/{projectId}", projectHandler.Get)
			r.Patch("/projects/{projectId}", projectHandler.Update)

			r.Get("/projects/{projectId}/files", fileHandler.List)
			r.Post("/projects/{projectId}/files", fileHandler.Create)
			r.Get("/files/{fileId}", fileHandler.Get)
			r.Get("/files/{fileId}/path", fileHandler.Path)
			r.Patch("/files/{fileId}", fileHandler.Update)
			r.Delete("/files/{fileId}", fileHandler.Delete)

			r.Get("/projects/{projectId}/conversations", conversationHandler.List)
			r.Post("/projects/{projectId}/conversations", conversationHandler.Create)
			r.Get("/conversations/{conversationId}", conversationHandler.Get)
			r.Get("/conversations/{conversationId}/messages", conversationHandler.Messages)
		})
	})

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
