package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hosamatch/backend/internal/config"
	"github.com/hosamatch/backend/internal/database"
	"github.com/hosamatch/backend/internal/handlers"
	"github.com/hosamatch/backend/internal/middleware"
	"github.com/hosamatch/backend/internal/services"
	"github.com/hosamatch/backend/internal/storage"
	"github.com/hosamatch/backend/pkg/logger"
	"github.com/hosamatch/backend/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	logger.Init()
	defer logger.Sync()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("minio initialization failed: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring minio bucket: %v", err)
	}

	accessService := services.NewAccessService(db)
	schoolService := services.NewSchoolService(db)
	mailerService := services.NewMailerService(cfg.Mail)

	authHandler := handlers.NewAuthHandler(db, cfg, accessService)
	schoolsHandler := handlers.NewSchoolsHandler(schoolService, accessService, mailerService)
	eventsHandler := handlers.NewEventsHandler(schoolService, accessService)
	usersHandler := handlers.NewUsersHandler(schoolService, accessService)
	imagesHandler := handlers.NewImagesHandler(storageClient, accessService)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireSession, authHandler.Me)
	authRoutes.Post("/account", authMiddleware.RequireSession, authHandler.CreateAccount)
	authRoutes.Post("/refresh", authMiddleware.RequireSession, authHandler.Refresh)
	authRoutes.Get("/sso/google", authHandler.GoogleRedirect)
	authRoutes.Get("/sso/google/callback", authHandler.GoogleCallback)

	api.Post("/school", authMiddleware.RequireAccount, schoolsHandler.Post)
	api.Get("/school", authMiddleware.RequireSession, schoolsHandler.Get)

	api.Post("/event", authMiddleware.RequireAccount, eventsHandler.Post)
	api.Get("/event", authMiddleware.RequireSession, eventsHandler.List)
	api.Delete("/event/:id", authMiddleware.RequireAccount, eventsHandler.Delete)

	api.Get("/user", authMiddleware.RequireAccount, usersHandler.List)

	api.Post("/images", authMiddleware.RequireAccount, imagesHandler.Upload)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
