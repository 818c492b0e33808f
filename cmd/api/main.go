package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Arquisoft/wichat-es1a-sub000/internal/database"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/handler"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/images"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/recipe"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/repository/postgres"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/service"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/wikidata"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.ConnectPostgres(ctx, database.NewPostgresConfig())
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Initialize the question store
	questionRepo := postgres.NewQuestionRepository(pool)
	if err := questionRepo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to prepare database schema: %v", err)
	}

	// Initialize external collaborators
	sparqlClient := wikidata.NewClient(database.GetEnv("WIKIDATA_ENDPOINT", wikidata.DefaultEndpoint), logger)
	imageService := images.NewService(images.NewHTTPFetcher(), logger)

	// Initialize services
	recipes := recipe.NewRegistry(imageService)
	questionService := service.NewQuestionService(questionRepo, sparqlClient, recipes, logger)

	// Initialize handlers
	questionHandler := handler.NewQuestionHandler(questionService)
	imageHandler := handler.NewImageHandler(imageService)

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Routes
	questionHandler.Register(e)
	imageHandler.Register(e)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	// Start server
	go func() {
		addr := ":" + database.GetEnv("PORT", "8010")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}

	// Let scheduled deletions settle before the pool goes away.
	if err := questionService.Close(shutdownCtx); err != nil {
		logger.Warn("pending background work not drained", slog.String("error", err.Error()))
	}
}
