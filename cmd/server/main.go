package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contribsync/contribsync/internal/githubapi"
	"github.com/contribsync/contribsync/internal/handlers"
	"github.com/contribsync/contribsync/internal/middleware"
	"github.com/contribsync/contribsync/internal/repositories"
	"github.com/contribsync/contribsync/internal/services"
	"github.com/contribsync/contribsync/internal/workers"
	"github.com/contribsync/contribsync/pkg/config"
	"github.com/contribsync/contribsync/pkg/database"
	"github.com/contribsync/contribsync/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	logger.Init()

	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	gin.SetMode(cfg.Server.Mode)

	if err := database.Init(cfg.Database.URI, cfg.Database.Name); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Stores
	userRepo := repositories.NewUserRepository(database.DB)
	repoRepo := repositories.NewRepositoryRepository(database.DB)
	installationRepo := repositories.NewInstallationRepository(database.DB)
	contributionColls := repositories.NewContributionCollections(database.DB)

	// Remote API surface
	client := githubapi.NewClient(cfg.GitHub.Token, cfg.GitHub.GraphQLURL, cfg.Sync.PageSize)
	executor := githubapi.NewExecutor()

	// Services
	txnRunner := database.NewTxnRunner(database.Client)
	writer := services.NewTransactionalWriter(contributionColls, userRepo, txnRunner)
	contributionService := services.NewContributionService(client, executor, userRepo, repoRepo)
	installationService := services.NewInstallationService(
		client, executor, contributionService,
		userRepo, repoRepo, installationRepo, writer,
		cfg.Sync.LookbackMonths,
	)

	// Background worker
	updateWorker := workers.NewUpdateWorker(
		installationService, userRepo, installationRepo,
		time.Duration(cfg.Sync.UpdateIntervalHours)*time.Hour,
		time.Duration(cfg.Sync.StaleAfterDays)*24*time.Hour,
	)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go func() {
		if err := updateWorker.Start(workerCtx); err != nil && err != context.Canceled {
			logger.WithError(err).Error("Update worker exited")
		}
	}()

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	setupRoutes(router, installationService, userRepo, cfg.GitHub.WebhookSecret)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancelWorker()
	updateWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	logger.Info("Server stopped")
}

func setupRoutes(router *gin.Engine, installationService *services.InstallationService, userRepo *repositories.UserRepository, webhookSecret string) {
	healthHandler := handlers.NewHealthHandler()
	webhookHandler := handlers.NewWebhookHandler(installationService, webhookSecret)
	contributionsHandler := handlers.NewContributionsHandler(installationService, userRepo)
	notFoundHandler := handlers.NewNotFoundHandler()

	router.NoRoute(notFoundHandler.NotFound)

	router.GET("/health", healthHandler.Health)
	router.POST("/webhook", webhookHandler.Handle)

	api := router.Group("/api")
	{
		api.POST("/contributions/bootstrap/:login", contributionsHandler.Bootstrap)
		api.POST("/contributions/update/:login", contributionsHandler.Update)
		api.POST("/contributions/update", contributionsHandler.UpdateStale)
		api.DELETE("/contributions/:login", contributionsHandler.Delete)
	}
}
