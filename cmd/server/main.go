package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"realestate/internal/config"
	"realestate/internal/handler"
	"realestate/internal/logging"
	"realestate/internal/middleware"
	"realestate/internal/repository"
	"realestate/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// store is implemented by both repositories
type store interface {
	service.ProfileStore
	service.DocumentStore
	service.SearchLogStore
	handler.Pinger
}

func main() {
	logging.Preinit()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logFile, err := logging.Init(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logging", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log := logging.Component("server")
	log.Info("Real estate assistant API", "version", Version, "build_time", BuildTime, "git_commit", GitCommit)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	repo, closeRepo, err := openStore(cfg, log)
	if err != nil {
		log.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	// Initialize services
	sessions := service.NewSessionManager(service.SessionConfig{
		MaxSessions: cfg.Sessions.MaxSessions,
		IdleTTL:     cfg.Sessions.IdleTTL(),
		QueueSize:   cfg.Sessions.QueueSize,
		Flow: service.FlowTimings{
			Typing:         config.Ms(cfg.Chat.FlowTypingDelayMs),
			Processing:     config.Ms(cfg.Chat.FlowProcessingDelayMs),
			Reveal:         config.Ms(cfg.Chat.FlowRevealDelayMs),
			SuccessVisible: config.Ms(cfg.Chat.SuccessMessageMs),
		},
		Assistant: service.AssistantTimings{
			TypingMin:      config.Ms(cfg.Chat.TypingMinMs),
			TypingJitter:   config.Ms(cfg.Chat.TypingJitterMs),
			FollowUpMin:    config.Ms(cfg.Chat.FollowUpMinMs),
			FollowUpJitter: config.Ms(cfg.Chat.FollowUpJitterMs),
			IdleNudge:      config.Ms(cfg.Chat.IdleNudgeMs),
			IdleTyping:     config.Ms(cfg.Chat.IdleNudgeTypingMs),
		},
		FollowUpPercent:   cfg.Chat.FollowUpPercent,
		OnboardingAnalyze: config.Ms(cfg.Chat.OnboardingAnalyzeMs),
	}, slog.Default())
	catalog := service.NewCatalog(repo, repo, cfg.Search.HistoryLimit, slog.Default())
	documents := service.NewDocumentService(repo, repo, service.DocumentTimings{
		Upload: config.Ms(cfg.Documents.UploadDelayMs),
		Scan:   config.Ms(cfg.Documents.ScanDelayMs),
	}, slog.Default())

	log.Info("Services initialized", "max_sessions", cfg.Sessions.MaxSessions, "session_ttl", cfg.Sessions.IdleTTL())

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sessions.Run(ctx)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))

	health := handler.NewHealthHandler(repo, sessions, handler.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	})
	router.GET("/health", health.Health)
	router.GET("/version", health.Version)

	// API routes
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.Auth))
	handler.RegisterRoutes(apiV1, handler.Handlers{
		Sessions:  handler.NewSessionHandler(sessions),
		Catalog:   handler.NewCatalogHandler(catalog),
		Documents: handler.NewDocumentHandler(documents),
		Settings:  handler.NewSettingsHandler(service.NewSettingsService(repo)),
		Profile:   handler.NewProfileHandler(service.NewProfileService(repo)),
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("Starting server", "addr", addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	stop()
	// Closing sessions ends open event streams so Shutdown can drain them
	sessions.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}

	log.Info("Server stopped")
}

// openStore connects to PostgreSQL when configured, otherwise it keeps
// state in memory
func openStore(cfg *config.Config, log *slog.Logger) (store, func(), error) {
	if !cfg.UsePostgres() {
		log.Warn("No database configured, keeping state in memory")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, nil, err
	}

	log.Info("Connected to PostgreSQL database")
	return repo, func() { repo.Close() }, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
