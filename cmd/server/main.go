package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/blog-cache-api/internal/api"
	"github.com/blog-cache-api/internal/config"
	"github.com/blog-cache-api/internal/database"
	"github.com/blog-cache-api/internal/imagehost"
	"github.com/blog-cache-api/internal/remote"
	"github.com/blog-cache-api/internal/repository"
	"github.com/blog-cache-api/internal/service"
	"github.com/blog-cache-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// No configured logger yet
		boot := logger.New("info", "json")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("remote", cfg.Remote.BaseURL).Msg("Starting blog cache API server...")

	// Initialize settings storage
	repos, closeDB := openRepositories(cfg, log)
	defer closeDB()

	// Remote collaborators
	blogAPI := remote.NewClient(&cfg.Remote, log)
	images := imagehost.NewClient(&cfg.ImageHost, cfg.Remote.Timeout, log)
	if !images.Configured() {
		log.Warn().Msg("Image uploads disabled: cloud name or upload preset missing")
	}

	// Initialize services
	services := service.NewServices(blogAPI, images, repos, log)

	// Warm the article cache
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()
	go services.Articles.Load(appCtx)

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Abandon any in-flight cache load
	stopApp()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// openRepositories connects the settings database when enabled, else keeps settings in memory
func openRepositories(cfg *config.Config, log zerolog.Logger) (*repository.Repositories, func()) {
	if !cfg.Database.Enabled {
		log.Info().Msg("Settings database disabled, keeping settings in memory")
		return repository.NewInMemory(), func() {}
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run migrations
	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	return repository.New(db), func() { db.Close() }
}
