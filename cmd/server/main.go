package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/tabloide-insight/internal/api"
	"github.com/andresuchdata/tabloide-insight/internal/cache"
	"github.com/andresuchdata/tabloide-insight/internal/config"
	"github.com/andresuchdata/tabloide-insight/internal/repository/postgres"
	"github.com/andresuchdata/tabloide-insight/internal/service"
	"github.com/andresuchdata/tabloide-insight/internal/source"
	"github.com/andresuchdata/tabloide-insight/internal/storage"
	"github.com/andresuchdata/tabloide-insight/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	src, closeSource, err := newSource(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("backend", cfg.Source.Backend).Msg("Failed to initialize data source")
	}
	defer closeSource()

	insightCache, err := cache.NewInsightCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Insight cache unavailable, continuing without it")
		insightCache = cache.NewNoopInsightCache()
	}

	insightService := service.NewInsightService(
		src,
		insightCache,
		time.Duration(cfg.Insight.FetchTimeoutSeconds)*time.Second,
	)

	router := api.NewRouter(&api.Services{InsightService: insightService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("source", cfg.Source.Backend).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// newSource picks where the treated tables are read from.
func newSource(cfg *config.Config) (source.Source, func(), error) {
	noop := func() {}

	switch cfg.Source.Backend {
	case "", "dir":
		return source.NewDirSource(cfg.App.DataDir, cfg.Source.SalesFormat), noop, nil
	case "http":
		if cfg.Source.HTTPBaseURL == "" {
			return nil, noop, fmt.Errorf("SOURCE_HTTP_BASE_URL is required for the http source")
		}
		return source.NewHTTPSource(source.HTTPOptions{
			BaseURL:   cfg.Source.HTTPBaseURL,
			UserAgent: cfg.Source.HTTPUserAgent,
			Format:    cfg.Source.SalesFormat,
			Timeout:   time.Duration(cfg.Source.HTTPTimeout) * time.Second,
		}), noop, nil
	case "s3":
		store, err := storage.New(storage.ConfigFrom(cfg.Storage))
		if err != nil {
			return nil, noop, err
		}
		return source.NewObjectSource(store, cfg.Storage.Prefix, cfg.Source.SalesFormat), noop, nil
	case "postgres":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewTreatedRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown source backend %q", cfg.Source.Backend)
	}
}
