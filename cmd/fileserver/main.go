package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/andresuchdata/tabloide-insight/internal/config"
	"github.com/andresuchdata/tabloide-insight/internal/drive"
	"github.com/andresuchdata/tabloide-insight/internal/fileserver"
	"github.com/andresuchdata/tabloide-insight/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	r := mux.NewRouter()
	fileserver.NewHandler(cfg.App.DataDir).RegisterRoutes(r)

	if cfg.Drive.CredentialsJSON != "" {
		driveService, err := drive.NewService(context.Background(), cfg.Drive.CredentialsJSON)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
		}
		drive.NewHandler(driveService).RegisterRoutes(r)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.FileServer.Port,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.FileServer.Port).Str("dir", cfg.App.DataDir).Msg("Serving treated tables")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start file server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("File server forced to shutdown")
	}
	logger.Log.Info().Msg("File server exiting")
}
