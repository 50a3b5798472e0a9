package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/config"
	"github.com/pageza/mealmatch/backend/internal/app"
	"github.com/pageza/mealmatch/backend/internal/logger"
	"github.com/pageza/mealmatch/backend/internal/server"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.NewLogger(cfg.Environment.String(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	// Create and start server
	srv := server.New(cfg, a.APIDependencies(), zl)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			zl.Error("server error", zap.Error(err))
			return
		}
	case sig := <-quit:
		zl.Info("received signal", zap.String("signal", sig.String()))
	}

	zl.Info("shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server shutdown error", zap.Error(err))
		return
	}
	zl.Info("server stopped")
}
