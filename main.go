package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shopkart/internal/config"

	"github.com/hashicorp/go-hclog"
)

func main() {
	cfg := config.Load()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "shopkart",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.StartEventLog(); err != nil {
		logger.Warn("Failed to start product event consumer", "error", err)
	}

	go func() {
		logger.Info("Starting server", "addr", cfg.AppPort)
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}
	logger.Info("Server gracefully stopped")
}
