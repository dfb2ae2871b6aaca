package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riowonder/SoloManager-Backend/internal/config"
	"github.com/riowonder/SoloManager-Backend/internal/db"
	"github.com/riowonder/SoloManager-Backend/internal/logger"
	"github.com/riowonder/SoloManager-Backend/internal/member"
	"github.com/riowonder/SoloManager-Backend/internal/notify"
	"github.com/riowonder/SoloManager-Backend/internal/owner"
	"github.com/riowonder/SoloManager-Backend/internal/server"
	"github.com/riowonder/SoloManager-Backend/internal/subscription"
	"github.com/riowonder/SoloManager-Backend/internal/sweep"
)

func main() {
	logger.Init()
	logger.Info("Starting SoloManager application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	memberRepo := member.NewRepository(database)
	ownerRepo := owner.NewRepository(database)
	subRepo := subscription.NewRepository(database)

	gateway := notify.NewWhatsAppGateway(
		cfg.WhatsAppAPIBase,
		cfg.WhatsAppToken,
		cfg.WhatsAppPhoneID,
		cfg.CountryCode,
		memberRepo,
		ownerRepo,
	)

	sweeper := sweep.New(subRepo, gateway)
	cronRunner, err := sweeper.Schedule(cfg.SweepSchedule)
	if err != nil {
		logger.Fatalf("Failed to schedule subscription sweep: %v", err)
	}

	srv := server.New(database, cfg)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Let an in-flight sweep finish before the process exits.
	<-cronRunner.Stop().Done()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
