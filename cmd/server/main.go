// cmd/server/main.go
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
	"github.com/sirupsen/logrus"

	"github.com/niceai/studio-backend/internal/config"
	"github.com/niceai/studio-backend/internal/gateway"
	"github.com/niceai/studio-backend/internal/i18n"
	"github.com/niceai/studio-backend/internal/idgen"
	"github.com/niceai/studio-backend/internal/router"
	"github.com/niceai/studio-backend/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.LocalesPath, cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	ids := idgen.NewRandom()

	// Select the profile store backend
	var st store.Store
	switch cfg.Store.Driver {
	case "postgres":
		pgStore, err := store.NewPostgresStore(cfg.Database, ids)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize postgres store")
		}
		defer pgStore.Close()
		st = pgStore
	default:
		fileStore, err := store.NewFileStore(cfg.Store.DataDir, ids)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize file store")
		}
		st = fileStore
	}

	// The image gateway is optional; without an API key the server still
	// serves catalog, profile, cart and order traffic.
	var gw gateway.Gateway
	if cfg.GenAI.APIKey != "" {
		gw, err = gateway.NewGenAIGateway(context.Background(), cfg.GenAI)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize image gateway")
		}
	} else {
		logrus.Warn("GENAI_API_KEY not set, design generation is disabled")
	}

	// Initialize router
	r, err := router.Initialize(st, gw, ids, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}
