// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/config"
	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/metrics"
	"github.com/dravik/licensing-console/internal/router"
	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/session"
	"github.com/dravik/licensing-console/internal/wallet"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	setupLogging(cfg.Log)

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Restore the persisted session, if any
	sessions := session.NewManager(session.NewFileStore(cfg.Session.File), session.NewSealer(cfg.Session.Secret))
	sess, err := sessions.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load session")
	}
	if sess != nil {
		logrus.WithField("wallet", sess.Wallet()).Info("Session restored")
	}

	m := metrics.New()
	backend := api.New(api.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
		Logger:  logrus.StandardLogger(),
		Observe: m.ObserveBackend,
	})

	provider := wallet.NewRPCProvider(cfg.Wallet.RPCURL)
	defer provider.Close()

	templates, err := services.NewTemplateServiceFromConfig(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize template images")
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	console := router.Initialize(cfg, router.Deps{
		Backend:   backend,
		Wallet:    provider,
		Sessions:  sessions,
		Templates: templates,
		Metrics:   m,
	})
	defer console.Close()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      console.Engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"backend": backend.BaseURL(),
			"wallet":  cfg.Wallet.RPCURL,
		}).Info("Starting licensing console")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		logrus.WithError(err).Error("Server forced to shutdown")
		return
	}

	logrus.Info("Server exited")
}

func setupLogging(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetReportCaller(cfg.ReportCaller)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
