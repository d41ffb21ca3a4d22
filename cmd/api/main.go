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

	"github.com/Dan9191/finpyme/internal/config"
	"github.com/Dan9191/finpyme/internal/handler"
	"github.com/Dan9191/finpyme/internal/integrations/inflation"
	"github.com/Dan9191/finpyme/internal/integrations/rates"
	"github.com/Dan9191/finpyme/internal/preferences"
	"github.com/Dan9191/finpyme/internal/repository"
	"github.com/Dan9191/finpyme/internal/scheduler"
	"github.com/Dan9191/finpyme/internal/service"
	"github.com/Dan9191/finpyme/internal/utils/email"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	repo, err := repository.Open(ctx, cfg.DBDriver, cfg.DBConn)
	cancel()
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	prefs, err := preferences.Open(cfg.PreferencesPath)
	if err != nil {
		logger.Fatalf("Failed to open preferences store: %v", err)
	}
	defer prefs.Close()

	// Market data
	rateProvider := rates.NewProvider(rates.NewClient(cfg, logger), logger)
	inflationClient := inflation.NewClient(cfg, logger)

	deps := service.Dependencies{
		Repo:        repo,
		Log:         logger,
		Config:      cfg,
		Rates:       rateProvider,
		Inflation:   inflationClient,
		Preferences: prefs,
	}
	if cfg.MailEnabled() {
		deps.Mailer = email.NewSender(cfg, logger)
	}

	// Initialize layers
	svc, err := service.NewService(deps)
	if err != nil {
		logger.Fatalf("Failed to initialize service: %v", err)
	}
	h := handler.NewHandler(svc, logger)

	// Background jobs
	sched := scheduler.NewCron(logger)
	rateProvider.Start(sched, cfg.RateRefreshInterval)
	inflationClient.Start(sched, cfg.InflationRefreshInterval)
	sched.Schedule(cfg.InsightInterval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := svc.RunInsightJob(ctx); err != nil {
			logger.Errorf("Insight job failed: %v", err)
		}
	})
	sched.Start()
	defer sched.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
