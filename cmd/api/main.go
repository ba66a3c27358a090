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

	"github.com/timmy/arbitrage/internal/api"
	"github.com/timmy/arbitrage/internal/config"
	"github.com/timmy/arbitrage/internal/controller"
	"github.com/timmy/arbitrage/internal/gateway"
	"github.com/timmy/arbitrage/internal/logger"
	"github.com/timmy/arbitrage/internal/notify"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	envCfg := logger.LoadFromEnv()
	envCfg.ServiceName = "arbitrage-api"
	appLogger := logger.NewFromEnv(envCfg)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	gw := gateway.New(&gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		APIKey:  cfg.API.APIKey,
	})

	ctl := controller.New(controller.Options{
		Gateway:         gw,
		Notifier:        notify.Log{Logger: appLogger.WithField(logger.FieldComponent, "notify")},
		PollInterval:    cfg.Poll.Interval,
		DefaultQuantity: cfg.ItemCheck.DefaultQuantity,
		Logger:          appLogger,
	})
	defer ctl.Close()

	// Prime the history cache so the first view is not empty.
	go func() {
		ctx, cancel := context.WithTimeout(appLogger.WithContext(context.Background()), cfg.API.Timeout)
		defer cancel()
		if _, err := ctl.Refresh(ctx); err != nil {
			appLogger.WithError(err).Warn("Initial history load failed")
		}
	}()

	router := api.SetupRouter(ctl, cfg, appLogger, version)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port":     cfg.Server.Port,
			"mode":     cfg.Server.Mode,
			"backend":  cfg.API.BaseURL,
			"interval": cfg.Poll.Interval.String(),
		}).Info("Starting state server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Closing the controller ends open event streams so Shutdown can finish.
	ctl.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
