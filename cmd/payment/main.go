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

	"github.com/chaoslab/commerce/internal/payment/chain"
	"github.com/chaoslab/commerce/internal/payment/client"
	"github.com/chaoslab/commerce/internal/payment/config"
	"github.com/chaoslab/commerce/internal/payment/metrics"
	"github.com/chaoslab/commerce/internal/payment/service"
	"github.com/chaoslab/commerce/pkg/health"
	"github.com/chaoslab/commerce/pkg/ident"
	"github.com/chaoslab/commerce/pkg/logger"
	"github.com/chaoslab/commerce/pkg/tracing"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, os.Stdout)

	shutdownTracing, err := tracing.Init(tracing.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.JaegerEndpoint,
		Enabled:     cfg.TracingEnabled,
		SampleRate:  cfg.TraceSampleRate,
	})
	if err != nil {
		log.WithError(err).Error("failed to init tracing")
		os.Exit(1)
	}

	ids, err := ident.New(cfg.WorkerID)
	if err != nil {
		log.WithError(err).Error("failed to init id generator")
		os.Exit(1)
	}

	m := metrics.New()
	exec := chain.NewExecutor(cfg.StepTimeout)

	var runner *chain.Runner
	if cfg.ParallelChain {
		runner = chain.NewParallelRunner(exec, log, m)
		log.Warn("parallel chain mode enabled")
	} else {
		runner = chain.NewRunner(exec, log, m)
	}

	svc := service.New(cfg, log, ids,
		client.NewInventoryClient(cfg.InventoryURL),
		client.NewNotificationClient(cfg.NotificationURL),
		runner, m)

	h := health.New(cfg.ServiceName)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      svc.Routes(h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("payment service listening", map[string]interface{}{
			"port":         cfg.HTTPPort,
			"inventory":    cfg.InventoryURL,
			"notification": cfg.NotificationURL,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("http shutdown failed")
	}
	if err := shutdownTracing(ctx); err != nil {
		log.WithError(err).Warn("tracing shutdown failed")
	}
	log.Info("stopped")
}
