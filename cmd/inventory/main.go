package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/chaoslab/commerce/internal/inventory/config"
	"github.com/chaoslab/commerce/internal/inventory/repository"
	"github.com/chaoslab/commerce/internal/inventory/service"
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

	h := health.New(cfg.ServiceName)

	var store repository.ProductStore
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.WithError(err).Error("failed to open postgres")
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.WithError(err).Error("failed to ping postgres")
			os.Exit(1)
		}
		h.Register(health.DBChecker{CheckerName: "postgres", DB: db})
		store = repository.NewPostgresStore(db)
		log.Info("using postgres product store")
	} else {
		store = repository.NewSeededStore()
		log.Info("using seeded in-memory product store")
	}

	svc := service.New(store, log, ids)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      svc.Routes(h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("inventory service listening", map[string]interface{}{"port": cfg.HTTPPort})
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
