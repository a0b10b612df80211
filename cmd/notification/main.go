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

	"github.com/redis/go-redis/v9"

	"github.com/chaoslab/commerce/internal/notification/config"
	"github.com/chaoslab/commerce/internal/notification/history"
	"github.com/chaoslab/commerce/internal/notification/service"
	"github.com/chaoslab/commerce/internal/notification/ws"
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

	var hist history.History
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			cancel()
			log.WithError(err).Error("failed to ping redis")
			os.Exit(1)
		}
		cancel()

		h.Register(health.PingChecker{
			CheckerName: "redis",
			Ping: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
		})
		hist = history.NewRedisHistory(client)
		log.Info("using redis notification history")
	} else {
		hist = history.NewMemoryHistory()
		log.Info("using in-memory notification history")
	}

	hub := ws.NewHub()
	defer hub.CloseAll()

	svc := service.New(hist, hub, log, ids, cfg.HistoryTail)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:     svc.Routes(h),
		ReadTimeout: 30 * time.Second,
		// no WriteTimeout: the websocket feed holds its connection open
	}

	go func() {
		log.Infof("notification service listening", map[string]interface{}{"port": cfg.HTTPPort})
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
