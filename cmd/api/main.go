package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LJTian/InspireFeed/internal/aggregator"
	"github.com/LJTian/InspireFeed/internal/api"
	"github.com/LJTian/InspireFeed/internal/collector"
	"github.com/LJTian/InspireFeed/internal/config"
	"github.com/LJTian/InspireFeed/internal/logger"
	"github.com/LJTian/InspireFeed/internal/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	for _, w := range cfg.Warnings {
		zl.Warn("config", zap.String("warning", w))
	}
	zl.Info("config loaded",
		zap.String("port", cfg.AppPort),
		zap.Duration("upstream_timeout", cfg.UpstreamTimeout),
		zap.String("probe_cron", cfg.ProbeCronSpec),
	)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	src := collector.NewSources(cfg)
	agg := aggregator.New(src.HackerNews, src.Reddit, src.OpenLibrary, src.Gutendex,
		aggregator.WithLogger(zl.Named("aggregator")))

	// 上游探活：只记录可用性，不影响聚合请求
	probe, err := scheduler.New(cfg.ProbeCronSpec, src.Client, src.Endpoints(), zl.Named("probe"))
	if err != nil {
		zl.Fatal("init scheduler failed", zap.Error(err))
	}
	if cfg.ProbeCronSpec != "" {
		probe.Start()
		defer probe.Stop()
	}

	server := api.NewServer(agg, probe, zl.Named("api"))
	r := api.NewEngine(cfg, server, zl.Named("http"))

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info("starting api server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server exit", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
