package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meetspot-io/meetspot/internal/bootstrap"
	"github.com/meetspot-io/meetspot/internal/config"
	"github.com/meetspot-io/meetspot/internal/infra/cache"
	"github.com/meetspot-io/meetspot/internal/infra/db"
	"github.com/meetspot-io/meetspot/internal/modules/handler"
	"github.com/meetspot-io/meetspot/internal/router"
	"github.com/meetspot-io/meetspot/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer log.Sync()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Fatal("failed to setup tracing", zap.Error(err))
	}
	mp, err := telemetry.SetupMetrics(cfg)
	if err != nil {
		log.Fatal("failed to setup metrics", zap.Error(err))
	}
	if mp != nil {
		if err := telemetry.InitMeetupMetrics(); err != nil {
			log.Fatal("failed to init meetup metrics", zap.Error(err))
		}
	}

	gdb := do.MustInvoke[*gorm.DB](inj)
	if tp != nil {
		if err := db.RegisterOpenTelemetryPlugin(gdb); err != nil {
			log.Warn("failed to register gorm otel plugin", zap.Error(err))
		}
		if err := cache.RegisterOpenTelemetryPlugin(do.MustInvoke[*redis.Client](inj)); err != nil {
			log.Warn("failed to register redis otel plugin", zap.Error(err))
		}
	}

	r := router.NewRouter(router.RouterDeps{
		Config:          cfg,
		DB:              gdb,
		Log:             log,
		SpotHandler:     do.MustInvoke[*handler.SpotHandler](inj),
		InterestHandler: do.MustInvoke[*handler.InterestHandler](inj),
		InviteHandler:   do.MustInvoke[*handler.InviteHandler](inj),
		MeetupHandler:   do.MustInvoke[*handler.MeetupHandler](inj),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if tp != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Error("tracer shutdown failed", zap.Error(err))
		}
	}
	if mp != nil {
		if err := telemetry.ShutdownMetrics(shutdownCtx); err != nil {
			log.Error("meter shutdown failed", zap.Error(err))
		}
	}

	if err := cache.Close(do.MustInvoke[*redis.Client](inj)); err != nil {
		log.Error("redis close failed", zap.Error(err))
	}
	if err := inj.Shutdown(); err != nil {
		log.Error("container shutdown failed", zap.Error(err))
	}
}
