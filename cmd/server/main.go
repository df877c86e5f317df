package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	eventhandler "slated/internal/event/handler"
	"slated/internal/event/schedule"
	eventservice "slated/internal/event/service"
	eventstore "slated/internal/event/store"
	"slated/internal/eventlog"
	loghandler "slated/internal/eventlog/handler"
	logstore "slated/internal/eventlog/store"
	apphttp "slated/internal/http"
	"slated/internal/platform/clock"
	"slated/internal/platform/config"
	"slated/internal/platform/httpserver"
	"slated/internal/platform/kafka"
	"slated/internal/platform/logger"
	"slated/internal/platform/metrics"
	"slated/internal/platform/postgres"
	platformredis "slated/internal/platform/redis"
	profilehandler "slated/internal/profile/handler"
	profileservice "slated/internal/profile/service"
	profilestore "slated/internal/profile/store"
	"slated/internal/transport/http/shared"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	clk := clock.NewSystem()
	respond := shared.NewResponder(cfg.Production)

	var (
		profiles profilestore.Store
		events   eventstore.Store
		logs     eventlog.Store
		health   apphttp.HealthChecker
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		profiles = profilestore.NewPostgres(db)
		events = eventstore.NewPostgres(db)
		logs = logstore.NewPostgres(db)
		health = db.Ping
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		memProfiles := profilestore.NewInMemoryStore()
		profiles = memProfiles
		events = eventstore.NewInMemoryStore(memProfiles)
		logs = logstore.NewInMemoryStore()
	}

	if cfg.RedisURL != "" {
		cache, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		profiles = profilestore.NewCached(profiles, cache, log)
	}

	logOpts := []eventlog.Option{eventlog.WithMetrics(m)}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = producer.Close(closeCtx)
		}()
		logOpts = append(logOpts, eventlog.WithPublisher(producer))
	}

	profileSvc := profileservice.New(profiles, clk, log, profileservice.WithMetrics(m))
	logSvc := eventlog.New(logs, clk, log, logOpts...)
	engine := schedule.New(clk)
	eventSvc := eventservice.New(events, profileSvc, logSvc, engine, clk, log, eventservice.WithMetrics(m))

	router := apphttp.New(apphttp.Deps{
		Logger:   log,
		Metrics:  m,
		Respond:  respond,
		Profiles: profilehandler.New(profileSvc, log, respond),
		Events:   eventhandler.New(eventSvc, log, respond),
		Logs:     loghandler.New(logSvc, log, respond),
		Health:   health,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting slated", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
