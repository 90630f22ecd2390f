package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/apiclient"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/handler"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/metrics"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/middleware"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/repository"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/session"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/config"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/services"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/store"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

func main() {
	logging.Init("dashboard-gateway")
	log := logging.Logger

	cfg := config.Load()
	ctx := context.Background()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	log.Info("connected to Redis")

	// The change outbox is optional; without a database, mutations are not recorded.
	var (
		changes ports.ChangeRecorder
		dbPing  handler.Pinger
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed to open database")
		}
		defer db.Close()

		outboxRepo := repository.NewOutboxRepository(db)
		changes, dbPing = outboxRepo, outboxRepo
		log.Info("change outbox enabled")
	} else {
		log.Warn("DB_CONNECTION_STRING not set, change outbox disabled")
	}

	upstream, err := apiclient.New(
		cfg.UpstreamBaseURL,
		cfg.UpstreamTimeout,
		apiclient.NewTokenSource(cfg.JWTPrivateKey),
		recorder,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to configure upstream client")
	}

	catalog := services.NewCatalog(upstream, recorder)
	dashboards := store.NewRegistry(func() *store.Dashboard {
		return store.NewDashboard(catalog, changes, recorder)
	})
	evictCtx, stopEviction := context.WithCancel(ctx)
	defer stopEviction()
	go dashboards.RunEviction(evictCtx, cfg.SessionTTL)

	sessionStore := session.NewRedisStore(redisClient, cfg.SessionTTL)
	sessions := handler.NewSessions(sessionStore)

	mux := handler.NewRouter(handler.Routes{
		Auth:          middleware.NewAuthMiddleware(cfg.JWTPublicKey),
		Health:        handler.NewHealthHandler(sessionStore, dbPing, upstream),
		Session:       handler.NewSessionHandler(sessionStore, catalog.Societies, dashboards),
		Entities:      handler.NewEntityHandler(sessions, dashboards),
		Registrations: handler.NewRegistrationHandler(sessions, dashboards, catalog.Registrations),
		Operations:    handler.NewOperationsHandler(sessions, dashboards, catalog.Bills, catalog.Complaints),
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORSMiddleware(cfg.AllowedOrigins)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("starting server on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("could not start server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Infof("received signal %v, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error shutting down server")
	}
	log.Info("shutdown complete")
}
