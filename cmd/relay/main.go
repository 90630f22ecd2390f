package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/messaging"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/outbox"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/repository"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/config"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

func main() {
	logging.Init("change-relay")
	log := logging.Logger
	log.Info("starting outbox relay service")

	cfg := config.LoadRelayConfig()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()
	log.Info("database connection initialized - circuit breaker will validate on first operation")

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.ChangeQueueName)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to RabbitMQ")
	}
	defer broker.Close()
	log.WithField("queue", cfg.ChangeQueueName).Info("connected to RabbitMQ")

	worker := outbox.NewRelay(db, cfg.DatabaseURL, repository.EventTypeEntityChanged, broker)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("GET /health", probe(worker.IsHealthy))
	healthMux.HandleFunc("GET /health/live", probe(worker.IsHealthy))
	healthMux.HandleFunc("GET /health/ready", probe(worker.IsReady))

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("starting health check server on :%s", cfg.HealthPort)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("health server error")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)

	go func() {
		log.Info("starting event processing worker")
		if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Infof("received signal %v, initiating shutdown", sig)
	case err := <-errChan:
		log.WithError(err).Error("fatal worker error, shutting down")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error shutting down health server")
	}

	log.Info("shutdown complete")
}

func probe(check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK
		if !check() {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": "outbox-relay",
		})
	}
}
