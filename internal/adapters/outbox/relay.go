package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/config"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

const markProcessedSQL = `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`

// Relay listens for PostgreSQL NOTIFY signals on the outbox channel and
// publishes change events to RabbitMQ.
type Relay struct {
	db        *sql.DB
	publisher ports.ChangeEventPublisher
	listener  *pq.Listener
	dbURL     string
	eventType string
	dbCB      *gobreaker.CircuitBreaker
	log       *logrus.Entry

	mu            sync.RWMutex
	lastProcessed time.Time
	healthy       bool
}

// NewRelay creates a relay that forwards outbox rows of eventType.
func NewRelay(db *sql.DB, dbURL, eventType string, publisher ports.ChangeEventPublisher) *Relay {
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		eventType:     eventType,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker("Relay-PostgreSQL"),
		log:           logging.For("outbox-relay"),
		lastProcessed: time.Now(),
		healthy:       true,
	}
}

// IsHealthy reports liveness only. An open breaker is degraded, not dead.
func (r *Relay) IsHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.healthy
}

// IsReady reports whether the relay can currently move events.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy
}

func (r *Relay) setHealthy(healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.healthy = healthy
}

func (r *Relay) markProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastProcessed = time.Now()
	r.healthy = true
}

// Start blocks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.log.WithError(err).Warn("listener error")
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}

	r.log.Infof("listening on '%s' for notifications", outboxChannelName)

	// catch up on anything written while the relay was down
	if err := r.processUnprocessedEvents(ctx); err != nil {
		r.log.WithError(err).Error("error processing startup backlog")
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("shutting down")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				r.log.Warn("received nil notification, reconnecting")
				r.setHealthy(false)
				continue
			}

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				r.log.WithField("event_id", notification.Extra).WithError(err).Error("error processing event")
			} else {
				r.markProgress()
			}

		case <-ticker.C:
			go r.listener.Ping()

			if err := r.processUnprocessedEvents(ctx); err != nil {
				r.log.WithError(err).Error("error in periodic processing")
			} else {
				r.markProgress()
			}
		}
	}
}

// errBadPayload marks a row that can never be published.
var errBadPayload = errors.New("invalid outbox payload")

// dispatch publishes one outbox row. Rows of other event types are skipped
// and still marked processed. A bad payload returns errBadPayload so the
// caller can mark the row done instead of retrying it forever.
func dispatch(ctx context.Context, publisher ports.ChangeEventPublisher, wantType, eventType string, payload []byte) error {
	if eventType != wantType {
		return nil
	}
	var evt ports.EntityChangedEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return errBadPayload
	}
	return publisher.PublishEntityChanged(ctx, evt)
}

func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var id, eventType string
		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&id, &eventType, &payload)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		err = dispatch(ctx, r.publisher, r.eventType, eventType, payload)
		if errors.Is(err, errBadPayload) {
			r.log.WithField("event_id", id).Warn("invalid payload, marking processed")
		} else if err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, markProcessedSQL, id); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		type record struct {
			ID        string
			EventType string
			Payload   []byte
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			err := dispatch(ctx, r.publisher, r.eventType, rec.EventType, rec.Payload)
			switch {
			case errors.Is(err, errBadPayload):
				r.log.WithField("event_id", rec.ID).Warn("invalid payload, marking processed")
			case err != nil:
				r.log.WithField("event_id", rec.ID).WithError(err).Error("failed to publish event")
				continue
			}

			if _, err := tx.ExecContext(ctx, markProcessedSQL, rec.ID); err != nil {
				return nil, err
			}
			r.log.WithField("event_id", rec.ID).Debug("processed event")
		}

		return nil, tx.Commit()
	})
	return err
}
