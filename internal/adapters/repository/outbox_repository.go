package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/config"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

const (
	// EventTypeEntityChanged is the outbox event_type for entity mutations.
	EventTypeEntityChanged = "entity.changed"
	OutboxChannel          = "outbox_channel"
)

// OutboxRepository writes change events to the outbox_events table and
// signals the relay on the same transaction.
type OutboxRepository struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

var _ ports.ChangeRecorder = (*OutboxRepository)(nil)

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{
		db: db,
		cb: config.NewCircuitBreaker("PostgreSQL"),
	}
}

func (r *OutboxRepository) RecordChange(ctx context.Context, evt ports.EntityChangedEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}

	_, err = r.cb.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, payload, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			evt.ID,
			evt.Entity,
			evt.EntityID,
			EventTypeEntityChanged,
			payload,
			evt.OccurredAt,
		)
		if err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", OutboxChannel, evt.ID); err != nil {
			return nil, err
		}

		return nil, tx.Commit()
	})
	return err
}

func (r *OutboxRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
