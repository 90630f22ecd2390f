//go:build integration

// Integration tests for the outbox relay against real PostgreSQL and RabbitMQ.
//
// Run with:
//
//	TEST_DB_CONNECTION_STRING=... TEST_RABBITMQ_URL=... go test -tags=integration ./internal/adapters/outbox/...
package outbox_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/messaging"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/outbox"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/adapters/repository"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

const testQueue = "test_entity_changes"

var (
	testDB     *sql.DB
	testDBURL  string
	testAMQP   string
	testBroker *messaging.RabbitMQBroker
)

func TestMain(m *testing.M) {
	testDBURL = os.Getenv("TEST_DB_CONNECTION_STRING")
	testAMQP = os.Getenv("TEST_RABBITMQ_URL")
	if testDBURL == "" || testAMQP == "" {
		fmt.Println("Skipping relay integration tests: TEST_DB_CONNECTION_STRING or TEST_RABBITMQ_URL not set")
		os.Exit(0)
	}

	var err error
	testDB, err = sql.Open("postgres", testDBURL)
	if err != nil {
		fmt.Printf("Failed to connect to test database: %v\n", err)
		os.Exit(1)
	}
	if err := testDB.Ping(); err != nil {
		fmt.Printf("Failed to ping test database: %v\n", err)
		os.Exit(1)
	}

	testBroker, err = messaging.NewRabbitMQBroker(testAMQP, testQueue)
	if err != nil {
		fmt.Printf("Failed to connect to RabbitMQ: %v\n", err)
		os.Exit(1)
	}

	if err := setupSchema(testDB); err != nil {
		fmt.Printf("Failed to setup test schema: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	cleanup(testDB)
	testBroker.Close()
	testDB.Close()
	os.Exit(code)
}

func setupSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS outbox_events (
			id VARCHAR(36) PRIMARY KEY,
			aggregate_type VARCHAR(50) NOT NULL,
			aggregate_id VARCHAR(64) NOT NULL,
			event_type VARCHAR(50) NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			processed_at TIMESTAMP
		)`)
	return err
}

func cleanup(db *sql.DB) {
	_, _ = db.Exec("DELETE FROM outbox_events")
}

func startRelay(t *testing.T, timeout time.Duration) {
	t.Helper()
	relay := outbox.NewRelay(testDB, testDBURL, repository.EventTypeEntityChanged, testBroker)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	go func() { _ = relay.Start(ctx) }()

	// give the listener time to subscribe
	time.Sleep(200 * time.Millisecond)
}

func processedAt(t *testing.T, id string) sql.NullTime {
	t.Helper()
	var at sql.NullTime
	require.NoError(t, testDB.QueryRow("SELECT processed_at FROM outbox_events WHERE id = $1", id).Scan(&at))
	return at
}

func consumeOne(t *testing.T) amqp.Delivery {
	t.Helper()
	conn, err := amqp.Dial(testAMQP)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ch, err := conn.Channel()
	require.NoError(t, err)

	deliveries, err := ch.Consume(testQueue, "", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
		return amqp.Delivery{}
	}
}

func TestIntegration_RecordedChangeIsPublished(t *testing.T) {
	cleanup(testDB)
	startRelay(t, 10*time.Second)

	evt := ports.EntityChangedEvent{
		ID:         uuid.New().String(),
		Entity:     "notices",
		EntityID:   "n1",
		Action:     ports.ActionCreated,
		SocietyID:  "s1",
		ActorID:    "u1",
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repository.NewOutboxRepository(testDB).RecordChange(context.Background(), evt))

	d := consumeOne(t)
	assert.Equal(t, evt.ID, d.MessageId)
	assert.Equal(t, "created", d.Type)

	var got ports.EntityChangedEvent
	require.NoError(t, json.Unmarshal(d.Body, &got))
	assert.Equal(t, "n1", got.EntityID)

	assert.Eventually(t, func() bool { return processedAt(t, evt.ID).Valid }, 3*time.Second, 100*time.Millisecond)
}

func TestIntegration_BacklogProcessedOnStartup(t *testing.T) {
	cleanup(testDB)

	for i := 1; i <= 3; i++ {
		evt := ports.EntityChangedEvent{
			ID:         uuid.New().String(),
			Entity:     "bills",
			EntityID:   fmt.Sprintf("b%d", i),
			Action:     ports.ActionUpdated,
			OccurredAt: time.Now(),
		}
		payload, _ := json.Marshal(evt)
		_, err := testDB.Exec(`
			INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			evt.ID, evt.Entity, evt.EntityID, repository.EventTypeEntityChanged, payload, evt.OccurredAt)
		require.NoError(t, err)
	}

	startRelay(t, 5*time.Second)

	assert.Eventually(t, func() bool {
		var n int
		if err := testDB.QueryRow("SELECT COUNT(*) FROM outbox_events WHERE processed_at IS NULL").Scan(&n); err != nil {
			return false
		}
		return n == 0
	}, 3*time.Second, 100*time.Millisecond)
}

func TestIntegration_InvalidPayloadIsMarkedProcessed(t *testing.T) {
	cleanup(testDB)

	id := uuid.New().String()
	_, err := testDB.Exec(`
		INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, "notices", "n9", repository.EventTypeEntityChanged, []byte(`"not an event"`), time.Now())
	require.NoError(t, err)

	startRelay(t, 3*time.Second)

	assert.Eventually(t, func() bool { return processedAt(t, id).Valid }, 2*time.Second, 100*time.Millisecond)
}
