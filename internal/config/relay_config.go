package config

import (
	"os"

	"github.com/joho/godotenv"
)

// RelayConfig holds configuration for the change relay.
type RelayConfig struct {
	DatabaseURL     string
	RabbitMQURL     string
	ChangeQueueName string
	HealthPort      string
}

func LoadRelayConfig() *RelayConfig {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL:     dbURL,
		RabbitMQURL:     rabbitURL,
		ChangeQueueName: getEnv("CHANGE_QUEUE_NAME", "entity-changes"),
		HealthPort:      getEnv("HEALTH_PORT", "8090"),
	}
}
