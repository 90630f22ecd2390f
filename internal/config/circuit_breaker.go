package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

type BreakerOption func(*gobreaker.Settings)

// WithSuccessCheck lets a caller decide which errors count as failures.
// The upstream client uses it so 4xx answers do not trip the breaker.
func WithSuccessCheck(fn func(err error) bool) BreakerOption {
	return func(s *gobreaker.Settings) {
		s.IsSuccessful = fn
	}
}

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string, opts ...BreakerOption) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	switch name {
	case "Redis-Session":
		timeout = time.Second * 5 // Align with health check timeout
	case "PostgreSQL", "Relay-PostgreSQL":
		timeout = time.Second * 10
	case "Society-API":
		timeout = time.Second * 15
	default:
		timeout = time.Second * 30 // RabbitMQ and other operations
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Error("circuit breaker state changed")
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}

	return gobreaker.NewCircuitBreaker(settings)
}
