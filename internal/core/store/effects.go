package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

// Effect performs the side effect for one action.
type Effect[T any] func(ctx context.Context) (Outcome[T], error)

// Completion reports how a dispatched effect ended. Applied is false when a
// newer dispatch of the same kind had started before this one finished.
type Completion[T any] struct {
	Outcome Outcome[T]
	Err     error
	Applied bool
}

// Effects runs effect handlers against one container. Every dispatch bumps a
// generation counter for its action kind; an effect's result is applied only
// if its generation is still the latest for that kind when it completes.
// Superseded effects are not cancelled; their results are dropped.
type Effects[T domain.Keyed] struct {
	entity    string
	container *Container[T]
	metrics   ports.Metrics
	log       *logrus.Entry

	mu          sync.Mutex
	generations map[ActionKind]uint64
}

func NewEffects[T domain.Keyed](entity string, container *Container[T], metrics ports.Metrics) *Effects[T] {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Effects[T]{
		entity:      entity,
		container:   container,
		metrics:     metrics,
		log:         logging.For("effects").WithField("entity", entity),
		generations: make(map[ActionKind]uint64),
	}
}

// Dispatch starts effect in its own goroutine. The returned channel yields
// exactly one Completion.
func (e *Effects[T]) Dispatch(ctx context.Context, kind ActionKind, effect Effect[T]) <-chan Completion[T] {
	e.mu.Lock()
	e.generations[kind]++
	generation := e.generations[kind]
	e.mu.Unlock()

	e.container.Request()

	done := make(chan Completion[T], 1)
	go func() {
		out, err := effect(ctx)

		e.mu.Lock()
		latest := e.generations[kind] == generation
		if latest {
			if err != nil {
				e.container.Fail(err)
			} else {
				e.container.Succeed(kind, out)
			}
		}
		e.mu.Unlock()

		outcome := "success"
		switch {
		case !latest:
			outcome = "superseded"
			e.log.WithField("action", kind).Debug("dropping superseded result")
		case err != nil:
			outcome = "failure"
			e.log.WithField("action", kind).WithError(err).Warn("effect failed")
		}
		e.metrics.ObserveEffect(e.entity, string(kind), outcome)

		done <- Completion[T]{Outcome: out, Err: err, Applied: latest}
		close(done)
	}()
	return done
}

// Run dispatches and waits for the completion.
func (e *Effects[T]) Run(ctx context.Context, kind ActionKind, effect Effect[T]) Completion[T] {
	return <-e.Dispatch(ctx, kind, effect)
}
