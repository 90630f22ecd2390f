package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
)

type effectRecorder struct {
	outcomes []string
}

func (r *effectRecorder) ObserveUpstream(string, string, int, time.Duration) {}
func (r *effectRecorder) ObserveFanOut(string, int, int, time.Duration)      {}

func (r *effectRecorder) ObserveEffect(entity, kind, outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func listOf(items ...domain.Block) Outcome[domain.Block] {
	return Outcome[domain.Block]{Page: domain.PagedResult[domain.Block]{Items: items, Total: len(items), Page: 1}}
}

func TestEffects_LatestDispatchWins(t *testing.T) {
	container := NewContainer[domain.Block]()
	effects := NewEffects("blocks", container, nil)
	ctx := context.Background()

	release := make(chan struct{})
	slow := effects.Dispatch(ctx, ActionList, func(ctx context.Context) (Outcome[domain.Block], error) {
		<-release
		return listOf(block("stale", "old society")), nil
	})
	fast := effects.Dispatch(ctx, ActionList, func(ctx context.Context) (Outcome[domain.Block], error) {
		return listOf(block("fresh", "new society")), nil
	})

	fastDone := <-fast
	assert.True(t, fastDone.Applied)

	close(release)
	slowDone := <-slow
	assert.False(t, slowDone.Applied)
	assert.NoError(t, slowDone.Err)

	s := container.Snapshot()
	assert.Equal(t, StatusComplete, s.Status)
	assert.Equal(t, []string{"fresh"}, keys(s.Items))
}

func TestEffects_SupersededFailureIsDropped(t *testing.T) {
	container := NewContainer[domain.Block]()
	metrics := &effectRecorder{}
	effects := NewEffects("blocks", container, metrics)
	ctx := context.Background()

	release := make(chan struct{})
	slow := effects.Dispatch(ctx, ActionList, func(ctx context.Context) (Outcome[domain.Block], error) {
		<-release
		return Outcome[domain.Block]{}, errors.New("timeout")
	})
	require.True(t, effects.Run(ctx, ActionList, func(ctx context.Context) (Outcome[domain.Block], error) {
		return listOf(block("a", "A")), nil
	}).Applied)

	close(release)
	<-slow

	s := container.Snapshot()
	assert.Equal(t, StatusComplete, s.Status)
	assert.Empty(t, s.Error)
	assert.Equal(t, []string{"success", "superseded"}, metrics.outcomes)
}

func TestEffects_KindsAreTrackedSeparately(t *testing.T) {
	container := NewContainer[domain.Block]()
	effects := NewEffects("blocks", container, nil)
	ctx := context.Background()

	release := make(chan struct{})
	list := effects.Dispatch(ctx, ActionList, func(ctx context.Context) (Outcome[domain.Block], error) {
		<-release
		return listOf(block("a", "A"), block("b", "B")), nil
	})
	get := effects.Run(ctx, ActionGet, func(ctx context.Context) (Outcome[domain.Block], error) {
		return Outcome[domain.Block]{Item: block("b", "B")}, nil
	})
	assert.True(t, get.Applied)

	close(release)
	assert.True(t, (<-list).Applied)
	assert.Equal(t, []string{"a", "b"}, keys(container.Snapshot().Items))
}

func TestEffects_FailureMarksContainer(t *testing.T) {
	container := NewContainer[domain.Block]()
	effects := NewEffects("blocks", container, nil)

	done := effects.Run(context.Background(), ActionGet, func(ctx context.Context) (Outcome[domain.Block], error) {
		return Outcome[domain.Block]{}, domain.ErrNotFound
	})
	assert.True(t, done.Applied)
	assert.ErrorIs(t, done.Err, domain.ErrNotFound)

	s := container.Snapshot()
	assert.Equal(t, StatusFailed, s.Status)
	assert.Equal(t, domain.ErrNotFound.Error(), s.Error)
}
