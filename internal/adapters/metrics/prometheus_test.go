package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_CountsEffectsAndFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveEffect("blocks", "list", "success")
	r.ObserveEffect("blocks", "list", "success")
	r.ObserveEffect("blocks", "list", "superseded")
	r.ObserveFanOut("blocks", 3, 1, 20*time.Millisecond)
	r.ObserveFanOut("blocks", 2, 0, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.effects.WithLabelValues("blocks", "list", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.effects.WithLabelValues("blocks", "list", "superseded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fanOutFailures.WithLabelValues("blocks")))
}

func TestRecorder_UpstreamTransportErrorLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveUpstream("GET", "blocks", 0, time.Millisecond)
	r.ObserveUpstream("GET", "blocks", 200, time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(r.upstreamDuration))
}
