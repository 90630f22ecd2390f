// Package metrics exports gateway instrumentation to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

const namespace = "dashboard_gateway"

type Recorder struct {
	upstreamDuration *prometheus.HistogramVec
	fanOutDuration   *prometheus.HistogramVec
	fanOutBuildings  *prometheus.HistogramVec
	fanOutFailures   *prometheus.CounterVec
	effects          *prometheus.CounterVec
}

var _ ports.Metrics = (*Recorder)(nil)

// New registers the gateway collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of calls to the society API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		fanOutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fanout_duration_seconds",
			Help:      "Wall time of a society-wide aggregation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity"}),
		fanOutBuildings: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fanout_buildings",
			Help:      "Buildings queried per aggregation.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}, []string{"entity"}),
		fanOutFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanout_building_failures_total",
			Help:      "Per-building list calls that failed and were skipped.",
		}, []string{"entity"}),
		effects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effects_total",
			Help:      "Completed state effects by outcome.",
		}, []string{"entity", "action", "outcome"}),
	}

	reg.MustRegister(
		r.upstreamDuration,
		r.fanOutDuration,
		r.fanOutBuildings,
		r.fanOutFailures,
		r.effects,
	)
	return r
}

func (r *Recorder) ObserveUpstream(method, route string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.upstreamDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveFanOut(entity string, buildings, failures int, elapsed time.Duration) {
	r.fanOutDuration.WithLabelValues(entity).Observe(elapsed.Seconds())
	r.fanOutBuildings.WithLabelValues(entity).Observe(float64(buildings))
	if failures > 0 {
		r.fanOutFailures.WithLabelValues(entity).Add(float64(failures))
	}
}

func (r *Recorder) ObserveEffect(entity, kind, outcome string) {
	r.effects.WithLabelValues(entity, kind, outcome).Inc()
}
