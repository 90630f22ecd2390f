package ports

import "time"

// Metrics receives instrumentation from the core. The prometheus adapter
// implements it; tests use a no-op.
type Metrics interface {
	ObserveUpstream(method, route string, status int, elapsed time.Duration)
	ObserveFanOut(entity string, buildings, failures int, elapsed time.Duration)
	ObserveEffect(entity, kind, outcome string)
}

type NopMetrics struct{}

func (NopMetrics) ObserveUpstream(string, string, int, time.Duration) {}
func (NopMetrics) ObserveFanOut(string, int, int, time.Duration)      {}
func (NopMetrics) ObserveEffect(string, string, string)               {}
