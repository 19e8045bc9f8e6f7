package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vsinha/bomview/pkg/infrastructure/events"
)

// Outcomes of an explosion
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Recorder turns explosion events into Prometheus metrics
type Recorder struct {
	registry   *prometheus.Registry
	explosions *prometheus.CounterVec
	lines      prometheus.Counter
	duration   *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry, including the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		explosions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bomview_explosions_total",
			Help: "Number of method tree explosions by source and outcome.",
		}, []string{"source", "outcome"}),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bomview_lines_total",
			Help: "Number of BOM lines produced by successful explosions.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bomview_explosion_duration_seconds",
			Help:    "Time spent exploding a method tree.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"source"}),
	}

	r.registry.MustRegister(
		r.explosions,
		r.lines,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry is the registry to expose on /metrics
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// EventTypes are the events Recorder subscribes to
func (r *Recorder) EventTypes() []string {
	return []string{events.BOMExplodedEvent, events.BOMExplosionFailedEvent}
}

var _ events.EventHandler = (*Recorder)(nil)

// CanHandle implements events.EventHandler
func (r *Recorder) CanHandle(eventType string) bool {
	return eventType == events.BOMExplodedEvent || eventType == events.BOMExplosionFailedEvent
}

// Handle implements events.EventHandler
func (r *Recorder) Handle(event events.Event) error {
	switch data := event.Data().(type) {
	case events.BOMExploded:
		r.explosions.WithLabelValues(data.Source, OutcomeOK).Inc()
		r.lines.Add(float64(data.Lines))
		r.duration.WithLabelValues(data.Source).Observe(data.Elapsed.Seconds())
	case events.BOMExplosionFailed:
		outcome := OutcomeError
		if data.Invalid {
			outcome = OutcomeInvalid
		}
		r.explosions.WithLabelValues(data.Source, outcome).Inc()
		r.duration.WithLabelValues(data.Source).Observe(data.Elapsed.Seconds())
	default:
		return fmt.Errorf("unexpected payload %T for event %s", event.Data(), event.Type())
	}
	return nil
}
