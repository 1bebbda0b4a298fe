// Package metrics exposes simulation progress as Prometheus metrics.
//
// Every Recorder owns its registry, so several runs in one process (tests,
// mostly) never collide on metric names.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/specialistvlad/keepaway/internal/simulation"
)

const namespace = "keepaway"

// Recorder is a simulation.Observer that mirrors round snapshots into
// Prometheus collectors.
type Recorder struct {
	registry *prometheus.Registry

	// RoundsTotal counts completed rounds.
	RoundsTotal prometheus.Counter
	// InspectionsTotal counts inspections per monkey. Labels: monkey.
	InspectionsTotal *prometheus.CounterVec
	// QueuedItems is the queue length per monkey after the last round.
	// Labels: monkey.
	QueuedItems *prometheus.GaugeVec
	// RoundDuration observes the wall time between round notifications.
	RoundDuration prometheus.Histogram

	last     map[int]uint64
	lastTime time.Time
	now      func() time.Time
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		RoundsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Number of completed simulation rounds.",
		}),
		InspectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inspections_total",
			Help:      "Items inspected, by monkey.",
		}, []string{"monkey"}),
		QueuedItems: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queued_items",
			Help:      "Items waiting in each monkey's queue after the last round.",
		}, []string{"monkey"}),
		RoundDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_duration_seconds",
			Help:      "Time spent per simulation round.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 10, 7),
		}),
		last: make(map[int]uint64),
		now:  time.Now,
	}
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Start marks the beginning of the first round for duration tracking.
func (r *Recorder) Start() {
	r.lastTime = r.now()
}

// RoundCompleted implements simulation.Observer.
func (r *Recorder) RoundCompleted(_ context.Context, snap simulation.Snapshot) error {
	now := r.now()
	if !r.lastTime.IsZero() {
		r.RoundDuration.Observe(now.Sub(r.lastTime).Seconds())
	}
	r.lastTime = now

	r.RoundsTotal.Inc()
	for _, a := range snap.Actors {
		label := strconv.Itoa(a.ID)
		if delta := a.Activity - r.last[a.ID]; delta > 0 {
			r.InspectionsTotal.WithLabelValues(label).Add(float64(delta))
		}
		r.last[a.ID] = a.Activity
		r.QueuedItems.WithLabelValues(label).Set(float64(a.Items))
	}
	return nil
}
