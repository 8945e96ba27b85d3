package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/deaconrota/core/metrics"
)

// PromSink records generation runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	visits    *prometheus.CounterVec
	imbalance prometheus.Gauge
	coverage  prometheus.Gauge
	doubles   prometheus.Gauge
	load      *prometheus.GaugeVec
}

// NewPromSink registers generation metrics on the default Prometheus registerer.
// The /metrics endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rota_generation_runs_total",
			Help: "Number of schedule generation runs by mode and outcome",
		}, []string{"mode", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rota_generation_duration_seconds",
			Help:    "Wall-clock time spent generating a schedule",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"mode"}),
		visits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rota_visits_generated_total",
			Help: "Number of visits produced by successful runs",
		}, []string{"mode"}),
		imbalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rota_last_imbalance",
			Help: "Max minus min visits per deacon in the last successful run",
		}),
		coverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rota_last_coverage_percent",
			Help: "Share of deacons visiting every household in the last successful run",
		}),
		doubles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rota_last_double_bookings",
			Help: "Same-cycle double bookings in the last successful run",
		}),
		load: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rota_deacon_visits",
			Help: "Visits per deacon in the last successful run",
		}, []string{"deacon"}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.visits, err = register(reg, s.visits); err != nil {
		return nil, err
	}
	if s.imbalance, err = register(reg, s.imbalance); err != nil {
		return nil, err
	}
	if s.coverage, err = register(reg, s.coverage); err != nil {
		return nil, err
	}
	if s.doubles, err = register(reg, s.doubles); err != nil {
		return nil, err
	}
	if s.load, err = register(reg, s.load); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordGeneration updates the run counters and, for successful runs, the
// last-run gauges.
func (s *PromSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	mode := ev.Mode
	if mode == "" {
		mode = "none"
	}
	s.runs.WithLabelValues(mode, string(ev.Outcome)).Inc()
	if ev.Outcome != coremetrics.OutcomeSuccess {
		return nil
	}
	s.duration.WithLabelValues(mode).Observe(ev.Duration.Seconds())
	s.visits.WithLabelValues(mode).Add(float64(ev.Visits))
	s.imbalance.Set(float64(ev.Imbalance))
	s.coverage.Set(ev.CoveragePercentage)
	s.doubles.Set(float64(ev.DoubleBookings))
	return nil
}

// RecordDeaconLoad replaces the per-deacon gauge values.
func (s *PromSink) RecordDeaconLoad(_ string, loads []coremetrics.DeaconLoad) error {
	s.load.Reset()
	for _, l := range loads {
		s.load.WithLabelValues(l.Deacon).Set(float64(l.Visits))
	}
	return nil
}
