package metrics

import "time"

// Outcome classifies how a generation run ended.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeInvalid    Outcome = "invalid_config"
	OutcomeInfeasible Outcome = "infeasible"
	OutcomeTimeout    Outcome = "timeout"
	OutcomeInternal   Outcome = "internal_error"
	OutcomeSkipped    Outcome = "skipped"
)

// GenerationEvent describes one generation run.
type GenerationEvent struct {
	RunID              string
	Mode               string
	Outcome            Outcome
	Visits             int
	Deacons            int
	Households         int
	NumWeeks           int
	Imbalance          int
	CoveragePercentage float64
	Rating             string
	LowWorkload        bool
	DoubleBookings     int
	Duration           time.Duration
	Time               time.Time
}

// MetricsSink records generation runs for observability purposes.
type MetricsSink interface {
	RecordGeneration(ev GenerationEvent) error
}

// DeaconLoad is the number of visits given to one deacon by a run.
type DeaconLoad struct {
	Deacon     string
	Visits     int
	Households int
}

// DeaconLoadRecorder is implemented by sinks able to record per-deacon load.
type DeaconLoadRecorder interface {
	RecordDeaconLoad(runID string, loads []DeaconLoad) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordGeneration(GenerationEvent) error      { return nil }
func (NopSink) RecordDeaconLoad(string, []DeaconLoad) error { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordGeneration forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordGeneration(ev GenerationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordGeneration(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordDeaconLoad forwards loads to the sinks that support them.
func (m *MultiSink) RecordDeaconLoad(runID string, loads []DeaconLoad) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DeaconLoadRecorder); ok {
			if err := rec.RecordDeaconLoad(runID, loads); err != nil {
				return err
			}
		}
	}
	return nil
}
