package rotation

import (
	"time"

	"github.com/kilianp07/deaconrota/core/logger"
	"github.com/kilianp07/deaconrota/core/model"
)

// DefaultTimeout bounds the wall-clock time of one generation run.
const DefaultTimeout = 30 * time.Second

// Mode tells which generator produced a schedule.
type Mode string

const (
	ModeUniform  Mode = "uniform"
	ModeVariable Mode = "variable"
)

// Result is the outcome of a successful generation run.
type Result struct {
	Mode           Mode                `json:"mode" yaml:"mode"`
	Visits         []model.VisitRecord `json:"visits" yaml:"visits"`
	Feasibility    FeasibilityReport   `json:"feasibility" yaml:"feasibility"`
	DoubleBookings []DoubleBooking     `json:"double_bookings,omitempty" yaml:"double_bookings,omitempty"`
	Elapsed        time.Duration       `json:"elapsed" yaml:"elapsed"`
}

// Warning returns the low workload warning of the run, if any.
func (r *Result) Warning() *LowWorkloadWarning { return r.Feasibility.Warning }

// Engine generates schedules. It holds no state between runs and may be
// reused; each Generate call works on fresh counters.
type Engine struct {
	weights Weights
	clock   Clock
	timeout time.Duration
	log     logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights replaces the default scoring weights.
func WithWeights(w Weights) Option { return func(e *Engine) { e.weights = w } }

// WithClock sets the clock used for the time budget.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithTimeout sets the wall-clock budget. Zero disables it.
func WithTimeout(d time.Duration) Option { return func(e *Engine) { e.timeout = d } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine returns an Engine with default weights, the system clock and
// DefaultTimeout unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights: DefaultWeights(),
		clock:   SystemClock{},
		timeout: DefaultTimeout,
		log:     logger.NopLogger{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Generate validates cfg, checks feasibility and builds the schedule. On
// error no visits are returned.
func (e *Engine) Generate(cfg *model.RotaConfig) (*Result, error) {
	rep, err := CheckFeasibility(cfg)
	if err != nil {
		return nil, err
	}
	e.log.Debugw("feasibility checked", map[string]any{
		"total_visits":    rep.TotalVisitsNeeded,
		"weeks_per_visit": rep.WeeksPerVisit,
		"deacons":         cfg.DeaconCount(),
		"households":      cfg.HouseholdCount(),
	})

	b := startBudget(e.clock, e.timeout)
	res := &Result{Feasibility: rep}
	if freq, ok := cfg.UniformFrequency(); ok {
		res.Mode = ModeUniform
		res.Visits, res.DoubleBookings, err = e.generateUniform(cfg, freq, b)
	} else {
		res.Mode = ModeVariable
		res.Visits, err = e.generateVariable(cfg, b)
	}
	if err != nil {
		return nil, err
	}
	res.Elapsed = b.elapsed()
	e.log.Debugf("generated %d visits in %s mode (%s)", len(res.Visits), res.Mode, res.Elapsed)
	return res, nil
}

func (e *Engine) generateUniform(cfg *model.RotaConfig, freq int, b budget) ([]model.VisitRecord, []DoubleBooking, error) {
	cycles := VisitCount(cfg.NumWeeks(), freq)
	tick := func(c int) error {
		if el, over := b.exceeded(); over {
			return &TimeoutError{Mode: ModeUniform, Index: c, Week: c*freq + 1, Elapsed: el, Budget: b.limit}
		}
		return nil
	}
	p, err := GeneratePattern(cfg.DeaconCount(), cfg.HouseholdCount(), cycles, e.weights.Uniform, tick)
	if err != nil {
		return nil, nil, err
	}
	visits, doubles := uniformVisits(cfg, freq, p)
	if len(doubles) > 0 {
		e.log.Debugf("%d same-cycle double bookings (%d deacons for %d households)",
			len(doubles), cfg.DeaconCount(), cfg.HouseholdCount())
	}
	return visits, doubles, nil
}

func (e *Engine) generateVariable(cfg *model.RotaConfig, b budget) ([]model.VisitRecord, error) {
	entries := BuildTimeline(cfg)
	tick := func(i int, te TimelineEntry) error {
		if el, over := b.exceeded(); over {
			return &TimeoutError{Mode: ModeVariable, Index: i, Week: te.Week, Elapsed: el, Budget: b.limit}
		}
		return nil
	}
	assigned, err := AssignTimeline(entries, cfg.DeaconCount(), cfg.HouseholdCount(), e.weights.Timeline, tick)
	if err != nil {
		return nil, err
	}
	return timelineVisits(cfg, entries, assigned), nil
}

// GenerateSchedule runs a default Engine and returns the ordered visits.
// Use an Engine directly to read the low workload warning.
func GenerateSchedule(cfg *model.RotaConfig) ([]model.VisitRecord, error) {
	res, err := NewEngine().Generate(cfg)
	if err != nil {
		return nil, err
	}
	return res.Visits, nil
}

// AnalyzeSchedule is an alias of Analyze.
func AnalyzeSchedule(schedule []model.VisitRecord, cfg *model.RotaConfig) Diagnostics {
	return Analyze(schedule, cfg)
}
