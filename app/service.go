package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/kilianp07/deaconrota/config"
	coremetrics "github.com/kilianp07/deaconrota/core/metrics"
	"github.com/kilianp07/deaconrota/core/model"
	"github.com/kilianp07/deaconrota/core/rotation"
	"github.com/kilianp07/deaconrota/infra/logger"
	"github.com/kilianp07/deaconrota/infra/metrics"
	"github.com/kilianp07/deaconrota/infra/runlog"
	"github.com/kilianp07/deaconrota/pkg/export"
)

// Report is the outcome of one successful Generate call.
type Report struct {
	RunID       string
	Result      *rotation.Result
	Diagnostics rotation.Diagnostics
	Record      runlog.RunRecord
}

// Service orchestrates the rotation engine, the analyzer, metrics sinks,
// the run history and the export file.
type Service struct {
	cfg    *config.Config
	engine *rotation.Engine
	sink   coremetrics.MetricsSink
	store  runlog.Store
	guard  *Guard
	clock  rotation.Clock
	log    logger.Logger
	format export.Format
	newID  func() string
}

// Option customises a Service.
type Option func(*Service)

// WithSink replaces the sinks built from the metrics configuration.
func WithSink(s coremetrics.MetricsSink) Option { return func(svc *Service) { svc.sink = s } }

// WithStore replaces the run log store built from the configuration.
func WithStore(s runlog.Store) Option { return func(svc *Service) { svc.store = s } }

// WithClock sets the clock shared by the engine budget and the guard.
func WithClock(c rotation.Clock) Option { return func(svc *Service) { svc.clock = c } }

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option { return func(svc *Service) { svc.log = l } }

// WithIDGenerator replaces the run ID generator.
func WithIDGenerator(f func() string) Option { return func(svc *Service) { svc.newID = f } }

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	format, err := cfg.Service.ExportFormat()
	if err != nil {
		return nil, err
	}
	svc := &Service{
		cfg:    cfg,
		clock:  rotation.SystemClock{},
		format: format,
		newID:  func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(svc)
	}
	if svc.log == nil {
		svc.log = logger.New("service")
	}
	if svc.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		svc.sink = sink
	}
	if svc.store == nil {
		store, err := runlog.Open(cfg.RunLog.Options())
		if err != nil {
			return nil, fmt.Errorf("run log: %w", err)
		}
		svc.store = store
	}
	engineOpts := append(cfg.Engine.Options(),
		rotation.WithClock(svc.clock),
		rotation.WithLogger(logger.New("engine")))
	svc.engine = rotation.NewEngine(engineOpts...)
	svc.guard = NewGuard(svc.clock, cfg.Service.Debounce())
	return svc, nil
}

// Generate builds the rota, analyses it, writes the export file and records
// the run. Refused, failed and successful runs all reach the metrics sink
// and the run log.
func (s *Service) Generate(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := runlog.RunRecord{ID: s.newID(), Timestamp: s.clock.Now()}
	release, err := s.guard.Acquire()
	if err != nil {
		rec.Outcome = string(coremetrics.OutcomeSkipped)
		rec.Error = err.Error()
		s.record(ctx, rec, nil, nil)
		return nil, err
	}
	defer release()

	rota, res, diag, err := s.build()
	rec.Duration = s.clock.Now().Sub(rec.Timestamp)
	if rota != nil {
		rec.Deacons = rota.DeaconCount()
		rec.Households = rota.HouseholdCount()
		rec.NumWeeks = rota.NumWeeks()
	}
	if err != nil {
		rec.Outcome = string(outcomeOf(err))
		rec.Error = err.Error()
		s.log.Errorf("run %s failed: %v", rec.ID, err)
		s.record(ctx, rec, nil, nil)
		return nil, err
	}
	rec.Outcome = string(coremetrics.OutcomeSuccess)
	rec.Mode = string(res.Mode)
	rec.Visits = len(res.Visits)
	rec.Imbalance = diag.Imbalance
	rec.CoveragePercentage = diag.CoveragePercentage
	rec.Rating = string(diag.Rating)
	if w := res.Warning(); w != nil {
		rec.Warning = w.String()
		s.log.Warnf("run %s: %s", rec.ID, w)
	}
	if err := s.writeOutput(res.Visits); err != nil {
		rec.Outcome = string(coremetrics.OutcomeInternal)
		rec.Error = err.Error()
		s.record(ctx, rec, res, nil)
		return nil, err
	}
	s.record(ctx, rec, res, &diag)
	s.log.Infof("run %s: %d visits (%s), imbalance %d, coverage %.1f%%, rating %s",
		rec.ID, rec.Visits, rec.Mode, rec.Imbalance, rec.CoveragePercentage, rec.Rating)
	return &Report{RunID: rec.ID, Result: res, Diagnostics: diag, Record: rec}, nil
}

func (s *Service) build() (*model.RotaConfig, *rotation.Result, rotation.Diagnostics, error) {
	rota, err := s.cfg.Rota.Build()
	if err != nil {
		return nil, nil, rotation.Diagnostics{}, err
	}
	res, err := s.engine.Generate(rota)
	if err != nil {
		return rota, nil, rotation.Diagnostics{}, err
	}
	return rota, res, rotation.Analyze(res.Visits, rota), nil
}

// writeOutput replaces the export file atomically.
func (s *Service) writeOutput(visits []model.VisitRecord) error {
	path := s.cfg.Service.Output
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".rota-*")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := export.Write(tmp, s.format, visits); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Service) record(ctx context.Context, rec runlog.RunRecord, res *rotation.Result, diag *rotation.Diagnostics) {
	ev := coremetrics.GenerationEvent{
		RunID:              rec.ID,
		Mode:               rec.Mode,
		Outcome:            coremetrics.Outcome(rec.Outcome),
		Visits:             rec.Visits,
		Deacons:            rec.Deacons,
		Households:         rec.Households,
		NumWeeks:           rec.NumWeeks,
		Imbalance:          rec.Imbalance,
		CoveragePercentage: rec.CoveragePercentage,
		Rating:             rec.Rating,
		LowWorkload:        rec.Warning != "",
		Duration:           rec.Duration,
		Time:               rec.Timestamp,
	}
	if res != nil {
		ev.DoubleBookings = len(res.DoubleBookings)
	}
	if err := s.sink.RecordGeneration(ev); err != nil {
		s.log.Warnf("record generation: %v", err)
	}
	if rl, ok := s.sink.(coremetrics.DeaconLoadRecorder); ok && diag != nil {
		loads := make([]coremetrics.DeaconLoad, len(diag.Deacons))
		for i, d := range diag.Deacons {
			loads[i] = coremetrics.DeaconLoad{Deacon: d.Name, Visits: d.Visits, Households: len(d.Households)}
		}
		if err := rl.RecordDeaconLoad(rec.ID, loads); err != nil {
			s.log.Warnf("record deacon load: %v", err)
		}
	}
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Warnf("run log append: %v", err)
	}
}

func outcomeOf(err error) coremetrics.Outcome {
	switch {
	case errors.Is(err, rotation.ErrInvalidConfig):
		return coremetrics.OutcomeInvalid
	case errors.Is(err, rotation.ErrInfeasible):
		return coremetrics.OutcomeInfeasible
	case errors.Is(err, rotation.ErrTimeout):
		return coremetrics.OutcomeTimeout
	default:
		return coremetrics.OutcomeInternal
	}
}

// History returns past runs matching q.
func (s *Service) History(ctx context.Context, q runlog.RunQuery) ([]runlog.RunRecord, error) {
	return s.store.Query(ctx, q)
}

// Run generates once, then on every cron tick, until the context is
// cancelled. The Prometheus endpoint is served when a port is configured.
func (s *Service) Run(ctx context.Context) error {
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if _, err := s.Generate(ctx); err != nil {
		s.log.Errorf("initial generation: %v", err)
	}
	if s.cfg.Service.Cron == "" {
		<-ctx.Done()
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(s.cfg.Service.Cron, func() {
		if _, err := s.Generate(ctx); err != nil && !errors.Is(err, ErrDebounced) {
			s.log.Errorf("scheduled generation: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("cron: %w", err)
	}
	c.Start()
	s.log.Infof("regeneration scheduled with %q", s.cfg.Service.Cron)
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error { return s.store.Close() }
