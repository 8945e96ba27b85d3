package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/deaconrota/core/model"
	"github.com/kilianp07/deaconrota/core/rotation"
	"github.com/kilianp07/deaconrota/pkg/export"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `rota:
  start_date: "2025-01-05"
  num_weeks: 8
  default_visit_frequency: 2
  deacons: ["Alice", "Bob", "Carol"]
  households:
    - name: Smith
    - name: Jones
      frequency_weeks: 1
engine:
  timeout_seconds: 10
metrics:
  sinks:
    - type: "nop"
  prometheus_port: ":9100"
runlog:
  backend: sqlite
  path: runs.db
service:
  cron: "0 6 * * 1"
  output: rota.csv
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"start_date", cfg.Rota.StartDate, "2025-01-05"},
		{"num_weeks", cfg.Rota.NumWeeks, 8},
		{"default_visit_frequency", cfg.Rota.DefaultVisitFrequency, 2},
		{"deacons", len(cfg.Rota.Deacons), 3},
		{"households", len(cfg.Rota.Households), 2},
		{"smith_default", cfg.Rota.Households[0].FrequencyWeeks == nil, true},
		{"jones_override", cfg.Rota.Households[1].FrequencyWeeks != nil && *cfg.Rota.Households[1].FrequencyWeeks == 1, true},
		{"timeout", cfg.Engine.Timeout(), 10 * time.Second},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"prometheus_port", cfg.Metrics.PrometheusPort, ":9100"},
		{"runlog.backend", cfg.RunLog.Backend, "sqlite"},
		{"service.cron", cfg.Service.Cron, "0 6 * * 1"},
		{"service.format", cfg.Service.Format, ".csv"},
		{"service.debounce", cfg.Service.Debounce(), 5 * time.Second},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
	f, err := cfg.Service.ExportFormat()
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, f)

	rc, err := cfg.Rota.Build()
	require.NoError(t, err)
	assert.Equal(t, 3, rc.DeaconCount())
	assert.Equal(t, 1, rc.FrequencyOf(1))
	assert.Equal(t, 2, rc.FrequencyOf(0))
	_, uniform := rc.UniformFrequency()
	assert.False(t, uniform)
}

func TestLoad_JSONDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"rota": {"start_date": "2025-01-05", "num_weeks": 3,
		"deacons": ["A", "B"], "households": [{"name": "H"}]}}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Rota.DefaultVisitFrequency)
	assert.Equal(t, rotation.DefaultTimeout, cfg.Engine.Timeout())
	assert.Len(t, cfg.Engine.Options(), 1)
	assert.Equal(t, "jsonl", cfg.RunLog.Backend)
	assert.Equal(t, "rota_runs.jsonl", cfg.RunLog.Path)
	assert.Equal(t, "rota.json", cfg.Service.Output)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `rota:
  start_date: "2025-01-05"
  num_weeks: 4
`)
	t.Setenv("K_ROTA__NUM_WEEKS", "12")
	t.Setenv("K_ENGINE__TIMEOUT_SECONDS", "0")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Rota.NumWeeks)
	assert.Equal(t, time.Duration(0), cfg.Engine.Timeout())
}

func TestLoad_Weights(t *testing.T) {
	path := writeConfig(t, "config.yaml", `engine:
  weights:
    uniform: {usage: 1, pair: 0, fresh_pair_bonus: 0}
    timeline: {workload: 1}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Engine.Weights)
	assert.Equal(t, rotation.UniformWeights{Usage: 1}, cfg.Engine.Weights.Uniform)
	assert.Equal(t, 1, cfg.Engine.Weights.Timeline.Workload)
	assert.Len(t, cfg.Engine.Options(), 2)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"backend":  "runlog:\n  backend: postgres\n",
		"cron":     "service:\n  cron: \"not a cron\"\n",
		"format":   "service:\n  output: rota.xml\n",
		"timeout":  "engine:\n  timeout_seconds: -1\n",
		"debounce": "service:\n  debounce_seconds: -3\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeConfig(t, "config.toml", "x = 1"))
	assert.Error(t, err)
}

func TestRotaConfig_Build(t *testing.T) {
	bad := RotaConfig{StartDate: "05/01/2025", NumWeeks: 4, DefaultVisitFrequency: 1, Deacons: []string{"A", "B"}, Households: []HouseholdConfig{{Name: "H"}}}
	_, err := bad.Build()
	var cerr *model.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "start_date", cerr.Field)

	zero := 0
	bad.StartDate = "2025-01-05"
	bad.Households[0].FrequencyWeeks = &zero
	_, err = bad.Build()
	assert.ErrorIs(t, err, model.ErrInvalidConfig)

	bad.Households[0].FrequencyWeeks = nil
	rc, err := bad.Build()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), rc.StartDate())
}
