package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCLI_GenerateAnalyzeHistory(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	data := fmt.Sprintf(`rota:
  start_date: "2025-01-05"
  num_weeks: 6
  default_visit_frequency: 2
  deacons: [A, B, C]
  households:
    - name: X
    - name: Y
runlog:
  path: %s
service:
  output: %s
`, filepath.Join(dir, "runs.jsonl"), filepath.Join(dir, "rota.json"))
	require.NoError(t, os.WriteFile(cfgFile, []byte(data), 0o644))

	csvPath := filepath.Join(dir, "rota.csv")
	out, err := execute(t, "generate", "-c", cfgFile, "-o", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "6 visits in uniform mode")
	assert.Contains(t, out, "rating excellent")

	out, err = execute(t, "analyze", "-c", cfgFile, "-f", "json", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"total_visits": 6`)
	assert.Contains(t, out, `"imbalance": 0`)

	out, err = execute(t, "history", "-c", cfgFile, "--outcome", "success")
	require.NoError(t, err)
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "uniform")
}

func TestCLI_GenerateInfeasible(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	data := fmt.Sprintf(`rota:
  start_date: "2025-01-05"
  num_weeks: 4
  deacons: [A, B]
  households: [{name: X}, {name: Y}]
runlog:
  path: %s
service:
  output: %s
`, filepath.Join(dir, "runs.jsonl"), filepath.Join(dir, "rota.json"))
	require.NoError(t, os.WriteFile(cfgFile, []byte(data), 0o644))

	_, err := execute(t, "generate", "-c", cfgFile, "-o", filepath.Join(dir, "out.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add deacons")
}
