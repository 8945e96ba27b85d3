package rotation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/deaconrota/core/model"
)

var testStart = time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

// hh builds households; a zero frequency keeps the default.
func hh(pairs ...any) []model.Household {
	var out []model.Household
	for i := 0; i < len(pairs); i += 2 {
		h := model.Household{Name: pairs[i].(string)}
		if f := pairs[i+1].(int); f > 0 {
			h.Frequency = model.OverrideFrequency(f)
		}
		out = append(out, h)
	}
	return out
}

func names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%03d", prefix, i)
	}
	return out
}

func defaultHouseholds(n int) []model.Household {
	out := make([]model.Household, n)
	for i, name := range names("H", n) {
		out[i] = model.Household{Name: name}
	}
	return out
}

func mustConfig(t *testing.T, deacons []string, households []model.Household, weeks, freq int) *model.RotaConfig {
	t.Helper()
	cfg, err := model.NewRotaConfig(deacons, households, testStart, weeks, freq)
	require.NoError(t, err)
	return cfg
}

// stepClock advances by step on every call.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}
