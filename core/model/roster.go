package model

import (
	"strings"
	"time"
	"unicode"
)

// Limits applied to a rota configuration.
const (
	MinDeacons   = 2
	MinWeeks     = 1
	MaxWeeks     = 520
	keySeparator = '|'
)

// Deacon is a visitor identified by a unique name.
type Deacon struct {
	Name string `json:"name" yaml:"name"`
}

// Household is a visit target identified by a unique name.
type Household struct {
	Name      string    `json:"name" yaml:"name"`
	Frequency Frequency `json:"-" yaml:"-"`
}

// RotaConfig is the validated input of one generation run. It cannot be
// modified after NewRotaConfig returns; accessors hand out copies.
type RotaConfig struct {
	deacons          []Deacon
	households       []Household
	startDate        time.Time
	numWeeks         int
	defaultFrequency int
	valid            bool
}

// NewRotaConfig validates its arguments and builds an immutable RotaConfig.
// Every failure is a *ConfigurationError.
func NewRotaConfig(deacons []string, households []Household, startDate time.Time, numWeeks, defaultFrequency int) (*RotaConfig, error) {
	if len(deacons) < MinDeacons {
		return nil, configErr("deacons", len(deacons), "at least %d deacons are required", MinDeacons)
	}
	if len(households) == 0 {
		return nil, configErr("households", 0, "at least one household is required")
	}
	if numWeeks < MinWeeks || numWeeks > MaxWeeks {
		return nil, configErr("num_weeks", numWeeks, "must be within [%d, %d]", MinWeeks, MaxWeeks)
	}
	if !validFrequency(defaultFrequency) {
		return nil, configErr("default_visit_frequency", defaultFrequency, "must be within [%d, %d]", MinFrequencyWeeks, MaxFrequencyWeeks)
	}
	if startDate.IsZero() {
		return nil, configErr("start_date", nil, "is required")
	}

	cfg := &RotaConfig{
		deacons:          make([]Deacon, 0, len(deacons)),
		households:       make([]Household, 0, len(households)),
		startDate:        dateOnly(startDate),
		numWeeks:         numWeeks,
		defaultFrequency: defaultFrequency,
	}

	seen := make(map[string]struct{}, len(deacons))
	for i, name := range deacons {
		if err := checkName("deacons", i, name); err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, configErr("deacons", name, "duplicate name")
		}
		seen[name] = struct{}{}
		cfg.deacons = append(cfg.deacons, Deacon{Name: name})
	}

	seen = make(map[string]struct{}, len(households))
	for i, h := range households {
		if err := checkName("households", i, h.Name); err != nil {
			return nil, err
		}
		if _, dup := seen[h.Name]; dup {
			return nil, configErr("households", h.Name, "duplicate name")
		}
		seen[h.Name] = struct{}{}
		if w, ok := h.Frequency.Weeks(); ok && !validFrequency(w) {
			return nil, configErr("households."+h.Name+".frequency_weeks", w, "must be within [%d, %d]", MinFrequencyWeeks, MaxFrequencyWeeks)
		}
		cfg.households = append(cfg.households, h)
	}
	cfg.valid = true
	return cfg, nil
}

// checkName rejects names that are blank or that would break the
// "deacon|household" keys used by downstream calendar and sheet sinks.
func checkName(field string, idx int, name string) error {
	if strings.TrimSpace(name) == "" {
		return configErr(field, idx, "name must not be empty")
	}
	if name != strings.TrimSpace(name) {
		return configErr(field, name, "name must not have leading or trailing spaces")
	}
	for _, r := range name {
		if r == keySeparator || unicode.IsControl(r) {
			return configErr(field, name, "name contains illegal character %q", r)
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Valid reports whether the config was produced by NewRotaConfig.
func (c *RotaConfig) Valid() bool { return c != nil && c.valid }

// Deacons returns a copy of the ordered deacon list.
func (c *RotaConfig) Deacons() []Deacon { return append([]Deacon(nil), c.deacons...) }

// Households returns a copy of the ordered household list.
func (c *RotaConfig) Households() []Household { return append([]Household(nil), c.households...) }

// DeaconCount returns the number of deacons.
func (c *RotaConfig) DeaconCount() int { return len(c.deacons) }

// HouseholdCount returns the number of households.
func (c *RotaConfig) HouseholdCount() int { return len(c.households) }

// DeaconName returns the name of deacon i.
func (c *RotaConfig) DeaconName(i int) string { return c.deacons[i].Name }

// Household returns household i.
func (c *RotaConfig) Household(i int) Household { return c.households[i] }

// StartDate is the anchor of week 1.
func (c *RotaConfig) StartDate() time.Time { return c.startDate }

// NumWeeks is the schedule horizon.
func (c *RotaConfig) NumWeeks() int { return c.numWeeks }

// DefaultFrequency is the frequency used by households without override.
func (c *RotaConfig) DefaultFrequency() int { return c.defaultFrequency }

// FrequencyOf returns the effective frequency of household i.
func (c *RotaConfig) FrequencyOf(i int) int {
	return c.households[i].Frequency.Resolve(c.defaultFrequency)
}

// UniformFrequency returns the shared frequency and true when every
// household resolves to the same value.
func (c *RotaConfig) UniformFrequency() (int, bool) {
	if len(c.households) == 0 {
		return 0, false
	}
	f := c.FrequencyOf(0)
	for i := 1; i < len(c.households); i++ {
		if c.FrequencyOf(i) != f {
			return 0, false
		}
	}
	return f, true
}

// WeekDate returns the calendar date of the given 1-based week.
func (c *RotaConfig) WeekDate(week int) time.Time {
	return c.startDate.AddDate(0, 0, (week-1)*7)
}
