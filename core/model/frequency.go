package model

import "fmt"

// Frequency bounds, in weeks between two visits of the same household.
const (
	MinFrequencyWeeks = 1
	MaxFrequencyWeeks = 8
)

// FrequencySource tells where a household's visit frequency comes from.
type FrequencySource int

const (
	// FrequencyDefault means the household follows the rota default frequency.
	FrequencyDefault FrequencySource = iota
	// FrequencyOverride means the household carries its own frequency.
	FrequencyOverride
)

func (s FrequencySource) String() string {
	switch s {
	case FrequencyDefault:
		return "default"
	case FrequencyOverride:
		return "override"
	default:
		return fmt.Sprintf("FrequencySource(%d)", int(s))
	}
}

// Frequency is either Default or Override(weeks). The zero value is Default.
type Frequency struct {
	source FrequencySource
	weeks  int
}

// DefaultFrequency returns a frequency that resolves to the rota default.
func DefaultFrequency() Frequency { return Frequency{source: FrequencyDefault} }

// OverrideFrequency returns a household specific frequency of weeks.
func OverrideFrequency(weeks int) Frequency {
	return Frequency{source: FrequencyOverride, weeks: weeks}
}

// Source reports whether the frequency is the default or an override.
func (f Frequency) Source() FrequencySource { return f.source }

// IsOverride reports whether the household carries its own frequency.
func (f Frequency) IsOverride() bool { return f.source == FrequencyOverride }

// Weeks returns the override value and true, or 0 and false for Default.
func (f Frequency) Weeks() (int, bool) {
	if f.source != FrequencyOverride {
		return 0, false
	}
	return f.weeks, true
}

// Resolve returns the effective frequency given the rota default.
func (f Frequency) Resolve(defaultWeeks int) int {
	if w, ok := f.Weeks(); ok {
		return w
	}
	return defaultWeeks
}

func (f Frequency) String() string {
	if w, ok := f.Weeks(); ok {
		return fmt.Sprintf("override(%d)", w)
	}
	return "default"
}

func validFrequency(weeks int) bool {
	return weeks >= MinFrequencyWeeks && weeks <= MaxFrequencyWeeks
}
