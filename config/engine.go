package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/deaconrota/core/rotation"
)

// EngineConfig tunes the rotation engine.
type EngineConfig struct {
	// TimeoutSeconds bounds one generation run. Absent means the engine
	// default; 0 disables the limit.
	TimeoutSeconds *int `json:"timeout_seconds"`
	// Weights replaces the default scoring weights when set.
	Weights *rotation.Weights `json:"weights"`
}

// Timeout returns the configured wall-clock budget.
func (c EngineConfig) Timeout() time.Duration {
	if c.TimeoutSeconds == nil {
		return rotation.DefaultTimeout
	}
	return time.Duration(*c.TimeoutSeconds) * time.Second
}

// Options translates the configuration into engine options.
func (c EngineConfig) Options() []rotation.Option {
	opts := []rotation.Option{rotation.WithTimeout(c.Timeout())}
	if c.Weights != nil {
		opts = append(opts, rotation.WithWeights(*c.Weights))
	}
	return opts
}

// Validate checks the timeout is not negative.
func (c EngineConfig) Validate() error {
	if c.TimeoutSeconds != nil && *c.TimeoutSeconds < 0 {
		return fmt.Errorf("engine.timeout_seconds must not be negative")
	}
	return nil
}
