package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kilianp07/deaconrota/pkg/export"
)

// ServiceConfig drives periodic regeneration.
type ServiceConfig struct {
	// Cron is a standard five field cron spec. Empty disables scheduling.
	Cron string `json:"cron"`
	// DebounceSeconds rejects a run started within this window of the previous one.
	DebounceSeconds int `json:"debounce_seconds"`
	// Output is the export file written after each successful run.
	Output string `json:"output"`
	// Format is json, csv or yaml. Defaults to the output extension.
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *ServiceConfig) SetDefaults() {
	if c.Output == "" {
		c.Output = "rota.json"
	}
	if c.Format == "" {
		c.Format = filepath.Ext(c.Output)
	}
	if c.DebounceSeconds == 0 {
		c.DebounceSeconds = 5
	}
}

// Debounce returns the re-entry window.
func (c ServiceConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceSeconds) * time.Second
}

// ExportFormat resolves the configured format.
func (c ServiceConfig) ExportFormat() (export.Format, error) {
	return export.ParseFormat(c.Format)
}

// Validate checks the cron spec and export format.
func (c ServiceConfig) Validate() error {
	if c.Cron != "" {
		if _, err := cron.ParseStandard(c.Cron); err != nil {
			return fmt.Errorf("service.cron: %w", err)
		}
	}
	if c.DebounceSeconds < 0 {
		return fmt.Errorf("service.debounce_seconds must not be negative")
	}
	if _, err := c.ExportFormat(); err != nil {
		return fmt.Errorf("service.format: %w", err)
	}
	return nil
}
