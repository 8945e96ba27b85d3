package config

import (
	"time"

	"github.com/kilianp07/deaconrota/core/model"
)

// DateLayout is the expected format of rota.start_date.
const DateLayout = "2006-01-02"

// HouseholdConfig is one household entry. FrequencyWeeks is optional; when
// absent the household follows the rota default.
type HouseholdConfig struct {
	Name           string `json:"name"`
	FrequencyWeeks *int   `json:"frequency_weeks"`
}

// RotaConfig holds the raw rota inputs. Build turns them into a validated
// model.RotaConfig.
type RotaConfig struct {
	StartDate             string            `json:"start_date"`
	NumWeeks              int               `json:"num_weeks"`
	DefaultVisitFrequency int               `json:"default_visit_frequency"`
	Deacons               []string          `json:"deacons"`
	Households            []HouseholdConfig `json:"households"`
}

// SetDefaults applies sane defaults.
func (c *RotaConfig) SetDefaults() {
	if c.DefaultVisitFrequency == 0 {
		c.DefaultVisitFrequency = 1
	}
}

// Build parses the start date and validates the roster.
func (c RotaConfig) Build() (*model.RotaConfig, error) {
	start, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return nil, &model.ConfigurationError{Field: "start_date", Value: c.StartDate, Reason: "must be a YYYY-MM-DD date"}
	}
	households := make([]model.Household, len(c.Households))
	for i, h := range c.Households {
		households[i] = model.Household{Name: h.Name, Frequency: model.DefaultFrequency()}
		if h.FrequencyWeeks != nil {
			households[i].Frequency = model.OverrideFrequency(*h.FrequencyWeeks)
		}
	}
	return model.NewRotaConfig(c.Deacons, households, start, c.NumWeeks, c.DefaultVisitFrequency)
}
