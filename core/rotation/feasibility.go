package rotation

import (
	"fmt"

	"github.com/kilianp07/deaconrota/core/model"
)

// Feasibility thresholds.
const (
	// MaxTotalVisits caps the size of one schedule.
	MaxTotalVisits = 2000
	// MinWeeksPerVisit is the densest acceptable workload per deacon.
	MinWeeksPerVisit = 3.0
	// LowWorkloadWeeksPerVisit triggers a LowWorkloadWarning when exceeded.
	LowWorkloadWeeksPerVisit = 12.0
)

// LowWorkloadWarning means deacons would visit so rarely that the rota may
// not be worth running. It is advisory; the caller decides whether to go on.
type LowWorkloadWarning struct {
	WeeksPerVisit   float64 `json:"weeks_per_visit" yaml:"weeks_per_visit"`
	VisitsPerDeacon float64 `json:"visits_per_deacon" yaml:"visits_per_deacon"`
}

func (w LowWorkloadWarning) String() string {
	return fmt.Sprintf("low workload: each deacon visits every %.1f weeks (%.2f visits each), above %.0f",
		w.WeeksPerVisit, w.VisitsPerDeacon, LowWorkloadWeeksPerVisit)
}

// FeasibilityReport holds the workload figures of a rota.
type FeasibilityReport struct {
	TotalVisitsNeeded int                 `json:"total_visits_needed" yaml:"total_visits_needed"`
	VisitsPerDeacon   float64             `json:"visits_per_deacon" yaml:"visits_per_deacon"`
	WeeksPerVisit     float64             `json:"weeks_per_visit" yaml:"weeks_per_visit"`
	Warning           *LowWorkloadWarning `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// VisitCount returns how many visits a household of frequency freq gets
// over numWeeks, i.e. ceil(numWeeks / freq).
func VisitCount(numWeeks, freq int) int {
	return (numWeeks + freq - 1) / freq
}

// CheckFeasibility computes the workload of cfg and rejects it with a
// *FeasibilityError when it is too large or too dense. The size limit is
// checked first.
func CheckFeasibility(cfg *model.RotaConfig) (FeasibilityReport, error) {
	if !cfg.Valid() {
		return FeasibilityReport{}, &ConfigurationError{Field: "config", Reason: "not built with model.NewRotaConfig"}
	}
	total := 0
	for i := 0; i < cfg.HouseholdCount(); i++ {
		total += VisitCount(cfg.NumWeeks(), cfg.FrequencyOf(i))
	}
	perDeacon := float64(total) / float64(cfg.DeaconCount())
	weeksPerVisit := float64(cfg.NumWeeks()) / perDeacon

	rep := FeasibilityReport{
		TotalVisitsNeeded: total,
		VisitsPerDeacon:   perDeacon,
		WeeksPerVisit:     weeksPerVisit,
	}
	fail := func(r FeasibilityReason) error {
		return &FeasibilityError{
			Reason:            r,
			TotalVisitsNeeded: total,
			VisitsPerDeacon:   perDeacon,
			WeeksPerVisit:     weeksPerVisit,
			DeaconCount:       cfg.DeaconCount(),
			HouseholdCount:    cfg.HouseholdCount(),
			NumWeeks:          cfg.NumWeeks(),
		}
	}
	if total > MaxTotalVisits {
		return rep, fail(ReasonTooLarge)
	}
	if weeksPerVisit < MinWeeksPerVisit {
		return rep, fail(ReasonTooFrequent)
	}
	if weeksPerVisit > LowWorkloadWeeksPerVisit {
		rep.Warning = &LowWorkloadWarning{WeeksPerVisit: weeksPerVisit, VisitsPerDeacon: perDeacon}
	}
	return rep, nil
}
