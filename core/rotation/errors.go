package rotation

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/deaconrota/core/model"
)

// Sentinel errors wrapped by the typed errors below.
var (
	// ErrInvalidConfig is wrapped by ConfigurationError.
	ErrInvalidConfig = model.ErrInvalidConfig
	// ErrInfeasible is wrapped by FeasibilityError.
	ErrInfeasible = errors.New("infeasible rota")
	// ErrTimeout is wrapped by TimeoutError.
	ErrTimeout = errors.New("schedule generation timed out")
	// ErrInvariant is wrapped by InternalInvariantError.
	ErrInvariant = errors.New("internal invariant violated")
)

// ConfigurationError is re-exported so callers only need this package.
type ConfigurationError = model.ConfigurationError

// FeasibilityReason names the check that rejected a rota.
type FeasibilityReason string

const (
	ReasonTooFrequent FeasibilityReason = "too frequent"
	ReasonTooLarge    FeasibilityReason = "too large"
)

// FeasibilityError is returned before generation when the workload per
// deacon is too high or the schedule too large.
type FeasibilityError struct {
	Reason            FeasibilityReason
	TotalVisitsNeeded int
	VisitsPerDeacon   float64
	WeeksPerVisit     float64
	DeaconCount       int
	HouseholdCount    int
	NumWeeks          int
}

func (e *FeasibilityError) Error() string {
	switch e.Reason {
	case ReasonTooLarge:
		return fmt.Sprintf("%s: %s: %d visits needed (%d households over %d weeks), limit is %d",
			ErrInfeasible, e.Reason, e.TotalVisitsNeeded, e.HouseholdCount, e.NumWeeks, MaxTotalVisits)
	default:
		return fmt.Sprintf("%s: %s: each of %d deacons would visit every %.2f weeks (%.2f visits each), minimum is %.0f",
			ErrInfeasible, e.Reason, e.DeaconCount, e.WeeksPerVisit, e.VisitsPerDeacon, MinWeeksPerVisit)
	}
}

func (e *FeasibilityError) Unwrap() error { return ErrInfeasible }

// TimeoutError is returned when generation exceeds its wall-clock budget.
// No partial schedule accompanies it.
type TimeoutError struct {
	Mode Mode
	// Index is the 0-based cycle (uniform mode) or timeline entry (variable
	// mode) that was about to be processed.
	Index   int
	Week    int
	Elapsed time.Duration
	Budget  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: %s mode stopped at index %d (week %d) after %s, budget %s",
		ErrTimeout, e.Mode, e.Index, e.Week, e.Elapsed, e.Budget)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// InternalInvariantError signals a logic defect rather than bad input.
type InternalInvariantError struct {
	Detail string
	Cycle  int
	Index  int
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("%s: %s (cycle %d, household %d)", ErrInvariant, e.Detail, e.Cycle, e.Index)
}

func (e *InternalInvariantError) Unwrap() error { return ErrInvariant }
