package rotation

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/deaconrota/core/model"
)

// Rating classifies a schedule's balance and coverage.
type Rating string

const (
	RatingExcellent        Rating = "excellent"
	RatingGood             Rating = "good"
	RatingHarmonicLock     Rating = "harmonicLock"
	RatingNeedsImprovement Rating = "needsImprovement"
)

// DeaconStats summarises the visits of one deacon.
type DeaconStats struct {
	Name         string   `json:"name" yaml:"name"`
	Index        int      `json:"index" yaml:"index"`
	Visits       int      `json:"visits" yaml:"visits"`
	Households   []string `json:"households" yaml:"households"`
	FullCoverage bool     `json:"full_coverage" yaml:"full_coverage"`
}

// SameWeekBooking lists households a deacon visits in the same week.
type SameWeekBooking struct {
	Week       int      `json:"week" yaml:"week"`
	Deacon     string   `json:"deacon" yaml:"deacon"`
	Households []string `json:"households" yaml:"households"`
}

// Diagnostics is the result of Analyze.
type Diagnostics struct {
	Deacons             []DeaconStats     `json:"deacons" yaml:"deacons"`
	TotalVisits         int               `json:"total_visits" yaml:"total_visits"`
	MinVisits           int               `json:"min_visits" yaml:"min_visits"`
	MaxVisits           int               `json:"max_visits" yaml:"max_visits"`
	Imbalance           int               `json:"imbalance" yaml:"imbalance"`
	MeanVisits          float64           `json:"mean_visits" yaml:"mean_visits"`
	StdDevVisits        float64           `json:"stddev_visits" yaml:"stddev_visits"`
	FullCoverageDeacons int               `json:"full_coverage_deacons" yaml:"full_coverage_deacons"`
	CoveragePercentage  float64           `json:"coverage_percentage" yaml:"coverage_percentage"`
	Rating              Rating            `json:"rating" yaml:"rating"`
	SameWeekBookings    []SameWeekBooking `json:"same_week_bookings,omitempty" yaml:"same_week_bookings,omitempty"`
}

// Classify maps imbalance and coverage to a Rating.
func Classify(imbalance int, coverage float64) Rating {
	switch {
	case imbalance <= 1 && coverage >= 80:
		return RatingExcellent
	case imbalance <= 2 && coverage >= 60:
		return RatingGood
	case coverage < 30:
		return RatingHarmonicLock
	default:
		return RatingNeedsImprovement
	}
}

// Analyze computes balance and coverage of schedule against cfg. Deacons
// without visits count as zero. Records naming unknown deacons are ignored.
func Analyze(schedule []model.VisitRecord, cfg *model.RotaConfig) Diagnostics {
	deacons := cfg.Deacons()
	index := make(map[string]int, len(deacons))
	for i, d := range deacons {
		index[d.Name] = i
	}
	known := make(map[string]struct{}, cfg.HouseholdCount())
	for _, h := range cfg.Households() {
		known[h.Name] = struct{}{}
	}

	visits := make([]int, len(deacons))
	seen := make([]map[string]struct{}, len(deacons))
	type weekKey struct{ deacon, week int }
	byWeek := make(map[weekKey][]string)
	total := 0
	for _, v := range schedule {
		d, ok := index[v.Deacon]
		if !ok {
			continue
		}
		total++
		visits[d]++
		if _, ok := known[v.Household]; ok {
			if seen[d] == nil {
				seen[d] = make(map[string]struct{})
			}
			seen[d][v.Household] = struct{}{}
		}
		k := weekKey{d, v.Week}
		byWeek[k] = append(byWeek[k], v.Household)
	}

	diag := Diagnostics{TotalVisits: total, Deacons: make([]DeaconStats, len(deacons))}
	counts := make([]float64, len(deacons))
	for i, d := range deacons {
		hs := make([]string, 0, len(seen[i]))
		for h := range seen[i] {
			hs = append(hs, h)
		}
		sort.Strings(hs)
		full := len(hs) == cfg.HouseholdCount()
		if full {
			diag.FullCoverageDeacons++
		}
		diag.Deacons[i] = DeaconStats{Name: d.Name, Index: i, Visits: visits[i], Households: hs, FullCoverage: full}
		counts[i] = float64(visits[i])
		if i == 0 || visits[i] < diag.MinVisits {
			diag.MinVisits = visits[i]
		}
		if visits[i] > diag.MaxVisits {
			diag.MaxVisits = visits[i]
		}
	}
	diag.Imbalance = diag.MaxVisits - diag.MinVisits
	if len(counts) > 1 {
		diag.MeanVisits, diag.StdDevVisits = stat.MeanStdDev(counts, nil)
	} else if len(counts) == 1 {
		diag.MeanVisits = counts[0]
	}
	if len(deacons) > 0 {
		diag.CoveragePercentage = float64(diag.FullCoverageDeacons) / float64(len(deacons)) * 100
	}
	diag.Rating = Classify(diag.Imbalance, diag.CoveragePercentage)

	for k, hs := range byWeek {
		if len(hs) < 2 {
			continue
		}
		sorted := append([]string(nil), hs...)
		sort.Strings(sorted)
		diag.SameWeekBookings = append(diag.SameWeekBookings, SameWeekBooking{
			Week:       k.week,
			Deacon:     deacons[k.deacon].Name,
			Households: sorted,
		})
	}
	sort.Slice(diag.SameWeekBookings, func(i, j int) bool {
		a, b := diag.SameWeekBookings[i], diag.SameWeekBookings[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		return a.Deacon < b.Deacon
	})
	return diag
}
