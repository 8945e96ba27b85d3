package rotation

import (
	"sort"

	"github.com/kilianp07/deaconrota/core/model"
)

// TimelineEntry is one household visit to be staffed in variable mode.
type TimelineEntry struct {
	Household int
	Name      string
	Week      int
	Frequency int
	IsCustom  bool
}

// VisitWeeks returns {1, 1+freq, 1+2*freq, ...} within [1, numWeeks].
func VisitWeeks(freq, numWeeks int) []int {
	if freq < 1 {
		return nil
	}
	weeks := make([]int, 0, VisitCount(numWeeks, freq))
	for w := 1; w <= numWeeks; w += freq {
		weeks = append(weeks, w)
	}
	return weeks
}

// BuildTimeline merges the visit weeks of every household into one sequence
// ordered by week, then household name.
func BuildTimeline(cfg *model.RotaConfig) []TimelineEntry {
	var entries []TimelineEntry
	for h := 0; h < cfg.HouseholdCount(); h++ {
		hh := cfg.Household(h)
		f := cfg.FrequencyOf(h)
		for _, w := range VisitWeeks(f, cfg.NumWeeks()) {
			entries = append(entries, TimelineEntry{
				Household: h,
				Name:      hh.Name,
				Week:      w,
				Frequency: f,
				IsCustom:  hh.Frequency.IsOverride(),
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Week != entries[j].Week {
			return entries[i].Week < entries[j].Week
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// AssignTimeline picks a deacon for every entry, in order, by minimum
// TimelineWeights score with the lowest index winning ties. Workload, last
// assigned week and pairing history carry across the whole timeline.
//
// tick, when non-nil, is called before each entry and aborts the run when it
// returns an error.
func AssignTimeline(entries []TimelineEntry, deacons, households int, w TimelineWeights, tick func(i int, e TimelineEntry) error) ([]int, error) {
	workload := make([]int, deacons)
	lastWeek := make([]int, deacons)
	pairs := newPairTable(deacons, households)
	out := make([]int, len(entries))

	for i, e := range entries {
		if tick != nil {
			if err := tick(i, e); err != nil {
				return nil, err
			}
		}
		best, bestScore := -1, 0
		for d := 0; d < deacons; d++ {
			s := w.Score(workload[d], lastWeek[d], e.Week, pairs.get(d, e.Household), e.Frequency)
			if best < 0 || s < bestScore {
				best, bestScore = d, s
			}
		}
		if best < 0 {
			return nil, &InternalInvariantError{Detail: "no deacon to score", Index: e.Household}
		}
		out[i] = best
		workload[best]++
		lastWeek[best] = e.Week
		pairs.inc(best, e.Household)
	}
	return out, nil
}

func timelineVisits(cfg *model.RotaConfig, entries []TimelineEntry, assigned []int) []model.VisitRecord {
	visits := make([]model.VisitRecord, len(entries))
	for i, e := range entries {
		d := assigned[i]
		visits[i] = model.VisitRecord{
			Cycle:              (e.Week + e.Frequency - 1) / e.Frequency,
			Week:               e.Week,
			Date:               cfg.WeekDate(e.Week),
			Household:          e.Name,
			Deacon:             cfg.DeaconName(d),
			DeaconIndex:        d,
			HouseholdFrequency: e.Frequency,
			IsCustomFrequency:  e.IsCustom,
		}
	}
	return visits
}
