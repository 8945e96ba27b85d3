package rotation

import (
	"sort"

	"github.com/kilianp07/deaconrota/core/model"
)

// Pattern holds, for each cycle, the deacon index assigned to each
// household index.
type Pattern [][]int

// DoubleBooking records a cycle in which one deacon serves several
// households. It only happens when there are fewer deacons than households.
type DoubleBooking struct {
	Cycle       int      `json:"cycle" yaml:"cycle"`
	Week        int      `json:"week" yaml:"week"`
	Deacon      string   `json:"deacon" yaml:"deacon"`
	DeaconIndex int      `json:"deacon_index" yaml:"deacon_index"`
	Households  []string `json:"households" yaml:"households"`
}

// cycleCap is the number of households a deacon may take in one cycle.
func cycleCap(deacons, households int) int {
	if deacons >= households {
		return 1
	}
	return (households + deacons - 1) / deacons
}

// GeneratePattern assigns a deacon to every household for each of cycles
// cycles. Within a cycle, a deacon is picked among those not used yet in
// that cycle by minimum UniformWeights score, lowest index on ties. When all
// deacons are taken (fewer deacons than households) the modular fallback
// picks a deacon still under the per-cycle cap of ceil(households/deacons).
//
// tick, when non-nil, is called before each cycle with its 0-based index and
// aborts generation when it returns an error.
func GeneratePattern(deacons, households, cycles int, w UniformWeights, tick func(cycle int) error) (Pattern, error) {
	usage := make([]int, deacons)
	pairs := newPairTable(deacons, households)
	limit := cycleCap(deacons, households)
	pattern := make(Pattern, cycles)

	for c := 0; c < cycles; c++ {
		if tick != nil {
			if err := tick(c); err != nil {
				return nil, err
			}
		}
		used := make([]int, deacons)
		row := make([]int, households)
		for h := 0; h < households; h++ {
			best, bestScore := -1, 0
			for d := 0; d < deacons; d++ {
				if used[d] > 0 {
					continue
				}
				s := w.Score(usage[d], pairs.get(d, h))
				if best < 0 || s < bestScore {
					best, bestScore = d, s
				}
			}
			if best < 0 {
				d, err := fallbackDeacon(c, h, deacons, households, used, limit)
				if err != nil {
					return nil, err
				}
				best = d
			}
			row[h] = best
			used[best]++
			usage[best]++
			pairs.inc(best, h)
		}
		pattern[c] = row
	}
	return pattern, nil
}

// fallbackDeacon starts at (cycle*households + household) mod deacons and
// advances to the first deacon used fewer than limit times in the cycle.
func fallbackDeacon(cycle, household, deacons, households int, used []int, limit int) (int, error) {
	start := (cycle*households + household) % deacons
	for i := 0; i < deacons; i++ {
		d := (start + i) % deacons
		if used[d] < limit {
			return d, nil
		}
	}
	return -1, &InternalInvariantError{
		Detail: "no deacon left under the per-cycle cap",
		Cycle:  cycle,
		Index:  household,
	}
}

// uniformVisits turns a pattern into visit records sorted by week and
// household name, and lists the double bookings it contains.
func uniformVisits(cfg *model.RotaConfig, freq int, p Pattern) ([]model.VisitRecord, []DoubleBooking) {
	visits := make([]model.VisitRecord, 0, len(p)*cfg.HouseholdCount())
	var doubles []DoubleBooking
	for c, row := range p {
		week := c*freq + 1
		perDeacon := make(map[int][]string)
		for h, d := range row {
			hh := cfg.Household(h)
			visits = append(visits, model.VisitRecord{
				Cycle:              c + 1,
				Week:               week,
				Date:               cfg.WeekDate(week),
				Household:          hh.Name,
				Deacon:             cfg.DeaconName(d),
				DeaconIndex:        d,
				HouseholdFrequency: freq,
				IsCustomFrequency:  hh.Frequency.IsOverride(),
			})
			perDeacon[d] = append(perDeacon[d], hh.Name)
		}
		for d := 0; d < cfg.DeaconCount(); d++ {
			names := perDeacon[d]
			if len(names) < 2 {
				continue
			}
			sort.Strings(names)
			doubles = append(doubles, DoubleBooking{
				Cycle:       c + 1,
				Week:        week,
				Deacon:      cfg.DeaconName(d),
				DeaconIndex: d,
				Households:  names,
			})
		}
	}
	sortVisits(visits)
	return visits, doubles
}

func sortVisits(v []model.VisitRecord) {
	sort.SliceStable(v, func(i, j int) bool { return v[i].Less(v[j]) })
}
