package rotation

// UniformWeights drive the cycle pattern generator. Lower scores win.
//
//	score = usage*Usage + pairs*Pair - FreshPairBonus (when pairs == 0)
type UniformWeights struct {
	Usage          int `json:"usage" yaml:"usage"`
	Pair           int `json:"pair" yaml:"pair"`
	FreshPairBonus int `json:"fresh_pair_bonus" yaml:"fresh_pair_bonus"`
}

// Score returns the cost of giving a household to a deacon who already made
// usage visits, pairs of them to this household.
func (w UniformWeights) Score(usage, pairs int) int {
	s := usage*w.Usage + pairs*w.Pair
	if pairs == 0 {
		s -= w.FreshPairBonus
	}
	return s
}

// TimelineWeights drive the variable frequency scheduler. Lower scores win.
//
//	score = workload*Workload + recency + pairs*Pair - WeeklyBonus (when freq == 1)
//	recency = -NeverAssignedBonus when the deacon has no visit yet,
//	          -(week-lastWeek)*RecencyPerWeek otherwise
type TimelineWeights struct {
	Workload           int `json:"workload" yaml:"workload"`
	NeverAssignedBonus int `json:"never_assigned_bonus" yaml:"never_assigned_bonus"`
	RecencyPerWeek     int `json:"recency_per_week" yaml:"recency_per_week"`
	Pair               int `json:"pair" yaml:"pair"`
	WeeklyBonus        int `json:"weekly_bonus" yaml:"weekly_bonus"`
}

// Recency returns the recency term. lastWeek is 0 for a deacon never assigned.
func (w TimelineWeights) Recency(lastWeek, week int) int {
	if lastWeek == 0 {
		return -w.NeverAssignedBonus
	}
	return -(week - lastWeek) * w.RecencyPerWeek
}

// Score returns the cost of assigning the entry to a deacon.
func (w TimelineWeights) Score(workload, lastWeek, week, pairs, freq int) int {
	s := workload*w.Workload + w.Recency(lastWeek, week) + pairs*w.Pair
	if freq == 1 {
		s -= w.WeeklyBonus
	}
	return s
}

// Weights groups the scoring policy of both generators.
type Weights struct {
	Uniform  UniformWeights  `json:"uniform" yaml:"uniform"`
	Timeline TimelineWeights `json:"timeline" yaml:"timeline"`
}

// DefaultWeights returns the tuned production weights.
func DefaultWeights() Weights {
	return Weights{
		Uniform: UniformWeights{
			Usage:          100,
			Pair:           10,
			FreshPairBonus: 50,
		},
		Timeline: TimelineWeights{
			Workload:           100,
			NeverAssignedBonus: 50,
			RecencyPerWeek:     10,
			Pair:               200,
			WeeklyBonus:        5,
		},
	}
}
