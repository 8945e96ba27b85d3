package model

import "time"

// VisitRecord is one assignment of a deacon to a household in a given week.
// Records are produced by the rotation engine and never modified afterwards.
type VisitRecord struct {
	// Cycle is 1-based. In variable mode it is ceil(week / frequency).
	Cycle              int       `json:"cycle" yaml:"cycle"`
	Week               int       `json:"week" yaml:"week"`
	Date               time.Time `json:"date" yaml:"date"`
	Household          string    `json:"household" yaml:"household"`
	Deacon             string    `json:"deacon" yaml:"deacon"`
	DeaconIndex        int       `json:"deacon_index" yaml:"deacon_index"`
	HouseholdFrequency int       `json:"household_frequency" yaml:"household_frequency"`
	IsCustomFrequency  bool      `json:"is_custom_frequency" yaml:"is_custom_frequency"`
}

// Less orders records by week, then household name.
func (v VisitRecord) Less(o VisitRecord) bool {
	if v.Week != o.Week {
		return v.Week < o.Week
	}
	return v.Household < o.Household
}
