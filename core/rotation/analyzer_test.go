package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/deaconrota/core/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		imbalance int
		coverage  float64
		want      Rating
	}{
		{0, 100, RatingExcellent},
		{1, 80, RatingExcellent},
		{2, 80, RatingGood},
		{1, 60, RatingGood},
		{3, 90, RatingNeedsImprovement},
		{2, 59.9, RatingNeedsImprovement},
		{0, 29.9, RatingHarmonicLock},
		{5, 0, RatingHarmonicLock},
		{3, 30, RatingNeedsImprovement},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.imbalance, c.coverage), "imbalance=%d coverage=%.1f", c.imbalance, c.coverage)
	}
}

func TestAnalyze(t *testing.T) {
	cfg := mustConfig(t, []string{"A", "B", "C", "D"}, hh("X", 0, "Y", 0), 8, 2)
	visit := func(week int, household, deacon string) model.VisitRecord {
		return model.VisitRecord{Week: week, Household: household, Deacon: deacon}
	}
	schedule := []model.VisitRecord{
		visit(1, "X", "A"),
		visit(1, "Y", "A"),
		visit(3, "X", "B"),
		visit(3, "Y", "C"),
		visit(5, "X", "C"),
		visit(5, "Y", "A"),
		visit(7, "X", "Ghost"),
	}
	diag := Analyze(schedule, cfg)

	assert.Equal(t, 6, diag.TotalVisits)
	assert.Equal(t, 0, diag.MinVisits)
	assert.Equal(t, 3, diag.MaxVisits)
	assert.Equal(t, 3, diag.Imbalance)
	assert.Equal(t, 2, diag.FullCoverageDeacons)
	assert.InDelta(t, 50.0, diag.CoveragePercentage, 1e-9)
	assert.InDelta(t, 1.5, diag.MeanVisits, 1e-9)
	assert.Greater(t, diag.StdDevVisits, 0.0)
	assert.Equal(t, RatingNeedsImprovement, diag.Rating)

	assert.Equal(t, DeaconStats{Name: "A", Index: 0, Visits: 3, Households: []string{"X", "Y"}, FullCoverage: true}, diag.Deacons[0])
	assert.Equal(t, []string{"X"}, diag.Deacons[1].Households)
	assert.Equal(t, 0, diag.Deacons[3].Visits)
	assert.Empty(t, diag.Deacons[3].Households)

	assert.Equal(t, []SameWeekBooking{{Week: 1, Deacon: "A", Households: []string{"X", "Y"}}}, diag.SameWeekBookings)
}

func TestAnalyze_Empty(t *testing.T) {
	cfg := mustConfig(t, []string{"A", "B"}, hh("X", 0), 4, 1)
	diag := Analyze(nil, cfg)
	assert.Equal(t, 0, diag.Imbalance)
	assert.Equal(t, 0, diag.TotalVisits)
	assert.Equal(t, RatingHarmonicLock, diag.Rating)
	assert.Len(t, diag.Deacons, 2)
}
