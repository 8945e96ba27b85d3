package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/deaconrota/core/model"
	"github.com/kilianp07/deaconrota/core/rotation"
)

func sampleVisits() []model.VisitRecord {
	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	return []model.VisitRecord{
		{Cycle: 1, Week: 1, Date: start, Household: "Smith", Deacon: "Alice", DeaconIndex: 0, HouseholdFrequency: 2},
		{Cycle: 1, Week: 1, Date: start, Household: "Jones, Jr.", Deacon: "Bob", DeaconIndex: 1, HouseholdFrequency: 1, IsCustomFrequency: true},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleVisits()))
	want := "cycle,week,date,household,deacon,deacon_index,household_frequency,is_custom_frequency\n" +
		"1,1,2025-01-05,Smith,Alice,0,2,false\n" +
		"1,1,2025-01-05,\"Jones, Jr.\",Bob,1,1,true\n"
	assert.Equal(t, want, buf.String())
}

func TestReadCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleVisits()))
	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleVisits(), got)
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	bad := "cycle,week,date,household,deacon,deacon_index,household_frequency,is_custom_frequency\n" +
		"x,1,2025-01-05,Smith,Alice,0,2,false\n"
	_, err = ReadCSV(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleVisits()))
	assert.Contains(t, buf.String(), `"deacon_index": 1`)
	assert.Contains(t, buf.String(), `"date": "2025-01-05T00:00:00Z"`)

	got, err := Read(&buf, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, sampleVisits(), got)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleVisits()))
	assert.Contains(t, buf.String(), "household: Smith")
	assert.Contains(t, buf.String(), "is_custom_frequency: true")

	got, err := Read(&buf, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, sampleVisits(), got)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, ".CSV": FormatCSV, "yml": FormatYAML, "yaml": FormatYAML} {
		f, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, f)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
	assert.Error(t, Write(&bytes.Buffer{}, Format("xml"), nil))
}

func TestWriteDiagnostics(t *testing.T) {
	d := rotation.Diagnostics{TotalVisits: 6, Imbalance: 1, CoveragePercentage: 100, Rating: rotation.RatingExcellent}

	var buf bytes.Buffer
	require.NoError(t, WriteDiagnostics(&buf, FormatJSON, d))
	assert.Contains(t, buf.String(), `"rating": "excellent"`)

	buf.Reset()
	require.NoError(t, WriteDiagnostics(&buf, FormatYAML, d))
	assert.Contains(t, buf.String(), "total_visits: 6")
}
