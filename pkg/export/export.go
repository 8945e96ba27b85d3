// Package export writes and reads visit schedules in interchange formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/deaconrota/core/model"
)

// DateLayout is the calendar date format used in CSV output.
const DateLayout = "2006-01-02"

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

var csvHeader = []string{
	"cycle", "week", "date", "household", "deacon",
	"deacon_index", "household_frequency", "is_custom_frequency",
}

// Write encodes visits to w using format f.
func Write(w io.Writer, f Format, visits []model.VisitRecord) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, visits)
	case FormatCSV:
		return WriteCSV(w, visits)
	case FormatYAML:
		return WriteYAML(w, visits)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// WriteJSON writes the visit sequence to w in JSON format.
func WriteJSON(w io.Writer, visits []model.VisitRecord) error {
	if visits == nil {
		visits = []model.VisitRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(visits)
}

// WriteYAML writes the visit sequence to w in YAML format.
func WriteYAML(w io.Writer, visits []model.VisitRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(visits); err != nil {
		return err
	}
	return enc.Close()
}

// WriteCSV writes the visit sequence to w in CSV format, one row per visit.
func WriteCSV(w io.Writer, visits []model.VisitRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, v := range visits {
		rec := []string{
			strconv.Itoa(v.Cycle),
			strconv.Itoa(v.Week),
			v.Date.Format(DateLayout),
			v.Household,
			v.Deacon,
			strconv.Itoa(v.DeaconIndex),
			strconv.Itoa(v.HouseholdFrequency),
			strconv.FormatBool(v.IsCustomFrequency),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read decodes a visit sequence previously written with Write.
func Read(r io.Reader, f Format) ([]model.VisitRecord, error) {
	switch f {
	case FormatJSON:
		var out []model.VisitRecord
		if err := json.NewDecoder(r).Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	case FormatYAML:
		var out []model.VisitRecord
		if err := yaml.NewDecoder(r).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return out, nil
	case FormatCSV:
		return ReadCSV(r)
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// ReadCSV parses rows produced by WriteCSV.
func ReadCSV(r io.Reader) ([]model.VisitRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("missing csv header")
	}
	out := make([]model.VisitRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		v, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseRow(row []string) (model.VisitRecord, error) {
	var (
		v   model.VisitRecord
		err error
	)
	if v.Cycle, err = strconv.Atoi(row[0]); err != nil {
		return v, err
	}
	if v.Week, err = strconv.Atoi(row[1]); err != nil {
		return v, err
	}
	if v.Date, err = time.Parse(DateLayout, row[2]); err != nil {
		return v, err
	}
	v.Household = row[3]
	v.Deacon = row[4]
	if v.DeaconIndex, err = strconv.Atoi(row[5]); err != nil {
		return v, err
	}
	if v.HouseholdFrequency, err = strconv.Atoi(row[6]); err != nil {
		return v, err
	}
	if v.IsCustomFrequency, err = strconv.ParseBool(row[7]); err != nil {
		return v, err
	}
	return v, nil
}
