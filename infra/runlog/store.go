// Package runlog persists a history of schedule generation runs.
package runlog

import (
	"context"
	"fmt"
	"time"
)

// RunRecord captures one generation run and its outcome.
type RunRecord struct {
	ID                 string        `json:"id"`
	Timestamp          time.Time     `json:"timestamp"`
	Mode               string        `json:"mode,omitempty"`
	Outcome            string        `json:"outcome"`
	Deacons            int           `json:"deacons"`
	Households         int           `json:"households"`
	NumWeeks           int           `json:"num_weeks"`
	Visits             int           `json:"visits"`
	Imbalance          int           `json:"imbalance"`
	CoveragePercentage float64       `json:"coverage_percentage"`
	Rating             string        `json:"rating,omitempty"`
	Warning            string        `json:"warning,omitempty"`
	Error              string        `json:"error,omitempty"`
	Duration           time.Duration `json:"duration"`
}

// RunQuery defines filters for retrieving records.
type RunQuery struct {
	Start   time.Time
	End     time.Time
	Outcome string
	// Limit keeps only the most recent records when positive.
	Limit int
}

func (q RunQuery) match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	return true
}

func (q RunQuery) limit(recs []RunRecord) []RunRecord {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}

// Store persists RunRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// Options selects and tunes a Store implementation.
type Options struct {
	Backend    string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Open creates the store described by opts. JSONL stores rotate when
// MaxSizeMB is positive.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", "jsonl":
		if opts.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(opts.Path, opts.MaxSizeMB, opts.MaxBackups, opts.MaxAgeDays)
		}
		return NewJSONLStore(opts.Path)
	case "sqlite":
		return NewSQLiteStore(opts.Path)
	default:
		return nil, fmt.Errorf("unknown run log backend %q", opts.Backend)
	}
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error              { return nil }
func (NopStore) Query(context.Context, RunQuery) ([]RunRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
