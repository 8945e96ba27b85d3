package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/deaconrota/core/metrics"
)

func TestInfluxSink_RecordGeneration(t *testing.T) {
	var body, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	now := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	ev := coremetrics.GenerationEvent{
		RunID:              "run-1",
		Mode:               "uniform",
		Outcome:            coremetrics.OutcomeSuccess,
		Visits:             6,
		Deacons:            3,
		Households:         2,
		NumWeeks:           6,
		CoveragePercentage: 100,
		Rating:             "excellent",
		Duration:           1500 * time.Microsecond,
		Time:               now,
	}
	if err := sink.RecordGeneration(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if path != "/api/v2/write" {
		t.Errorf("unexpected path %q", path)
	}
	expected := strings.TrimSpace(write.PointToLineProtocol(generationPoint(ev), time.Nanosecond))
	if strings.TrimSpace(body) != expected {
		t.Errorf("unexpected body: %s", body)
	}
	for _, want := range []string{"rota_generation", "mode=uniform", "run_id=run-1", "visits=6i", "duration_ms=1.5"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
}

func TestInfluxSink_RecordDeaconLoad(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()
	loads := []coremetrics.DeaconLoad{{Deacon: "Alice", Visits: 2, Households: 2}, {Deacon: "Bob", Visits: 1, Households: 1}}
	if err := sink.RecordDeaconLoad("run-1", loads); err != nil {
		t.Fatalf("record error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), body)
	}
	if !strings.Contains(lines[0], "deacon=Alice") || !strings.Contains(lines[1], "deacon=Bob") {
		t.Errorf("unexpected lines %q", lines)
	}
}

func TestInfluxSink_RecordDeaconLoadEmpty(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	if err := sink.RecordDeaconLoad("run-1", nil); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if called {
		t.Error("no request expected for empty load")
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Errorf("health endpoint not called")
	}
}
