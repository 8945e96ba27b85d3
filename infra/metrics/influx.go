package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/deaconrota/core/metrics"
	"github.com/kilianp07/deaconrota/infra/logger"
)

// InfluxSink writes generation runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// generationPoint renders a run as a line protocol point.
func generationPoint(ev coremetrics.GenerationEvent) *write.Point {
	p := write.NewPointWithMeasurement("rota_generation").
		AddTag("run_id", ev.RunID).
		AddTag("outcome", string(ev.Outcome))
	if ev.Mode != "" {
		p.AddTag("mode", ev.Mode)
	}
	if ev.Rating != "" {
		p.AddTag("rating", ev.Rating)
	}
	return p.AddField("visits", ev.Visits).
		AddField("deacons", ev.Deacons).
		AddField("households", ev.Households).
		AddField("num_weeks", ev.NumWeeks).
		AddField("imbalance", ev.Imbalance).
		AddField("coverage_percent", round3(ev.CoveragePercentage)).
		AddField("double_bookings", ev.DoubleBookings).
		AddField("low_workload", ev.LowWorkload).
		AddField("duration_ms", round3(float64(ev.Duration)/float64(time.Millisecond))).
		SetTime(ev.Time)
}

// RecordGeneration writes the run as a single point.
func (s *InfluxSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, generationPoint(ev))
}

// RecordDeaconLoad writes one point per deacon, all sharing the run time.
func (s *InfluxSink) RecordDeaconLoad(runID string, loads []coremetrics.DeaconLoad) error {
	if len(loads) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	now := time.Now()
	points := make([]*write.Point, len(loads))
	for i, l := range loads {
		points[i] = write.NewPointWithMeasurement("rota_deacon_load").
			AddTag("run_id", runID).
			AddTag("deacon", l.Deacon).
			AddField("visits", l.Visits).
			AddField("households", l.Households).
			SetTime(now)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
