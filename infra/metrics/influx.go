package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	coremetrics "github.com/haulcost/fuelroute/core/metrics"
	"github.com/haulcost/fuelroute/infra/logger"
)

// InfluxSink writes plan events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
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

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails, so a missing backend never blocks
// planning.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
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

// RecordPlan writes the plan event as a single measurement point.
func (s *InfluxSink) RecordPlan(ev coremetrics.PlanEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	p := influxdb2.NewPoint("fuel_plan",
		map[string]string{"outcome": string(ev.Outcome)},
		map[string]any{
			"request_id":  ev.RequestID,
			"stops":       ev.Stops,
			"total_cost":  ev.TotalCost,
			"route_miles": ev.RouteMiles,
			"candidates":  ev.Candidates,
			"duration_ms": ev.Duration.Milliseconds(),
		}, ts)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		s.log.Errorf("influx write: %v", err)
		return err
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
