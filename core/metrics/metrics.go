// Package metrics defines the observability surface of the planning
// service. Sinks receive one event per planning request; backends live
// in infra/metrics.
package metrics

import "time"

// Outcome labels a planning request result.
type Outcome string

const (
	OutcomePlanned    Outcome = "planned"
	OutcomeInfeasible Outcome = "infeasible"
	OutcomeInvalid    Outcome = "invalid"
	OutcomeError      Outcome = "error"
)

// PlanEvent captures one planning request end to end.
type PlanEvent struct {
	RequestID  string
	Outcome    Outcome
	Stops      int
	TotalCost  float64
	RouteMiles float64
	Candidates int
	Duration   time.Duration
	Time       time.Time
}

// Sink records plan events for observability purposes.
type Sink interface {
	RecordPlan(ev PlanEvent) error
}

// NopSink discards all events.
type NopSink struct{}

// RecordPlan implements Sink.
func (NopSink) RecordPlan(PlanEvent) error { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}
