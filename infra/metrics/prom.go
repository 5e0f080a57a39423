package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/haulcost/fuelroute/core/metrics"
)

// PromSink records plan events in Prometheus metrics.
type PromSink struct {
	plans    *prometheus.CounterVec
	cost     prometheus.Histogram
	stops    prometheus.Histogram
	duration prometheus.Histogram
}

// NewPromSink registers plan metrics on the default Prometheus
// registerer. The metrics endpoint is served separately by the app.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelroute_plans_total",
		Help: "Total number of planning requests by outcome",
	}, []string{"outcome", "has_stops"})
	cost := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fuelroute_plan_cost_dollars",
		Help:    "Total cost of successful plans",
		Buckets: prometheus.ExponentialBuckets(10, 2, 10),
	})
	stops := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fuelroute_plan_stops",
		Help:    "Number of refueling stops per successful plan",
		Buckets: prometheus.LinearBuckets(0, 1, 12),
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fuelroute_plan_duration_seconds",
		Help:    "End to end planning latency",
		Buckets: prometheus.DefBuckets,
	})

	collectors := []prometheus.Collector{plans, cost, stops, duration}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		plans:    collectors[0].(*prometheus.CounterVec),
		cost:     collectors[1].(prometheus.Histogram),
		stops:    collectors[2].(prometheus.Histogram),
		duration: collectors[3].(prometheus.Histogram),
	}, nil
}

// RecordPlan implements the core metrics sink.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(string(ev.Outcome), strconv.FormatBool(ev.Stops > 0)).Inc()
	if ev.Outcome == coremetrics.OutcomePlanned {
		s.cost.Observe(ev.TotalCost)
		s.stops.Observe(float64(ev.Stops))
	}
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}
