package metrics

import (
	"errors"

	coremetrics "github.com/haulcost/fuelroute/core/metrics"
)

// MultiSink fans plan events out to several sinks. Errors are joined so
// one failing backend does not hide the others.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordPlan implements the core metrics sink.
func (m *MultiSink) RecordPlan(ev coremetrics.PlanEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordPlan(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
