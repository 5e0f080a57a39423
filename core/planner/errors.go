package planner

import "fmt"

// GapKind classifies where an unreachable gap sits on the route.
type GapKind string

const (
	// GapOrigin means no station is reachable from the starting tank.
	GapOrigin GapKind = "origin"
	// GapMidRoute means two consecutive stations are farther apart than
	// the vehicle's effective range.
	GapMidRoute GapKind = "mid_route"
	// GapDestination means the destination is out of range of the last
	// usable station.
	GapDestination GapKind = "destination"
)

// InfeasibleError reports that no refueling plan can cover the route.
// It is a business outcome, not a fault: callers decide how to surface
// it. The gap bounds identify the last reachable point and the first
// unreachable one.
type InfeasibleError struct {
	Kind          GapKind
	GapStartMiles float64
	GapEndMiles   float64
	RangeMiles    float64
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("route infeasible (%s): gap of %.1f mi between mile %.1f and mile %.1f exceeds range %.1f mi",
		e.Kind, e.GapEndMiles-e.GapStartMiles, e.GapStartMiles, e.GapEndMiles, e.RangeMiles)
}

func newInfeasible(start, end, total, rangeMiles float64) *InfeasibleError {
	kind := GapMidRoute
	switch {
	case start == 0:
		kind = GapOrigin
	case end == total:
		kind = GapDestination
	}
	return &InfeasibleError{Kind: kind, GapStartMiles: start, GapEndMiles: end, RangeMiles: rangeMiles}
}

// InvalidInputError rejects malformed vehicle or route parameters
// before any planning work happens.
type InvalidInputError struct {
	Err error
}

func (e *InvalidInputError) Error() string { return fmt.Sprintf("invalid input: %v", e.Err) }

func (e *InvalidInputError) Unwrap() error { return e.Err }

func invalidInputf(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Err: fmt.Errorf(format, args...)}
}

// ConsistencyError means the assembled plan violates the range
// invariant the planner guarantees. It indicates a planner bug and must
// be treated as fatal, never downgraded to a partial plan.
type ConsistencyError struct {
	AtMiles float64
	Detail  string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("plan consistency violated at mile %.2f: %s", e.AtMiles, e.Detail)
}
