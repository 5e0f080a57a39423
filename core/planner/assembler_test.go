package planner

import (
	"errors"
	"math"
	"testing"

	"github.com/haulcost/fuelroute/core/model"
)

func TestAssembleRoundsForPresentation(t *testing.T) {
	stations := []model.ProjectedStation{
		node(1, 100, 3.333),
		node(2, 550, 3.777),
	}
	veh := truck()
	exact, err := Plan(stations, veh, 600)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	out, err := Assemble(exact, veh, 600)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	for _, st := range out.Stops {
		if st.Cost != roundTo(st.Cost, 4) {
			t.Errorf("stop cost %v not rounded to 4 places", st.Cost)
		}
		if st.GallonsBought != roundTo(st.GallonsBought, 4) {
			t.Errorf("gallons %v not rounded to 4 places", st.GallonsBought)
		}
	}
	// The total comes from the exact per-stop costs, rounded once.
	if out.TotalCost != roundTo(exact.TotalCost, 4) {
		t.Errorf("total %v, want %v", out.TotalCost, roundTo(exact.TotalCost, 4))
	}
}

func TestAssembleTotalTracksStopsWithinRoundingTolerance(t *testing.T) {
	stations := []model.ProjectedStation{
		node(1, 150, 3.119),
		node(2, 480, 2.981),
		node(3, 760, 3.427),
	}
	veh := truck()
	out, err := Compute(stations, veh, 950)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	var sum float64
	for _, st := range out.Stops {
		sum += st.Cost
	}
	if math.Abs(sum-out.TotalCost) > 1e-3*float64(len(out.Stops)+1) {
		t.Errorf("rounded stops add to %v, total reported %v", sum, out.TotalCost)
	}
}

func TestAssembleRejectsOutOfIntervalStop(t *testing.T) {
	bad := model.FuelPlan{Stops: []model.PlannedStop{{
		Station:       node(1, 650, 3.0),
		GallonsBought: 5,
		Cost:          15,
	}}}
	_, err := Assemble(bad, truck(), 600)
	var fault *ConsistencyError
	if !errors.As(err, &fault) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
}

func TestAssembleRejectsRangeViolation(t *testing.T) {
	// A stop placed beyond full-tank reach from the origin.
	bad := model.FuelPlan{Stops: []model.PlannedStop{{
		Station:       node(1, 560, 3.0),
		GallonsBought: 50,
		Cost:          150,
	}}}
	_, err := Assemble(bad, truck(), 600)
	var fault *ConsistencyError
	if !errors.As(err, &fault) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
}

func TestAssembleRejectsOverfill(t *testing.T) {
	bad := model.FuelPlan{Stops: []model.PlannedStop{{
		Station:       node(1, 100, 3.0),
		GallonsBought: 20, // arrive with 40, tank only holds 50
		Cost:          60,
	}}}
	_, err := Assemble(bad, truck(), 500)
	var fault *ConsistencyError
	if !errors.As(err, &fault) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
}

func TestAssembleRejectsUncoveredDestination(t *testing.T) {
	bad := model.FuelPlan{Stops: []model.PlannedStop{{
		Station:       node(1, 100, 3.0),
		GallonsBought: 1,
		Cost:          3,
	}}}
	_, err := Assemble(bad, truck(), 700)
	var fault *ConsistencyError
	if !errors.As(err, &fault) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
}

func TestComputeEmptyRouteWithinRange(t *testing.T) {
	out, err := Compute(nil, truck(), 400)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out.Stops) != 0 || out.TotalCost != 0 {
		t.Errorf("want empty zero-cost plan, got %+v", out)
	}
}
