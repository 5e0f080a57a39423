package planner

import (
	"math"

	"github.com/haulcost/fuelroute/core/model"
)

// reportPrecision is the decimal precision of gallons and dollar
// amounts in the reported plan.
const reportPrecision = 4

// Assemble converts an exact plan into its reported form: per-stop
// gallons and cost rounded to four decimals, the total computed from
// the unrounded per-stop costs and rounded once at the end so it never
// drifts from what the stops add up to. Before rounding, the plan is
// replayed against the range invariant; a violation is a
// ConsistencyError, never a partial plan.
func Assemble(plan model.FuelPlan, veh model.Vehicle, totalMiles float64) (model.FuelPlan, error) {
	if err := replay(plan, veh, totalMiles); err != nil {
		return model.FuelPlan{}, err
	}

	out := model.FuelPlan{Stops: make([]model.PlannedStop, len(plan.Stops))}
	var exactTotal float64
	for i, st := range plan.Stops {
		exactTotal += st.Cost
		st.GallonsBought = roundTo(st.GallonsBought, reportPrecision)
		st.Cost = roundTo(st.Cost, reportPrecision)
		st.FuelLevelBefore = roundTo(st.FuelLevelBefore, reportPrecision)
		st.FuelLevelAfter = roundTo(st.FuelLevelAfter, reportPrecision)
		st.Station.RouteMiles = roundTo(st.Station.RouteMiles, 3)
		st.Station.LateralOffsetMiles = roundTo(st.Station.LateralOffsetMiles, 3)
		out.Stops[i] = st
	}
	out.TotalCost = roundTo(exactTotal, reportPrecision)
	return out, nil
}

// replay walks the plan from a full tank at mile 0 and checks that fuel
// never goes negative, purchases never overfill the effective tank, the
// stops are ordered, and the destination is covered.
func replay(plan model.FuelPlan, veh model.Vehicle, totalMiles float64) error {
	if err := veh.Validate(); err != nil {
		return &InvalidInputError{Err: err}
	}
	tankGal := veh.EffectiveTankGallons()
	fuelGal := tankGal
	posMi := 0.0

	for _, st := range plan.Stops {
		m := st.Station.RouteMiles
		if m <= 0 || m >= totalMiles {
			return &ConsistencyError{AtMiles: m, Detail: "stop outside the open route interval"}
		}
		if m < posMi {
			return &ConsistencyError{AtMiles: m, Detail: "stops out of order"}
		}
		fuelGal -= (m - posMi) / veh.MPG
		posMi = m
		if fuelGal < -epsGallons {
			return &ConsistencyError{AtMiles: m, Detail: "fuel level negative on arrival"}
		}
		if st.GallonsBought < 0 {
			return &ConsistencyError{AtMiles: m, Detail: "negative purchase"}
		}
		fuelGal += st.GallonsBought
		if fuelGal > tankGal+epsGallons {
			return &ConsistencyError{AtMiles: m, Detail: "purchase overfills effective tank"}
		}
	}

	if (totalMiles-posMi)/veh.MPG > fuelGal+epsGallons {
		return &ConsistencyError{AtMiles: posMi, Detail: "destination not covered by final fuel level"}
	}
	return nil
}

// Compute runs the planner and the assembler in sequence.
func Compute(stations []model.ProjectedStation, veh model.Vehicle, totalMiles float64) (model.FuelPlan, error) {
	plan, err := Plan(stations, veh, totalMiles)
	if err != nil {
		return model.FuelPlan{}, err
	}
	return Assemble(plan, veh, totalMiles)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
