// Package planner computes cost-minimal refueling plans over a
// distance-parameterized station list. The strategy is the classic
// buy-low rule: at each visited station buy just enough fuel to reach
// the first strictly cheaper station within range, or extend reach as
// far as the route needs when none exists. With price as the only
// varying cost and range the only constraint, this greedy rule is
// optimal.
package planner

import (
	"sort"

	"github.com/haulcost/fuelroute/core/model"
)

const (
	// epsMiles absorbs float noise in reachability comparisons; a
	// station exactly at the range boundary is reachable.
	epsMiles = 1e-6
	// epsGallons is the smallest purchase worth recording as a stop.
	epsGallons = 1e-6
)

// Plan selects stops and purchase quantities minimizing total spend.
// The vehicle starts with a full tank at mile 0 and no purchase is ever
// credited at the origin. Stations must already be corridor-filtered;
// entries at or beyond the route endpoints, or without a price, are
// ignored. The exact (unrounded) plan is returned; presentation
// rounding is Assemble's job.
func Plan(stations []model.ProjectedStation, veh model.Vehicle, totalMiles float64) (model.FuelPlan, error) {
	if err := veh.Validate(); err != nil {
		return model.FuelPlan{}, &InvalidInputError{Err: err}
	}
	if totalMiles <= 0 {
		return model.FuelPlan{}, invalidInputf("route total distance must be positive, got %v", totalMiles)
	}

	rangeMiles := veh.EffectiveRangeMiles()
	tankGal := veh.EffectiveTankGallons()

	nodes := usableNodes(stations, totalMiles)

	if gap := firstGap(nodes, totalMiles, rangeMiles); gap != nil {
		return model.FuelPlan{}, gap
	}

	var (
		plan    model.FuelPlan
		posMi   = 0.0
		fuelGal = tankGal
	)

	for i := range nodes {
		here := nodes[i]

		burn := (here.RouteMiles - posMi) / veh.MPG
		fuelGal -= burn
		posMi = here.RouteMiles
		if fuelGal < -epsGallons {
			return model.FuelPlan{}, &ConsistencyError{AtMiles: posMi, Detail: "fuel level went negative during planning"}
		}

		// Reach target: the first strictly cheaper station within range
		// of this stop, else as far as the route still needs. An equal
		// price never defers the purchase.
		targetMi := posMi + rangeMiles
		if totalMiles < targetMi {
			targetMi = totalMiles
		}
		for k := i + 1; k < len(nodes); k++ {
			if nodes[k].RouteMiles-posMi > rangeMiles+epsMiles {
				break
			}
			if nodes[k].Price() < here.Price() {
				targetMi = nodes[k].RouteMiles
				break
			}
		}

		needGal := (targetMi - posMi) / veh.MPG
		if needGal > tankGal {
			needGal = tankGal
		}
		buyGal := needGal - fuelGal
		if buyGal <= epsGallons {
			continue
		}

		cost := buyGal * here.Price()
		plan.Stops = append(plan.Stops, model.PlannedStop{
			Station:         here,
			GallonsBought:   buyGal,
			Cost:            cost,
			FuelLevelBefore: fuelGal,
			FuelLevelAfter:  fuelGal + buyGal,
		})
		plan.TotalCost += cost
		fuelGal += buyGal
	}

	return plan, nil
}

// usableNodes keeps priced stations strictly inside (0, totalMiles) and
// restores the canonical ordering. The corridor filter already sorts
// its output; re-sorting here keeps the planner deterministic for any
// caller.
func usableNodes(stations []model.ProjectedStation, totalMiles float64) []model.ProjectedStation {
	nodes := make([]model.ProjectedStation, 0, len(stations))
	for _, s := range stations {
		if !s.HasPrice() {
			continue
		}
		if s.RouteMiles <= 0 || s.RouteMiles >= totalMiles {
			continue
		}
		nodes = append(nodes, s)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].RouteMiles != nodes[j].RouteMiles {
			return nodes[i].RouteMiles < nodes[j].RouteMiles
		}
		if nodes[i].Price() != nodes[j].Price() {
			return nodes[i].Price() < nodes[j].Price()
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// firstGap scans origin, stations and destination for a hop longer than
// the effective range. The boundary is inclusive: a hop of exactly
// rangeMiles is feasible.
func firstGap(nodes []model.ProjectedStation, totalMiles, rangeMiles float64) *InfeasibleError {
	prev := 0.0
	for _, n := range nodes {
		if n.RouteMiles-prev > rangeMiles+epsMiles {
			return newInfeasible(prev, n.RouteMiles, totalMiles, rangeMiles)
		}
		prev = n.RouteMiles
	}
	if totalMiles-prev > rangeMiles+epsMiles {
		return newInfeasible(prev, totalMiles, totalMiles, rangeMiles)
	}
	return nil
}
