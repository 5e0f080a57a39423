package model

// PlannedStop records a purchase at one station. Fuel levels are in
// gallons, measured against the vehicle's effective tank size.
type PlannedStop struct {
	Station         ProjectedStation
	GallonsBought   float64
	Cost            float64
	FuelLevelBefore float64
	FuelLevelAfter  float64
}

// FuelPlan is the planner output: the ordered purchase sequence and the
// exact (unrounded) total spend. It is a value; callers own their copy.
type FuelPlan struct {
	Stops     []PlannedStop
	TotalCost float64
}
