package model

import "fmt"

// Vehicle describes the fuel characteristics relevant to planning.
type Vehicle struct {
	MPG                 float64 `json:"mpg"`
	TankCapacityGallons float64 `json:"tank_capacity_gallons"`
	MaxRangeMiles       float64 `json:"max_range_miles"`
}

// Validate checks that all vehicle parameters are positive.
func (v Vehicle) Validate() error {
	if v.MPG <= 0 {
		return fmt.Errorf("mpg must be positive, got %v", v.MPG)
	}
	if v.TankCapacityGallons <= 0 {
		return fmt.Errorf("tank capacity must be positive, got %v", v.TankCapacityGallons)
	}
	if v.MaxRangeMiles <= 0 {
		return fmt.Errorf("max range must be positive, got %v", v.MaxRangeMiles)
	}
	return nil
}

// EffectiveRangeMiles returns the binding per-fill range: the lesser of
// the stated maximum range and the distance a full tank covers at the
// vehicle's economy. Neither bound is assumed to dominate.
func (v Vehicle) EffectiveRangeMiles() float64 {
	tankRange := v.MPG * v.TankCapacityGallons
	if tankRange < v.MaxRangeMiles {
		return tankRange
	}
	return v.MaxRangeMiles
}

// EffectiveTankGallons returns the usable tank size implied by the
// effective range, i.e. the most fuel a purchase may top up to.
func (v Vehicle) EffectiveTankGallons() float64 {
	return v.EffectiveRangeMiles() / v.MPG
}
