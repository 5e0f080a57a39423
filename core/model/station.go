package model

// Station is a candidate fuel stop as materialized by the data layer.
// PricePerGallon may be absent (nil); such stations are never eligible
// as stops and are dropped by the corridor filter.
type Station struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	Lat            float64  `json:"lat"`
	Lon            float64  `json:"lon"`
	PricePerGallon *float64 `json:"price"`
}

// HasPrice reports whether the station carries a usable price.
func (s Station) HasPrice() bool {
	return s.PricePerGallon != nil && *s.PricePerGallon >= 0
}

// Price returns the station price or 0 when absent.
func (s Station) Price() float64 {
	if s.PricePerGallon == nil {
		return 0
	}
	return *s.PricePerGallon
}

// ProjectedStation is a station snapped onto the route parameterization.
type ProjectedStation struct {
	Station
	// RouteMiles is the along-route distance of the nearest point on the
	// geometry, in miles from the origin.
	RouteMiles float64 `json:"route_miles"`
	// LateralOffsetMiles is the perpendicular distance from the station
	// to the route geometry.
	LateralOffsetMiles float64 `json:"offroute_miles"`
}
