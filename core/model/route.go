package model

import "fmt"

// LatLng is a WGS84 coordinate pair in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks that the coordinate lies inside the WGS84 envelope.
func (p LatLng) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %v out of range", p.Lon)
	}
	return nil
}

// RoutePoint is a route geometry vertex annotated with the cumulative
// distance from the origin in miles. CumulativeMiles is non-decreasing
// along the sequence, starts at 0 and ends at the route total.
type RoutePoint struct {
	LatLng
	CumulativeMiles float64
}

// Route is an immutable parameterized route geometry. TotalMiles is the
// authoritative route length from the routing provider; the point
// parameterization is scaled so the last point lands exactly on it.
type Route struct {
	Points     []RoutePoint
	TotalMiles float64
}

// Validate checks that the geometry is usable for projection: at least
// two points, positive length and a monotonic parameterization.
func (r Route) Validate() error {
	if len(r.Points) < 2 {
		return fmt.Errorf("route needs at least 2 points, got %d", len(r.Points))
	}
	if r.TotalMiles <= 0 {
		return fmt.Errorf("route total distance must be positive, got %v", r.TotalMiles)
	}
	for i := 1; i < len(r.Points); i++ {
		if r.Points[i].CumulativeMiles < r.Points[i-1].CumulativeMiles {
			return fmt.Errorf("cumulative distance decreases at point %d", i)
		}
	}
	return nil
}
