// Package route parameterizes route geometry by along-route distance
// and snaps candidate stations onto that parameterization.
package route

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/haulcost/fuelroute/core/geo"
	"github.com/haulcost/fuelroute/core/model"
)

// Build converts raw geometry into a parameterized Route. totalMiles is
// the authoritative route length from the routing provider; it is
// distributed across segments in proportion to their great-circle
// lengths, so sparse geometry still ends exactly at totalMiles.
func Build(points []model.LatLng, totalMiles float64) (model.Route, error) {
	if len(points) < 2 {
		return model.Route{}, fmt.Errorf("route geometry needs at least 2 points, got %d", len(points))
	}
	if totalMiles <= 0 {
		return model.Route{}, fmt.Errorf("route total distance must be positive, got %v", totalMiles)
	}
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return model.Route{}, fmt.Errorf("geometry point %d: %w", i, err)
		}
	}

	segLens := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		segLens[i-1] = geo.Haversine(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}
	cum := make([]float64, len(segLens))
	floats.CumSum(cum, segLens)

	rawTotal := cum[len(cum)-1]
	scale := 1.0
	if rawTotal > 0 {
		scale = totalMiles / rawTotal
	}

	out := make([]model.RoutePoint, len(points))
	out[0] = model.RoutePoint{LatLng: points[0], CumulativeMiles: 0}
	for i := 1; i < len(points); i++ {
		out[i] = model.RoutePoint{LatLng: points[i], CumulativeMiles: cum[i-1] * scale}
	}
	// Degenerate geometry (all points coincident) still spans the route.
	if rawTotal == 0 {
		out[len(out)-1].CumulativeMiles = totalMiles
	}

	r := model.Route{Points: out, TotalMiles: totalMiles}
	if err := r.Validate(); err != nil {
		return model.Route{}, err
	}
	return r, nil
}

// Project snaps each candidate station onto the nearest geometry
// segment, clamped to segment endpoints, and interpolates its
// along-route distance. The result is sorted by route miles ascending,
// ties broken by price then id, so identical inputs always produce the
// identical sequence.
func Project(r model.Route, stations []model.Station) []model.ProjectedStation {
	out := make([]model.ProjectedStation, 0, len(stations))
	for _, s := range stations {
		out = append(out, projectOne(r, s))
	}
	sortProjected(out)
	return out
}

func projectOne(r model.Route, s model.Station) model.ProjectedStation {
	best := model.ProjectedStation{Station: s}
	bestDist := -1.0
	for i := 1; i < len(r.Points); i++ {
		a, b := r.Points[i-1], r.Points[i]
		pr := geo.ProjectOntoSegment(s.Lat, s.Lon, a.Lat, a.Lon, b.Lat, b.Lon)
		// Strict improvement keeps the earliest best segment and makes
		// the projection order-independent of float noise downstream.
		if bestDist >= 0 && pr.DistanceMiles >= bestDist {
			continue
		}
		bestDist = pr.DistanceMiles
		best.RouteMiles = a.CumulativeMiles + pr.T*(b.CumulativeMiles-a.CumulativeMiles)
		best.LateralOffsetMiles = pr.DistanceMiles
	}
	return best
}

func sortProjected(list []model.ProjectedStation) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].RouteMiles != list[j].RouteMiles {
			return list[i].RouteMiles < list[j].RouteMiles
		}
		if list[i].Price() != list[j].Price() {
			return list[i].Price() < list[j].Price()
		}
		return list[i].ID < list[j].ID
	})
}
