// Package geo provides the small amount of spherical and planar
// geometry the route projector needs. Distances are in statute miles.
package geo

import "math"

// EarthRadiusMiles matches the radius used when the station dataset was
// geocoded; keep it in sync with the data pipeline.
const EarthRadiusMiles = 3958.7613

// Haversine returns the great-circle distance in miles between two
// coordinates given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(a))
}

// SegmentProjection describes the closest point on a segment to a query
// point. T is the clamped interpolation factor in [0,1] along the
// segment, DistanceMiles the separation between query and that point.
type SegmentProjection struct {
	T             float64
	DistanceMiles float64
}

// ProjectOntoSegment projects point p onto the segment (a, b) using an
// equirectangular approximation around the segment's mean latitude.
// The approximation is accurate at corridor scale (tens of miles) and
// keeps the projection deterministic and cheap.
func ProjectOntoSegment(pLat, pLon, aLat, aLon, bLat, bLon float64) SegmentProjection {
	meanLat := (aLat + bLat) / 2 * math.Pi / 180
	kx := math.Cos(meanLat) * EarthRadiusMiles * math.Pi / 180
	ky := EarthRadiusMiles * math.Pi / 180

	ax, ay := aLon*kx, aLat*ky
	bx, by := bLon*kx, bLat*ky
	px, py := pLon*kx, pLat*ky

	dx, dy := bx-ax, by-ay
	segLenSq := dx*dx + dy*dy

	t := 0.0
	if segLenSq > 0 {
		t = ((px-ax)*dx + (py-ay)*dy) / segLenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	cx, cy := ax+t*dx, ay+t*dy
	ddx, ddy := px-cx, py-cy
	return SegmentProjection{T: t, DistanceMiles: math.Hypot(ddx, ddy)}
}
