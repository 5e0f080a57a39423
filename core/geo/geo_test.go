package geo

import (
	"math"
	"testing"
)

func TestHaversineKnownDistances(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tol                    float64
	}{
		{"one degree latitude", 0, 0, 1, 0, 69.09, 0.05},
		{"one degree longitude at equator", 0, 0, 0, 1, 69.09, 0.05},
		{"nyc to la", 40.7128, -74.0060, 34.0522, -118.2437, 2445, 5},
		{"zero distance", 39.5, -98.35, 39.5, -98.35, 0, 1e-9},
	}
	for _, c := range cases {
		got := Haversine(c.lat1, c.lon1, c.lat2, c.lon2)
		if math.Abs(got-c.want) > c.tol {
			t.Errorf("%s: got %.3f want %.3f±%.3f", c.name, got, c.want, c.tol)
		}
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := Haversine(35.2, -101.8, 36.1, -97.0)
	b := Haversine(36.1, -97.0, 35.2, -101.8)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("haversine not symmetric: %v vs %v", a, b)
	}
}

func TestProjectOntoSegmentInterior(t *testing.T) {
	// Horizontal segment on the equator, query point above its middle.
	pr := ProjectOntoSegment(0.1, 0.5, 0, 0, 0, 1)
	if math.Abs(pr.T-0.5) > 1e-6 {
		t.Errorf("T = %v, want 0.5", pr.T)
	}
	// 0.1 degrees of latitude is about 6.91 miles.
	if math.Abs(pr.DistanceMiles-6.909) > 0.01 {
		t.Errorf("distance = %v, want ~6.909", pr.DistanceMiles)
	}
}

func TestProjectOntoSegmentClamps(t *testing.T) {
	before := ProjectOntoSegment(0, -0.5, 0, 0, 0, 1)
	if before.T != 0 {
		t.Errorf("T = %v, want clamp to 0", before.T)
	}
	after := ProjectOntoSegment(0, 1.5, 0, 0, 0, 1)
	if after.T != 1 {
		t.Errorf("T = %v, want clamp to 1", after.T)
	}
	if math.Abs(after.DistanceMiles-before.DistanceMiles) > 1e-6 {
		t.Errorf("clamped distances differ: %v vs %v", after.DistanceMiles, before.DistanceMiles)
	}
}

func TestProjectOntoSegmentDegenerate(t *testing.T) {
	pr := ProjectOntoSegment(0.1, 0, 0, 0, 0, 0)
	if pr.T != 0 {
		t.Errorf("T = %v, want 0 for zero-length segment", pr.T)
	}
	if math.Abs(pr.DistanceMiles-6.909) > 0.01 {
		t.Errorf("distance = %v, want ~6.909", pr.DistanceMiles)
	}
}
