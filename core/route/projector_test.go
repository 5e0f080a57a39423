package route

import (
	"math"
	"reflect"
	"testing"

	"github.com/haulcost/fuelroute/core/model"
)

func equatorLine(lons ...float64) []model.LatLng {
	pts := make([]model.LatLng, len(lons))
	for i, lon := range lons {
		pts[i] = model.LatLng{Lat: 0, Lon: lon}
	}
	return pts
}

func TestBuildScalesToAuthoritativeTotal(t *testing.T) {
	// Two one-degree segments on the equator, ~69.09 mi each, but the
	// provider says the drive is 140 miles.
	r, err := Build(equatorLine(0, 1, 2), 140)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.Points[0].CumulativeMiles != 0 {
		t.Errorf("first point at %v, want 0", r.Points[0].CumulativeMiles)
	}
	last := r.Points[len(r.Points)-1].CumulativeMiles
	if math.Abs(last-140) > 1e-9 {
		t.Errorf("last point at %v, want exactly 140", last)
	}
	mid := r.Points[1].CumulativeMiles
	if math.Abs(mid-70) > 1e-6 {
		t.Errorf("equal segments should split the total evenly, mid = %v", mid)
	}
}

func TestBuildRejectsBadGeometry(t *testing.T) {
	if _, err := Build(equatorLine(0), 100); err == nil {
		t.Error("single point accepted")
	}
	if _, err := Build(equatorLine(0, 1), 0); err == nil {
		t.Error("zero total accepted")
	}
	if _, err := Build([]model.LatLng{{Lat: 91, Lon: 0}, {Lat: 0, Lon: 1}}, 100); err == nil {
		t.Error("out of range latitude accepted")
	}
}

func TestBuildDegenerateGeometrySpansTotal(t *testing.T) {
	r, err := Build([]model.LatLng{{Lat: 10, Lon: 10}, {Lat: 10, Lon: 10}}, 50)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := r.Points[1].CumulativeMiles; got != 50 {
		t.Errorf("last point at %v, want 50", got)
	}
}

func TestProjectSnapsToNearestSegment(t *testing.T) {
	r, err := Build(equatorLine(0, 1, 2), 138.1866)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	price := 3.0
	stations := []model.Station{
		{ID: 1, Lat: 0.1, Lon: 0.5, PricePerGallon: &price},   // above first segment
		{ID: 2, Lat: -0.05, Lon: 1.5, PricePerGallon: &price}, // below second segment
	}
	got := Project(r, stations)
	if len(got) != 2 {
		t.Fatalf("projected %d stations", len(got))
	}
	if math.Abs(got[0].RouteMiles-34.5) > 0.5 {
		t.Errorf("station 1 at %.2f route miles, want ~34.5", got[0].RouteMiles)
	}
	if math.Abs(got[0].LateralOffsetMiles-6.909) > 0.05 {
		t.Errorf("station 1 offset %.3f, want ~6.909", got[0].LateralOffsetMiles)
	}
	if math.Abs(got[1].RouteMiles-103.6) > 0.5 {
		t.Errorf("station 2 at %.2f route miles, want ~103.6", got[1].RouteMiles)
	}
}

func TestProjectClampsBeyondRouteEnd(t *testing.T) {
	r, err := Build(equatorLine(0, 1), 69.0933)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	price := 3.0
	got := Project(r, []model.Station{{ID: 7, Lat: 0, Lon: 1.5, PricePerGallon: &price}})
	if math.Abs(got[0].RouteMiles-69.0933) > 1e-6 {
		t.Errorf("station beyond the end should clamp to the endpoint, got %v", got[0].RouteMiles)
	}
}

func TestProjectOrderingAndDeterminism(t *testing.T) {
	r, err := Build(equatorLine(0, 1, 2), 138.1866)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	cheap, pricey := 2.9, 3.4
	stations := []model.Station{
		{ID: 9, Lat: 0.01, Lon: 1.2, PricePerGallon: &pricey},
		{ID: 3, Lat: 0.01, Lon: 0.4, PricePerGallon: &cheap},
		{ID: 5, Lat: -0.01, Lon: 0.9, PricePerGallon: &pricey},
	}
	first := Project(r, stations)
	for i := 1; i < len(first); i++ {
		if first[i].RouteMiles < first[i-1].RouteMiles {
			t.Fatalf("projection not sorted by route miles at %d", i)
		}
	}
	second := Project(r, stations)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different projections")
	}
}
