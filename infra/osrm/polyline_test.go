package osrm

import (
	"math"
	"testing"
)

func TestDecodePolyline(t *testing.T) {
	// Reference vector from the polyline format documentation.
	coords, err := decodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []struct{ lat, lon float64 }{
		{38.5, -120.2},
		{40.7, -120.95},
		{43.252, -126.453},
	}
	if len(coords) != len(want) {
		t.Fatalf("decoded %d points, want %d", len(coords), len(want))
	}
	for i, w := range want {
		if math.Abs(coords[i].Lat-w.lat) > 1e-9 || math.Abs(coords[i].Lon-w.lon) > 1e-9 {
			t.Errorf("point %d: got (%v, %v), want (%v, %v)", i, coords[i].Lat, coords[i].Lon, w.lat, w.lon)
		}
	}
}

func TestDecodePolylineEmpty(t *testing.T) {
	coords, err := decodePolyline("")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(coords) != 0 {
		t.Errorf("decoded %d points from empty string", len(coords))
	}
}

func TestDecodePolylineTruncated(t *testing.T) {
	if _, err := decodePolyline("_p~iF"); err == nil {
		t.Error("truncated polyline accepted")
	}
}
