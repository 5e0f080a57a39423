package osrm

import (
	"fmt"

	"github.com/haulcost/fuelroute/core/model"
)

// decodePolyline decodes a polyline5-encoded geometry (1e-5 precision,
// the format OSRM emits by default) into coordinate pairs.
func decodePolyline(encoded string) ([]model.LatLng, error) {
	var coords []model.LatLng
	var lat, lon int64
	i := 0

	readDelta := func() (int64, error) {
		var result int64
		var shift uint
		for {
			if i >= len(encoded) {
				return 0, fmt.Errorf("truncated polyline at byte %d", i)
			}
			b := int64(encoded[i]) - 63
			i++
			if b < 0 {
				return 0, fmt.Errorf("invalid polyline byte at %d", i-1)
			}
			result |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}
		if result&1 != 0 {
			return ^(result >> 1), nil
		}
		return result >> 1, nil
	}

	for i < len(encoded) {
		dLat, err := readDelta()
		if err != nil {
			return nil, err
		}
		dLon, err := readDelta()
		if err != nil {
			return nil, err
		}
		lat += dLat
		lon += dLon
		coords = append(coords, model.LatLng{Lat: float64(lat) / 1e5, Lon: float64(lon) / 1e5})
	}
	return coords, nil
}
