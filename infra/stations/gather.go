package stations

import (
	"context"
	"math"
	"sort"

	"github.com/haulcost/fuelroute/core/model"
)

// GatherConfig tunes corridor candidate gathering.
type GatherConfig struct {
	// SampleEveryMiles is the spacing of bounding-box samples along the
	// route.
	SampleEveryMiles float64 `json:"sample_every_miles"`
	// MaxPerSample caps stations pulled per sample, cheapest first.
	MaxPerSample int `json:"max_per_sample"`
}

// SetDefaults applies the service defaults.
func (c *GatherConfig) SetDefaults() {
	if c.SampleEveryMiles == 0 {
		c.SampleEveryMiles = 20
	}
	if c.MaxPerSample == 0 {
		c.MaxPerSample = 25
	}
}

// Gatherer produces the candidate station window for a route by
// sampling the parameterized geometry and unioning per-sample
// bounding-box queries. The result is deduplicated by station id and
// returned in id order so identical inputs gather identically.
type Gatherer struct {
	store *SQLiteStore
	cfg   GatherConfig
}

// NewGatherer creates a Gatherer over the given store.
func NewGatherer(store *SQLiteStore, cfg GatherConfig) *Gatherer {
	cfg.SetDefaults()
	return &Gatherer{store: store, cfg: cfg}
}

// AlongRoute fetches candidate stations within radiusMiles of sampled
// route points.
func (g *Gatherer) AlongRoute(ctx context.Context, r model.Route, radiusMiles float64) ([]model.Station, error) {
	seen := make(map[int64]model.Station)
	nextSample := 0.0

	for _, p := range r.Points {
		if p.CumulativeMiles+1e-6 < nextSample {
			continue
		}
		nextSample += g.cfg.SampleEveryMiles

		latMin, latMax, lonMin, lonMax := boundingBox(p.Lat, p.Lon, radiusMiles)
		batch, err := g.store.WithinBox(ctx, latMin, latMax, lonMin, lonMax, g.cfg.MaxPerSample)
		if err != nil {
			return nil, err
		}
		for _, st := range batch {
			seen[st.ID] = st
		}

		if nextSample > r.TotalMiles {
			break
		}
	}

	out := make([]model.Station, 0, len(seen))
	for _, st := range seen {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// boundingBox approximates a radius around a coordinate in degrees. The
// longitude span widens with latitude; the cosine is floored to keep
// the box finite near the poles.
func boundingBox(lat, lon, radiusMiles float64) (latMin, latMax, lonMin, lonMax float64) {
	dLat := radiusMiles / 69.0
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.1 {
		cosLat = 0.1
	}
	dLon := radiusMiles / (69.0 * cosLat)
	return lat - dLat, lat + dLat, lon - dLon, lon + dLon
}
