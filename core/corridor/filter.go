// Package corridor reduces projected stations to the usable candidate
// set: on-corridor, priced, ordered and free of near-duplicates.
package corridor

import (
	"sort"

	"github.com/haulcost/fuelroute/core/model"
)

// Config bounds which projected stations survive filtering.
type Config struct {
	// WidthMiles is the maximum lateral offset from the route.
	WidthMiles float64 `json:"width_miles"`
	// DedupeEpsilonMiles collapses stations projecting within this
	// along-route distance of each other into one representative.
	DedupeEpsilonMiles float64 `json:"dedupe_epsilon_miles"`
}

// SetDefaults applies the service defaults.
func (c *Config) SetDefaults() {
	if c.WidthMiles == 0 {
		c.WidthMiles = 10
	}
	if c.DedupeEpsilonMiles == 0 {
		c.DedupeEpsilonMiles = 0.25
	}
}

// Apply filters stations to the corridor, drops price-less entries,
// sorts by route miles (price, then id on ties) and collapses clusters
// within the dedupe epsilon, keeping the cheapest station per cluster.
func Apply(cfg Config, stations []model.ProjectedStation) []model.ProjectedStation {
	kept := make([]model.ProjectedStation, 0, len(stations))
	for _, s := range stations {
		if !s.HasPrice() {
			continue
		}
		if s.LateralOffsetMiles > cfg.WidthMiles {
			continue
		}
		kept = append(kept, s)
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].RouteMiles != kept[j].RouteMiles {
			return kept[i].RouteMiles < kept[j].RouteMiles
		}
		if kept[i].Price() != kept[j].Price() {
			return kept[i].Price() < kept[j].Price()
		}
		return kept[i].ID < kept[j].ID
	})

	if cfg.DedupeEpsilonMiles <= 0 || len(kept) == 0 {
		return kept
	}

	out := kept[:0:0]
	for _, s := range kept {
		if len(out) == 0 {
			out = append(out, s)
			continue
		}
		last := &out[len(out)-1]
		if s.RouteMiles-last.RouteMiles > cfg.DedupeEpsilonMiles {
			out = append(out, s)
			continue
		}
		// Same spot for planning purposes: keep the cheaper one, then
		// the lower id. The cluster anchor stays at the first member's
		// route miles so chains cannot creep along the route.
		if s.Price() < last.Price() || (s.Price() == last.Price() && s.ID < last.ID) {
			anchor := last.RouteMiles
			*last = s
			last.RouteMiles = anchor
		}
	}
	return out
}
