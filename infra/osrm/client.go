// Package osrm adapts an OSRM routing endpoint to the planning
// pipeline: one route request per plan, full polyline5 overview.
package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/haulcost/fuelroute/core/model"
	"github.com/haulcost/fuelroute/infra/logger"
)

const metersPerMile = 1609.344

// ErrRateLimited is returned when the public OSRM endpoint throttles
// the request; callers may retry later.
var ErrRateLimited = errors.New("osrm: rate limited")

// ErrNoRoute is returned when OSRM finds no drivable route between the
// given coordinates.
var ErrNoRoute = errors.New("osrm: no route found")

// Config defines the OSRM endpoint parameters.
type Config struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies the public endpoint defaults.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://router.project-osrm.org"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 90
	}
}

// Route is the provider result the planning pipeline consumes. The
// geometry and the authoritative distance travel together; duration and
// the raw encoded form are opaque metadata echoed to clients.
type Route struct {
	Geometry        []model.LatLng
	DistanceMiles   float64
	DistanceMeters  int
	DurationSeconds int
	EncodedPolyline string
}

// Client is a thin HTTP client for the OSRM route service.
type Client struct {
	base string
	http *http.Client
	log  logger.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg Config) *Client {
	cfg.SetDefaults()
	return &Client{
		base: cfg.BaseURL,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  logger.New("osrm"),
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

// Route fetches the driving route from origin to destination.
func (c *Client) Route(ctx context.Context, origin, dest model.LatLng) (*Route, error) {
	coords := fmt.Sprintf("%f,%f;%f,%f", origin.Lon, origin.Lat, dest.Lon, dest.Lat)
	q := url.Values{
		"overview":     {"full"},
		"geometries":   {"polyline"},
		"alternatives": {"false"},
		"steps":        {"false"},
	}
	u := fmt.Sprintf("%s/route/v1/driving/%s?%s", c.base, coords, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "fuelroute/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("osrm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osrm status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("osrm decode: %w", err)
	}
	if len(body.Routes) == 0 || body.Routes[0].Geometry == "" {
		return nil, ErrNoRoute
	}

	r := body.Routes[0]
	geometry, err := decodePolyline(r.Geometry)
	if err != nil {
		return nil, fmt.Errorf("osrm geometry: %w", err)
	}
	if len(geometry) < 2 {
		return nil, ErrNoRoute
	}

	c.log.Debugw("route fetched", map[string]any{
		"distance_m": r.Distance,
		"points":     len(geometry),
	})
	return &Route{
		Geometry:        geometry,
		DistanceMiles:   r.Distance / metersPerMile,
		DistanceMeters:  int(r.Distance),
		DurationSeconds: int(r.Duration),
		EncodedPolyline: r.Geometry,
	}, nil
}
