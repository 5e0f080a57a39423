package stations

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/haulcost/fuelroute/infra/logger"
)

// GeocodeConfig defines the US Census batch geocoder endpoint.
type GeocodeConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// BatchLimit caps how many ungeocoded rows one run submits.
	BatchLimit int `json:"batch_limit"`
}

// SetDefaults applies the public endpoint defaults.
func (c *GeocodeConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://geocoding.geo.census.gov/geocoder/locations/addressbatch"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 180
	}
	if c.BatchLimit == 0 {
		c.BatchLimit = 10000
	}
}

// GeocodeResult summarizes one geocoding run.
type GeocodeResult struct {
	Submitted int
	Updated   int
	Unmatched int
}

// Geocoder fills in coordinates of stops ingested from the price feed,
// which carries street addresses but no positions. It submits batches
// to the Census geocoder and writes matched coordinates back to the
// store.
type Geocoder struct {
	store *SQLiteStore
	cfg   GeocodeConfig
	http  *http.Client
	log   logger.Logger
}

// NewGeocoder creates a Geocoder over the given store.
func NewGeocoder(store *SQLiteStore, cfg GeocodeConfig) *Geocoder {
	cfg.SetDefaults()
	return &Geocoder{
		store: store,
		cfg:   cfg,
		http:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:   logger.New("geocode"),
	}
}

// Run geocodes up to the configured batch limit of coordinate-less
// stops. Rows the geocoder cannot match are left untouched and counted,
// so reruns retry them.
func (g *Geocoder) Run(ctx context.Context) (GeocodeResult, error) {
	pending, err := g.store.Ungeocoded(ctx, g.cfg.BatchLimit)
	if err != nil {
		return GeocodeResult{}, err
	}
	if len(pending) == 0 {
		return GeocodeResult{}, nil
	}

	body, contentType, err := batchRequestBody(pending)
	if err != nil {
		return GeocodeResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL, body)
	if err != nil {
		return GeocodeResult{}, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := g.http.Do(req)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return GeocodeResult{}, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	res := GeocodeResult{Submitted: len(pending)}
	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("geocoder response: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			continue
		}
		status := ""
		if len(row) > 2 {
			status = strings.ToLower(strings.TrimSpace(row[2]))
		}
		lon, lat, ok := parseLonLat(row)
		if !strings.HasPrefix(status, "match") || !ok {
			res.Unmatched++
			continue
		}
		if err := g.store.SetCoordinates(ctx, id, lat, lon); err != nil {
			return res, err
		}
		res.Updated++
	}

	g.log.Infof("geocoded %d/%d stops, %d unmatched", res.Updated, res.Submitted, res.Unmatched)
	return res, nil
}

// batchRequestBody builds the multipart form the Census batch endpoint
// expects: an address CSV (id, street, city, state, zip) and the
// benchmark name.
func batchRequestBody(pending []Address) (io.Reader, string, error) {
	var addresses bytes.Buffer
	w := csv.NewWriter(&addresses)
	for _, a := range pending {
		if err := w.Write([]string{strconv.FormatInt(a.ID, 10), a.Street, a.City, a.State, ""}); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("addressFile", "addressbatch.csv")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(addresses.Bytes()); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("benchmark", "Public_AR_Current"); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &body, mw.FormDataContentType(), nil
}

// parseLonLat scans the response row for the "lon,lat" field. The
// position varies across benchmark versions, so every field is tried
// and the candidate must pass a continental-US sanity window.
func parseLonLat(row []string) (lon, lat float64, ok bool) {
	for _, field := range row {
		field = strings.TrimSpace(field)
		a, b, found := strings.Cut(field, ",")
		if !found {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(a), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if x >= -180 && x <= 0 && y >= 0 && y <= 90 {
			return x, y, true
		}
	}
	return 0, 0, false
}
