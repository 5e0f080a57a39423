package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulcost/fuelroute/app"
	"github.com/haulcost/fuelroute/config"
	"github.com/haulcost/fuelroute/core/model"
	"github.com/haulcost/fuelroute/core/planner"
	"github.com/haulcost/fuelroute/infra/osrm"
)

type stubPlanner struct {
	result *app.PlanResult
	err    error
	gotReq app.PlanRequest
}

func (s *stubPlanner) PlanRoute(_ context.Context, req app.PlanRequest) (*app.PlanResult, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func defaults() config.PlannerConfig {
	cfg := config.PlannerConfig{}
	cfg.SetDefaults()
	return cfg
}

func post(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func samplePrice(v float64) *float64 { return &v }

func sampleResult() *app.PlanResult {
	return &app.PlanResult{
		RequestID: "req-1",
		Route: &osrm.Route{
			Geometry:        []model.LatLng{{Lat: 35.0, Lon: -101.0}, {Lat: 35.2, Lon: -97.4}},
			DistanceMiles:   212.5,
			DistanceMeters:  341970,
			DurationSeconds: 11520,
			EncodedPolyline: "abc",
		},
		Vehicle:     model.Vehicle{MPG: 10, TankCapacityGallons: 50, MaxRangeMiles: 500},
		GallonsUsed: 21.25,
		Plan: model.FuelPlan{
			Stops: []model.PlannedStop{{
				Station: model.ProjectedStation{
					Station:    model.Station{ID: 42, Name: "FLYING J", City: "Shamrock", State: "TX", PricePerGallon: samplePrice(3.19)},
					RouteMiles: 90.5,
				},
				GallonsBought: 12.5,
				Cost:          39.875,
			}},
			TotalCost: 39.875,
		},
	}
}

func TestHandlerPlansRoute(t *testing.T) {
	stub := &stubPlanner{result: sampleResult()}
	h := NewHandler(stub, defaults())

	rec := post(t, h, Request{
		Start: &model.LatLng{Lat: 35.0, Lon: -101.0},
		End:   &model.LatLng{Lat: 35.2, Lon: -97.4},
		MPG:   10, MaxRangeMiles: 500, TankCapacityGallons: 50,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, 212.5, resp.Route.DistanceMiles)
	require.Len(t, resp.FuelPlan.Stops, 1)
	assert.Equal(t, int64(42), resp.FuelPlan.Stops[0].ID)
	assert.Equal(t, 3.19, resp.FuelPlan.Stops[0].Price)
	assert.Equal(t, 39.875, resp.FuelPlan.TotalMoneySpent)
}

func TestHandlerAppliesVehicleDefaults(t *testing.T) {
	stub := &stubPlanner{result: sampleResult()}
	h := NewHandler(stub, defaults())

	rec := post(t, h, Request{
		Start: &model.LatLng{Lat: 35.0, Lon: -101.0},
		End:   &model.LatLng{Lat: 35.2, Lon: -97.4},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10.0, stub.gotReq.Vehicle.MPG)
	assert.Equal(t, 500.0, stub.gotReq.Vehicle.MaxRangeMiles)
	assert.Equal(t, 50.0, stub.gotReq.Vehicle.TankCapacityGallons)
}

func TestHandlerRequiresEndpoints(t *testing.T) {
	h := NewHandler(&stubPlanner{result: sampleResult()}, defaults())
	rec := post(t, h, Request{Start: &model.LatLng{Lat: 1, Lon: 1}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerRejectsBadBody(t *testing.T) {
	h := NewHandler(&stubPlanner{result: sampleResult()}, defaults())
	req := httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	h := NewHandler(&stubPlanner{result: sampleResult()}, defaults())
	req := httptest.NewRequest(http.MethodGet, "/api/plan", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerInfeasibleRoute(t *testing.T) {
	stub := &stubPlanner{err: &planner.InfeasibleError{
		Kind: planner.GapMidRoute, GapStartMiles: 120, GapEndMiles: 700, RangeMiles: 500,
	}}
	h := NewHandler(stub, defaults())

	rec := post(t, h, Request{
		Start: &model.LatLng{Lat: 1, Lon: 1},
		End:   &model.LatLng{Lat: 2, Lon: 2},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ROUTE_INFEASIBLE", body["error"])
	gap, ok := body["gap"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mid_route", gap["kind"])
	assert.Equal(t, 580.0, gap["gap_miles"])
}

func TestHandlerInvalidInput(t *testing.T) {
	stub := &stubPlanner{err: &planner.InvalidInputError{Err: assertableErr("mpg must be positive")}}
	h := NewHandler(stub, defaults())
	rec := post(t, h, Request{
		Start: &model.LatLng{Lat: 1, Lon: 1},
		End:   &model.LatLng{Lat: 2, Lon: 2},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// The error field stays a machine-readable code; the human message
	// rides in detail.
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "INVALID_INPUT", body["error"])
	assert.Equal(t, "mpg must be positive", body["detail"])
}

func TestHandlerUpstreamFailures(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{osrm.ErrNoRoute, http.StatusBadRequest},
		{osrm.ErrRateLimited, http.StatusBadGateway},
		{assertableErr("boom"), http.StatusBadGateway},
		{&planner.ConsistencyError{AtMiles: 10, Detail: "x"}, http.StatusInternalServerError},
	}
	for _, c := range cases {
		h := NewHandler(&stubPlanner{err: c.err}, defaults())
		rec := post(t, h, Request{
			Start: &model.LatLng{Lat: 1, Lon: 1},
			End:   &model.LatLng{Lat: 2, Lon: 2},
		})
		assert.Equalf(t, c.code, rec.Code, "error %v", c.err)
	}
}

type assertableErr string

func (e assertableErr) Error() string { return string(e) }
