// Package plan exposes the planning pipeline over HTTP.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/haulcost/fuelroute/app"
	"github.com/haulcost/fuelroute/config"
	"github.com/haulcost/fuelroute/core/model"
	"github.com/haulcost/fuelroute/core/planner"
	"github.com/haulcost/fuelroute/infra/logger"
	"github.com/haulcost/fuelroute/infra/osrm"
)

// RoutePlanner executes a fully resolved planning request.
type RoutePlanner interface {
	PlanRoute(ctx context.Context, req app.PlanRequest) (*app.PlanResult, error)
}

// Request is the POST /api/plan payload. Vehicle fields fall back to
// the configured defaults when omitted.
type Request struct {
	Start               *model.LatLng `json:"start_latlng"`
	End                 *model.LatLng `json:"end_latlng"`
	MPG                 float64       `json:"mpg"`
	MaxRangeMiles       float64       `json:"max_range_miles"`
	TankCapacityGallons float64       `json:"tank_capacity_gallons"`
	CorridorMiles       float64       `json:"corridor_miles"`
}

// Response is the successful plan payload.
type Response struct {
	RequestID   string       `json:"request_id"`
	Origin      model.LatLng `json:"origin"`
	Destination model.LatLng `json:"destination"`
	Route       RouteOut     `json:"route"`
	Vehicle     VehicleOut   `json:"vehicle"`
	FuelPlan    PlanOut      `json:"fuel_plan"`
}

// RouteOut summarizes the routed trip.
type RouteOut struct {
	DistanceMiles   float64 `json:"distance_miles"`
	DistanceMeters  int     `json:"distance_meters"`
	DurationSeconds int     `json:"duration_seconds"`
	EncodedPolyline string  `json:"encoded_polyline"`
}

// VehicleOut echoes the effective vehicle parameters.
type VehicleOut struct {
	MPG                 float64 `json:"mpg"`
	MaxRangeMiles       float64 `json:"max_range_miles"`
	TankCapacityGallons float64 `json:"tank_capacity_gallons"`
	GallonsUsedTotal    float64 `json:"gallons_used_total"`
}

// PlanOut is the reported refueling plan.
type PlanOut struct {
	Stops           []StopOut `json:"stops"`
	TotalMoneySpent float64   `json:"total_money_spent"`
}

// StopOut is one reported stop.
type StopOut struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Price         float64 `json:"price"`
	RouteMiles    float64 `json:"route_miles"`
	GallonsBought float64 `json:"gallons_bought"`
	Cost          float64 `json:"cost"`
}

type errorBody struct {
	Error  string         `json:"error"`
	Detail string         `json:"detail,omitempty"`
	Gap    map[string]any `json:"gap,omitempty"`
}

// Handler serves POST /api/plan.
type Handler struct {
	svc      RoutePlanner
	defaults config.PlannerConfig
	log      logger.Logger
}

// NewHandler creates the plan endpoint handler.
func NewHandler(svc RoutePlanner, defaults config.PlannerConfig) *Handler {
	return &Handler{svc: svc, defaults: defaults, log: logger.New("api-plan")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST_BODY", nil)
		return
	}
	if req.Start == nil || req.End == nil {
		writeError(w, http.StatusBadRequest, "START_AND_END_REQUIRED", nil)
		return
	}

	planReq := app.PlanRequest{
		Origin:      *req.Start,
		Destination: *req.End,
		Vehicle: model.Vehicle{
			MPG:                 orDefault(req.MPG, h.defaults.DefaultMPG),
			MaxRangeMiles:       orDefault(req.MaxRangeMiles, h.defaults.DefaultMaxRangeMiles),
			TankCapacityGallons: orDefault(req.TankCapacityGallons, h.defaults.DefaultTankCapacityGallons),
		},
		CorridorMiles: req.CorridorMiles,
	}

	result, err := h.svc.PlanRoute(r.Context(), planReq)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(result))
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	var invalid *planner.InvalidInputError
	var infeasible *planner.InfeasibleError
	var inconsistent *planner.ConsistencyError
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "INVALID_INPUT", Detail: invalid.Err.Error()})
	case errors.As(err, &infeasible):
		writeError(w, http.StatusUnprocessableEntity, "ROUTE_INFEASIBLE", map[string]any{
			"kind":        string(infeasible.Kind),
			"start_miles": infeasible.GapStartMiles,
			"end_miles":   infeasible.GapEndMiles,
			"gap_miles":   infeasible.GapEndMiles - infeasible.GapStartMiles,
			"range_miles": infeasible.RangeMiles,
		})
	case errors.As(err, &inconsistent):
		h.log.Errorf("plan consistency fault: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", nil)
	case errors.Is(err, osrm.ErrNoRoute):
		writeError(w, http.StatusBadRequest, "ROUTE_NOT_FOUND", nil)
	case errors.Is(err, osrm.ErrRateLimited):
		writeError(w, http.StatusBadGateway, "ROUTING_RATE_LIMITED", nil)
	default:
		h.log.Errorf("plan request failed: %v", err)
		writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", nil)
	}
}

func toResponse(res *app.PlanResult) Response {
	out := Response{
		RequestID:   res.RequestID,
		Origin:      res.Route.Geometry[0],
		Destination: res.Route.Geometry[len(res.Route.Geometry)-1],
		Route: RouteOut{
			DistanceMiles:   res.Route.DistanceMiles,
			DistanceMeters:  res.Route.DistanceMeters,
			DurationSeconds: res.Route.DurationSeconds,
			EncodedPolyline: res.Route.EncodedPolyline,
		},
		Vehicle: VehicleOut{
			MPG:                 res.Vehicle.MPG,
			MaxRangeMiles:       res.Vehicle.MaxRangeMiles,
			TankCapacityGallons: res.Vehicle.TankCapacityGallons,
			GallonsUsedTotal:    res.GallonsUsed,
		},
		FuelPlan: PlanOut{
			Stops:           make([]StopOut, 0, len(res.Plan.Stops)),
			TotalMoneySpent: res.Plan.TotalCost,
		},
	}
	for _, st := range res.Plan.Stops {
		out.FuelPlan.Stops = append(out.FuelPlan.Stops, StopOut{
			ID:            st.Station.ID,
			Name:          st.Station.Name,
			City:          st.Station.City,
			State:         st.Station.State,
			Lat:           st.Station.Lat,
			Lon:           st.Station.Lon,
			Price:         st.Station.Price(),
			RouteMiles:    st.Station.RouteMiles,
			GallonsBought: st.GallonsBought,
			Cost:          st.Cost,
		})
	}
	return out
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string, gap map[string]any) {
	writeJSON(w, status, errorBody{Error: msg, Gap: gap})
}
