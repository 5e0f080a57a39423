// Package app wires the planning pipeline to its collaborators: the
// routing provider, the station store, metrics sinks and the optional
// plan event stream.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/haulcost/fuelroute/config"
	"github.com/haulcost/fuelroute/core/corridor"
	coremetrics "github.com/haulcost/fuelroute/core/metrics"
	"github.com/haulcost/fuelroute/core/model"
	"github.com/haulcost/fuelroute/core/planner"
	"github.com/haulcost/fuelroute/core/route"
	"github.com/haulcost/fuelroute/infra/logger"
	"github.com/haulcost/fuelroute/infra/metrics"
	"github.com/haulcost/fuelroute/infra/mqtt"
	"github.com/haulcost/fuelroute/infra/osrm"
	"github.com/haulcost/fuelroute/infra/stations"
)

// RouteProvider yields driving routes between two coordinates.
type RouteProvider interface {
	Route(ctx context.Context, origin, dest model.LatLng) (*osrm.Route, error)
}

// StationSource yields candidate stations around a route.
type StationSource interface {
	AlongRoute(ctx context.Context, r model.Route, radiusMiles float64) ([]model.Station, error)
}

// PlanRequest is one planning job with fully resolved parameters.
type PlanRequest struct {
	Origin        model.LatLng
	Destination   model.LatLng
	Vehicle       model.Vehicle
	CorridorMiles float64
}

// PlanResult carries everything the presentation layer reports.
type PlanResult struct {
	RequestID   string
	Route       *osrm.Route
	Vehicle     model.Vehicle
	Plan        model.FuelPlan
	GallonsUsed float64
}

// Service executes planning requests. It is safe for concurrent use:
// every request operates on its own immutable snapshot.
type Service struct {
	cfg    *config.Config
	router RouteProvider
	source StationSource
	store  *stations.SQLiteStore
	sink   coremetrics.Sink
	events mqtt.PlanPublisher
	log    logger.Logger
}

// New creates a Service from the configuration, opening the station
// store and connecting the configured sinks.
func New(cfg *config.Config) (*Service, error) {
	store, err := stations.NewSQLiteStore(cfg.Stations.Path)
	if err != nil {
		return nil, fmt.Errorf("station store: %w", err)
	}

	sink, err := metrics.NewFromConfig(cfg.Metrics)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var events mqtt.PlanPublisher = mqtt.NopPublisher{}
	if cfg.Events.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.Events)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("plan events: %w", err)
		}
		events = pub
	}

	return &Service{
		cfg:    cfg,
		router: osrm.NewClient(cfg.OSRM),
		source: stations.NewGatherer(store, cfg.Planner.Gather),
		store:  store,
		sink:   sink,
		events: events,
		log:    logger.New("service"),
	}, nil
}

// NewWithDeps creates a Service with explicit collaborators; used by
// the one-shot CLI path and tests.
func NewWithDeps(cfg *config.Config, router RouteProvider, source StationSource, sink coremetrics.Sink, events mqtt.PlanPublisher) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if events == nil {
		events = mqtt.NopPublisher{}
	}
	return &Service{
		cfg:    cfg,
		router: router,
		source: source,
		sink:   sink,
		events: events,
		log:    logger.New("service"),
	}
}

// Close releases the service resources.
func (s *Service) Close() error {
	s.events.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// PlanRoute runs the full pipeline: route the trip, gather and project
// candidates, filter the corridor and compute the cheapest plan.
func (s *Service) PlanRoute(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	started := time.Now()
	requestID := uuid.NewString()

	result, err := s.planRoute(ctx, requestID, req)
	s.record(requestID, result, err, time.Since(started))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) planRoute(ctx context.Context, requestID string, req PlanRequest) (*PlanResult, error) {
	if err := req.Origin.Validate(); err != nil {
		return nil, &planner.InvalidInputError{Err: fmt.Errorf("origin: %w", err)}
	}
	if err := req.Destination.Validate(); err != nil {
		return nil, &planner.InvalidInputError{Err: fmt.Errorf("destination: %w", err)}
	}
	if err := req.Vehicle.Validate(); err != nil {
		return nil, &planner.InvalidInputError{Err: err}
	}
	corridorMiles := req.CorridorMiles
	if corridorMiles == 0 {
		corridorMiles = s.cfg.Planner.Corridor.WidthMiles
	}
	if corridorMiles < 0 {
		return nil, &planner.InvalidInputError{Err: fmt.Errorf("corridor miles must not be negative")}
	}

	leg, err := s.router.Route(ctx, req.Origin, req.Destination)
	if err != nil {
		return nil, err
	}

	parameterized, err := route.Build(leg.Geometry, leg.DistanceMiles)
	if err != nil {
		return nil, &planner.InvalidInputError{Err: err}
	}

	candidates, err := s.source.AlongRoute(ctx, parameterized, corridorMiles)
	if err != nil {
		return nil, fmt.Errorf("gather candidates: %w", err)
	}

	projected := route.Project(parameterized, candidates)
	corridorCfg := s.cfg.Planner.Corridor
	corridorCfg.WidthMiles = corridorMiles
	filtered := corridor.Apply(corridorCfg, projected)

	s.log.Debugw("planning", map[string]any{
		"request_id":  requestID,
		"route_miles": parameterized.TotalMiles,
		"candidates":  len(candidates),
		"filtered":    len(filtered),
	})

	plan, err := planner.Compute(filtered, req.Vehicle, parameterized.TotalMiles)
	if err != nil {
		return nil, err
	}

	result := &PlanResult{
		RequestID:   requestID,
		Route:       leg,
		Vehicle:     req.Vehicle,
		Plan:        plan,
		GallonsUsed: parameterized.TotalMiles / req.Vehicle.MPG,
	}

	if err := s.events.PublishPlan(requestID, parameterized.TotalMiles, plan); err != nil {
		s.log.Warnf("plan event: %v", err)
	}
	return result, nil
}

func (s *Service) record(requestID string, result *PlanResult, err error, elapsed time.Duration) {
	ev := coremetrics.PlanEvent{
		RequestID: requestID,
		Duration:  elapsed,
		Time:      time.Now().UTC(),
	}
	var invalid *planner.InvalidInputError
	var infeasible *planner.InfeasibleError
	switch {
	case err == nil:
		ev.Outcome = coremetrics.OutcomePlanned
		ev.Stops = len(result.Plan.Stops)
		ev.TotalCost = result.Plan.TotalCost
		ev.RouteMiles = result.Route.DistanceMiles
	case errors.As(err, &infeasible):
		ev.Outcome = coremetrics.OutcomeInfeasible
	case errors.As(err, &invalid):
		ev.Outcome = coremetrics.OutcomeInvalid
	default:
		ev.Outcome = coremetrics.OutcomeError
	}
	if err := s.sink.RecordPlan(ev); err != nil {
		s.log.Warnf("metrics: %v", err)
	}
}
