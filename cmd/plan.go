package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haulcost/fuelroute/app"
	"github.com/haulcost/fuelroute/core/model"
)

var planRequestPath string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a single fuel plan from a request file and print it",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planRequestPath, "request", "r", "", "request JSON file")
	_ = planCmd.MarkFlagRequired("request")
	rootCmd.AddCommand(planCmd)
}

type planRequestFile struct {
	Start               model.LatLng `json:"start_latlng"`
	End                 model.LatLng `json:"end_latlng"`
	MPG                 float64      `json:"mpg"`
	MaxRangeMiles       float64      `json:"max_range_miles"`
	TankCapacityGallons float64      `json:"tank_capacity_gallons"`
	CorridorMiles       float64      `json:"corridor_miles"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(planRequestPath)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req planRequestFile
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}
	if req.MPG == 0 {
		req.MPG = cfg.Planner.DefaultMPG
	}
	if req.MaxRangeMiles == 0 {
		req.MaxRangeMiles = cfg.Planner.DefaultMaxRangeMiles
	}
	if req.TankCapacityGallons == 0 {
		req.TankCapacityGallons = cfg.Planner.DefaultTankCapacityGallons
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	result, err := svc.PlanRoute(cmd.Context(), app.PlanRequest{
		Origin:      req.Start,
		Destination: req.End,
		Vehicle: model.Vehicle{
			MPG:                 req.MPG,
			MaxRangeMiles:       req.MaxRangeMiles,
			TankCapacityGallons: req.TankCapacityGallons,
		},
		CorridorMiles: req.CorridorMiles,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		RequestID  string         `json:"request_id"`
		RouteMiles float64        `json:"route_miles"`
		Plan       model.FuelPlan `json:"fuel_plan"`
	}{result.RequestID, result.Route.DistanceMiles, result.Plan})
}
