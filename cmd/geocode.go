package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haulcost/fuelroute/infra/logger"
	"github.com/haulcost/fuelroute/infra/stations"
)

var geocodeLimit int

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Geocode loaded fuel stops that still lack coordinates",
	RunE:  runGeocode,
}

func init() {
	geocodeCmd.Flags().IntVar(&geocodeLimit, "limit", 0, "max stops to submit in this run")
	rootCmd.AddCommand(geocodeCmd)
}

func runGeocode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("geocode")

	store, err := stations.NewSQLiteStore(cfg.Stations.Path)
	if err != nil {
		return fmt.Errorf("station store: %w", err)
	}
	defer func() { _ = store.Close() }()

	gcfg := cfg.Geocode
	if geocodeLimit > 0 {
		gcfg.BatchLimit = geocodeLimit
	}
	res, err := stations.NewGeocoder(store, gcfg).Run(cmd.Context())
	if err != nil {
		return err
	}
	log.Infof("done: updated=%d/%d unmatched=%d", res.Updated, res.Submitted, res.Unmatched)
	return nil
}
