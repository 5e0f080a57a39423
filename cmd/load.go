package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haulcost/fuelroute/infra/logger"
	"github.com/haulcost/fuelroute/infra/stations"
)

var loadCmd = &cobra.Command{
	Use:   "load <prices.csv>",
	Short: "Load the fuel price CSV feed into the station database",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("load")

	store, err := stations.NewSQLiteStore(cfg.Stations.Path)
	if err != nil {
		return fmt.Errorf("station store: %w", err)
	}
	defer func() { _ = store.Close() }()

	res, err := stations.LoadCSV(cmd.Context(), store, args[0])
	if err != nil {
		return err
	}
	log.Infof("done: created=%d updated=%d", res.Created, res.Updated)
	return nil
}
