package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	planapi "github.com/haulcost/fuelroute/api/plan"
	"github.com/haulcost/fuelroute/app"
	"github.com/haulcost/fuelroute/config"
	"github.com/haulcost/fuelroute/infra/logger"
	"github.com/haulcost/fuelroute/infra/metrics"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "fuelroute",
	Short: "Fuel route planning service",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("main")

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/plan", planapi.NewHandler(svc, cfg.Planner))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics.PrometheusEnabled {
		if port := cfg.Metrics.PrometheusPort; port != "" {
			go func() {
				if err := metrics.StartPromServer(ctx, port); err != nil {
					log.Errorf("prom server: %v", err)
				}
			}()
		} else {
			mux.Handle("/metrics", promhttp.Handler())
		}
	}

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("server shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
