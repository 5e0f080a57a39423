package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/haulcost/fuelroute/core/corridor"
	coremetrics "github.com/haulcost/fuelroute/core/metrics"
	"github.com/haulcost/fuelroute/infra/mqtt"
	"github.com/haulcost/fuelroute/infra/osrm"
	"github.com/haulcost/fuelroute/infra/stations"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig           `json:"server"`
	Planner  PlannerConfig          `json:"planner"`
	Stations stations.Config        `json:"stations"`
	Geocode  stations.GeocodeConfig `json:"geocode"`
	OSRM     osrm.Config            `json:"osrm"`
	Metrics  coremetrics.Config     `json:"metrics"`
	Events   mqtt.Config            `json:"events"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// PlannerConfig bundles the planning pipeline tunables and the vehicle
// defaults applied when a request omits them.
type PlannerConfig struct {
	Corridor corridor.Config       `json:"corridor"`
	Gather   stations.GatherConfig `json:"gather"`

	DefaultMPG                 float64 `json:"default_mpg"`
	DefaultMaxRangeMiles       float64 `json:"default_max_range_miles"`
	DefaultTankCapacityGallons float64 `json:"default_tank_capacity_gallons"`
}

// SetDefaults applies the service defaults.
func (c *PlannerConfig) SetDefaults() {
	c.Corridor.SetDefaults()
	c.Gather.SetDefaults()
	if c.DefaultMPG == 0 {
		c.DefaultMPG = 10
	}
	if c.DefaultMaxRangeMiles == 0 {
		c.DefaultMaxRangeMiles = 500
	}
	if c.DefaultTankCapacityGallons == 0 {
		c.DefaultTankCapacityGallons = 50
	}
}

// Validate checks the planner tunables.
func (c PlannerConfig) Validate() error {
	if c.Corridor.WidthMiles <= 0 {
		return fmt.Errorf("corridor width must be positive")
	}
	if c.Corridor.DedupeEpsilonMiles < 0 {
		return fmt.Errorf("dedupe epsilon must not be negative")
	}
	if c.DefaultMPG <= 0 || c.DefaultMaxRangeMiles <= 0 || c.DefaultTankCapacityGallons <= 0 {
		return fmt.Errorf("vehicle defaults must be positive")
	}
	return nil
}

// Load reads the configuration file (yaml or json by extension) and
// applies FR_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("FR_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fr_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.Server.SetDefaults()
	c.Planner.SetDefaults()
	c.Stations.SetDefaults()
	c.Geocode.SetDefaults()
	c.OSRM.SetDefaults()
	c.Events.SetDefaults()
}

// Validate checks all sections.
func (c Config) Validate() error {
	if err := c.Planner.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	return nil
}
