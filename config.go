package qaoa

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

/*
Config holds the tunables of a QAOA run. Zero Samples selects the exact
expectation value; any positive value selects the sampling evaluator.
*/
type Config struct {
	Mode           string  `mapstructure:"mode"`
	Depth          int     `mapstructure:"depth"`
	Bias           float64 `mapstructure:"bias"`
	CopulaK        float64 `mapstructure:"copula_k"`
	CopulaTheta    float64 `mapstructure:"copula_theta"`
	Samples        int     `mapstructure:"samples"`
	Seed           uint64  `mapstructure:"seed"`
	GridResolution int     `mapstructure:"grid_resolution"`
	MaxNodes       int     `mapstructure:"max_nodes"`
	MaxHeapBytes   uint64  `mapstructure:"max_heap_bytes"`
	MaxGridPoints  uint64  `mapstructure:"max_grid_points"`
	MaxExactNodes  uint64  `mapstructure:"max_exact_nodes"`
}

func NewConfig() *Config {
	return &Config{
		Mode:           "qtg",
		Depth:          1,
		Bias:           1,
		CopulaK:        5,
		CopulaTheta:    -1,
		Samples:        0,
		Seed:           1,
		GridResolution: 20,
		MaxNodes:       DefaultMaxNodes,
		MaxHeapBytes:   0,
		MaxGridPoints:  1 << 20,
		MaxExactNodes:  DefaultMaxExactNodes,
	}
}

/*
LoadConfig layers an optional config file and QAOA_ prefixed environment
variables over the defaults of NewConfig.

Parameters:
  - path: a file in any format viper reads, or "" for defaults and environment only

Returns:
  - *Config: the validated configuration
  - error: a read, decode or validation error
*/
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	defaults := NewConfig()

	v.SetDefault("mode", defaults.Mode)
	v.SetDefault("depth", defaults.Depth)
	v.SetDefault("bias", defaults.Bias)
	v.SetDefault("copula_k", defaults.CopulaK)
	v.SetDefault("copula_theta", defaults.CopulaTheta)
	v.SetDefault("samples", defaults.Samples)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("grid_resolution", defaults.GridResolution)
	v.SetDefault("max_nodes", defaults.MaxNodes)
	v.SetDefault("max_heap_bytes", defaults.MaxHeapBytes)
	v.SetDefault("max_grid_points", defaults.MaxGridPoints)
	v.SetDefault("max_exact_nodes", defaults.MaxExactNodes)

	v.SetEnvPrefix("QAOA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	if _, err := ParseMode(c.Mode); err != nil {
		return err
	}

	if c.Depth < 1 {
		return invalidArgument("depth", "must be at least 1, got %d", c.Depth)
	}

	if c.Bias < 0 || math.IsNaN(c.Bias) || math.IsInf(c.Bias, 0) {
		return invalidArgument("bias", "must be finite and non-negative, got %v", c.Bias)
	}

	if math.IsNaN(c.CopulaK) || math.IsInf(c.CopulaK, 0) {
		return invalidArgument("copula_k", "must be finite, got %v", c.CopulaK)
	}

	if math.IsNaN(c.CopulaTheta) || c.CopulaTheta < -1 || c.CopulaTheta > 1 {
		return invalidArgument("copula_theta", "must lie in [-1, 1], got %v", c.CopulaTheta)
	}

	if c.Samples < 0 {
		return invalidArgument("samples", "must not be negative, got %d", c.Samples)
	}

	if c.GridResolution < 1 {
		return invalidArgument("grid_resolution", "must be at least 1, got %d", c.GridResolution)
	}

	return nil
}
