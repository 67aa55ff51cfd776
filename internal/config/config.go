// Package config loads application configuration from file and environment
// and owns global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Coverage CoverageConfig `yaml:"coverage" mapstructure:"coverage"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the facility dataset.
type DataConfig struct {
	// Source is a file path or http(s) URL.
	Source string `yaml:"source" mapstructure:"source"`
	// Format is "geojson" or "shapefile".
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
	// CoveragePerMinute rate-limits the expensive coverage endpoint.
	CoveragePerMinute int `yaml:"coverage_per_minute" mapstructure:"coverage_per_minute"`
}

// BoundsConfig is the sampled region extent in WGS84 degrees.
type BoundsConfig struct {
	North float64 `yaml:"north" mapstructure:"north"`
	South float64 `yaml:"south" mapstructure:"south"`
	East  float64 `yaml:"east" mapstructure:"east"`
	West  float64 `yaml:"west" mapstructure:"west"`
}

// CoverageConfig tunes the coverage grid sampler.
type CoverageConfig struct {
	GridSize     int          `yaml:"grid_size" mapstructure:"grid_size"`
	Bounds       BoundsConfig `yaml:"bounds" mapstructure:"bounds"`
	MaxDistanceM float64      `yaml:"max_distance_m" mapstructure:"max_distance_m"`
	Gamma        float64      `yaml:"gamma" mapstructure:"gamma"`
	// Distance is "planar" or "haversine".
	Distance string `yaml:"distance" mapstructure:"distance"`
	// MetersPerDegreeLng tunes the planar approximation to the metro's
	// latitude band.
	MetersPerDegreeLng float64 `yaml:"meters_per_degree_lng" mapstructure:"meters_per_degree_lng"`
	// Index is "linear" or "bucket".
	Index   string `yaml:"index" mapstructure:"index"`
	Workers int    `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FACILITYMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Bounds approximate the NYC metro plus margin.
	v.SetDefault("data.source", "data/facilities.geojson")
	v.SetDefault("data.format", "geojson")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.coverage_per_minute", 12)
	v.SetDefault("coverage.grid_size", 100)
	v.SetDefault("coverage.bounds.north", 40.95)
	v.SetDefault("coverage.bounds.south", 40.49)
	v.SetDefault("coverage.bounds.east", -73.65)
	v.SetDefault("coverage.bounds.west", -74.28)
	v.SetDefault("coverage.max_distance_m", 5000.0)
	v.SetDefault("coverage.gamma", 0.6)
	v.SetDefault("coverage.distance", "planar")
	v.SetDefault("coverage.meters_per_degree_lng", 85000.0)
	v.SetDefault("coverage.index", "linear")
	v.SetDefault("coverage.workers", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
