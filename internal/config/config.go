// Package config reads geofind settings from the environment and an
// optional .env file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/rendis/geofind/internal/engine/transport"
	"github.com/rendis/geofind/internal/model"
)

type Config struct {
	APIKey     string        `env:"GEOFIND_API_KEY"`
	Model      string        `env:"GEOFIND_MODEL" envDefault:"gemini-2.5-flash"`
	APIBaseURL string        `env:"GEOFIND_API_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	ProxyURL   string        `env:"GEOFIND_PROXY"`
	Timeout    time.Duration `env:"GEOFIND_TIMEOUT" envDefault:"0s"`

	Store       string `env:"GEOFIND_STORE" envDefault:"sqlite"`
	DBPath      string `env:"GEOFIND_DB_PATH"`
	DynamoTable string `env:"GEOFIND_DYNAMODB_TABLE" envDefault:"geofind-slots"`
	ClientID    string `env:"GEOFIND_CLIENT_ID" envDefault:"local"`

	LocateURL     string   `env:"GEOFIND_LOCATE_URL" envDefault:"http://ip-api.com/json/"`
	Lat           *float64 `env:"GEOFIND_LAT"`
	Lng           *float64 `env:"GEOFIND_LNG"`
	RadiusKm      float64  `env:"GEOFIND_RADIUS_KM" envDefault:"10"`
	GeocodeManual bool     `env:"GEOFIND_GEOCODE_MANUAL" envDefault:"false"`
	AreaFile      string   `env:"GEOFIND_AREA_FILE"`

	LogDir   string `env:"GEOFIND_LOG_DIR"`
	LogLevel string `env:"GEOFIND_LOG_LEVEL" envDefault:"info"`

	ListenAddr string `env:"GEOFIND_LISTEN_ADDR" envDefault:":8080"`
}

// Load reads .env from the working directory when present, then the
// process environment. Variables already set win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrap(err, "reading .env")
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "parsing env")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if (cfg.Lat == nil) != (cfg.Lng == nil) {
		return nil, errors.New("GEOFIND_LAT and GEOFIND_LNG must be set together")
	}
	if cfg.RadiusKm < 0 {
		return nil, errors.New("GEOFIND_RADIUS_KM must not be negative")
	}
	if cfg.ProxyURL != "" {
		if _, err := transport.ParseProxy(cfg.ProxyURL); err != nil {
			return nil, errors.Wrap(err, "GEOFIND_PROXY")
		}
	}
	return &cfg, nil
}

// StaticCoords returns the configured coordinates, if any.
func (c *Config) StaticCoords() *model.LocationCoords {
	if c.Lat == nil || c.Lng == nil {
		return nil
	}
	return &model.LocationCoords{Latitude: *c.Lat, Longitude: *c.Lng}
}

// DefaultDBPath is geofind.db under the user config directory, or the
// working directory when that cannot be determined.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "geofind.db"
	}
	return filepath.Join(dir, "geofind", "geofind.db")
}
