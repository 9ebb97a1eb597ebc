// Package config loads client settings from config.yaml, .env and
// PITSTOP_* environment variables, in that order of precedence (lowest
// first). Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kass/pitstop/pkg/geo"
	"github.com/kass/pitstop/pkg/models"
)

const (
	// DefaultFile is read when no config path is given
	DefaultFile = "config.yaml"
	// ExampleFile is the fallback shipped with the repository
	ExampleFile = "config.yaml.example"

	envPrefix = "PITSTOP_"
)

// envFile is the dotenv file read after the YAML config
var envFile = ".env"

// Config holds every client setting
type Config struct {
	API struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`
	Planner struct {
		IntervalMins int `yaml:"interval_mins"`
	} `yaml:"planner"`
	Map struct {
		Bounds geo.Bounds    `yaml:"bounds"`
		Center models.LatLng `yaml:"center"`
	} `yaml:"map"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`

	// Source is the file the settings were read from, empty for defaults only
	Source string `yaml:"-"`
	// Warnings collects non-fatal problems for the caller to log
	Warnings []string `yaml:"-"`
}

// Default returns the built-in settings: the local development backend and
// the Singapore map area.
func Default() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = "http://127.0.0.1:8000"
	cfg.API.Timeout = 30 * time.Second
	cfg.Planner.IntervalMins = 30
	cfg.Map.Bounds = geo.Bounds{
		SouthWest: models.LatLng{Lat: 1.144, Lon: 103.535},
		NorthEast: models.LatLng{Lat: 1.494, Lon: 104.502},
	}
	cfg.Map.Center = models.LatLng{Lat: 1.3521, Lon: 103.8198}
	cfg.Log.Level = "info"
	return cfg
}

// Load reads settings. With an empty path it tries config.yaml, then
// config.yaml.example, then falls back to defaults; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	} else {
		for _, candidate := range []string{DefaultFile, ExampleFile} {
			err := cfg.readFile(candidate)
			if err == nil {
				break
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("could not load %s file: %v", envFile, err))
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	c.Source = path
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("BASE_URL"); ok {
		c.API.BaseURL = v
	}
	if v, ok := lookupEnv("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("failed to parse %sTIMEOUT: %w", envPrefix, err)
		}
		c.API.Timeout = d
	}
	if v, ok := lookupEnv("INTERVAL_MINS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse %sINTERVAL_MINS: %w", envPrefix, err)
		}
		c.Planner.IntervalMins = n
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Validate checks the settings are usable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Planner.IntervalMins <= 0 {
		return fmt.Errorf("planner.interval_mins must be positive, got %d", c.Planner.IntervalMins)
	}
	if !c.Map.Bounds.Valid() {
		return errors.New("map.bounds south_west must be below and left of north_east")
	}
	return nil
}
