// Package config loads solver defaults from a YAML file, with
// environment-variable overrides layered on top: the file supplies
// baseline values, individual env vars (DATABASE_URL, REDIS_URL, ...)
// win when set.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"vrpsolve/internal/heuristics"
)

// Config holds the solver defaults a CLI or service front-end applies
// when a request does not specify them explicitly.
type Config struct {
	Strategy       string        `yaml:"strategy"`
	Init           string        `yaml:"init"`
	Lambda         float64       `yaml:"lambda"`
	SolveTimeout   time.Duration `yaml:"solve_timeout"`
	MatrixCacheTTL time.Duration `yaml:"matrix_cache_ttl"`
	DatabaseURL    string        `yaml:"database_url"`
	RedisURL       string        `yaml:"redis_url"`
}

// Default returns the baseline configuration used when no file is
// supplied and no override is set.
func Default() Config {
	return Config{
		Strategy:       "dynamic_vehicle_choice",
		Init:           "earliest_deadline",
		Lambda:         1.0,
		SolveTimeout:   30 * time.Second,
		MatrixCacheTTL: 10 * time.Minute,
	}
}

// Load reads path (YAML) over the defaults, then applies environment
// overrides, mirroring NewServer's "env wins over file default" style.
// An empty path skips the file read and returns defaults-plus-env.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("VRPSOLVE_STRATEGY"); v != "" {
		c.Strategy = v
	}
	if v := os.Getenv("VRPSOLVE_INIT"); v != "" {
		c.Init = v
	}
	if v := os.Getenv("VRPSOLVE_LAMBDA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Lambda = f
		}
	}
	if v := os.Getenv("VRPSOLVE_SOLVE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SolveTimeout = d
		}
	}
	if v := os.Getenv("VRPSOLVE_MATRIX_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MatrixCacheTTL = d
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
}

// StrategyValue parses c.Strategy into a heuristics.Strategy, defaulting to
// DynamicVehicleChoice for an unrecognized or empty value.
func (c Config) StrategyValue() heuristics.Strategy {
	switch c.Strategy {
	case "basic":
		return heuristics.Basic
	default:
		return heuristics.DynamicVehicleChoice
	}
}

// InitValue parses c.Init into a heuristics.Init, defaulting to
// InitNone for an unrecognized or empty value.
func (c Config) InitValue() heuristics.Init {
	switch c.Init {
	case "higher_amount":
		return heuristics.InitHigherAmount
	case "earliest_deadline":
		return heuristics.InitEarliestDeadline
	case "furthest":
		return heuristics.InitFurthest
	case "nearest":
		return heuristics.InitNearest
	default:
		return heuristics.InitNone
	}
}
