// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Individual values in the file can be overridden by environment
// variables (see the env:"..." tags).
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	// Empty means the roster lives in memory only and is lost on exit.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`

	// SeedDemo pre-loads the two demo students into an empty in-memory
	// roster. Ignored when StoragePath is set.
	SeedDemo bool `yaml:"seed_demo" env:"SEED_DEMO" env-default:"false"`

	HTTPServer `yaml:"http_server"`

	Roster Roster `yaml:"roster"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// Roster tunes the roster manager.
type Roster struct {
	// MaxStudents is the capacity of the roster.
	MaxStudents int `yaml:"max_students" env:"ROSTER_MAX_STUDENTS" env-default:"5"`

	// AddDelay and MutateDelay simulate the latency of the remote call
	// behind add and update/remove respectively.
	AddDelay    time.Duration `yaml:"add_delay" env:"ROSTER_ADD_DELAY" env-default:"1s"`
	MutateDelay time.Duration `yaml:"mutate_delay" env:"ROSTER_MUTATE_DELAY" env-default:"500ms"`
}

// Load reads the YAML file at path, applies env overrides and defaults,
// and checks the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if cfg.Roster.MaxStudents <= 0 {
		return nil, errors.New("roster.max_students must be positive")
	}
	if cfg.Roster.AddDelay < 0 || cfg.Roster.MutateDelay < 0 {
		return nil, errors.New("roster delays must not be negative")
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
// It calls log.Fatal on any failure, so if it returns the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}
