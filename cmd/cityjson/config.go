package main

import (
	"os"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// config holds the settings shared by every subcommand. Values come from the
// YAML file given with -config, then from the environment (including .env).
type config struct {
	RelativeCenter   bool `yaml:"relative_center"`
	ValidateGeometry bool `yaml:"validate_geometry"`
	SkipErrors       bool `yaml:"skip_errors"`
	Workers          int  `yaml:"workers"`
}

func defaultConfig() config {
	return config{
		ValidateGeometry: true,
		SkipErrors:       true,
		Workers:          runtime.NumCPU(),
	}
}

// loadConfig reads path, if set, over the defaults and applies CITYJSON_*
// environment overrides
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "can't read config '%s'", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "can't parse config '%s'", path)
		}
	}

	if err := envBool("CITYJSON_RELATIVE_CENTER", &cfg.RelativeCenter); err != nil {
		return cfg, err
	}
	if err := envBool("CITYJSON_VALIDATE_GEOMETRY", &cfg.ValidateGeometry); err != nil {
		return cfg, err
	}
	if err := envBool("CITYJSON_SKIP_ERRORS", &cfg.SkipErrors); err != nil {
		return cfg, err
	}
	if s := os.Getenv("CITYJSON_WORKERS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return cfg, errors.Wrap(err, "CITYJSON_WORKERS")
		}
		cfg.Workers = n
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

func envBool(name string, dst *bool) error {
	s := os.Getenv(name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return errors.Wrap(err, name)
	}
	*dst = v
	return nil
}
