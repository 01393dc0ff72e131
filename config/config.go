package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/subtlepseudonym/solarpos"
)

const defaultListenAddr = ":9000"

type Config struct {
	Listen   string            `json:"listen" yaml:"listen"`
	Location solarpos.Location `json:"location" yaml:"location"`
	Jobs     []Job             `json:"jobs" yaml:"jobs"`
}

// Job logs the solar position on Schedule, which is either a standard
// cron spec or @noon, @sunrise or @sunset with an optional offset.
type Job struct {
	Name     string `json:"name" yaml:"name"`
	Schedule string `json:"schedule" yaml:"schedule"`
}

// Default is the config used when no file is given
func Default() *Config {
	return &Config{Listen: defaultListenAddr}
}

// Open reads a config file. Files ending in .yaml or .yml are decoded as
// YAML, anything else as JSON.
func Open(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()

	var format string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		format = "yaml"
	default:
		format = "json"
	}

	config, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	return config, nil
}

func Decode(r io.Reader, format string) (*Config, error) {
	var config Config

	var err error
	switch format {
	case "yaml":
		err = yaml.NewDecoder(r).Decode(&config)
	case "json":
		err = json.NewDecoder(r).Decode(&config)
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if config.Listen == "" {
		config.Listen = defaultListenAddr
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if !(c.Location.Latitude >= -90 && c.Location.Latitude <= 90) {
		return fmt.Errorf("latitude %v outside [-90, 90]", c.Location.Latitude)
	}
	if !(c.Location.Longitude >= -180 && c.Location.Longitude <= 180) {
		return fmt.Errorf("longitude %v outside [-180, 180]", c.Location.Longitude)
	}

	names := make(map[string]bool, len(c.Jobs))
	for _, job := range c.Jobs {
		if job.Name == "" {
			return fmt.Errorf("job with schedule %q has no name", job.Schedule)
		}
		if names[job.Name] {
			return fmt.Errorf("duplicate job name %q", job.Name)
		}
		names[job.Name] = true

		if _, err := solarpos.ParseSchedule(job.Schedule, c.Location); err != nil {
			return fmt.Errorf("job %q: %w", job.Name, err)
		}
	}

	return nil
}
