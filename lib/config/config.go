// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "MYCROFT_CONFIG"

// Config is the master configuration.
type Config struct {
	// OptIn records whether the user agreed to share usage data.
	// Gates named metric reports.
	OptIn bool `yaml:"opt_in" json:"opt_in"`

	// Server configures the backend.
	Server ServerConfig `yaml:"server" json:"server"`

	// Device identifies this device to the backend.
	Device DeviceConfig `yaml:"device" json:"device"`

	// Session configures user-session tracking.
	Session SessionConfig `yaml:"session" json:"session"`
}

// ServerConfig configures the backend.
type ServerConfig struct {
	// URL is the backend base URL and the metrics collector endpoint.
	// Default: https://api.mycroft.ai
	URL string `yaml:"url" json:"url"`

	// Version is the API version path segment.
	// Default: v1
	Version string `yaml:"version" json:"version"`

	// Metrics enables publishing of aggregated telemetry.
	// Default: false
	Metrics bool `yaml:"metrics" json:"metrics"`
}

// DeviceConfig identifies this device.
type DeviceConfig struct {
	// UUID is the device id assigned at pairing.
	UUID string `yaml:"uuid" json:"uuid"`

	// AccessToken authenticates the device API.
	AccessToken string `yaml:"access_token" json:"access_token"`
}

// SessionConfig configures session tracking.
type SessionConfig struct {
	// TTL is the session expiry in seconds. Zero disables expiry.
	// Default: 180
	TTL int `yaml:"ttl" json:"ttl"`
}

// Expiry returns TTL as a duration.
func (s SessionConfig) Expiry() time.Duration {
	return time.Duration(s.TTL) * time.Second
}

// Default returns the default configuration. These defaults are the
// base the config file is merged into.
func Default() *Config {
	return &Config{
		OptIn: false,
		Server: ServerConfig{
			URL:     "https://api.mycroft.ai",
			Version: "v1",
			Metrics: false,
		},
		Session: SessionConfig{
			TTL: 180,
		},
	}
}

// Load loads configuration from the file named by MYCROFT_CONFIG.
// If the variable is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your mycroft.conf, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// [Default], and validates it.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile reads a single configuration file, merging into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".conf", ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns.
func (c *Config) expandVariables() {
	c.Server.URL = expandVars(c.Server.URL)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.URL != "" {
		parsed, err := url.Parse(c.Server.URL)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("server.url: %w", err))
		case parsed.Scheme != "http" && parsed.Scheme != "https":
			errs = append(errs, fmt.Errorf("server.url must be an http or https URL, got %q", c.Server.URL))
		}
	} else if c.Server.Metrics {
		errs = append(errs, fmt.Errorf("server.url is required when server.metrics is enabled"))
	}

	if c.Session.TTL < 0 {
		errs = append(errs, fmt.Errorf("session.ttl must not be negative, got %d", c.Session.TTL))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
