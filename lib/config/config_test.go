// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.OptIn {
		t.Error("expected opt_in=false by default")
	}
	if cfg.Server.URL != "https://api.mycroft.ai" {
		t.Errorf("expected server.url=https://api.mycroft.ai, got %s", cfg.Server.URL)
	}
	if cfg.Server.Metrics {
		t.Error("expected server.metrics=false by default")
	}
	if cfg.Session.Expiry() != 180*time.Second {
		t.Errorf("expected session expiry 180s, got %v", cfg.Session.Expiry())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_RequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when MYCROFT_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "MYCROFT_CONFIG environment variable not set") {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestLoad_WithEnvironmentVariable(t *testing.T) {
	path := writeConfig(t, "mycroft.yaml", `
opt_in: true
server:
  url: https://metrics.example.test/metric
  metrics: true
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.OptIn {
		t.Error("expected opt_in=true")
	}
	if cfg.Server.URL != "https://metrics.example.test/metric" || !cfg.Server.Metrics {
		t.Errorf("server = %+v", cfg.Server)
	}
	// Unset fields keep their defaults.
	if cfg.Server.Version != "v1" {
		t.Errorf("expected default version v1, got %q", cfg.Server.Version)
	}
}

func TestLoadFile_JSONWithComments(t *testing.T) {
	path := writeConfig(t, "mycroft.conf", `{
	// Backend and telemetry.
	"opt_in": true,
	"server": {
		"url": "https://api.example.test",
		"version": "v2",
		"metrics": true, /* trailing comma below is tolerated */
	},
	"device": {"uuid": "abc-123", "access_token": "secret"},
	"session": {"ttl": 60}
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !cfg.OptIn || !cfg.Server.Metrics {
		t.Errorf("opt_in/metrics not loaded: %+v", cfg)
	}
	if cfg.Server.Version != "v2" {
		t.Errorf("version = %q, want v2", cfg.Server.Version)
	}
	if cfg.Device.UUID != "abc-123" || cfg.Device.AccessToken != "secret" {
		t.Errorf("device = %+v", cfg.Device)
	}
	if cfg.Session.Expiry() != time.Minute {
		t.Errorf("session expiry = %v, want 1m", cfg.Session.Expiry())
	}
}

func TestLoadFile_ExpandsServerURL(t *testing.T) {
	t.Setenv("MYCROFT_TEST_HOST", "collector.internal")
	path := writeConfig(t, "mycroft.yaml", `
server:
  url: https://${MYCROFT_TEST_HOST}:${MYCROFT_TEST_PORT:-8443}/metrics
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if want := "https://collector.internal:8443/metrics"; cfg.Server.URL != want {
		t.Errorf("server.url = %q, want %q", cfg.Server.URL, want)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			file:    "bad.yaml",
			content: "server: [unterminated",
			wantErr: "parsing",
		},
		{
			name:    "malformed json",
			file:    "bad.conf",
			content: `{"server": }`,
			wantErr: "parsing",
		},
		{
			name:    "metrics without url",
			file:    "nourl.yaml",
			content: "server:\n  url: \"\"\n  metrics: true\n",
			wantErr: "server.url is required",
		},
		{
			name:    "non-http url",
			file:    "ftp.yaml",
			content: "server:\n  url: ftp://example.test\n",
			wantErr: "http or https",
		},
		{
			name:    "negative ttl",
			file:    "ttl.yaml",
			content: "session:\n  ttl: -5\n",
			wantErr: "session.ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
