// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"

	"github.com/jharbott/mycroft-core/lib/config"
)

// LoadConfig resolves configuration for a command. An explicit path
// (from --config) wins; otherwise MYCROFT_CONFIG is consulted; with
// neither, the built-in defaults are used.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv(config.EnvironmentVariable) != "" {
		return config.Load()
	}
	return config.Default(), nil
}
