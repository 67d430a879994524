// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for mycroft-core
// components.
//
// Configuration is loaded from a single file specified by either the
// MYCROFT_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks and no automatic file
// search. Files ending in .conf, .json or .jsonc are JSON with
// comments (the mycroft.conf format, parsed with tidwall/jsonc); any
// other file is YAML.
//
// ${VAR} and ${VAR:-default} patterns in server.url are expanded after
// loading. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- opt_in, server, device and session sections
//   - [Default] -- returns a Config with built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other mycroft-core packages.
package config
