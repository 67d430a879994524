// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for mycroft-core
// binaries.
//
// Three package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// [Short] is the value the metrics aggregator stamps into every
// telemetry snapshot as the "version" attribute. [Info] is the
// --version output of the command-line tool.
package version
