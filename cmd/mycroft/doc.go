// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Mycroft is the command-line companion to the mycroft-core libraries.
// It derives and converts message bus envelopes (message), publishes
// telemetry batches and named metrics (metrics), and prints build
// information (version).
package main
