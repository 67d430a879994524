// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the command tree for the mycroft tool.
//
// A [Command] is a node with either subcommands or a Run function (or
// both, in which case Run handles args that match no subcommand).
// Flags are declared lazily through a pflag.FlagSet constructor so that
// help output and typo suggestions can rebuild a clean set on demand.
// Unknown commands and flags produce "did you mean" suggestions based
// on edit distance.
//
// Commands read and write through [Streams] rather than the process
// file descriptors, so tests can drive the full tree with buffers.
package cli
