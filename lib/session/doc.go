// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package session tracks the current user-interaction session.
//
// A session groups the utterances and responses of one conversation.
// Its id is a random UUID that telemetry payloads carry as
// "session_id" so the collector can correlate them. A session expires
// when it has not been touched for its expiry interval;
// [Manager.Current] then starts a new one.
package session
