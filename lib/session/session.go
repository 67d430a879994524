// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jharbott/mycroft-core/lib/clock"
)

// DefaultExpiry is how long a session survives without activity.
const DefaultExpiry = 180 * time.Second

// Session is one conversation.
type Session struct {
	// ID is a random UUID string.
	ID string
	// Touched is the time of the last activity.
	Touched time.Time
	// Expiry is how long the session lives past Touched. Zero means
	// the session never expires.
	Expiry time.Duration
}

// Expired reports whether the session has outlived its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return s.Expiry > 0 && now.Sub(s.Touched) > s.Expiry
}

// Manager owns the current session. Safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	clock   clock.Clock
	expiry  time.Duration
	current *Session
	logger  *slog.Logger
}

// NewManager creates a Manager whose sessions expire after expiry.
// A nil logger means slog.Default().
func NewManager(expiry time.Duration, clk clock.Clock, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{clock: clk, expiry: expiry, logger: logger}
}

// Current returns the current session, starting a new one when there
// is none or the previous one expired.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if m.current == nil || m.current.Expired(now) {
		m.current = &Session{
			ID:      uuid.NewString(),
			Touched: now,
			Expiry:  m.expiry,
		}
		m.logger.Debug("new session", "session_id", m.current.ID)
	}
	return *m.current
}

// SessionID returns the id of the current session.
func (m *Manager) SessionID() string {
	return m.Current().ID
}

// Touch records activity on the current session, extending its life.
func (m *Manager) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Touched = m.clock.Now()
	}
}
