// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jharbott/mycroft-core/lib/config"
	"github.com/jharbott/mycroft-core/lib/netutil"
)

// SessionProvider supplies the id of the current user session.
type SessionProvider interface {
	SessionID() string
}

// HTTPPublisherConfig holds configuration for creating an HTTPPublisher.
type HTTPPublisherConfig struct {
	// URL is the collector endpoint. Required when Enabled is true.
	URL string

	// Enabled turns on network publishing. When false, Publish only
	// stamps the session id and returns.
	Enabled bool

	// Sessions supplies session ids for payloads that lack one. If
	// nil, session ids are left empty.
	Sessions SessionProvider

	// HTTPClient is used for all requests. If nil, a client that skips
	// TLS certificate verification is used.
	//
	// TODO: verify collector certificates once every deployed server
	// URL presents a valid chain.
	HTTPClient *http.Client

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// HTTPPublisher posts metric snapshots to the collector as JSON.
type HTTPPublisher struct {
	url        string
	enabled    bool
	sessions   SessionProvider
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPPublisher creates a Publisher that posts to config.URL.
func NewHTTPPublisher(config HTTPPublisherConfig) (*HTTPPublisher, error) {
	if config.Enabled {
		if config.URL == "" {
			return nil, fmt.Errorf("metrics: URL is required when publishing is enabled")
		}
		if _, err := url.Parse(config.URL); err != nil {
			return nil, fmt.Errorf("metrics: invalid URL %q: %w", config.URL, err)
		}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = insecureClient()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPPublisher{
		url:        config.URL,
		enabled:    config.Enabled,
		sessions:   config.Sessions,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// NewHTTPPublisherFromConfig creates an HTTPPublisher targeting
// server.url, enabled by server.metrics.
func NewHTTPPublisherFromConfig(cfg *config.Config, sessions SessionProvider, logger *slog.Logger) (*HTTPPublisher, error) {
	return NewHTTPPublisher(HTTPPublisherConfig{
		URL:      cfg.Server.URL,
		Enabled:  cfg.Server.Metrics,
		Sessions: sessions,
		Logger:   logger,
	})
}

// Enabled reports whether Publish performs network I/O.
func (p *HTTPPublisher) Enabled() bool {
	return p.enabled
}

// Publish stamps the current session id into payload if it has none,
// then POSTs it to the collector. When publishing is disabled the call
// returns nil without touching the network. Transport failures and
// non-2xx responses are returned to the caller, which for a flushed
// snapshot is the detached publish goroutine.
func (p *HTTPPublisher) Publish(ctx context.Context, payload *Payload) error {
	if payload.SessionID == "" && p.sessions != nil {
		payload.SessionID = p.sessions.SessionID()
	}
	if !p.enabled {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("metrics: encoding payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("metrics: creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := p.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("metrics: posting to %s: %w", p.url, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &ResponseError{
			URL:        p.url,
			StatusCode: response.StatusCode,
			Body:       netutil.ErrorBody(response.Body),
		}
	}
	if _, err := netutil.ReadResponse(response.Body); err != nil {
		return fmt.Errorf("metrics: reading response from %s: %w", p.url, err)
	}

	p.logger.Debug("metrics published",
		"url", p.url,
		"session_id", payload.SessionID,
		"entries", payload.Entries(),
	)
	return nil
}

// insecureClient returns an HTTP client that does not verify server
// certificates.
func insecureClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // collector certificates are not verified
	return &http.Client{Transport: transport}
}
