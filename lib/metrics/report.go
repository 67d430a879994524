// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/jharbott/mycroft-core/lib/config"
	"github.com/jharbott/mycroft-core/lib/netutil"
)

// DeviceAPI is the slice of the backend device API used for one-off
// named metrics.
type DeviceAPI interface {
	ReportMetric(ctx context.Context, name string, data map[string]any) error
}

var metricNamePattern = regexp.MustCompile(`^[A-Za-z-]+$`)

// Reporter sends named metrics through a DeviceAPI, but only for users
// who opted in to data collection.
type Reporter struct {
	optIn  bool
	device DeviceAPI
}

// NewReporter creates a Reporter. When optIn is false every report is
// dropped without calling device.
func NewReporter(optIn bool, device DeviceAPI) *Reporter {
	return &Reporter{optIn: optIn, device: device}
}

// ReportMetric validates name (letters and hyphens only) and forwards
// the metric to the device API when the user has opted in. data must
// be JSON-encodable.
func (r *Reporter) ReportMetric(ctx context.Context, name string, data map[string]any) error {
	if !metricNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidMetricName, name)
	}
	if !r.optIn {
		return nil
	}
	return r.device.ReportMetric(ctx, name, data)
}

// DeviceAPIConfig holds configuration for creating an HTTPDeviceAPI.
type DeviceAPIConfig struct {
	// ServerURL is the backend base URL (e.g., "https://api.mycroft.ai").
	ServerURL string
	// Version is the API version path segment (e.g., "v1").
	Version string
	// DeviceUUID identifies this device to the backend.
	DeviceUUID string
	// AccessToken authenticates the device. Sent as a bearer token
	// when non-empty.
	AccessToken string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
}

// HTTPDeviceAPI reports metrics to
// <server>/<version>/device/<uuid>/metric/<name>.
type HTTPDeviceAPI struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewHTTPDeviceAPI creates a device API client.
func NewHTTPDeviceAPI(config DeviceAPIConfig) (*HTTPDeviceAPI, error) {
	if config.ServerURL == "" {
		return nil, fmt.Errorf("metrics: ServerURL is required")
	}
	if _, err := url.Parse(config.ServerURL); err != nil {
		return nil, fmt.Errorf("metrics: invalid ServerURL %q: %w", config.ServerURL, err)
	}
	if config.DeviceUUID == "" {
		return nil, fmt.Errorf("metrics: DeviceUUID is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// Built by concatenation so escaped path segments are not
	// re-encoded by url.URL.
	baseURL := strings.TrimRight(config.ServerURL, "/")
	if config.Version != "" {
		baseURL += "/" + url.PathEscape(config.Version)
	}
	baseURL += "/device/" + url.PathEscape(config.DeviceUUID)

	return &HTTPDeviceAPI{
		baseURL:     baseURL,
		accessToken: config.AccessToken,
		httpClient:  httpClient,
	}, nil
}

// NewHTTPDeviceAPIFromConfig creates a device API client from the
// server and device sections of cfg.
func NewHTTPDeviceAPIFromConfig(cfg *config.Config) (*HTTPDeviceAPI, error) {
	return NewHTTPDeviceAPI(DeviceAPIConfig{
		ServerURL:   cfg.Server.URL,
		Version:     cfg.Server.Version,
		DeviceUUID:  cfg.Device.UUID,
		AccessToken: cfg.Device.AccessToken,
	})
}

// ReportMetric POSTs data as JSON to the metric endpoint for name.
func (d *HTTPDeviceAPI) ReportMetric(ctx context.Context, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("metrics: encoding metric %q: %w", name, err)
	}

	endpoint := d.baseURL + "/metric/" + url.PathEscape(name)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("metrics: creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	if d.accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+d.accessToken)
	}

	response, err := d.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("metrics: reporting %q: %w", name, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &ResponseError{
			URL:        endpoint,
			StatusCode: response.StatusCode,
			Body:       netutil.ErrorBody(response.Body),
		}
	}
	_, err = netutil.ReadResponse(response.Body)
	return err
}
