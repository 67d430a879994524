// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"
	"fmt"
)

// ResponseError reports a non-2xx answer from the collector or the
// device API. Callers can use errors.As to inspect the status:
//
//	var responseErr *ResponseError
//	if errors.As(err, &responseErr) && responseErr.StatusCode == 401 { ... }
type ResponseError struct {
	// URL is the endpoint that was called.
	URL string
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Body is the (bounded) response body, for diagnostics.
	Body string
}

func (e *ResponseError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("metrics: %s returned HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("metrics: %s returned HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// ErrInvalidMetricName is returned by [Reporter.ReportMetric] for names
// that are not letters and hyphens.
var ErrInvalidMetricName = errors.New("metrics: metric name must contain only letters and hyphens")
