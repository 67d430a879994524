// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts time reads for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
