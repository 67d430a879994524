// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package messagebus

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every [*InvalidArgumentError]:
//
//	if errors.Is(err, messagebus.ErrInvalidArgument) { ... }
var ErrInvalidArgument = errors.New("messagebus: invalid argument")

// InvalidArgumentError reports a lineage operation called with an
// argument it cannot route with.
type InvalidArgumentError struct {
	// Operation is the method that rejected the argument ("reply").
	Operation string
	// Argument names the rejected parameter ("data").
	Argument string
	// Reason describes what was wrong with it.
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("messagebus: %s: invalid %s: %s", e.Operation, e.Argument, e.Reason)
}

// Is reports whether target is ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// EncodingError reports a message whose data or context holds values
// the wire format cannot represent (channels, functions, NaN in JSON).
type EncodingError struct {
	Format Format
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("messagebus: encoding %s message: %v", e.Format, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DecodingError reports input that is not a well-formed message in the
// given format.
type DecodingError struct {
	Format Format
	Err    error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("messagebus: decoding %s message: %v", e.Format, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }
