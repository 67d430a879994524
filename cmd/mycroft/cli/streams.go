// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
)

var stderr io.Writer = os.Stderr

// Streams carries the input and output a command uses.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StandardStreams returns the process's stdin, stdout and stderr.
func StandardStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// ReadInput resolves input data from either a file (the last element
// of args, if it names a regular file on disk) or in.
//
// Returns the input bytes and the args with any consumed file path
// removed. The caller validates the returned args.
func ReadInput(args []string, in io.Reader) ([]byte, []string, error) {
	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			data, err := os.ReadFile(candidate)
			if err != nil {
				return nil, nil, fmt.Errorf("read %s: %w", candidate, err)
			}
			return data, args[:length-1], nil
		}
	}

	if in == nil {
		return nil, nil, fmt.Errorf("no input file given and no stdin available")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, args, nil
}
