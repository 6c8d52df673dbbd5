// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import "fmt"

// ErrInvalidConfig is returned when a configuration field is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid traceroute configuration field %q: %s", e.Field, e.Reason)
}

// ErrInvocation is returned when the traceroute binary could not be run
// or exited with an error for a target.
type ErrInvocation struct {
	Target string
	Err    error
}

func (e ErrInvocation) Error() string {
	return fmt.Sprintf("traceroute invocation for %q failed: %v", e.Target, e.Err)
}

func (e ErrInvocation) Unwrap() error {
	return e.Err
}
