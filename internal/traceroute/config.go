// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"fmt"
	"time"
)

// DefaultBinary is the traceroute executable resolved via PATH when no
// explicit binary path is configured.
const DefaultBinary = "traceroute"

// Config is the shared configuration for a batch of traceroutes.
type Config struct {
	// Protocol is the probe protocol to use.
	Protocol Protocol `json:"protocol" yaml:"protocol" mapstructure:"protocol"`
	// Queries is the number of probes sent per hop.
	Queries int `json:"queries" yaml:"queries" mapstructure:"queries"`
	// MaxHops is the maximum TTL to probe.
	MaxHops int `json:"maxHops" yaml:"maxHops" mapstructure:"maxHops"`
	// Timeout bounds a single traceroute invocation. Zero means no bound
	// beyond what the binary itself enforces.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// Workers is the number of concurrent invocations.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
	// Binary is the path of the traceroute executable.
	Binary string `json:"binary" yaml:"binary" mapstructure:"binary"`
	// Numeric disables reverse DNS resolution of hop addresses.
	Numeric bool `json:"numeric" yaml:"numeric" mapstructure:"numeric"`
}

func (c *Config) Validate() error {
	if !c.Protocol.IsValid() {
		return ErrInvalidConfig{Field: "protocol", Reason: fmt.Sprintf("unknown protocol %q", string(c.Protocol))}
	}
	if c.Queries <= 0 {
		return ErrInvalidConfig{Field: "queries", Reason: "must be greater than 0"}
	}
	if c.MaxHops <= 0 || c.MaxHops > 255 {
		return ErrInvalidConfig{Field: "maxHops", Reason: "must be between 1 and 255"}
	}
	if c.Timeout < 0 {
		return ErrInvalidConfig{Field: "timeout", Reason: "must not be negative"}
	}
	if c.Workers <= 0 {
		return ErrInvalidConfig{Field: "workers", Reason: "must be greater than 0"}
	}
	return nil
}

// args builds the argument list for one invocation of the traceroute
// binary against the given target.
func (c *Config) args(target string) []string {
	args := []string{}
	if flag := c.Protocol.flag(); flag != "" {
		args = append(args, flag)
	}
	if c.Numeric {
		args = append(args, "-n")
	}
	args = append(args,
		"-q", fmt.Sprintf("%d", c.Queries),
		"-m", fmt.Sprintf("%d", c.MaxHops),
		target,
	)
	return args
}

// binary returns the configured executable path, falling back to
// DefaultBinary.
func (c *Config) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return DefaultBinary
}
