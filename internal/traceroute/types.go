// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Protocol represents the probe protocol used for the traceroute.
type Protocol string

// Protocol constants for the traceroute.
const (
	ProtocolICMP Protocol = "icmp"
	ProtocolUDP  Protocol = "udp"
	ProtocolTCP  Protocol = "tcp"
)

func (p Protocol) String() string {
	switch p {
	case ProtocolICMP, ProtocolUDP, ProtocolTCP:
		return string(p)
	default:
		return "unknown"
	}
}

func (p Protocol) IsValid() bool {
	valid := []Protocol{ProtocolICMP, ProtocolUDP, ProtocolTCP}
	return slices.Contains(valid, p)
}

// flag returns the traceroute binary flag selecting the protocol.
// UDP is the binary's default and needs no flag.
func (p Protocol) flag() string {
	switch p {
	case ProtocolICMP:
		return "-I"
	case ProtocolTCP:
		return "-T"
	default:
		return ""
	}
}

// Hop is one intermediate router reported by the traceroute probes
// sent with a common TTL.
type Hop struct {
	// TTL is the time-to-live of the probes that produced this hop.
	TTL int `json:"ttl"`
	// Host is the reverse DNS name of the responding router, if any.
	Host string `json:"host,omitempty"`
	// Addr is the IP address of the responding router. Empty when
	// every probe for this TTL timed out.
	Addr string `json:"addr,omitempty"`
	// RTTs holds the round-trip time of each answered probe.
	RTTs []time.Duration `json:"-"`
	// Loss is the fraction of probes for this TTL that went unanswered.
	Loss float64 `json:"loss"`
	// Reached reports whether this hop is the traced destination.
	Reached bool `json:"reached"`
}

func (h Hop) MarshalJSON() ([]byte, error) {
	type alias Hop
	rtts := make([]string, len(h.RTTs))
	for i, rtt := range h.RTTs {
		rtts[i] = rtt.String()
	}
	return json.Marshal(&struct {
		alias
		RTTs []string `json:"rtt"`
	}{
		alias: alias(h),
		RTTs:  rtts,
	})
}

func (h Hop) String() string {
	reached := ""
	if h.Reached {
		reached = "  (reached)"
	}

	const maxNameLength = 45
	name := h.Host
	if name == "" || len(name) > maxNameLength {
		name = h.Addr
	}
	if name == "" {
		name = "*"
	}

	latency := "*"
	if len(h.RTTs) > 0 {
		latency = h.RTTs[0].String()
	}

	return fmt.Sprintf("%-2d  %-45.45s  %s%s", h.TTL, name, latency, reached)
}

// Result is the outcome of tracing a single target. Exactly one of
// Hops or Error is meaningful: a failed invocation carries the error
// message and no hops.
type Result struct {
	// Target is the host the traceroute was run against.
	Target string `json:"target"`
	// Hops is the sequence of hops towards the target, ordered by TTL.
	Hops []Hop `json:"hops"`
	// Error holds the invocation failure for this target, if any.
	Error string `json:"error,omitempty"`
}
