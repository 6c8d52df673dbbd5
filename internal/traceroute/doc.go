// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package traceroute wraps the system traceroute binary and turns its
// textual output into structured per-hop records.
//
// It exposes a [Client] for tracing one or more targets with a shared
// [Config]. Each target results in one invocation of the external binary;
// when more than one worker is configured, invocations are dispatched
// across a bounded worker pool. A failed invocation surfaces as an error
// entry in the [Result] for that target instead of aborting the batch,
// and results always follow the input order of the targets.
//
// Typical usage:
//
//	client := traceroute.NewClient()
//	cfg    := traceroute.Config{Protocol: traceroute.ProtocolUDP, Queries: 3, MaxHops: 30, Workers: 4}
//	res, err := client.Run(ctx, []string{"example.com", "8.8.8.8"}, cfg)
//	// res holds one Result per target, in input order
package traceroute
