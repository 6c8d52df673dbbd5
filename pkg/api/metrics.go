// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Lookup outcome label values.
const (
	outcomeHit     = "hit"
	outcomeMiss    = "miss"
	outcomeInvalid = "invalid"
)

// metrics holds the metric collectors of the lookup server.
type metrics struct {
	registry *prometheus.Registry
	lookups  *prometheus.CounterVec
}

// newMetrics initializes the metric collectors of the lookup server.
func newMetrics() metrics {
	m := metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geoloc_lookups_total",
				Help: "Total number of lookup requests by outcome.",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		m.lookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}
