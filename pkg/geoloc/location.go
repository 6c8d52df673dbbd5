// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geoloc

import (
	"fmt"
	"strings"
)

// Location is a geographic location resolved for an IP prefix.
// Numeric fields are pointers so that absent values serialize as null
// and survive a round trip through the trie file.
type Location struct {
	// Lat is the approximate latitude of the prefix.
	Lat *float64 `json:"lat"`
	// Lon is the approximate longitude of the prefix.
	Lon *float64 `json:"lon"`
	// Continent is the two-letter continent code, e.g. "EU".
	Continent string `json:"continent"`
	// Country is the ISO 3166-1 country code, e.g. "DE".
	Country string `json:"country"`
	// City is the city name in the database locale.
	City string `json:"city"`
	// AccuracyRadius is the radius in kilometers around the coordinates
	// within which the address is likely located.
	AccuracyRadius *int `json:"accuracy_radius"`
}

// String renders the location in a compact human-readable form, e.g.
// "Karlsruhe, DE, EU 10 (49.0, 8.4)". Absent fields are omitted.
func (l Location) String() string {
	parts := []string{}
	for _, p := range []string{l.City, l.Country, l.Continent} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	s := strings.Join(parts, ", ")
	if l.AccuracyRadius != nil {
		s = strings.TrimSpace(s + " " + fmt.Sprintf("%d", *l.AccuracyRadius))
	}
	if l.Lat != nil && l.Lon != nil {
		s = strings.TrimSpace(s + " " + fmt.Sprintf("(%v, %v)", *l.Lat, *l.Lon))
	}
	return s
}
