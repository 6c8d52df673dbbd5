// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geoloc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{
			name: "All fields",
			loc:  Location{Lat: ptr(49.0069), Lon: ptr(8.4037), Continent: "EU", Country: "DE", City: "Karlsruhe", AccuracyRadius: ptr(10)},
			want: "Karlsruhe, DE, EU 10 (49.0069, 8.4037)",
		},
		{
			name: "Coordinates only",
			loc:  Location{Lat: ptr(12.5), Lon: ptr(-70.0)},
			want: "(12.5, -70)",
		},
		{
			name: "Missing city",
			loc:  Location{Country: "DE", Continent: "EU"},
			want: "DE, EU",
		},
		{
			name: "Empty",
			loc:  Location{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("Location.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocation_JSONNulls(t *testing.T) {
	b, err := json.Marshal(Location{Continent: "EU", Country: "DE"})
	require.NoError(t, err)

	// absent numerics serialize as null, matching the trie file format
	assert.JSONEq(t, `{"lat":null,"lon":null,"continent":"EU","country":"DE","city":"","accuracy_radius":null}`, string(b))
}
