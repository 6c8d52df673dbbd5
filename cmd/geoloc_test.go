// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeStegii/pauls-tool-collection/pkg/geoloc"
)

const testLocationsCSV = `geoname_id,locale_code,continent_code,continent_name,country_iso_code,country_name,subdivision_1_iso_code,subdivision_1_name,subdivision_2_iso_code,subdivision_2_name,city_name,metro_code,time_zone,is_in_european_union
2886242,en,EU,Europe,DE,Germany,BW,Baden-Wurttemberg,,,Karlsruhe,,Europe/Berlin,1
`

const testBlocksCSV = `network,geoname_id,registered_country_geoname_id,represented_country_geoname_id,is_anonymous_proxy,is_satellite_provider,postal_code,latitude,longitude,accuracy_radius,is_anycast
49.13.0.0/16,2886242,2921044,,0,0,76131,49.0069,8.4037,10,
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGeolocSetupAndQuery(t *testing.T) {
	dir := t.TempDir()
	locations := writeTestFile(t, dir, "locations.csv", testLocationsCSV)
	blocks := writeTestFile(t, dir, "blocks.csv", testBlocksCSV)
	trieFile := filepath.Join(dir, "geoloc.trie")

	setup := BuildCmd("test")
	setup.SetArgs([]string{"geoloc", "setup", locations, blocks, "--output", trieFile})
	require.NoError(t, setup.Execute())

	require.FileExists(t, trieFile)

	query := BuildCmd("test")
	query.SetIn(strings.NewReader("49.13.113.19\nnot-an-ip\n203.0.113.1\n"))
	var out, errOut bytes.Buffer
	query.SetOut(&out)
	query.SetErr(&errOut)
	query.SetArgs([]string{"geoloc", "query", "--input", trieFile})
	require.NoError(t, query.Execute())

	var resolved struct {
		IP       string          `json:"ip"`
		Location geoloc.Location `json:"location"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resolved))
	assert.Equal(t, "49.13.113.19", resolved.IP)
	assert.Equal(t, "Karlsruhe", resolved.Location.City)

	assert.Contains(t, errOut.String(), "Invalid IP address: not-an-ip")
	assert.Contains(t, errOut.String(), "No location found for IP: 203.0.113.1")
}

func TestGeolocSetup_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	locations := writeTestFile(t, dir, "locations.csv", testLocationsCSV)
	blocks := writeTestFile(t, dir, "blocks.csv", testBlocksCSV)

	setup := BuildCmd("test")
	setup.SetOut(&bytes.Buffer{})
	setup.SetErr(&bytes.Buffer{})
	// the output path is an existing directory, so the file cannot be created
	setup.SetArgs([]string{"geoloc", "setup", locations, blocks, "--output", dir})

	err := setup.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output file")
}

func TestGeolocQuery_MissingTrieFile(t *testing.T) {
	query := BuildCmd("test")
	query.SetIn(strings.NewReader("49.13.113.19\n"))
	query.SetOut(&bytes.Buffer{})
	query.SetErr(&bytes.Buffer{})
	query.SetArgs([]string{"geoloc", "query", "--input", filepath.Join(t.TempDir(), "missing.trie")})

	err := query.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
