// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geoloc

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strconv"

	"github.com/LeStegii/pauls-tool-collection/internal/logger"
)

// Column layout of the GeoLite2 City CSV exports.
const (
	blockColNetwork   = 0
	blockColGeonameID = 1
	blockColLatitude  = 7
	blockColLongitude = 8
	blockColAccuracy  = 9
	blockColumns      = 10

	locationColGeonameID = 0
	locationColContinent = 2
	locationColCountry   = 4
	locationColCity      = 10
	locationColumns      = 11
)

// blockRow is one parsed row of a blocks CSV.
type blockRow struct {
	geonameID int
	lat       *float64
	lon       *float64
	accuracy  *int
}

// place is one parsed row of the locations CSV.
type place struct {
	continent string
	country   string
	city      string
}

// BuildTrie parses the locations CSV and one or more blocks CSVs into a
// longest-prefix-match trie. Malformed rows are logged and skipped; a
// block whose geoname id has no locations row is still inserted with
// its coordinates only. Later blocks files overwrite earlier ones for
// the same prefix.
func BuildTrie(ctx context.Context, locationsPath string, blockPaths []string) (*Trie, error) {
	log := logger.FromContext(ctx)

	for _, path := range append([]string{locationsPath}, blockPaths...) {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil, ErrNotRegularFile{Path: path}
		}
	}

	blocks := map[netip.Prefix]blockRow{}
	for _, path := range blockPaths {
		if err := readCSV(ctx, path, func(row []string) error {
			return parseBlockRow(row, blocks)
		}); err != nil {
			return nil, err
		}
	}

	places := map[int]place{}
	if err := readCSV(ctx, locationsPath, func(row []string) error {
		return parseLocationRow(row, places)
	}); err != nil {
		return nil, err
	}

	trie := NewTrie()
	for prefix, row := range blocks {
		loc := Location{Lat: row.lat, Lon: row.lon, AccuracyRadius: row.accuracy}
		if pl, ok := places[row.geonameID]; ok && row.geonameID != 0 {
			loc.Continent = pl.continent
			loc.Country = pl.country
			loc.City = pl.city
		}
		if err := trie.Insert(prefix, loc); err != nil {
			return nil, fmt.Errorf("failed to insert block %s: %w", prefix, err)
		}
	}

	log.InfoContext(ctx, "Built location trie", "prefixes", trie.Len(), "places", len(places))
	return trie, nil
}

// readCSV streams the rows of one CSV file into parse, skipping the
// header row. Parse errors are warnings, not failures.
func readCSV(ctx context.Context, path string, parse func(row []string) error) error {
	log := logger.FromContext(ctx)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			log.WarnContext(ctx, "Skipping unreadable CSV row", "file", path, "error", err)
			continue
		}
		if header {
			header = false
			continue
		}
		if err := parse(row); err != nil {
			log.WarnContext(ctx, "Skipping malformed CSV row", "file", path, "row", fmt.Sprint(row), "error", err)
		}
	}
}

func parseBlockRow(row []string, into map[netip.Prefix]blockRow) error {
	if len(row) < blockColumns {
		return fmt.Errorf("expected at least %d columns, got %d", blockColumns, len(row))
	}

	prefix, err := netip.ParsePrefix(row[blockColNetwork])
	if err != nil {
		return fmt.Errorf("invalid network: %w", err)
	}

	var parsed blockRow
	if v := row[blockColGeonameID]; v != "" {
		parsed.geonameID, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid geoname id: %w", err)
		}
	}
	if parsed.lat, err = optionalFloat(row[blockColLatitude]); err != nil {
		return fmt.Errorf("invalid latitude: %w", err)
	}
	if parsed.lon, err = optionalFloat(row[blockColLongitude]); err != nil {
		return fmt.Errorf("invalid longitude: %w", err)
	}
	if parsed.accuracy, err = optionalInt(row[blockColAccuracy]); err != nil {
		return fmt.Errorf("invalid accuracy radius: %w", err)
	}

	into[prefix] = parsed
	return nil
}

func parseLocationRow(row []string, into map[int]place) error {
	if len(row) < locationColumns {
		return fmt.Errorf("expected at least %d columns, got %d", locationColumns, len(row))
	}

	id, err := strconv.Atoi(row[locationColGeonameID])
	if err != nil {
		return fmt.Errorf("invalid geoname id: %w", err)
	}

	into[id] = place{
		continent: row[locationColContinent],
		country:   row[locationColCountry],
		city:      row[locationColCity],
	}
	return nil
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
