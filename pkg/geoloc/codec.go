// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geoloc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/netip"
	"strings"
)

// Export writes the trie as one "<prefix>,<json location>" line per
// stored prefix.
func Export(w io.Writer, t *Trie) error {
	bw := bufio.NewWriter(w)

	for _, entry := range t.Entries() {
		data, err := json.Marshal(entry.Location)
		if err != nil {
			return fmt.Errorf("failed to encode location for %s: %w", entry.Prefix, err)
		}
		if _, err := fmt.Fprintf(bw, "%s,%s\n", entry.Prefix, data); err != nil {
			return fmt.Errorf("failed to write trie entry: %w", err)
		}
	}

	return bw.Flush()
}

// Import rebuilds a trie from the line format written by Export.
func Import(r io.Reader) (*Trie, error) {
	trie := NewTrie()

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		prefixPart, locPart, found := strings.Cut(text, ",")
		if !found {
			return nil, fmt.Errorf("malformed trie entry on line %d", line)
		}

		prefix, err := netip.ParsePrefix(prefixPart)
		if err != nil {
			return nil, fmt.Errorf("invalid prefix on line %d: %w", line, err)
		}

		var loc Location
		if err := json.Unmarshal([]byte(locPart), &loc); err != nil {
			return nil, fmt.Errorf("invalid location on line %d: %w", line, err)
		}

		if err := trie.Insert(prefix, loc); err != nil {
			return nil, fmt.Errorf("failed to insert prefix on line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trie file: %w", err)
	}

	return trie, nil
}
