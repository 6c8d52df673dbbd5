// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"bufio"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
	"time"
)

// parseOutput parses the stdout of one traceroute invocation into hops.
// Lines that do not look like hop lines are skipped. The hop matching the
// destination address from the header line is marked as reached.
func parseOutput(out string) ([]Hop, error) {
	hops := []Hop{}
	dest := ""

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "traceroute to ") {
			dest = destinationAddr(line)
			continue
		}

		hop, ok := parseHopLine(line)
		if !ok {
			continue
		}
		hops = append(hops, hop)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan traceroute output: %w", err)
	}

	if dest != "" {
		for i := range hops {
			if hops[i].Addr == dest {
				hops[i].Reached = true
			}
		}
	}

	return hops, nil
}

// destinationAddr extracts the resolved destination address from the
// header line, e.g. "traceroute to example.com (93.184.216.34), ...".
func destinationAddr(line string) string {
	start := strings.Index(line, "(")
	end := strings.Index(line, ")")
	if start < 0 || end <= start {
		return ""
	}
	return line[start+1 : end]
}

// parseHopLine parses a single hop line such as
//
//	 3  de-fra.example.net (80.81.192.1)  5.12 ms  5.30 ms *
//	 5  * * *
//	 8  142.250.185.78  9.8 ms !X  9.9 ms
//
// The second return value is false when the line is not a hop line.
func parseHopLine(line string) (Hop, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Hop{}, false
	}

	ttl, err := strconv.Atoi(fields[0])
	if err != nil || ttl <= 0 {
		return Hop{}, false
	}

	hop := Hop{TTL: ttl}
	timeouts := 0

	for i := 1; i < len(fields); i++ {
		tok := fields[i]

		switch {
		case tok == "*":
			timeouts++
		case strings.HasPrefix(tok, "!"):
			// error annotation for the previous probe, e.g. !H or !X
		case i+1 < len(fields) && fields[i+1] == "ms":
			rtt, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return Hop{}, false
			}
			hop.RTTs = append(hop.RTTs, time.Duration(math.Round(rtt*float64(time.Millisecond))))
			i++
		case strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")"):
			// address of a "name (addr)" pair
			if hop.Addr == "" {
				hop.Addr = strings.Trim(tok, "()")
			}
		default:
			// bare address in numeric mode, or a reverse DNS name
			if net.ParseIP(tok) != nil {
				if hop.Addr == "" {
					hop.Addr = tok
				}
			} else if hop.Host == "" {
				hop.Host = tok
			}
		}
	}

	if probes := timeouts + len(hop.RTTs); probes > 0 {
		hop.Loss = float64(timeouts) / float64(probes)
	}

	return hop, true
}
