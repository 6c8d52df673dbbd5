// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `traceroute to example.com (93.184.216.34), 30 hops max, 60 byte packets
 1  _gateway (192.168.178.1)  0.419 ms  0.389 ms  0.366 ms
 2  * * *
 3  de-fra01.example.net (80.81.192.1)  5.120 ms  5.300 ms *
 4  93.184.216.34 (93.184.216.34)  9.800 ms  9.900 ms  10.000 ms
`

const numericOutput = `traceroute to 8.8.8.8 (8.8.8.8), 30 hops max, 60 byte packets
 1  192.168.178.1  0.500 ms  0.400 ms
 2  8.8.8.8  7.000 ms !X  7.100 ms
`

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []Hop
	}{
		{
			name: "Standard output with names and timeouts",
			out:  sampleOutput,
			want: []Hop{
				{
					TTL:  1,
					Host: "_gateway",
					Addr: "192.168.178.1",
					RTTs: []time.Duration{419 * time.Microsecond, 389 * time.Microsecond, 366 * time.Microsecond},
				},
				{
					TTL:  2,
					Loss: 1,
				},
				{
					TTL:  3,
					Host: "de-fra01.example.net",
					Addr: "80.81.192.1",
					RTTs: []time.Duration{5120 * time.Microsecond, 5300 * time.Microsecond},
					Loss: 1.0 / 3.0,
				},
				{
					TTL:     4,
					Host:    "",
					Addr:    "93.184.216.34",
					RTTs:    []time.Duration{9800 * time.Microsecond, 9900 * time.Microsecond, 10 * time.Millisecond},
					Reached: true,
				},
			},
		},
		{
			name: "Numeric output with annotation",
			out:  numericOutput,
			want: []Hop{
				{
					TTL:  1,
					Addr: "192.168.178.1",
					RTTs: []time.Duration{500 * time.Microsecond, 400 * time.Microsecond},
				},
				{
					TTL:     2,
					Addr:    "8.8.8.8",
					RTTs:    []time.Duration{7 * time.Millisecond, 7100 * time.Microsecond},
					Reached: true,
				},
			},
		},
		{
			name: "Empty output",
			out:  "",
			want: []Hop{},
		},
		{
			name: "Garbage lines are skipped",
			out:  "something went wrong\nnot a hop line\n",
			want: []Hop{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOutput(tt.out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_parseHopLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Hop
		wantOk bool
	}{
		{
			name:   "Multiple responders keep the first address",
			line:   "4  142.250.185.78 (142.250.185.78)  9.800 ms 142.250.185.79 (142.250.185.79)  9.900 ms  10.000 ms",
			want:   Hop{TTL: 4, Addr: "142.250.185.78", RTTs: []time.Duration{9800 * time.Microsecond, 9900 * time.Microsecond, 10 * time.Millisecond}},
			wantOk: true,
		},
		{
			name:   "All probes timed out",
			line:   "7  * * *",
			want:   Hop{TTL: 7, Loss: 1},
			wantOk: true,
		},
		{
			name:   "Not a hop line",
			line:   "traceroute: unknown host",
			wantOk: false,
		},
		{
			name:   "Single field",
			line:   "3",
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseHopLine(tt.line)
			if ok != tt.wantOk {
				t.Fatalf("parseHopLine() ok = %v, want %v", ok, tt.wantOk)
			}
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func Test_destinationAddr(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "IPv4 destination",
			line: "traceroute to example.com (93.184.216.34), 30 hops max, 60 byte packets",
			want: "93.184.216.34",
		},
		{
			name: "IPv6 destination",
			line: "traceroute to example.com (2606:2800:220:1:248:1893:25c8:1946), 30 hops max, 80 byte packets",
			want: "2606:2800:220:1:248:1893:25c8:1946",
		},
		{
			name: "No parentheses",
			line: "traceroute to example.com, 30 hops max",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := destinationAddr(tt.line); got != tt.want {
				t.Errorf("destinationAddr() = %v, want %v", got, tt.want)
			}
		})
	}
}
