// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		failUntil int
		config    RetryConfig
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "Succeeds on first try",
			failUntil: 0,
			config:    RetryConfig{Count: 3, Delay: time.Millisecond},
			wantCalls: 1,
		},
		{
			name:      "Succeeds after two retries",
			failUntil: 2,
			config:    RetryConfig{Count: 3, Delay: time.Millisecond},
			wantCalls: 3,
		},
		{
			name:      "Gives up after exhausting retries",
			failUntil: 10,
			config:    RetryConfig{Count: 2, Delay: time.Millisecond},
			wantErr:   true,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			effector := func(context.Context) error {
				calls++
				if calls <= tt.failUntil {
					return errors.New("effector failed")
				}
				return nil
			}

			err := Retry(effector, tt.config)(t.Context())
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("Retry() calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func Test_getExpBackoff(t *testing.T) {
	tests := []struct {
		name      string
		delay     time.Duration
		iteration int
		want      time.Duration
	}{
		{name: "First iteration", delay: time.Second, iteration: 1, want: time.Second},
		{name: "Second iteration doubles", delay: time.Second, iteration: 2, want: 2 * time.Second},
		{name: "Fourth iteration", delay: time.Second, iteration: 4, want: 8 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExpBackoff(tt.delay, tt.iteration); got != tt.want {
				t.Errorf("getExpBackoff() = %v, want %v", got, tt.want)
			}
		})
	}
}
