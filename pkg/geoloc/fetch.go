// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geoloc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/LeStegii/pauls-tool-collection/internal/helper"
	"github.com/LeStegii/pauls-tool-collection/internal/logger"
)

// DefaultFetchTimeout bounds a single download attempt of a CSV file.
const DefaultFetchTimeout = 5 * time.Minute

// Fetcher downloads remote CSV files to temporary local files so the
// builder can treat every input as a path.
type Fetcher struct {
	client *http.Client
	retry  helper.RetryConfig
}

// NewFetcher creates a Fetcher with the given retry policy. A nil
// client falls back to a default client with DefaultFetchTimeout.
func NewFetcher(client *http.Client, retry helper.RetryConfig) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &Fetcher{client: client, retry: retry}
}

// IsURL reports whether the source should be fetched over HTTP instead
// of being read from the local filesystem.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch downloads src into a temporary file and returns its path. The
// caller is responsible for removing the file. Attempts are retried
// with exponential backoff per the configured retry policy.
func (f *Fetcher) Fetch(ctx context.Context, src string) (string, error) {
	log := logger.FromContext(ctx)

	tmp, err := os.CreateTemp("", "geoloc-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer tmp.Close()

	download := helper.Retry(func(ctx context.Context) error {
		return f.download(ctx, src, tmp)
	}, f.retry)

	if err := download(ctx); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to fetch %q: %w", src, err)
	}

	log.DebugContext(ctx, "Fetched CSV file", "source", src, "path", tmp.Name())
	return tmp.Name(), nil
}

// download performs a single download attempt, truncating the target
// file first so a retried attempt starts clean.
func (f *Fetcher) download(ctx context.Context, src string, tmp *os.File) error {
	if err := tmp.Truncate(0); err != nil {
		return err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %q", resp.Status)
	}

	_, err = io.Copy(tmp, resp.Body)
	return err
}
