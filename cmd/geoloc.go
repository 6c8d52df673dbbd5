// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/netip"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/LeStegii/pauls-tool-collection/internal/helper"
	"github.com/LeStegii/pauls-tool-collection/internal/logger"
	"github.com/LeStegii/pauls-tool-collection/pkg/api"
	"github.com/LeStegii/pauls-tool-collection/pkg/geoloc"
)

// Default GeoLite2 City CSV file names, used when setup is called
// without arguments.
const (
	defaultLocationsCSV = "GeoLite2-City-Locations-en.csv"
	defaultBlocksV4CSV  = "GeoLite2-City-Blocks-IPv4.csv"
	defaultBlocksV6CSV  = "GeoLite2-City-Blocks-IPv6.csv"

	defaultTrieFile = "geoloc.trie"
)

// NewCmdGeoloc creates the geoloc command group.
func NewCmdGeoloc() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geoloc",
		Short: "IP geolocation lookups backed by a longest-prefix-match trie",
	}

	cmd.AddCommand(NewCmdGeolocSetup())
	cmd.AddCommand(NewCmdGeolocQuery())
	cmd.AddCommand(NewCmdGeolocServe())
	return cmd
}

// NewCmdGeolocSetup creates the setup command, which builds the trie
// from MaxMind CSV exports and serializes it to a file.
func NewCmdGeolocSetup() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup [locations.csv] [blocks.csv...]",
		Short: "Build the location trie from GeoLite2 City CSV files",
		Long: "Builds a longest-prefix-match trie from a locations CSV and one or more\n" +
			"blocks CSVs and writes it to a single file for later queries.\n" +
			"Arguments may be local paths or http(s) URLs; URLs are fetched first.",
		Args: cobra.ArbitraryArgs,
		RunE: runGeolocSetup,
	}

	cmd.Flags().StringP("output", "o", defaultTrieFile, "output trie file")
	_ = viper.BindPFlag("geoloc.output", cmd.Flags().Lookup("output"))

	return cmd
}

func runGeolocSetup(cmd *cobra.Command, args []string) error {
	ctx := logger.IntoContext(cmd.Context(), logger.NewLogger())
	log := logger.FromContext(ctx)

	locations := defaultLocationsCSV
	blocks := []string{defaultBlocksV4CSV, defaultBlocksV6CSV}
	if len(args) > 0 {
		locations = args[0]
	}
	if len(args) > 1 {
		blocks = args[1:]
	}

	fetcher := geoloc.NewFetcher(nil, helper.RetryConfig{Count: 3, Delay: time.Second})
	resolve := func(src string) (string, error) {
		if !geoloc.IsURL(src) {
			return src, nil
		}
		path, err := fetcher.Fetch(ctx, src)
		if err != nil {
			return "", err
		}
		cobra.OnFinalize(func() { _ = os.Remove(path) })
		return path, nil
	}

	locationsPath, err := resolve(locations)
	if err != nil {
		return err
	}
	blockPaths := make([]string, len(blocks))
	for i, block := range blocks {
		if blockPaths[i], err = resolve(block); err != nil {
			return err
		}
	}

	trie, err := geoloc.BuildTrie(ctx, locationsPath, blockPaths)
	if err != nil {
		return fmt.Errorf("failed to build trie: %w", err)
	}

	output := viper.GetString("geoloc.output")
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := geoloc.Export(f, trie); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write trie: %w", err)
	}
	// a failed close can mean a truncated trie file, so it is not deferred
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	log.InfoContext(ctx, "Wrote location trie", "file", output, "prefixes", trie.Len())
	return nil
}

// NewCmdGeolocQuery creates the query command, which resolves IP
// addresses read from stdin against a previously built trie.
func NewCmdGeolocQuery() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Resolve IP addresses read from stdin against a built trie",
		// both query and serve carry an input flag, so the binding happens
		// per execution instead of at construction time
		PreRun: func(cmd *cobra.Command, _ []string) {
			_ = viper.BindPFlag("geoloc.input", cmd.Flags().Lookup("input"))
		},
		RunE: runGeolocQuery,
	}

	cmd.Flags().StringP("input", "i", defaultTrieFile, "input trie file")

	return cmd
}

func runGeolocQuery(cmd *cobra.Command, _ []string) error {
	trie, err := loadTrie(viper.GetString("geoloc.input"))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		addr, err := netip.ParseAddr(line)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Invalid IP address: %s\n", line)
			continue
		}

		loc, err := trie.Lookup(addr)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "No location found for IP: %s\n", line)
			continue
		}

		if err := enc.Encode(struct {
			IP       string          `json:"ip"`
			Location geoloc.Location `json:"location"`
		}{IP: line, Location: loc}); err != nil {
			return fmt.Errorf("failed to encode location: %w", err)
		}
	}

	return scanner.Err()
}

// NewCmdGeolocServe creates the serve command, which answers lookups
// over HTTP against a previously built trie.
func NewCmdGeolocServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve lookups against a built trie over HTTP",
		PreRun: func(cmd *cobra.Command, _ []string) {
			_ = viper.BindPFlag("geoloc.input", cmd.Flags().Lookup("input"))
			_ = viper.BindPFlag("geoloc.address", cmd.Flags().Lookup("address"))
		},
		RunE: runGeolocServe,
	}

	cmd.Flags().StringP("input", "i", defaultTrieFile, "input trie file")
	cmd.Flags().StringP("address", "a", ":8080", "address to listen on")

	return cmd
}

func runGeolocServe(cmd *cobra.Command, _ []string) error {
	ctx := logger.IntoContext(cmd.Context(), logger.NewLogger())
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trie, err := loadTrie(viper.GetString("geoloc.input"))
	if err != nil {
		return err
	}

	cfg := api.Config{Address: viper.GetString("geoloc.address")}
	if err := cfg.Validate(); err != nil {
		return err
	}

	return api.New(cfg, trie).Run(ctx)
}

// loadTrie reads a serialized trie from disk. A missing file is fatal
// with a hint to run setup first.
func loadTrie(path string) (*geoloc.Trie, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("trie file %q does not exist, run \"ptc geoloc setup\" first", path)
		}
		return nil, fmt.Errorf("failed to open trie file: %w", err)
	}
	defer f.Close()

	trie, err := geoloc.Import(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load trie from %q: %w", path, err)
	}
	return trie, nil
}
