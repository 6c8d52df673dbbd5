// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/LeStegii/pauls-tool-collection/internal/logger"
	"github.com/LeStegii/pauls-tool-collection/internal/traceroute"
)

// NewCmdTraceroute creates the traceroute command, which traces routes
// to hosts read from stdin and emits a JSON array of results.
func NewCmdTraceroute() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traceroute",
		Short: "Trace routes to hosts read from stdin",
		Long: "Reads newline-delimited target hosts from stdin, invokes the system\n" +
			"traceroute binary for each of them (optionally in parallel) and emits\n" +
			"a JSON array of per-target hop sequences on stdout.",
		RunE: runTraceroute,
	}

	cmd.Flags().IntP("queries", "q", 3, "number of probes per hop")
	cmd.Flags().IntP("max-hops", "m", 30, "maximum number of hops to probe")
	cmd.Flags().IntP("workers", "w", 1, "number of concurrent traceroute invocations")
	cmd.Flags().String("protocol", "udp", "probe protocol (icmp|udp|tcp)")
	cmd.Flags().Duration("timeout", 0, "timeout per invocation (0 = only the binary's own limits)")
	cmd.Flags().String("binary", traceroute.DefaultBinary, "path of the traceroute executable")
	cmd.Flags().BoolP("numeric", "n", false, "do not resolve hop addresses to names")

	_ = viper.BindPFlag("traceroute.queries", cmd.Flags().Lookup("queries"))
	_ = viper.BindPFlag("traceroute.maxHops", cmd.Flags().Lookup("max-hops"))
	_ = viper.BindPFlag("traceroute.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("traceroute.protocol", cmd.Flags().Lookup("protocol"))
	_ = viper.BindPFlag("traceroute.timeout", cmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("traceroute.binary", cmd.Flags().Lookup("binary"))
	_ = viper.BindPFlag("traceroute.numeric", cmd.Flags().Lookup("numeric"))

	return cmd
}

func runTraceroute(cmd *cobra.Command, _ []string) error {
	ctx := logger.IntoContext(cmd.Context(), logger.NewLogger())

	cfg := traceroute.Config{
		Protocol: traceroute.Protocol(viper.GetString("traceroute.protocol")),
		Queries:  viper.GetInt("traceroute.queries"),
		MaxHops:  viper.GetInt("traceroute.maxHops"),
		Timeout:  viper.GetDuration("traceroute.timeout"),
		Workers:  viper.GetInt("traceroute.workers"),
		Binary:   viper.GetString("traceroute.binary"),
		Numeric:  viper.GetBool("traceroute.numeric"),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	targets, err := readLines(cmd)
	if err != nil {
		return fmt.Errorf("failed to read targets: %w", err)
	}

	results, err := traceroute.NewClient().Run(ctx, targets, cfg)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

// readLines reads non-empty, trimmed lines from the command's stdin.
func readLines(cmd *cobra.Command) ([]string, error) {
	lines := []string{}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
