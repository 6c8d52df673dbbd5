// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/LeStegii/pauls-tool-collection/internal/logger"
)

var (
	_ Client  = (*execClient)(nil)
	_ invoker = (*binaryInvoker)(nil)
)

// Client is able to run a traceroute to one or more targets.
type Client interface {
	// Run traces the given targets with the shared configuration.
	// The returned slice has one Result per target, in input order;
	// per-target failures are carried in the Result, not as an error.
	Run(ctx context.Context, targets []string, cfg Config) ([]Result, error)
}

// invoker abstracts the execution of the external binary so the client
// can be tested without a traceroute installation.
type invoker interface {
	invoke(ctx context.Context, binary string, args []string) (string, error)
}

type execClient struct {
	invoker invoker
}

func NewClient() Client {
	return &execClient{invoker: binaryInvoker{}}
}

func (c *execClient) Run(ctx context.Context, targets []string, cfg Config) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	// Index-addressed so completion order cannot reorder the output.
	results := make([]Result, len(targets))

	p := pool.New().WithMaxGoroutines(cfg.Workers)
	for i, target := range targets {
		p.Go(func() {
			results[i] = c.trace(ctx, target, cfg)
		})
	}
	p.Wait()

	log.DebugContext(ctx, "Finished traceroute batch", "targets", len(targets))
	return results, nil
}

// trace runs one invocation of the traceroute binary and parses its output.
func (c *execClient) trace(ctx context.Context, target string, cfg Config) Result {
	log := logger.FromContext(ctx)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	out, err := c.invoker.invoke(ctx, cfg.binary(), cfg.args(target))
	if err != nil {
		log.WarnContext(ctx, "Traceroute invocation failed", "target", target, "error", err)
		return Result{Target: target, Error: ErrInvocation{Target: target, Err: err}.Error()}
	}

	hops, err := parseOutput(out)
	if err != nil {
		log.WarnContext(ctx, "Failed to parse traceroute output", "target", target, "error", err)
		return Result{Target: target, Error: ErrInvocation{Target: target, Err: err}.Error()}
	}

	return Result{Target: target, Hops: hops}
}

// binaryInvoker runs the traceroute binary via os/exec.
type binaryInvoker struct{}

func (binaryInvoker) invoke(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}

	return stdout.String(), nil
}
