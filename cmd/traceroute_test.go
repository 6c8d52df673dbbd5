// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeStegii/pauls-tool-collection/internal/traceroute"
)

// fakeTracerouteScript emits a fixed traceroute output regardless of its
// arguments, so the command can be tested without a traceroute binary
// or network access.
const fakeTracerouteScript = `#!/bin/sh
echo "traceroute to example.com (93.184.216.34), 30 hops max, 60 byte packets"
echo " 1  _gateway (192.168.178.1)  0.500 ms  0.400 ms  0.600 ms"
echo " 2  * * *"
echo " 3  93.184.216.34 (93.184.216.34)  9.000 ms  9.100 ms  9.200 ms"
`

func TestTracerouteCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture requires a POSIX shell")
	}

	script := filepath.Join(t.TempDir(), "fake-traceroute")
	require.NoError(t, os.WriteFile(script, []byte(fakeTracerouteScript), 0o700))

	root := BuildCmd("test")
	root.SetIn(strings.NewReader("example.com\nexample.org\n"))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"traceroute", "--binary", script, "--workers", "2"})

	require.NoError(t, root.Execute())

	var results []traceroute.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 2)

	assert.Equal(t, "example.com", results[0].Target)
	assert.Equal(t, "example.org", results[1].Target)

	for _, res := range results {
		assert.Empty(t, res.Error)
		require.Len(t, res.Hops, 3)
		assert.Equal(t, "192.168.178.1", res.Hops[0].Addr)
		assert.Equal(t, float64(1), res.Hops[1].Loss)
		assert.True(t, res.Hops[2].Reached)
	}
}

func TestTracerouteCommand_InvalidProtocol(t *testing.T) {
	root := BuildCmd("test")
	root.SetIn(strings.NewReader("example.com\n"))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"traceroute", "--protocol", "carrier-pigeon"})

	err := root.Execute()
	require.Error(t, err)

	var invalid traceroute.ErrInvalidConfig
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "protocol", invalid.Field)
}
