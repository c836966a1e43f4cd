package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrvill/Geodesic-EOM-deriver/internal/preset"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/testutil"
)

func TestCheckSchwarzschildPasses(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"schwarzschild"})

	err := cmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "inverse-identity")
	assert.Contains(t, out, "christoffel-symmetry")
	assert.Contains(t, out, "metric-compatibility")
	assert.NotContains(t, out, "FAIL")
}

func TestCheckKerrJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"kerr"})

	err := cmd.Execute()
	require.NoError(t, err)

	var report CheckReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "kerr", report.Name)
	assert.True(t, report.Passed)
	require.Len(t, report.Checks, 3)
	for _, c := range report.Checks {
		assert.Truef(t, c.Passed, "check %s: max error %g", c.Name, c.MaxError)
		assert.LessOrEqual(t, c.MaxError, checkTol)
	}
}

func TestCheckFromFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--file", filepath.Join("testdata", "wormhole.yaml")})

	err := cmd.Execute()
	require.NoError(t, err)

	var report CheckReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "wormhole", report.Name)
	assert.True(t, report.Passed)
}

func TestSampleEnvUsesSharedTable(t *testing.T) {
	p, err := preset.Lookup("kerr")
	require.NoError(t, err)

	env := sampleEnv(p)
	assert.Equal(t, testutil.SampleEnv(p.Symbols), env)
	for _, s := range p.Symbols {
		assert.Containsf(t, env, s.Name(), "symbol %s unbound", s.Name())
	}
}

func TestCheckUnknownPreset(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"godel"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
