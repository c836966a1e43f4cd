package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestDeriveMinkowskiGolden(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"minkowski"})

	err := cmd.Execute()
	require.NoError(t, err)

	newGoldie(t).Assert(t, "derive_minkowski", buf.Bytes())
}

func TestDeriveSchwarzschildText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"schwarzschild"})

	err := cmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Metric: schwarzschild (dim 4)")
	assert.Contains(t, out, "Coordinates: t, r, theta, phi")
	assert.Contains(t, out, "Parameters: M")
	assert.Contains(t, out, "Velocities: u0, u1, u2, u3")
	assert.Contains(t, out, "Nonzero Christoffel symbols:")
	assert.Contains(t, out, "Gamma^1_{0,0} = ")
	assert.Contains(t, out, "d^2 x^1 / dlambda^2 = ")
	// Only the rho <= sigma representative is listed.
	assert.Contains(t, out, "Gamma^0_{0,1}")
	assert.NotContains(t, out, "Gamma^0_{1,0}")
}

func TestDeriveJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"schwarzschild"})

	err := cmd.Execute()
	require.NoError(t, err)

	var report DerivationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "schwarzschild", report.Name)
	assert.Equal(t, 4, report.Dim)
	assert.Equal(t, []string{"t", "r", "theta", "phi"}, report.Coordinates)
	assert.Equal(t, []string{"u0", "u1", "u2", "u3"}, report.Velocities)
	assert.Equal(t, []string{"M"}, report.Parameters)
	require.Len(t, report.GeodesicRHS, 4)
	require.NotEmpty(t, report.Christoffels)
	for _, c := range report.Christoffels {
		assert.LessOrEqual(t, c.Rho, c.Sigma)
		assert.NotEmpty(t, c.Expr)
	}
}

func TestDeriveAllIncludesVanishing(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"minkowski", "--all"})

	err := cmd.Execute()
	require.NoError(t, err)

	var report DerivationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	// dim * (dim*(dim+1)/2) representatives, all zero for flat space.
	require.Len(t, report.Christoffels, 4*10)
	for _, c := range report.Christoffels {
		assert.Equal(t, "0", c.Expr)
	}
}

func TestDeriveLaTeX(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "latex"}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"schwarzschild"})

	err := cmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `\sin`)
	assert.Contains(t, out, `\theta`)
}

func TestDeriveFromFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--file", filepath.Join("testdata", "wormhole.yaml")})

	err := cmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Metric: wormhole (dim 4)")
	assert.Contains(t, out, "Coordinates: t, l, theta, phi")
	assert.Contains(t, out, "Parameters: b")
}

func TestDeriveUnknownPreset(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"godel"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown preset (known: kerr, minkowski, schwarzschild)")
}

func TestDeriveBadFile(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"--file", filepath.Join("testdata", "nope.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDerivePresetAndFileConflict(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"kerr", "--file", filepath.Join("testdata", "wormhole.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestDeriveNoArguments(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a preset name or --file is required")
}

func TestDeriveVerboseGoesToStderr(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json", Verbose: true}
	cmd := NewDeriveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"--file", filepath.Join("testdata", "wormhole.yaml")})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, errBuf.String(), "Loading metric definition")
	// stdout must stay pure JSON.
	var report DerivationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.False(t, strings.Contains(buf.String(), "Loading metric definition"))
}
