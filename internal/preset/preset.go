// Package preset builds Metric instances for named reference
// spacetimes. Lookup is a pure factory: every call constructs a fresh
// Metric, and the package holds no mutable state.
package preset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chrvill/Geodesic-EOM-deriver/internal/expr"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/matrix"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/metric"
)

// ErrNotFound is returned by Lookup for an unrecognized preset name.
var ErrNotFound = errors.New("preset: not found")

// Preset bundles a freshly constructed Metric with the ordered list of
// every free symbol appearing in it: coordinates first, then
// parameters such as the mass M or the spin a.
type Preset struct {
	Name        string
	Description string
	Metric      *metric.Metric
	Symbols     []expr.Symbol
}

// Parameters returns the non-coordinate symbols of the preset.
func (p *Preset) Parameters() []expr.Symbol {
	return append([]expr.Symbol(nil), p.Symbols[p.Metric.Dim():]...)
}

var builders = map[string]func() *Preset{
	"kerr":          kerr,
	"schwarzschild": schwarzschild,
	"minkowski":     minkowski,
}

// Names returns the recognized preset names, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup constructs the named preset. The only possible failure is an
// unknown name, reported as ErrNotFound.
func Lookup(name string) (*Preset, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return build(), nil
}

// mustMetric wraps metric.New for the hard-coded presets, whose
// construction cannot fail unless the preset itself is buggy.
func mustMetric(name string, rows [][]expr.Expr, coords []expr.Symbol) *metric.Metric {
	g, err := matrix.FromRows(rows)
	if err != nil {
		panic(fmt.Sprintf("preset: %s: %v", name, err))
	}
	m, err := metric.New(g, coords)
	if err != nil {
		panic(fmt.Sprintf("preset: %s: %v", name, err))
	}
	return m
}

// kerr builds the Kerr metric in Boyer-Lindquist coordinates, with
// Sigma = r^2 + a^2 cos^2(theta) and Delta = r^2 - 2Mr + a^2.
func kerr() *Preset {
	t, r, theta, phi := expr.Sym("t"), expr.Sym("r"), expr.Sym("theta"), expr.Sym("phi")
	M, a := expr.Sym("M"), expr.Sym("a")

	zero := expr.Int(0)
	r2 := expr.PowOf(r, expr.Int(2))
	a2 := expr.PowOf(a, expr.Int(2))
	sin2 := expr.PowOf(expr.SinOf(theta), expr.Int(2))
	cos2 := expr.PowOf(expr.CosOf(theta), expr.Int(2))

	sigma := expr.AddOf(r2, expr.MulOf(a2, cos2))
	delta := expr.AddOf(r2, expr.NegOf(expr.MulOf(expr.Int(2), M, r)), a2)
	invSigma := expr.PowOf(sigma, expr.Int(-1))

	// g_t phi = g_phi t = -2 a M r sin^2(theta) / Sigma
	gtphi := expr.NegOf(expr.MulOf(expr.Int(2), a, M, r, invSigma, sin2))

	rows := [][]expr.Expr{
		{
			expr.NegOf(expr.AddOf(expr.Int(1), expr.NegOf(expr.MulOf(expr.Int(2), M, r, invSigma)))),
			zero, zero, gtphi,
		},
		{zero, expr.MulOf(sigma, expr.PowOf(delta, expr.Int(-1))), zero, zero},
		{zero, zero, sigma, zero},
		{
			gtphi, zero, zero,
			expr.MulOf(
				expr.AddOf(r2, a2, expr.MulOf(expr.Int(2), M, r, a2, invSigma, sin2)),
				sin2,
			),
		},
	}

	coords := []expr.Symbol{t, r, theta, phi}
	return &Preset{
		Name:        "kerr",
		Description: "Kerr rotating black hole (Boyer-Lindquist); parameters M, a",
		Metric:      mustMetric("kerr", rows, coords),
		Symbols:     []expr.Symbol{t, r, theta, phi, M, a},
	}
}

// schwarzschild builds the Schwarzschild metric in Schwarzschild
// coordinates, with f = 1 - 2M/r.
func schwarzschild() *Preset {
	t, r, theta, phi := expr.Sym("t"), expr.Sym("r"), expr.Sym("theta"), expr.Sym("phi")
	M := expr.Sym("M")

	f := expr.AddOf(expr.Int(1), expr.NegOf(expr.MulOf(expr.Int(2), M, expr.PowOf(r, expr.Int(-1)))))
	zero := expr.Int(0)

	rows := [][]expr.Expr{
		{expr.NegOf(f), zero, zero, zero},
		{zero, expr.PowOf(f, expr.Int(-1)), zero, zero},
		{zero, zero, expr.PowOf(r, expr.Int(2)), zero},
		{zero, zero, zero, expr.MulOf(expr.PowOf(r, expr.Int(2)), expr.PowOf(expr.SinOf(theta), expr.Int(2)))},
	}

	coords := []expr.Symbol{t, r, theta, phi}
	return &Preset{
		Name:        "schwarzschild",
		Description: "Schwarzschild black hole; parameter M",
		Metric:      mustMetric("schwarzschild", rows, coords),
		Symbols:     []expr.Symbol{t, r, theta, phi, M},
	}
}

// minkowski builds flat spacetime, diag(-1, 1, 1, 1) in Cartesian
// coordinates. Every Christoffel symbol vanishes; geodesics are
// straight lines.
func minkowski() *Preset {
	coords := expr.Syms("t", "x", "y", "z")
	g, err := matrix.Diagonal(expr.Int(-1), expr.Int(1), expr.Int(1), expr.Int(1))
	if err != nil {
		panic(fmt.Sprintf("preset: minkowski: %v", err))
	}
	m, err := metric.New(g, coords)
	if err != nil {
		panic(fmt.Sprintf("preset: minkowski: %v", err))
	}
	return &Preset{
		Name:        "minkowski",
		Description: "Flat Minkowski spacetime (Cartesian)",
		Metric:      m,
		Symbols:     coords,
	}
}
