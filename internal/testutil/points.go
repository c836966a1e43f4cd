// Package testutil provides deterministic numeric sample points for
// comparing symbolic expressions, shared by the tests and the check
// command.
//
// Symbolic forms of the same quantity rarely compare equal
// syntactically, so they are compared by evaluating at fixed sample
// assignments. The defaults here are chosen to sit inside the
// physically sensible domain of the reference metrics (exterior
// region r > 2M, theta away from the axis).
package testutil

import (
	"math"

	"github.com/chrvill/Geodesic-EOM-deriver/internal/expr"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/metric"
)

// wellKnown holds default sample values for the symbol names the
// reference presets use.
var wellKnown = map[string]float64{
	"t":     0.5,
	"r":     10.0,
	"theta": math.Pi / 3,
	"phi":   0.75,
	"M":     1.0,
	"a":     0.7,
	"x":     1.2,
	"y":     -0.8,
	"z":     2.3,
}

// variants scale coordinate-like symbols between sample points while
// keeping r comfortably outside the horizon at M = 1.
var variants = []map[string]float64{
	{},
	{"r": 7.3, "theta": 1.1, "phi": 1.9, "t": 1.25},
	{"r": 14.2, "theta": 2.0, "phi": 0.2, "t": 2.0},
}

// SampleEnv returns one deterministic environment binding every given
// symbol.
func SampleEnv(syms []expr.Symbol) map[string]float64 {
	return SampleEnvs(syms, 1)[0]
}

// SampleEnvs returns n distinct deterministic environments binding
// every given symbol. n must be at most 3.
func SampleEnvs(syms []expr.Symbol, n int) []map[string]float64 {
	if n > len(variants) {
		panic("testutil: too many sample environments requested")
	}
	envs := make([]map[string]float64, n)
	for k := 0; k < n; k++ {
		env := make(map[string]float64, len(syms))
		for i, s := range syms {
			v, ok := wellKnown[s.Name()]
			if !ok {
				v = 1.1 + 0.37*float64(i)
			}
			if alt, okAlt := variants[k][s.Name()]; okAlt {
				v = alt
			}
			env[s.Name()] = v
		}
		envs[k] = env
	}
	return envs
}

// WithVelocities returns a copy of env with the four-velocity
// components u0..u(len(vals)-1) bound to vals.
func WithVelocities(env map[string]float64, vals ...float64) map[string]float64 {
	out := make(map[string]float64, len(env)+len(vals))
	for k, v := range env {
		out[k] = v
	}
	for i, v := range vals {
		out[metric.VelocityName(i)] = v
	}
	return out
}
