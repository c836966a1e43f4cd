package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalAt(t *testing.T, e Expr, env map[string]float64) float64 {
	t.Helper()
	v, err := Eval(e, env)
	require.NoError(t, err)
	return v
}

func TestDiffBasicRules(t *testing.T) {
	x, y := Sym("x"), Sym("y")

	assert.True(t, IsZero(Diff(Int(7), x)), "constants differentiate to zero")
	assert.True(t, IsOne(Diff(x, x)))
	assert.True(t, IsZero(Diff(y, x)))
	assert.True(t, IsZero(Diff(SinOf(y), x)), "absent symbol yields zero, not an error")
}

func TestDiffSum(t *testing.T) {
	x := Sym("x")
	// d/dx (x^2 + 3x) = 2x + 3
	e := AddOf(PowOf(x, Int(2)), MulOf(Int(3), x))
	d := Diff(e, x)
	env := map[string]float64{"x": 1.7}
	assert.InDelta(t, 2*1.7+3, evalAt(t, d, env), 1e-12)
}

func TestDiffProductRule(t *testing.T) {
	x := Sym("x")
	// d/dx (x * sin(x)) = sin(x) + x*cos(x)
	d := Diff(MulOf(x, SinOf(x)), x)
	at := 0.7
	want := math.Sin(at) + at*math.Cos(at)
	assert.InDelta(t, want, evalAt(t, d, map[string]float64{"x": at}), 1e-12)
}

func TestDiffGeneralizedProductRule(t *testing.T) {
	x := Sym("x")
	// Three factors: d/dx (x * sin(x) * cos(x)).
	d := Diff(MulOf(x, SinOf(x), CosOf(x)), x)
	at := 1.3
	want := math.Sin(at)*math.Cos(at) +
		at*math.Cos(at)*math.Cos(at) -
		at*math.Sin(at)*math.Sin(at)
	assert.InDelta(t, want, evalAt(t, d, map[string]float64{"x": at}), 1e-12)
}

func TestDiffPowerRule(t *testing.T) {
	r := Sym("r")

	tests := []struct {
		name string
		e    Expr
		at   float64
		want float64
	}{
		{"cube", PowOf(r, Int(3)), 2.0, 12.0},
		{"reciprocal", PowOf(r, Int(-1)), 4.0, -1.0 / 16.0},
		{"inverse square", PowOf(r, Int(-2)), 2.0, -2.0 / 8.0},
		{"half power", PowOf(r, Rat(1, 2)), 9.0, 0.5 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Diff(tt.e, r)
			assert.InDelta(t, tt.want, evalAt(t, d, map[string]float64{"r": tt.at}), 1e-12)
		})
	}
}

func TestDiffSymbolicExponent(t *testing.T) {
	r, k := Sym("r"), Sym("k")
	// The power rule holds for any exponent independent of r.
	d := Diff(PowOf(r, k), r)
	env := map[string]float64{"r": 2.0, "k": 3.0}
	assert.InDelta(t, 12.0, evalAt(t, d, env), 1e-12)
}

func TestDiffChainRule(t *testing.T) {
	theta := Sym("theta")

	at := 0.9
	// d/dtheta sin(theta^2) = 2 theta cos(theta^2)
	dsin := Diff(SinOf(PowOf(theta, Int(2))), theta)
	assert.InDelta(t, 2*at*math.Cos(at*at), evalAt(t, dsin, map[string]float64{"theta": at}), 1e-12)

	// d/dtheta cos^2(theta) = -2 sin(theta) cos(theta)
	dcos2 := Diff(PowOf(CosOf(theta), Int(2)), theta)
	assert.InDelta(t, -2*math.Sin(at)*math.Cos(at), evalAt(t, dcos2, map[string]float64{"theta": at}), 1e-12)
}

func TestDiffNeg(t *testing.T) {
	x := Sym("x")
	d := Diff(NegOf(PowOf(x, Int(2))), x)
	assert.InDelta(t, -3.0, evalAt(t, d, map[string]float64{"x": 1.5}), 1e-12)
}

func TestDiffExponentDependingOnVariablePanics(t *testing.T) {
	x := Sym("x")
	require.Panics(t, func() { Diff(PowOf(x, x), x) })
}

func TestContains(t *testing.T) {
	e := MulOf(Sym("M"), PowOf(SinOf(Sym("theta")), Int(2)))
	assert.True(t, Contains(e, Sym("theta")))
	assert.False(t, Contains(e, Sym("r")))
}
