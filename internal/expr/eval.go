package expr

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnboundSymbol is returned by Eval when the environment is missing
// a symbol the expression references.
var ErrUnboundSymbol = errors.New("expr: unbound symbol")

// ErrNotFinite is returned by Eval when evaluation produces NaN or an
// infinity (for example a pole of the expression).
var ErrNotFinite = errors.New("expr: evaluation is not finite")

// Eval evaluates e numerically under env, which binds symbol names to
// values. Every free symbol of e must be bound.
func Eval(e Expr, env map[string]float64) (float64, error) {
	v, err := eval(e, env)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s", ErrNotFinite, e)
	}
	return v, nil
}

func eval(e Expr, env map[string]float64) (float64, error) {
	switch v := e.(type) {
	case Constant:
		return v.Float64(), nil
	case Symbol:
		val, ok := env[v.name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnboundSymbol, v.name)
		}
		return val, nil
	case Add:
		sum := 0.0
		for _, t := range v.terms {
			tv, err := eval(t, env)
			if err != nil {
				return 0, err
			}
			sum += tv
		}
		return sum, nil
	case Mul:
		prod := 1.0
		for _, f := range v.factors {
			fv, err := eval(f, env)
			if err != nil {
				return 0, err
			}
			prod *= fv
		}
		return prod, nil
	case Pow:
		b, err := eval(v.base, env)
		if err != nil {
			return 0, err
		}
		x, err := eval(v.exp, env)
		if err != nil {
			return 0, err
		}
		return math.Pow(b, x), nil
	case Neg:
		av, err := eval(v.arg, env)
		if err != nil {
			return 0, err
		}
		return -av, nil
	case Sin:
		av, err := eval(v.arg, env)
		if err != nil {
			return 0, err
		}
		return math.Sin(av), nil
	case Cos:
		av, err := eval(v.arg, env)
		if err != nil {
			return 0, err
		}
		return math.Cos(av), nil
	}
	panic(fmt.Sprintf("expr: Eval: unknown node %T", e))
}

// Substitute structurally replaces symbols by the bound expressions.
// Symbols absent from bindings are left in place. The result is
// rebuilt through the normalizing constructors.
func Substitute(e Expr, bindings map[string]Expr) Expr {
	switch v := e.(type) {
	case Constant:
		return v
	case Symbol:
		if repl, ok := bindings[v.name]; ok {
			return repl
		}
		return v
	case Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = Substitute(t, bindings)
		}
		return AddOf(terms...)
	case Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = Substitute(f, bindings)
		}
		return MulOf(factors...)
	case Pow:
		return PowOf(Substitute(v.base, bindings), Substitute(v.exp, bindings))
	case Neg:
		return NegOf(Substitute(v.arg, bindings))
	case Sin:
		return SinOf(Substitute(v.arg, bindings))
	case Cos:
		return CosOf(Substitute(v.arg, bindings))
	}
	panic(fmt.Sprintf("expr: Substitute: unknown node %T", e))
}

// FreeSymbols returns the distinct symbols occurring in e, sorted by
// name.
func FreeSymbols(e Expr) []Symbol {
	seen := map[string]bool{}
	collectSymbols(e, seen)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return Syms(names...)
}

func collectSymbols(e Expr, seen map[string]bool) {
	switch v := e.(type) {
	case Constant:
	case Symbol:
		seen[v.name] = true
	case Add:
		for _, t := range v.terms {
			collectSymbols(t, seen)
		}
	case Mul:
		for _, f := range v.factors {
			collectSymbols(f, seen)
		}
	case Pow:
		collectSymbols(v.base, seen)
		collectSymbols(v.exp, seen)
	case Neg:
		collectSymbols(v.arg, seen)
	case Sin:
		collectSymbols(v.arg, seen)
	case Cos:
		collectSymbols(v.arg, seen)
	}
}
