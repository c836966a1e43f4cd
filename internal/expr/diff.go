package expr

import "fmt"

// Diff returns the partial derivative of e with respect to x.
//
// Differentiation is total over the supported algebra: an expression
// that does not contain x differentiates to zero. The one unsupported
// shape is a power whose exponent contains the differentiation
// variable (the domain never produces one); hitting it is a
// programming error and panics.
func Diff(e Expr, x Symbol) Expr {
	switch v := e.(type) {
	case Constant:
		return Int(0)
	case Symbol:
		if v.name == x.name {
			return Int(1)
		}
		return Int(0)
	case Add:
		dterms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			dterms[i] = Diff(t, x)
		}
		return AddOf(dterms...)
	case Mul:
		// Generalized product rule: sum over factors of d(f_i) times
		// the remaining factors.
		terms := make([]Expr, 0, len(v.factors))
		for i := range v.factors {
			parts := make([]Expr, 0, len(v.factors))
			parts = append(parts, Diff(v.factors[i], x))
			for j, f := range v.factors {
				if j != i {
					parts = append(parts, f)
				}
			}
			terms = append(terms, MulOf(parts...))
		}
		return AddOf(terms...)
	case Pow:
		if Contains(v.exp, x) {
			panic(fmt.Sprintf("expr: Diff: exponent of %s depends on %s", v, x.name))
		}
		// Power rule; valid for any exponent independent of x.
		return MulOf(v.exp, PowOf(v.base, AddOf(v.exp, Int(-1))), Diff(v.base, x))
	case Neg:
		return NegOf(Diff(v.arg, x))
	case Sin:
		return MulOf(CosOf(v.arg), Diff(v.arg, x))
	case Cos:
		return NegOf(MulOf(SinOf(v.arg), Diff(v.arg, x)))
	}
	panic(fmt.Sprintf("expr: Diff: unknown node %T", e))
}

// Contains reports whether x occurs anywhere in e.
func Contains(e Expr, x Symbol) bool {
	switch v := e.(type) {
	case Constant:
		return false
	case Symbol:
		return v.name == x.name
	case Add:
		for _, t := range v.terms {
			if Contains(t, x) {
				return true
			}
		}
		return false
	case Mul:
		for _, f := range v.factors {
			if Contains(f, x) {
				return true
			}
		}
		return false
	case Pow:
		return Contains(v.base, x) || Contains(v.exp, x)
	case Neg:
		return Contains(v.arg, x)
	case Sin:
		return Contains(v.arg, x)
	case Cos:
		return Contains(v.arg, x)
	}
	panic(fmt.Sprintf("expr: Contains: unknown node %T", e))
}
