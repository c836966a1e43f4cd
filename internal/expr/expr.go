package expr

import (
	"fmt"
	"math/big"
)

// Expr is a sealed interface over the symbolic node kinds.
// Only Constant, Symbol, Add, Mul, Pow, Neg, Sin, and Cos implement it.
type Expr interface {
	fmt.Stringer
	isExpr() // sealed
}

// Constant is an exact rational number.
type Constant struct {
	val *big.Rat
}

func (Constant) isExpr() {}

// Symbol is a named free variable (a coordinate, a velocity component,
// or a metric parameter such as M or a).
type Symbol struct {
	name string
}

func (Symbol) isExpr() {}

// Name returns the symbol's name.
func (s Symbol) Name() string { return s.name }

// Add is a sum of two or more terms.
type Add struct {
	terms []Expr
}

func (Add) isExpr() {}

// Terms returns a copy of the summands.
func (a Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// Mul is a product of two or more factors.
type Mul struct {
	factors []Expr
}

func (Mul) isExpr() {}

// Factors returns a copy of the factors.
func (m Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// Pow is base raised to exponent.
type Pow struct {
	base, exp Expr
}

func (Pow) isExpr() {}

// Base returns the base of the power.
func (p Pow) Base() Expr { return p.base }

// Exponent returns the exponent of the power.
func (p Pow) Exponent() Expr { return p.exp }

// Neg is the negation of its operand.
type Neg struct {
	arg Expr
}

func (Neg) isExpr() {}

// Operand returns the negated expression.
func (n Neg) Operand() Expr { return n.arg }

// Sin is the sine of its argument.
type Sin struct {
	arg Expr
}

func (Sin) isExpr() {}

// Arg returns the sine argument.
func (s Sin) Arg() Expr { return s.arg }

// Cos is the cosine of its argument.
type Cos struct {
	arg Expr
}

func (Cos) isExpr() {}

// Arg returns the cosine argument.
func (c Cos) Arg() Expr { return c.arg }

// Int returns the integer constant n.
func Int(n int64) Constant {
	return Constant{val: new(big.Rat).SetInt64(n)}
}

// Rat returns the exact rational constant p/q. Panics if q is zero.
func Rat(p, q int64) Constant {
	if q == 0 {
		panic("expr: Rat denominator is zero")
	}
	return Constant{val: big.NewRat(p, q)}
}

// Num returns a constant holding a copy of r.
func Num(r *big.Rat) Constant {
	return Constant{val: new(big.Rat).Set(r)}
}

// Rat returns a copy of the constant's exact value.
func (c Constant) Rat() *big.Rat {
	if c.val == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(c.val)
}

// Float64 returns the nearest float64 to the constant's value.
func (c Constant) Float64() float64 {
	if c.val == nil {
		return 0
	}
	f, _ := c.val.Float64()
	return f
}

// Sym returns the symbol with the given name.
func Sym(name string) Symbol { return Symbol{name: name} }

// Syms returns one symbol per name, in order.
func Syms(names ...string) []Symbol {
	out := make([]Symbol, len(names))
	for i, n := range names {
		out[i] = Symbol{name: n}
	}
	return out
}

// IsZero reports whether e is syntactically the zero constant.
func IsZero(e Expr) bool {
	c, ok := e.(Constant)
	return ok && c.val != nil && c.val.Sign() == 0
}

// IsOne reports whether e is syntactically the unit constant.
func IsOne(e Expr) bool {
	c, ok := e.(Constant)
	return ok && c.val != nil && c.val.Cmp(ratOne) == 0
}

var ratOne = big.NewRat(1, 1)

// AddOf builds the sum of terms. Nested sums are flattened, constant
// terms are folded exactly, and zero terms are dropped. An empty sum
// is the zero constant; a single surviving term is returned as-is.
func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if inner, ok := t.(Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}
	acc := new(big.Rat)
	rest := make([]Expr, 0, len(flat))
	for _, t := range flat {
		if c, ok := t.(Constant); ok {
			acc.Add(acc, c.val)
			continue
		}
		rest = append(rest, t)
	}
	if acc.Sign() != 0 {
		rest = append(rest, Constant{val: acc})
	}
	switch len(rest) {
	case 0:
		return Int(0)
	case 1:
		return rest[0]
	}
	return Add{terms: rest}
}

// MulOf builds the product of factors. Nested products are flattened
// and constant factors are folded exactly. A zero factor collapses the
// product to zero; unit factors are dropped.
func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if inner, ok := f.(Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, f)
		}
	}
	coeff := new(big.Rat).SetInt64(1)
	rest := make([]Expr, 0, len(flat))
	for _, f := range flat {
		if c, ok := f.(Constant); ok {
			coeff.Mul(coeff, c.val)
			continue
		}
		rest = append(rest, f)
	}
	if coeff.Sign() == 0 {
		return Int(0)
	}
	if len(rest) == 0 {
		return Constant{val: coeff}
	}
	if coeff.Cmp(ratOne) != 0 {
		rest = append([]Expr{Constant{val: coeff}}, rest...)
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return Mul{factors: rest}
}

// maxFoldExp bounds exact constant^int folding in PowOf.
const maxFoldExp = 32

// PowOf builds base^exp. Exponent zero yields one, exponent one yields
// the base, and small integer powers of nonzero constants fold exactly.
// Zero raised to a non-positive exponent is left as an unevaluated node.
func PowOf(base, exp Expr) Expr {
	if ec, ok := exp.(Constant); ok {
		if ec.val.Sign() == 0 {
			if bc, isC := base.(Constant); isC && bc.val.Sign() == 0 {
				return Pow{base: base, exp: exp} // 0^0 stays indeterminate
			}
			return Int(1)
		}
		if ec.val.Cmp(ratOne) == 0 {
			return base
		}
		if bc, isC := base.(Constant); isC && ec.val.IsInt() {
			e := ec.val.Num().Int64()
			if bc.val.Sign() == 0 {
				if e > 0 {
					return Int(0)
				}
				return Pow{base: base, exp: exp} // division by zero stays symbolic
			}
			if e >= -maxFoldExp && e <= maxFoldExp {
				return Constant{val: ratPow(bc.val, e)}
			}
		}
	}
	return Pow{base: base, exp: exp}
}

func ratPow(r *big.Rat, e int64) *big.Rat {
	out := new(big.Rat).SetInt64(1)
	neg := e < 0
	if neg {
		e = -e
	}
	for i := int64(0); i < e; i++ {
		out.Mul(out, r)
	}
	if neg {
		out.Inv(out)
	}
	return out
}

// NegOf builds the negation of e. Constants fold, and double negation
// cancels.
func NegOf(e Expr) Expr {
	switch v := e.(type) {
	case Constant:
		return Constant{val: new(big.Rat).Neg(v.val)}
	case Neg:
		return v.arg
	}
	return Neg{arg: e}
}

// SinOf builds sin(e). sin(0) folds to 0.
func SinOf(e Expr) Expr {
	if IsZero(e) {
		return Int(0)
	}
	return Sin{arg: e}
}

// CosOf builds cos(e). cos(0) folds to 1.
func CosOf(e Expr) Expr {
	if IsZero(e) {
		return Int(1)
	}
	return Cos{arg: e}
}
