package expr

import (
	"fmt"
	"strings"
)

func (c Constant) String() string { return Format(c) }
func (s Symbol) String() string   { return Format(s) }
func (a Add) String() string      { return Format(a) }
func (m Mul) String() string      { return Format(m) }
func (p Pow) String() string      { return Format(p) }
func (n Neg) String() string      { return Format(n) }
func (s Sin) String() string      { return Format(s) }
func (c Cos) String() string      { return Format(c) }

// Format renders e as plain text, with minimal parenthesization.
func Format(e Expr) string {
	switch v := e.(type) {
	case Constant:
		if v.val == nil {
			return "0"
		}
		return v.val.RatString()
	case Symbol:
		return v.name
	case Add:
		var sb strings.Builder
		for i, t := range v.terms {
			neg, body := splitSign(t)
			switch {
			case i == 0 && neg:
				sb.WriteString("-")
			case i > 0 && neg:
				sb.WriteString(" - ")
			case i > 0:
				sb.WriteString(" + ")
			}
			s := Format(body)
			if _, isAdd := body.(Add); isAdd {
				s = "(" + s + ")"
			}
			sb.WriteString(s)
		}
		return sb.String()
	case Mul:
		if neg, body := splitSign(v); neg {
			s := Format(body)
			if needsParens(body) {
				s = "(" + s + ")"
			}
			return "-" + s
		}
		return formatProduct(v.factors, Format, "*", "(", ")")
	case Pow:
		base := Format(v.base)
		if needsParens(v.base) {
			base = "(" + base + ")"
		}
		exp := Format(v.exp)
		switch v.exp.(type) {
		case Add, Mul, Pow, Neg:
			exp = "(" + exp + ")"
		}
		return base + "^" + exp
	case Neg:
		inner := Format(v.arg)
		if _, isAdd := v.arg.(Add); isAdd {
			inner = "(" + inner + ")"
		}
		return "-" + inner
	case Sin:
		return "sin(" + Format(v.arg) + ")"
	case Cos:
		return "cos(" + Format(v.arg) + ")"
	}
	panic(fmt.Sprintf("expr: Format: unknown node %T", e))
}

// LaTeX renders e as LaTeX source.
func LaTeX(e Expr) string {
	switch v := e.(type) {
	case Constant:
		if v.val == nil {
			return "0"
		}
		if v.val.IsInt() {
			return v.val.Num().String()
		}
		sign := ""
		num, den := v.val.Num().String(), v.val.Denom().String()
		if strings.HasPrefix(num, "-") {
			sign, num = "-", num[1:]
		}
		return sign + `\frac{` + num + `}{` + den + `}`
	case Symbol:
		switch v.name {
		case "theta":
			return `\theta`
		case "phi":
			return `\phi`
		}
		return v.name
	case Add:
		var sb strings.Builder
		for i, t := range v.terms {
			neg, body := splitSign(t)
			switch {
			case i == 0 && neg:
				sb.WriteString("-")
			case i > 0 && neg:
				sb.WriteString(" - ")
			case i > 0:
				sb.WriteString(" + ")
			}
			s := LaTeX(body)
			if _, isAdd := body.(Add); isAdd {
				s = `\left(` + s + `\right)`
			}
			sb.WriteString(s)
		}
		return sb.String()
	case Mul:
		if neg, body := splitSign(v); neg {
			s := LaTeX(body)
			if needsParens(body) {
				s = `\left(` + s + `\right)`
			}
			return "-" + s
		}
		return formatProduct(v.factors, LaTeX, " ", `\left(`, `\right)`)
	case Pow:
		base := LaTeX(v.base)
		if needsParens(v.base) {
			base = `\left(` + base + `\right)`
		}
		return base + "^{" + LaTeX(v.exp) + "}"
	case Neg:
		inner := LaTeX(v.arg)
		if _, isAdd := v.arg.(Add); isAdd {
			inner = `\left(` + inner + `\right)`
		}
		return "-" + inner
	case Sin:
		return `\sin\left(` + LaTeX(v.arg) + `\right)`
	case Cos:
		return `\cos\left(` + LaTeX(v.arg) + `\right)`
	}
	panic(fmt.Sprintf("expr: LaTeX: unknown node %T", e))
}

// splitSign strips a leading minus sign off e for rendering inside a
// sum: Neg nodes, negative constants, and products with a negative
// leading coefficient.
func splitSign(e Expr) (bool, Expr) {
	switch v := e.(type) {
	case Neg:
		return true, v.arg
	case Constant:
		if v.val != nil && v.val.Sign() < 0 {
			return true, NegOf(v)
		}
	case Mul:
		if c, ok := v.factors[0].(Constant); ok && c.val.Sign() < 0 {
			rest := append([]Expr{NegOf(c)}, v.factors[1:]...)
			return true, MulOf(rest...)
		}
	}
	return false, e
}

func formatProduct(factors []Expr, render func(Expr) string, sep, lp, rp string) string {
	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		s := render(f)
		if needsParens(f) {
			s = lp + s + rp
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}

// needsParens reports whether e must be parenthesized when used as a
// factor or as the base of a power.
func needsParens(e Expr) bool {
	switch v := e.(type) {
	case Add, Neg:
		return true
	case Constant:
		return v.val != nil && (v.val.Sign() < 0 || !v.val.IsInt())
	}
	return false
}
