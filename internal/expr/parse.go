package expr

import (
	"fmt"
	"math/big"
	"unicode"
)

// Parse reads a single expression from src.
//
// The grammar covers exactly the entry syntax metric definition files
// need: decimal numbers, symbols, the operators + - * / ^ (with ^
// binding tightest and associating right), unary minus, sin(...),
// cos(...), and parentheses. Division a/b is represented as a*b^-1 so
// the tree stays within the supported node kinds.
func Parse(src string) (Expr, error) {
	p := &parser{src: src}
	p.skipSpace()
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("trailing input")
	}
	return e, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("expr: parse %q: %s at offset %d", p.src, msg, p.pos)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseSum() (Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			lhs = AddOf(lhs, rhs)
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			lhs = AddOf(lhs, NegOf(rhs))
		default:
			return lhs, nil
		}
	}
}

func (p *parser) parseTerm() (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			lhs = MulOf(lhs, rhs)
		case '/':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			lhs = MulOf(lhs, PowOf(rhs, Int(-1)))
		default:
			return lhs, nil
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NegOf(inner), nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	// Right-associative; the exponent may carry its own unary minus.
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser) parseAtom() (Expr, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("missing ')'")
		}
		p.pos++
		return inner, nil
	case c >= '0' && c <= '9', c == '.':
		return p.parseNumber()
	case isIdentStart(rune(c)):
		return p.parseIdent()
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	}
	return nil, p.errorf("unexpected %q", string(c))
}

func (p *parser) parseNumber() (Expr, error) {
	start := p.pos
	seenDot := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' {
			if seenDot {
				return nil, p.errorf("malformed number")
			}
			seenDot = true
			p.pos++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		p.pos++
	}
	lit := p.src[start:p.pos]
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return nil, p.errorf("malformed number %q", lit)
	}
	return Num(r), nil
}

func (p *parser) parseIdent() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(rune(p.src[p.pos])) {
		p.pos++
	}
	name := p.src[start:p.pos]
	p.skipSpace()
	if name == "sin" || name == "cos" {
		if p.peek() != '(' {
			return nil, p.errorf("%s requires parenthesized argument", name)
		}
		p.pos++
		arg, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("missing ')' after %s argument", name)
		}
		p.pos++
		if name == "sin" {
			return SinOf(arg), nil
		}
		return CosOf(arg), nil
	}
	return Sym(name), nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
