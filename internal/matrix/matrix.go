// Package matrix provides square matrices of symbolic expressions with
// the determinant and inverse operations the metric engine needs.
//
// Determinants use Laplace cofactor expansion and inverses the
// adjugate-over-determinant formula. Both are fine at the 4x4 sizes
// spacetime metrics live at; neither tries to be asymptotically clever.
package matrix

import (
	"errors"
	"fmt"
	"math"

	"github.com/chrvill/Geodesic-EOM-deriver/internal/expr"
)

// ErrSingular is returned by Inverse when the determinant evaluates to
// zero at every sample point tried.
var ErrSingular = errors.New("matrix: singular matrix")

// ErrNotSquare is returned by FromRows for ragged or non-square input.
var ErrNotSquare = errors.New("matrix: not square")

// Matrix is an immutable n x n grid of expressions.
type Matrix struct {
	n    int
	data [][]expr.Expr
}

// FromRows builds a matrix from its rows. Every row must have exactly
// len(rows) entries and no entry may be nil.
func FromRows(rows [][]expr.Expr) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrNotSquare)
	}
	data := make([][]expr.Expr, n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrNotSquare, i, len(row), n)
		}
		data[i] = make([]expr.Expr, n)
		for j, e := range row {
			if e == nil {
				return nil, fmt.Errorf("matrix: nil entry at [%d,%d]", i, j)
			}
			data[i][j] = e
		}
	}
	return &Matrix{n: n, data: data}, nil
}

// Diagonal builds the diagonal matrix with the given entries.
func Diagonal(entries ...expr.Expr) (*Matrix, error) {
	n := len(entries)
	rows := make([][]expr.Expr, n)
	for i := range rows {
		rows[i] = make([]expr.Expr, n)
		for j := range rows[i] {
			if i == j {
				rows[i][j] = entries[i]
			} else {
				rows[i][j] = expr.Int(0)
			}
		}
	}
	return FromRows(rows)
}

// Dim returns the side length.
func (m *Matrix) Dim() int { return m.n }

// At returns the entry at row i, column j. Out-of-range indices are a
// programming error and panic.
func (m *Matrix) At(i, j int) expr.Expr {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("matrix: index [%d,%d] out of range for %dx%d", i, j, m.n, m.n))
	}
	return m.data[i][j]
}

// Det returns the determinant as an expression, via Laplace cofactor
// expansion along the first row.
func (m *Matrix) Det() expr.Expr {
	return det(m.data)
}

func det(data [][]expr.Expr) expr.Expr {
	n := len(data)
	if n == 1 {
		return data[0][0]
	}
	if n == 2 {
		return expr.AddOf(
			expr.MulOf(data[0][0], data[1][1]),
			expr.NegOf(expr.MulOf(data[0][1], data[1][0])),
		)
	}
	terms := make([]expr.Expr, 0, n)
	for j := 0; j < n; j++ {
		if expr.IsZero(data[0][j]) {
			continue
		}
		cof := expr.MulOf(data[0][j], det(minor(data, 0, j)))
		if j%2 == 1 {
			cof = expr.NegOf(cof)
		}
		terms = append(terms, cof)
	}
	return expr.AddOf(terms...)
}

// minor returns the submatrix with skipRow and skipCol removed.
func minor(data [][]expr.Expr, skipRow, skipCol int) [][]expr.Expr {
	n := len(data)
	out := make([][]expr.Expr, 0, n-1)
	for i := 0; i < n; i++ {
		if i == skipRow {
			continue
		}
		row := make([]expr.Expr, 0, n-1)
		for j := 0; j < n; j++ {
			if j == skipCol {
				continue
			}
			row = append(row, data[i][j])
		}
		out = append(out, row)
	}
	return out
}

// Inverse returns the inverse as adjugate over determinant.
//
// Singularity is undecidable symbolically in general, so the check is
// the sampling heuristic: the determinant is evaluated at several
// fixed sample assignments of its free symbols, and the matrix is
// declared singular only if no sample produces a nonzero finite value.
func (m *Matrix) Inverse() (*Matrix, error) {
	d := m.Det()
	if !sampledNonzero(d) {
		return nil, fmt.Errorf("%w: determinant %s", ErrSingular, d)
	}
	invDet := expr.PowOf(d, expr.Int(-1))
	rows := make([][]expr.Expr, m.n)
	for i := range rows {
		rows[i] = make([]expr.Expr, m.n)
	}
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			// Adjugate entry (i,j) is the (j,i) cofactor.
			var cof expr.Expr
			if m.n == 1 {
				cof = expr.Int(1)
			} else {
				cof = det(minor(m.data, j, i))
				if (i+j)%2 == 1 {
					cof = expr.NegOf(cof)
				}
			}
			rows[i][j] = expr.MulOf(cof, invDet)
		}
	}
	return FromRows(rows)
}

// sampleSeeds feed the deterministic sample assignments used by the
// singularity check. Values are generic (irrational-looking, away from
// 0 and from each other) to dodge measure-zero vanishing loci.
var sampleSeeds = []float64{1.317, 2.043, 0.731, 3.279, 0.577, 1.923, 2.687, 0.419}

const sampleTrials = 4

const zeroTol = 1e-9

func sampledNonzero(d expr.Expr) bool {
	syms := expr.FreeSymbols(d)
	for trial := 0; trial < sampleTrials; trial++ {
		env := make(map[string]float64, len(syms))
		for i, s := range syms {
			env[s.Name()] = sampleSeeds[(i+trial)%len(sampleSeeds)] * (1 + 0.29*float64(trial))
		}
		v, err := expr.Eval(d, env)
		if err != nil {
			continue // pole or unbound at this sample; try another
		}
		if math.Abs(v) > zeroTol {
			return true
		}
	}
	return false
}
