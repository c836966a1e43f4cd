package metric

import (
	"fmt"
	"sync"

	"github.com/chrvill/Geodesic-EOM-deriver/internal/expr"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/matrix"
)

// Metric holds a spacetime metric and everything derived from it.
// Immutable after New returns; see the package documentation for the
// construction contract.
type Metric struct {
	g      *matrix.Matrix
	gInv   *matrix.Matrix
	coords []expr.Symbol
	vels   []expr.Symbol
	dim    int

	rhs []expr.Expr // geodesic right-hand sides, cached at construction

	mu    sync.Mutex
	gamma map[[3]int]expr.Expr // memoized Christoffel symbols
}

// VelocityName returns the reserved name of the i-th velocity symbol.
func VelocityName(i int) string { return fmt.Sprintf("u%d", i) }

// New builds a Metric from the covariant component matrix g and the
// ordered coordinate basis. It fails with a *ConstructionError if the
// matrix side differs from the coordinate count, a coordinate repeats,
// a coordinate collides with a reserved velocity name (u0, u1, ...),
// or g is singular.
func New(g *matrix.Matrix, coordinates []expr.Symbol) (*Metric, error) {
	if g == nil {
		return nil, newConstructionError(ErrCodeDimensionMismatch, "nil metric matrix")
	}
	dim := len(coordinates)
	if dim == 0 {
		return nil, newConstructionError(ErrCodeDimensionMismatch, "empty coordinate list")
	}
	if g.Dim() != dim {
		return nil, newConstructionError(ErrCodeDimensionMismatch,
			"matrix is %dx%d but %d coordinates given", g.Dim(), g.Dim(), dim)
	}

	vels := make([]expr.Symbol, dim)
	reserved := make(map[string]bool, dim)
	for i := range vels {
		name := VelocityName(i)
		vels[i] = expr.Sym(name)
		reserved[name] = true
	}

	seen := make(map[string]bool, dim)
	for _, c := range coordinates {
		if seen[c.Name()] {
			return nil, newConstructionError(ErrCodeDuplicateCoordinate,
				"coordinate %q appears twice", c.Name())
		}
		seen[c.Name()] = true
		if reserved[c.Name()] {
			return nil, newConstructionError(ErrCodeReservedSymbol,
				"coordinate %q collides with a velocity symbol", c.Name())
		}
	}

	gInv, err := g.Inverse()
	if err != nil {
		return nil, &ConstructionError{
			Code:    ErrCodeSingularMetric,
			Message: "covariant metric is not invertible",
			Err:     err,
		}
	}

	m := &Metric{
		g:      g,
		gInv:   gInv,
		coords: append([]expr.Symbol(nil), coordinates...),
		vels:   vels,
		dim:    dim,
		gamma:  make(map[[3]int]expr.Expr),
	}

	// The dim right-hand sides read only immutable state and are
	// independent of each other.
	m.rhs = make([]expr.Expr, dim)
	var wg sync.WaitGroup
	for i := 0; i < dim; i++ {
		wg.Add(1)
		go func(mu int) {
			defer wg.Done()
			m.rhs[mu] = m.assembleGeodesicRHS(mu)
		}(i)
	}
	wg.Wait()

	return m, nil
}

// Dim returns the spacetime dimension.
func (m *Metric) Dim() int { return m.dim }

// Coordinates returns the ordered coordinate symbols.
func (m *Metric) Coordinates() []expr.Symbol {
	return append([]expr.Symbol(nil), m.coords...)
}

// Velocities returns the ordered velocity symbols u0..u(dim-1), where
// u_k stands for dx^k/dlambda.
func (m *Metric) Velocities() []expr.Symbol {
	return append([]expr.Symbol(nil), m.vels...)
}

// Covariant returns the covariant component matrix g.
func (m *Metric) Covariant() *matrix.Matrix { return m.g }

// Contravariant returns the inverse matrix g^-1.
func (m *Metric) Contravariant() *matrix.Matrix { return m.gInv }

// Deriv returns d g[mu,nu] / d coordinates[rho].
func (m *Metric) Deriv(mu, nu, rho int) expr.Expr {
	m.checkIndex("Deriv", mu, nu, rho)
	return expr.Diff(m.g.At(mu, nu), m.coords[rho])
}

// Christoffel returns Gamma^mu_{rho sigma}. Results are memoized; the
// symbol is symmetric in (rho, sigma) by the structure of the formula,
// not by special-casing here.
func (m *Metric) Christoffel(mu, rho, sigma int) expr.Expr {
	m.checkIndex("Christoffel", mu, rho, sigma)
	key := [3]int{mu, rho, sigma}

	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.gamma[key]; ok {
		return g
	}

	terms := make([]expr.Expr, 0, m.dim)
	for nu := 0; nu < m.dim; nu++ {
		d1 := expr.Diff(m.g.At(nu, sigma), m.coords[rho])
		d2 := expr.Diff(m.g.At(nu, rho), m.coords[sigma])
		d3 := expr.Diff(m.g.At(rho, sigma), m.coords[nu])
		terms = append(terms, expr.MulOf(
			expr.Rat(1, 2),
			m.gInv.At(mu, nu),
			expr.AddOf(d1, d2, expr.NegOf(d3)),
		))
	}
	g := expr.AddOf(terms...)
	m.gamma[key] = g
	return g
}

// GeodesicRHS returns the cached right-hand side of the mu-th geodesic
// equation, d^2 x^mu/dlambda^2 expressed in coordinates and velocity
// symbols. The expression is fixed for the lifetime of the Metric.
func (m *Metric) GeodesicRHS(mu int) expr.Expr {
	if mu < 0 || mu >= m.dim {
		panic(fmt.Sprintf("metric: GeodesicRHS index %d out of range [0,%d)", mu, m.dim))
	}
	return m.rhs[mu]
}

// GeodesicEquations returns all dim cached right-hand sides in
// coordinate order.
func (m *Metric) GeodesicEquations() []expr.Expr {
	return append([]expr.Expr(nil), m.rhs...)
}

func (m *Metric) assembleGeodesicRHS(mu int) expr.Expr {
	terms := make([]expr.Expr, 0, m.dim*m.dim)
	for rho := 0; rho < m.dim; rho++ {
		for sigma := 0; sigma < m.dim; sigma++ {
			terms = append(terms, expr.NegOf(expr.MulOf(
				m.Christoffel(mu, rho, sigma),
				m.vels[rho],
				m.vels[sigma],
			)))
		}
	}
	return expr.AddOf(terms...)
}

func (m *Metric) checkIndex(op string, idx ...int) {
	for _, i := range idx {
		if i < 0 || i >= m.dim {
			panic(fmt.Sprintf("metric: %s index %d out of range [0,%d)", op, i, m.dim))
		}
	}
}
