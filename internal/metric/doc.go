// Package metric derives the equations of motion of free fall from a
// spacetime metric given in closed symbolic form.
//
// A Metric owns the covariant component matrix g, its contravariant
// inverse (computed once at construction), the ordered coordinate
// basis, and one fresh velocity symbol per coordinate. From these it
// derives Christoffel symbols
//
//	Gamma^mu_{rho sigma} = 1/2 sum_nu g_inv[mu,nu] *
//	    (d_rho g[nu,sigma] + d_sigma g[nu,rho] - d_nu g[rho,sigma])
//
// and the right-hand side of the geodesic equation in first-order form
//
//	d^2 x^mu / dlambda^2 = - sum_{rho,sigma}
//	    Gamma^mu_{rho sigma} u^rho u^sigma.
//
// CONSTRUCTION CONTRACT:
//
// New validates its input, inverts g exactly once, and eagerly
// assembles all dim geodesic right-hand sides before returning. The
// resulting Metric is immutable; every query is a read of cached or
// pure-function state, so a Metric may be shared freely between
// goroutines. The dim right-hand sides are independent of each other
// and are computed concurrently inside New.
//
// Christoffel symbols are computed on demand and memoized per index
// triple, which is safe because they are pure functions of the
// immutable g, g_inv and coordinates.
package metric
