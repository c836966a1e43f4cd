// Package expr provides the symbolic expression engine underlying the
// geodesic deriver.
//
// An expression is an immutable tree built from exactly the node kinds
// the tensor-calculus domain needs: exact rational constants, named
// symbols, sums, products, powers, negation, sine and cosine. There is
// deliberately no general computer-algebra simplifier; constructors
// normalize zero and one terms opportunistically and nothing more.
//
// Key design constraints:
//   - Expressions are immutable after construction. Subtrees may be
//     structurally shared; nothing ever mutates a node.
//   - Constants are exact (math/big.Rat). Floats appear only at the
//     numeric evaluation boundary (Eval).
//   - Expr is a sealed interface; only the node types in this package
//     implement it, so type switches over nodes are exhaustive.
//   - Differentiation is total: d/dx of an expression not containing
//     x is zero, never an error.
package expr
