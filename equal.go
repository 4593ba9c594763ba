package goexpr

import "math/big"

// Equal reports whether a and b have the same structure: same kinds, same
// terminal values and pairwise equal operands in the same order. The nodes
// may live in different arenas. Number values compare equal only when they
// were normalized to the same Go type, so Number(2) and Number(2.0) differ.
//
// Each pair of nodes is compared once, so shared substructure costs no more
// than the number of distinct pairs.
func Equal(a, b Expr) bool {
	type pair struct{ a, b Expr }
	stack := []pair{{a, b}}
	// Keyed by ID alone: every pair draws a from a's arena and b from b's.
	seen := make(map[[2]ID]struct{})
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.a.IsValid() != p.b.IsValid() {
			return false
		}
		if !p.a.IsValid() || p.a == p.b {
			continue
		}
		key := [2]ID{p.a.id, p.b.id}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		na, nb := p.a.node(), p.b.node()
		if na.kind != nb.kind || len(na.operands) != len(nb.operands) {
			return false
		}
		if !valueEqual(na.value, nb.value) {
			return false
		}
		for i := range na.operands {
			stack = append(stack, pair{
				a: Expr{arena: p.a.arena, id: na.operands[i]},
				b: Expr{arena: p.b.arena, id: nb.operands[i]},
			})
		}
	}
	return true
}

func valueEqual(x, y interface{}) bool {
	switch xv := x.(type) {
	case *big.Int:
		yv, ok := y.(*big.Int)
		return ok && xv.Cmp(yv) == 0
	case *big.Rat:
		yv, ok := y.(*big.Rat)
		return ok && xv.Cmp(yv) == 0
	case *big.Float:
		yv, ok := y.(*big.Float)
		return ok && xv.Cmp(yv) == 0
	}
	return x == y
}
