package goexpr

import "github.com/op/go-logging"

// Postorder evaluates fn bottom-up over root and everything reachable from it
// and returns the value computed for root.
//
// fn receives a node and the values already computed for its operands, in
// operand order (terminals receive none). Operands are visited left to right
// before their parent. A node reachable along several paths is evaluated once
// and every parent sees the same result; the memo lives for this call only.
//
// The walk uses an explicit stack, so the depth of the expression is limited
// only by memory.
func Postorder[T any](root Expr, fn func(e Expr, operands ...T) T) T {
	return PostorderWith(root, func(e Expr, _ struct{}, operands ...T) T {
		return fn(e, operands...)
	}, struct{}{})
}

// PostorderWith is Postorder with an extra context value handed unchanged to
// every call of fn.
func PostorderWith[T, C any](root Expr, fn func(e Expr, ctx C, operands ...T) T, ctx C) T {
	if root.arena == nil {
		panic("goexpr: postorder over invalid Expr")
	}
	a := root.arena

	type frame struct {
		id       ID
		expanded bool
	}
	visited := make(map[ID]T)
	stack := []frame{{id: root.id}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, done := visited[f.id]; done {
			continue
		}
		n := a.get(f.id)

		if f.expanded {
			results := make([]T, len(n.operands))
			for i, c := range n.operands {
				results[i] = visited[c]
			}
			visited[f.id] = fn(Expr{arena: a, id: f.id}, ctx, results...)
			continue
		}

		stack = append(stack, frame{id: f.id, expanded: true})
		// Reversed so the leftmost operand is popped first.
		for i := len(n.operands) - 1; i >= 0; i-- {
			c := n.operands[i]
			if _, done := visited[c]; !done {
				stack = append(stack, frame{id: c})
			}
		}
	}

	if log.IsEnabledFor(logging.DEBUG) {
		log.Debugf("postorder from %s #%d visited %d nodes", root.Kind(), root.id, len(visited))
	}
	return visited[root.id]
}

// Size returns the number of distinct nodes reachable from e, e included.
func Size(e Expr) int {
	count := 0
	Postorder(e, func(Expr, ...struct{}) struct{} {
		count++
		return struct{}{}
	})
	return count
}
