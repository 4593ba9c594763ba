package goexpr

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// String renders the expression. An operand is parenthesized only when it is
// an operator that binds more loosely than its parent; operands of equal
// precedence are not, so Sub(Sub(a, b), c) and Sub(a, Sub(b, c)) both render
// as "a - b - c". Mul prints its Number operands first.
func (e Expr) String() string {
	if !e.IsValid() {
		return "<invalid>"
	}
	return Postorder(e, renderNode)
}

// String renders e; see Expr.String.
func String(e Expr) string { return e.String() }

func renderNode(e Expr, operands ...string) string {
	kind := e.Kind()
	if kind.IsTerminal() {
		return formatValue(e.Value())
	}
	ops := e.Operands()
	parts := make([]string, len(ops))
	for i, op := range ops {
		if op.IsOperator() && op.Precedence() < kind.Precedence() {
			parts[i] = "(" + operands[i] + ")"
		} else {
			parts[i] = operands[i]
		}
	}
	if kind == KindMul {
		parts = numbersFirst(ops, parts)
	}
	return strings.Join(parts, " "+kind.Token()+" ")
}

// numbersFirst reorders rendered factors so Number operands come first. The
// node itself is untouched.
func numbersFirst(ops []Expr, parts []string) []string {
	numbers := make([]string, 0, len(parts))
	others := make([]string, 0, len(parts))
	for i, op := range ops {
		if op.Kind() == KindNumber {
			numbers = append(numbers, parts[i])
		} else {
			others = append(others, parts[i])
		}
	}
	return append(numbers, others...)
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case complex128:
		return strconv.FormatComplex(x, 'g', -1, 128)
	case *big.Int:
		return x.String()
	case *big.Rat:
		return x.RatString()
	case *big.Float:
		return x.Text('g', -1)
	}
	return fmt.Sprint(v)
}

// GoString returns a constructor-style form such as
// Add(Symbol("x"), Number(1)).
func (e Expr) GoString() string {
	if !e.IsValid() {
		return "Expr{}"
	}
	return Postorder(e, func(n Expr, operands ...string) string {
		switch n.Kind() {
		case KindSymbol:
			return "Symbol(" + strconv.Quote(n.Name()) + ")"
		case KindNumber:
			return "Number(" + formatValue(n.Value()) + ")"
		}
		return n.Kind().String() + "(" + strings.Join(operands, ", ") + ")"
	})
}

// CollectSymbols returns the sorted names of the symbols reachable from e.
func CollectSymbols(e Expr) []string {
	seen := map[string]struct{}{}
	Postorder(e, func(n Expr, _ ...struct{}) struct{} {
		if n.Kind() == KindSymbol {
			seen[n.Name()] = struct{}{}
		}
		return struct{}{}
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
