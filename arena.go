// Package goexpr builds algebraic expressions as immutable node graphs, renders
// them as text and differentiates them symbolically.
//
// Design goals:
//   - Nodes live in an append-only Arena and are addressed by opaque handles
//   - Shared substructure is explicit: the same handle may appear under many parents
//   - Deterministic, precedence-aware rendering
//   - A generic memoized postorder traversal for bottom-up computations
//   - Rule-table differentiation that can be extended per node kind
//
// Expressions are built programmatically; there is no parser, simplifier or
// numeric evaluator.
package goexpr

import (
	"math"
	"math/big"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// ============================================================
// Arena — node storage
// ============================================================

// ID is the opaque handle of a node inside its Arena. IDs are never reused.
type ID uint32

type node struct {
	kind     Kind
	value    interface{}
	operands []ID
}

// Arena owns every node built through it. It is append-only: a node never
// changes after it is allocated, and operands always refer to nodes that
// existed before their parent, so the node graph cannot contain cycles.
//
// An Arena is safe for concurrent use.
type Arena struct {
	mu    sync.RWMutex
	nodes []node
}

// NewArena returns an empty Arena.
func NewArena() *Arena { return &Arena{} }

// Len returns the number of nodes allocated so far.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.nodes)
}

func (a *Arena) alloc(n node) Expr {
	a.mu.Lock()
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	a.mu.Unlock()
	return Expr{arena: a, id: id}
}

func (a *Arena) get(id ID) node {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.nodes[id]
}

// ============================================================
// Terminals
// ============================================================

// Numeric is the set of Go types accepted by Number.
type Numeric interface {
	constraints.Integer | constraints.Float | constraints.Complex
}

// Number allocates a Number node in a. It cannot fail for its input types.
func Number[T Numeric](a *Arena, v T) Expr {
	e, err := a.NewNumber(v)
	if err != nil {
		panic(errors.WithMessage(err, "goexpr"))
	}
	return e
}

// NewNumber allocates a Number node holding v. Integers are stored as int64
// (or *big.Int when they do not fit), reals as float64 and complex values as
// complex128. *big.Int, *big.Rat and *big.Float are copied. Any other value
// is a ConstructionError.
func (a *Arena) NewNumber(v interface{}) (Expr, error) {
	val, ok := normalizeNumber(v)
	if !ok {
		return Expr{}, newConstructionError(KindNumber, "number value must be numeric, got %T", v)
	}
	return a.alloc(node{kind: KindNumber, value: val}), nil
}

func normalizeNumber(v interface{}) (interface{}, bool) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, false
		}
		return new(big.Int).Set(n), true
	case *big.Rat:
		if n == nil {
			return nil, false
		}
		return new(big.Rat).Set(n), true
	case *big.Float:
		if n == nil {
			return nil, false
		}
		return new(big.Float).Copy(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return new(big.Int).SetUint64(u), true
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex(), true
	}
	return nil, false
}

// Symbol allocates a Symbol node named name.
func (a *Arena) Symbol(name string) Expr {
	return a.alloc(node{kind: KindSymbol, value: name})
}

// NewSymbol allocates a Symbol node from a string value. Any other value is a
// ConstructionError.
func (a *Arena) NewSymbol(v interface{}) (Expr, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return Expr{}, newConstructionError(KindSymbol, "symbol value must be a string, got %T", v)
	}
	return a.Symbol(rv.String()), nil
}

// ============================================================
// Operators
// ============================================================

// Operator allocates an operator node of the given kind. It needs at least one
// operand, and every operand must be a valid Expr from this Arena. Arity is not
// checked any further.
func (a *Arena) Operator(kind Kind, operands ...Expr) (Expr, error) {
	if !kind.IsOperator() {
		return Expr{}, newConstructionError(kind, "%s is not an operator kind", kind)
	}
	if len(operands) == 0 {
		return Expr{}, newConstructionError(kind, "operators must have at least one operand")
	}
	ids := make([]ID, len(operands))
	for i, op := range operands {
		if !op.IsValid() {
			return Expr{}, newConstructionError(kind, "operand %d of %s is not a valid expression", i, kind)
		}
		if op.arena != a {
			return Expr{}, newConstructionError(kind, "operand %d of %s belongs to another arena", i, kind)
		}
		ids[i] = op.id
	}
	return a.alloc(node{kind: kind, operands: ids}), nil
}

func (a *Arena) mustOperator(kind Kind, operands []Expr) Expr {
	e, err := a.Operator(kind, operands...)
	if err != nil {
		panic(errors.WithMessage(err, "goexpr"))
	}
	return e
}

// Add allocates an Add node. It panics if the operands are unusable.
func (a *Arena) Add(operands ...Expr) Expr { return a.mustOperator(KindAdd, operands) }

// Sub allocates a Sub node. It panics if the operands are unusable.
func (a *Arena) Sub(operands ...Expr) Expr { return a.mustOperator(KindSub, operands) }

// Mul allocates a Mul node. It panics if the operands are unusable.
func (a *Arena) Mul(operands ...Expr) Expr { return a.mustOperator(KindMul, operands) }

// Div allocates a Div node. It panics if the operands are unusable.
func (a *Arena) Div(operands ...Expr) Expr { return a.mustOperator(KindDiv, operands) }

// Pow allocates a Pow node. It panics if the operands are unusable.
func (a *Arena) Pow(operands ...Expr) Expr { return a.mustOperator(KindPow, operands) }
