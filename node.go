package goexpr

// Expr is a handle to a node in an Arena. It is a small value and may be
// copied and compared freely; two Exprs are the same node exactly when they
// share arena and ID. The zero Expr is invalid.
type Expr struct {
	arena *Arena
	id    ID
}

// IsValid reports whether e refers to a node.
func (e Expr) IsValid() bool { return e.arena != nil }

// ID returns the node's handle within its Arena.
func (e Expr) ID() ID { return e.id }

// Arena returns the Arena that owns the node.
func (e Expr) Arena() *Arena { return e.arena }

func (e Expr) node() node {
	if e.arena == nil {
		panic("goexpr: use of invalid Expr")
	}
	return e.arena.get(e.id)
}

// Kind returns the node kind, or KindInvalid for the zero Expr.
func (e Expr) Kind() Kind {
	if e.arena == nil {
		return KindInvalid
	}
	return e.node().kind
}

func (e Expr) IsTerminal() bool { return e.Kind().IsTerminal() }
func (e Expr) IsOperator() bool { return e.Kind().IsOperator() }
func (e Expr) Precedence() int  { return e.Kind().Precedence() }
func (e Expr) Token() string    { return e.Kind().Token() }

// Value returns the payload of a terminal: the normalized number for a Number
// node, the name for a Symbol node, and nil for operators.
func (e Expr) Value() interface{} { return e.node().value }

// Name returns the name of a Symbol node and "" for anything else.
func (e Expr) Name() string {
	name, _ := e.node().value.(string)
	return name
}

// NumOperands returns the arity of the node.
func (e Expr) NumOperands() int { return len(e.node().operands) }

// Operand returns the i-th operand.
func (e Expr) Operand(i int) Expr {
	return Expr{arena: e.arena, id: e.node().operands[i]}
}

// Operands returns the operands in order. The slice is a copy.
func (e Expr) Operands() []Expr {
	ids := e.node().operands
	ops := make([]Expr, len(ids))
	for i, id := range ids {
		ops[i] = Expr{arena: e.arena, id: id}
	}
	return ops
}
