package goexpr

import "github.com/pkg/errors"

// Combine builds kind(left, right). Each side may be an Expr or a raw numeric
// literal, which is wrapped in a Number first.
func (a *Arena) Combine(kind Kind, left, right interface{}) (Expr, error) {
	l, err := a.coerce(left)
	if err != nil {
		return Expr{}, errors.WithMessagef(err, "left operand of %s", kind)
	}
	r, err := a.coerce(right)
	if err != nil {
		return Expr{}, errors.WithMessagef(err, "right operand of %s", kind)
	}
	return a.Operator(kind, l, r)
}

// CombineReflected builds the node for "literal OP e". Sub, Div and Pow keep
// the literal on the left; Add and Mul delegate to the forward form and so
// produce kind(e, literal).
func (a *Arena) CombineReflected(kind Kind, e Expr, literal interface{}) (Expr, error) {
	switch kind {
	case KindAdd, KindMul:
		return a.Combine(kind, e, literal)
	}
	return a.Combine(kind, literal, e)
}

func (a *Arena) coerce(v interface{}) (Expr, error) {
	if e, ok := v.(Expr); ok {
		return e, nil
	}
	return a.NewNumber(v)
}

func (e Expr) combine(kind Kind, other interface{}, reflected bool) Expr {
	if e.arena == nil {
		panic("goexpr: use of invalid Expr")
	}
	var (
		r   Expr
		err error
	)
	if reflected {
		r, err = e.arena.CombineReflected(kind, e, other)
	} else {
		r, err = e.arena.Combine(kind, e, other)
	}
	if err != nil {
		panic(errors.WithMessage(err, "goexpr"))
	}
	return r
}

// Add returns e + other. other is an Expr or a numeric literal; anything else
// panics with a ConstructionError.
func (e Expr) Add(other interface{}) Expr { return e.combine(KindAdd, other, false) }

// Sub returns e - other.
func (e Expr) Sub(other interface{}) Expr { return e.combine(KindSub, other, false) }

// Mul returns e * other.
func (e Expr) Mul(other interface{}) Expr { return e.combine(KindMul, other, false) }

// Div returns e / other.
func (e Expr) Div(other interface{}) Expr { return e.combine(KindDiv, other, false) }

// Pow returns e ^ other.
func (e Expr) Pow(other interface{}) Expr { return e.combine(KindPow, other, false) }

// RAdd returns other + e, built as Add(e, other).
func (e Expr) RAdd(other interface{}) Expr { return e.combine(KindAdd, other, true) }

// RSub returns other - e, built as Sub(other, e).
func (e Expr) RSub(other interface{}) Expr { return e.combine(KindSub, other, true) }

// RMul returns other * e, built as Mul(e, other).
func (e Expr) RMul(other interface{}) Expr { return e.combine(KindMul, other, true) }

// RDiv returns other / e, built as Div(other, e).
func (e Expr) RDiv(other interface{}) Expr { return e.combine(KindDiv, other, true) }

// RPow returns other ^ e, built as Pow(other, e).
func (e Expr) RPow(other interface{}) Expr { return e.combine(KindPow, other, true) }
