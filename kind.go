package goexpr

import (
	"math"
	"strconv"
)

// Kind identifies the type of a node.
type Kind uint8

// The node kinds. Number and Symbol are terminals, the rest are operators.
const (
	KindInvalid Kind = iota
	KindNumber
	KindSymbol
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindPow
)

// MaxPrecedence is the precedence of terminals. They are never parenthesized.
const MaxPrecedence = math.MaxInt

// KindNames maps the kinds to names for presentation
var KindNames = map[Kind]string{
	KindInvalid: "Invalid",
	KindNumber:  "Number",
	KindSymbol:  "Symbol",
	KindAdd:     "Add",
	KindSub:     "Sub",
	KindMul:     "Mul",
	KindDiv:     "Div",
	KindPow:     "Pow",
}

// KindTokens maps the operator kinds to the token used when rendering
var KindTokens = map[Kind]string{
	KindAdd: "+",
	KindSub: "-",
	KindMul: "*",
	KindDiv: "/",
	KindPow: "^",
}

var kindPrecedence = map[Kind]int{
	KindAdd: 1,
	KindSub: 1,
	KindMul: 2,
	KindDiv: 2,
	KindPow: 3,
}

func (k Kind) String() string {
	if name, ok := KindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsTerminal reports whether nodes of this kind hold a value and no operands.
func (k Kind) IsTerminal() bool { return k == KindNumber || k == KindSymbol }

// IsOperator reports whether nodes of this kind hold operands.
func (k Kind) IsOperator() bool {
	_, ok := KindTokens[k]
	return ok
}

// Token returns the rendering token, or "" for terminals.
func (k Kind) Token() string { return KindTokens[k] }

// Precedence returns the binding strength used by the renderer.
func (k Kind) Precedence() int {
	if p, ok := kindPrecedence[k]; ok {
		return p
	}
	return MaxPrecedence
}
