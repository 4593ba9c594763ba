package goexpr

import (
	"math"
	"math/big"
	"sync"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

// ============================================================
// Differentiator — rule table
// ============================================================

// DeriveFunc differentiates an operand with respect to the variable of the
// enclosing call.
type DeriveFunc func(operand Expr) (Expr, error)

// Rule differentiates a node of one kind with respect to the variable named v.
// It calls derive for every operand derivative it needs and builds the result
// in e's arena.
type Rule func(e Expr, v string, derive DeriveFunc) (Expr, error)

// Differentiator dispatches differentiation on node kind. Rules call back into
// the Differentiator directly, so nothing is memoized: a shared subexpression
// is differentiated once per occurrence.
//
// A Differentiator is safe for concurrent use.
type Differentiator struct {
	mu       sync.RWMutex
	rules    map[Kind]Rule
	maxDepth int
}

var defaultRules = map[Kind]Rule{
	KindNumber: numberRule,
	KindSymbol: symbolRule,
	KindAdd:    addRule,
	KindMul:    mulRule,
	KindDiv:    divRule,
	KindPow:    powRule,
}

// NewDifferentiator returns a Differentiator with the built-in rules for
// Number, Symbol, Add, Mul, Div and Pow. A nil cfg means NewDefaultConfig().
func NewDifferentiator(cfg *Config) (*Differentiator, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid config")
	}
	d := &Differentiator{
		rules:    make(map[Kind]Rule, len(defaultRules)),
		maxDepth: cfg.MaxDepth,
	}
	for k, r := range defaultRules {
		d.rules[k] = r
	}
	return d, nil
}

// Register installs rule for kind, replacing any existing rule.
func (d *Differentiator) Register(kind Kind, rule Rule) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rules[kind] = rule
}

func (d *Differentiator) rule(kind Kind) (Rule, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rules[kind]
	return r, ok
}

// Differentiate returns the derivative of e with respect to the variable v.
// On error no partial result is returned.
func (d *Differentiator) Differentiate(e Expr, v string) (Expr, error) {
	r, err := d.derive(e, v, 0)
	if err != nil {
		return Expr{}, err
	}
	return r, nil
}

func (d *Differentiator) derive(e Expr, v string, depth int) (Expr, error) {
	if depth > d.maxDepth {
		return Expr{}, errors.WithStack(&DepthError{Limit: d.maxDepth})
	}
	kind := e.Kind()
	rule, ok := d.rule(kind)
	if !ok {
		log.Infof("no differentiation rule for %s", kind)
		return Expr{}, errors.WithStack(&UnsupportedKindError{Kind: kind})
	}
	if log.IsEnabledFor(logging.DEBUG) {
		log.Debugf("d/d%s %s #%d at depth %d", v, kind, e.id, depth)
	}
	return rule(e, v, func(operand Expr) (Expr, error) {
		return d.derive(operand, v, depth+1)
	})
}

var (
	defaultMu             sync.RWMutex
	defaultDifferentiator *Differentiator
)

func init() {
	d, err := NewDifferentiator(nil)
	if err != nil {
		panic(err)
	}
	defaultDifferentiator = d
}

// Default returns the Differentiator used by Differentiate.
func Default() *Differentiator {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultDifferentiator
}

// Differentiate returns the derivative of e with respect to the variable v
// using the default rules.
func Differentiate(e Expr, v string) (Expr, error) {
	return Default().Differentiate(e, v)
}

// ============================================================
// Built-in rules
// ============================================================

func numberRule(e Expr, _ string, _ DeriveFunc) (Expr, error) {
	return Number(e.Arena(), 0), nil
}

func symbolRule(e Expr, v string, _ DeriveFunc) (Expr, error) {
	if e.Name() == v {
		return Number(e.Arena(), 1), nil
	}
	return Number(e.Arena(), 0), nil
}

// (a1 + ... + an)' = a1' + ... + an'
func addRule(e Expr, _ string, derive DeriveFunc) (Expr, error) {
	ops := e.Operands()
	ds := make([]Expr, len(ops))
	for i := range ops {
		d, err := deriveOperand(e, i, derive)
		if err != nil {
			return Expr{}, err
		}
		ds[i] = d
	}
	return e.Arena().Add(ds...), nil
}

// (f * g)' = f' * g + g' * f
func mulRule(e Expr, _ string, derive DeriveFunc) (Expr, error) {
	f, g, err := binaryOperands(e)
	if err != nil {
		return Expr{}, err
	}
	df, dg, err := deriveBoth(e, derive)
	if err != nil {
		return Expr{}, err
	}
	a := e.Arena()
	return a.Add(a.Mul(df, g), a.Mul(dg, f)), nil
}

// (f / g)' = (f' * g - g' * f) / g^2
func divRule(e Expr, _ string, derive DeriveFunc) (Expr, error) {
	f, g, err := binaryOperands(e)
	if err != nil {
		return Expr{}, err
	}
	df, dg, err := deriveBoth(e, derive)
	if err != nil {
		return Expr{}, err
	}
	a := e.Arena()
	return a.Div(
		a.Sub(a.Mul(df, g), a.Mul(dg, f)),
		a.Pow(g, Number(a, 2)),
	), nil
}

// (f^n)' = n * f^(n-1) * f' for a Number exponent n. n-1 is computed from the
// literal, so the new exponent is itself a Number.
func powRule(e Expr, _ string, derive DeriveFunc) (Expr, error) {
	base, exp, err := binaryOperands(e)
	if err != nil {
		return Expr{}, err
	}
	if exp.Kind() != KindNumber {
		log.Infof("cannot differentiate %s with a %s exponent", KindPow, exp.Kind())
		return Expr{}, errors.WithStack(&UnsupportedKindError{Kind: KindPow, Reason: "variable exponents not supported"})
	}
	db, err := deriveOperand(e, 0, derive)
	if err != nil {
		return Expr{}, err
	}
	a := e.Arena()
	return a.Mul(
		a.Mul(exp, a.Pow(base, decrement(exp))),
		db,
	), nil
}

func decrement(n Expr) Expr {
	a := n.Arena()
	var v interface{}
	switch x := n.Value().(type) {
	case int64:
		if x == math.MinInt64 {
			v = new(big.Int).Sub(big.NewInt(x), big.NewInt(1))
		} else {
			v = x - 1
		}
	case float64:
		v = x - 1
	case complex128:
		v = x - 1
	case *big.Int:
		v = new(big.Int).Sub(x, big.NewInt(1))
	case *big.Rat:
		v = new(big.Rat).Sub(x, big.NewRat(1, 1))
	case *big.Float:
		v = new(big.Float).Sub(x, big.NewFloat(1))
	}
	e, err := a.NewNumber(v)
	if err != nil {
		panic(errors.WithMessage(err, "goexpr"))
	}
	return e
}

func binaryOperands(e Expr) (Expr, Expr, error) {
	if n := e.NumOperands(); n != 2 {
		log.Infof("%s rule applied to %d operands", e.Kind(), n)
		return Expr{}, Expr{}, errors.WithStack(&ArityError{Kind: e.Kind(), Want: 2, Got: n})
	}
	return e.Operand(0), e.Operand(1), nil
}

func deriveBoth(e Expr, derive DeriveFunc) (Expr, Expr, error) {
	df, err := deriveOperand(e, 0, derive)
	if err != nil {
		return Expr{}, Expr{}, err
	}
	dg, err := deriveOperand(e, 1, derive)
	if err != nil {
		return Expr{}, Expr{}, err
	}
	return df, dg, nil
}

func deriveOperand(e Expr, i int, derive DeriveFunc) (Expr, error) {
	d, err := derive(e.Operand(i))
	if err != nil {
		return Expr{}, errors.WithMessagef(err, "operand %d of %s", i, e.Kind())
	}
	return d, nil
}
