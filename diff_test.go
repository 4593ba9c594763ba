package goexpr_test

import (
	"bytes"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/njchilds90/goexpr"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	. "gopkg.in/check.v1"
)

type DiffSuite struct {
	a *goexpr.Arena
	x goexpr.Expr
	y goexpr.Expr
}

var _ = Suite(&DiffSuite{})

func (s *DiffSuite) SetUpTest(c *C) {
	s.a = goexpr.NewArena()
	s.x = s.a.Symbol("x")
	s.y = s.a.Symbol("y")
}

func (s *DiffSuite) num(v int) goexpr.Expr { return goexpr.Number(s.a, v) }

func (s *DiffSuite) assertDerivative(c *C, e goexpr.Expr, want goexpr.Expr) goexpr.Expr {
	d, err := goexpr.Differentiate(e, "x")
	c.Assert(err, IsNil)
	c.Assert(goexpr.Equal(d, want), Equals, true, Commentf("want %#v, got %#v", want, d))
	return d
}

// ============================================================
// Built-in rules
// ============================================================

func (s *DiffSuite) Test_number(c *C) {
	s.assertDerivative(c, s.num(5), s.num(0))
	s.assertDerivative(c, goexpr.Number(s.a, 2.5), s.num(0))
}

func (s *DiffSuite) Test_symbol(c *C) {
	s.assertDerivative(c, s.x, s.num(1))
	s.assertDerivative(c, s.y, s.num(0))
}

func (s *DiffSuite) Test_sum(c *C) {
	s.assertDerivative(c, s.a.Add(s.x, s.y), s.a.Add(s.num(1), s.num(0)))
	s.assertDerivative(c, s.a.Add(s.x, s.y, s.num(3), s.x),
		s.a.Add(s.num(1), s.num(0), s.num(0), s.num(1)))
}

func (s *DiffSuite) Test_productKeepsOperandOrder(c *C) {
	d := s.assertDerivative(c, s.a.Mul(s.x, s.y),
		s.a.Add(s.a.Mul(s.num(1), s.y), s.a.Mul(s.num(0), s.x)))
	c.Assert(d.GoString(), Equals, `Add(Mul(Number(1), Symbol("y")), Mul(Number(0), Symbol("x")))`)
}

func (s *DiffSuite) Test_quotient(c *C) {
	d := s.assertDerivative(c, s.a.Div(s.x, s.y),
		s.a.Div(
			s.a.Sub(s.a.Mul(s.num(1), s.y), s.a.Mul(s.num(0), s.x)),
			s.a.Pow(s.y, s.num(2)),
		))
	c.Assert(d.String(), Equals, "(1 * y - 0 * x) / y ^ 2")
}

func (s *DiffSuite) Test_powerWithConstantExponent(c *C) {
	three := s.num(3)
	// The exponent literal is decremented into a new Number; nothing else is folded.
	d := s.assertDerivative(c, s.a.Pow(s.x, three),
		s.a.Mul(s.a.Mul(s.num(3), s.a.Pow(s.x, s.num(2))), s.num(1)))
	// The exponent node is reused, not copied.
	c.Assert(d.Operand(0).Operand(0), Equals, three)
	c.Assert(d.String(), Equals, "1 * 3 * x ^ 2")
}

func (s *DiffSuite) Test_powerWithRationalExponent(c *C) {
	half, err := s.a.NewNumber(big.NewRat(1, 2))
	c.Assert(err, IsNil)
	d, err := goexpr.Differentiate(s.a.Pow(s.x, half), "x")
	c.Assert(err, IsNil)
	c.Assert(d.GoString(), Equals, `Mul(Mul(Number(1/2), Pow(Symbol("x"), Number(-1/2))), Number(1))`)
}

func (s *DiffSuite) Test_powerWithVariableExponent(c *C) {
	d, err := goexpr.Differentiate(s.a.Pow(s.x, s.a.Symbol("n")), "x")
	c.Assert(goexpr.IsUnsupportedKind(err), Equals, true)
	c.Assert(err, ErrorMatches, "UnsupportedKind: cannot differentiate node of kind Pow: variable exponents not supported")
	c.Assert(d.IsValid(), Equals, false)
}

func (s *DiffSuite) Test_composite(c *C) {
	d, err := goexpr.Differentiate(s.a.Mul(s.a.Pow(s.x, s.num(2)), s.y), "x")
	c.Assert(err, IsNil)
	c.Assert(d.String(), Equals, "1 * 2 * x ^ 1 * y + 0 * x ^ 2")
}

func (s *DiffSuite) Test_secondDerivative(c *C) {
	d1, err := goexpr.Differentiate(s.a.Pow(s.x, s.num(3)), "x")
	c.Assert(err, IsNil)
	d2, err := goexpr.Differentiate(d1, "x")
	c.Assert(err, IsNil)
	c.Assert(d2.String(), Equals, "1 * (0 * x ^ 2 + 3 * 1 * 2 * x ^ 1) + 0 * 3 * x ^ 2")
}

// ============================================================
// Failures
// ============================================================

func (s *DiffSuite) Test_binaryRulesCheckArity(c *C) {
	for _, e := range []goexpr.Expr{
		s.a.Mul(s.x, s.y, s.x),
		s.a.Div(s.x, s.y, s.num(2)),
		s.a.Mul(s.x),
		s.a.Pow(s.x),
	} {
		d, err := goexpr.Differentiate(e, "x")
		c.Assert(goexpr.IsArityError(err), Equals, true, Commentf("%#v: %v", e, err))
		c.Assert(d.IsValid(), Equals, false)
	}

	_, err := goexpr.Differentiate(s.a.Mul(s.x, s.y, s.x), "x")
	c.Assert(err, ErrorMatches, "ArityError: Mul rule expects 2 operands, got 3")
}

func (s *DiffSuite) Test_subHasNoDefaultRule(c *C) {
	d, err := goexpr.Differentiate(s.a.Sub(s.x, s.num(1)), "x")
	c.Assert(goexpr.IsUnsupportedKind(err), Equals, true)
	c.Assert(err, ErrorMatches, "UnsupportedKind: cannot differentiate node of kind Sub")
	c.Assert(d.IsValid(), Equals, false)
}

func (s *DiffSuite) Test_nestedFailureNamesThePath(c *C) {
	e := s.a.Mul(s.y, s.a.Add(s.x, s.a.Sub(s.x, s.num(1))))
	d, err := goexpr.Differentiate(e, "x")
	c.Assert(d.IsValid(), Equals, false)
	c.Assert(err, ErrorMatches, "operand 1 of Mul: operand 1 of Add: UnsupportedKind: cannot differentiate node of kind Sub")

	uk, ok := errors.Cause(err).(*goexpr.UnsupportedKindError)
	c.Assert(ok, Equals, true)
	c.Assert(uk.Kind, Equals, goexpr.KindSub)
}

func (s *DiffSuite) Test_invalidExpr(c *C) {
	_, err := goexpr.Differentiate(goexpr.Expr{}, "x")
	c.Assert(err, ErrorMatches, "UnsupportedKind: cannot differentiate node of kind Invalid")
}

func (s *DiffSuite) Test_depthLimit(c *C) {
	cfg := goexpr.NewDefaultConfig()
	cfg.MaxDepth = 10
	d, err := goexpr.NewDifferentiator(cfg)
	c.Assert(err, IsNil)

	e := s.x
	for i := 0; i < 20; i++ {
		e = e.Add(1)
	}
	_, err = d.Differentiate(e, "x")
	var de *goexpr.DepthError
	c.Assert(errors.As(err, &de), Equals, true)
	c.Assert(de.Limit, Equals, 10)

	shallow := s.x.Add(1)
	_, err = d.Differentiate(shallow, "x")
	c.Assert(err, IsNil)
}

// ============================================================
// Registry
// ============================================================

func (s *DiffSuite) Test_registerRule(c *C) {
	d, err := goexpr.NewDifferentiator(nil)
	c.Assert(err, IsNil)
	d.Register(goexpr.KindSub, func(e goexpr.Expr, v string, derive goexpr.DeriveFunc) (goexpr.Expr, error) {
		ds := make([]goexpr.Expr, e.NumOperands())
		for i, op := range e.Operands() {
			r, err := derive(op)
			if err != nil {
				return goexpr.Expr{}, err
			}
			ds[i] = r
		}
		return e.Arena().Sub(ds...), nil
	})

	got, err := d.Differentiate(s.a.Sub(s.a.Mul(s.x, s.y), s.x), "x")
	c.Assert(err, IsNil)
	want := s.a.Sub(s.a.Add(s.a.Mul(s.num(1), s.y), s.a.Mul(s.num(0), s.x)), s.num(1))
	c.Assert(goexpr.Equal(got, want), Equals, true, Commentf("got %#v", got))

	// The default table is untouched.
	_, err = goexpr.Differentiate(s.a.Sub(s.x, s.y), "x")
	c.Assert(goexpr.IsUnsupportedKind(err), Equals, true)
}

func (s *DiffSuite) Test_sharedSubexpressionIsDifferentiatedPerOccurrence(c *C) {
	d, err := goexpr.NewDifferentiator(nil)
	c.Assert(err, IsNil)
	calls := 0
	d.Register(goexpr.KindSymbol, func(e goexpr.Expr, v string, _ goexpr.DeriveFunc) (goexpr.Expr, error) {
		calls++
		if e.Name() == v {
			return goexpr.Number(e.Arena(), 1), nil
		}
		return goexpr.Number(e.Arena(), 0), nil
	})

	_, err = d.Differentiate(s.a.Add(s.x, s.x, s.x), "x")
	c.Assert(err, IsNil)
	c.Assert(calls, Equals, 3)
}

func (s *DiffSuite) Test_concurrentUse(c *C) {
	e := s.a.Div(s.a.Pow(s.x, s.num(4)), s.a.Add(s.x, s.y))
	want, err := goexpr.Differentiate(e, "x")
	c.Assert(err, IsNil)

	const workers = 8
	results := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := goexpr.Differentiate(e, "x")
			errs[i] = err
			if err == nil {
				results[i] = d.String()
			}
		}(i)
	}
	wg.Wait()
	for i := 0; i < workers; i++ {
		c.Assert(errs[i], IsNil)
		c.Assert(results[i], Equals, want.String())
	}
}

// ============================================================
// Configuration
// ============================================================

type ConfigSuite struct{}

var _ = Suite(&ConfigSuite{})

func (s *ConfigSuite) Test_defaults(c *C) {
	cfg := goexpr.NewDefaultConfig()
	c.Assert(cfg.MaxDepth, Equals, goexpr.DefaultMaxDepth)
	c.Assert(cfg.Validate(), IsNil)
}

func (s *ConfigSuite) Test_validate(c *C) {
	c.Assert((&goexpr.Config{MaxDepth: 0, LogLevel: "INFO"}).Validate(), ErrorMatches, "max_depth must be positive, got 0")
	c.Assert((&goexpr.Config{MaxDepth: 5, LogLevel: "LOUD"}).Validate(), ErrorMatches, `log_level "LOUD": .*`)

	_, err := goexpr.NewDifferentiator(&goexpr.Config{MaxDepth: -1, LogLevel: "INFO"})
	c.Assert(err, ErrorMatches, "invalid config: .*")
}

func (s *ConfigSuite) Test_configure(c *C) {
	defer goexpr.Configure(nil)

	c.Assert(goexpr.Configure(&goexpr.Config{MaxDepth: 2, LogLevel: "ERROR"}), IsNil)
	a := goexpr.NewArena()
	x := a.Symbol("x")
	_, err := goexpr.Differentiate(x.Add(1).Add(1).Add(1), "x")
	var de *goexpr.DepthError
	c.Assert(errors.As(err, &de), Equals, true)

	c.Assert(goexpr.Configure(&goexpr.Config{MaxDepth: 2, LogLevel: "nope"}), NotNil)
	c.Assert(goexpr.SetLogLevel("DEBUG"), IsNil)
	c.Assert(goexpr.SetLogLevel("bogus"), NotNil)
}

func (s *ConfigSuite) Test_logLevelAfterSetBackend(c *C) {
	defer goexpr.Configure(nil)
	defer logging.SetBackend(logging.NewLogBackend(os.Stderr, "", 0))

	var buf bytes.Buffer
	logging.SetBackend(logging.NewLogBackend(&buf, "", 0))
	c.Assert(logging.GetLevel("goexpr"), Equals, logging.DEBUG)

	a := goexpr.NewArena()
	e := a.Symbol("x").Add(1)

	c.Assert(goexpr.SetLogLevel("WARNING"), IsNil)
	_ = e.String()
	c.Assert(buf.Len(), Equals, 0)

	c.Assert(goexpr.SetLogLevel("DEBUG"), IsNil)
	_ = e.String()
	c.Assert(strings.Contains(buf.String(), "postorder from Add"), Equals, true)
}
