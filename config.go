package goexpr

import (
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

// DefaultMaxDepth bounds how deeply Differentiate recurses into an expression.
const DefaultMaxDepth = 10000

type Config struct {
	MaxDepth int    `json:"max_depth" desc:"Deepest operand nesting Differentiate will descend into"`
	LogLevel string `json:"log_level" desc:"Level of the goexpr logger (CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG)"`
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxDepth: DefaultMaxDepth,
		LogLevel: "WARNING",
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.MaxDepth <= 0 {
		return errors.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if _, err := logging.LogLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return nil
}

// Configure applies cfg package-wide: it sets the log level and replaces the
// Differentiator used by Differentiate.
func Configure(cfg *Config) error {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	d, err := NewDifferentiator(cfg)
	if err != nil {
		return err
	}
	if err := SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	defaultMu.Lock()
	defaultDifferentiator = d
	defaultMu.Unlock()
	return nil
}
