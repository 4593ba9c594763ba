package goexpr

import (
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

const logModule = "goexpr"

var log = logging.MustGetLogger(logModule)

func init() {
	logging.SetLevel(logging.WARNING, logModule)
}

// SetLogLevel changes the level of the goexpr logger. The level is one of the
// go-logging names, e.g. "DEBUG" or "WARNING".
//
// logging.SetBackend resets every module to DEBUG, including the WARNING
// default set at init. Programs that install their own backend should call
// SetLogLevel (or Configure) afterwards.
func SetLogLevel(level string) error {
	l, err := logging.LogLevel(level)
	if err != nil {
		return errors.Wrapf(err, "log level %q", level)
	}
	logging.SetLevel(l, logModule)
	return nil
}
