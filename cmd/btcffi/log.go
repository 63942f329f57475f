package main

import (
	"github.com/btcffi/btcffi/build"
	"github.com/btcffi/btcffi/ffi"
	"github.com/btcffi/btcffi/ffierr"
	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btclog/v2"
)

// Subsystem defines the logging code for this subsystem.
const Subsystem = "BCLI"

// log is a logger that is initialized with the btclog.Disabled logger.
var log btclog.Logger

// The default amount of logging is none.
func init() {
	UseLogger(build.NewSubLogger(Subsystem, nil))
}

// DisableLog disables all logging output.
func DisableLog() {
	UseLogger(btclog.Disabled)
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// SetupLoggers registers the loggers of every subsystem with the given
// manager.
func SetupLoggers(mgr *build.SubLoggerManager) {
	UseLogger(mgr.GenSubLogger(Subsystem))
	ffierr.UseLogger(mgr.GenSubLogger(ffierr.Subsystem))
	primitives.UseLogger(mgr.GenSubLogger(primitives.Subsystem))
	ffi.UseLogger(mgr.GenSubLogger(ffi.Subsystem))
}
