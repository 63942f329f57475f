package build

import (
	"io"
	"os"

	"github.com/btcsuite/btclog/v2"
)

// NewDefaultLogHandler returns the console handler we generally want to use
// for command line tools. Log lines are written to stderr so that stdout
// stays reserved for command output. A disabled console config yields a
// handler that discards everything.
func NewDefaultLogHandler(cfg *LogConfig) btclog.Handler {
	return newLogHandler(cfg, os.Stderr)
}

// newLogHandler builds a handler for the given config that writes to w.
func newLogHandler(cfg *LogConfig, w io.Writer) btclog.Handler {
	if cfg.Console.Disable {
		w = io.Discard
	}

	return btclog.NewDefaultHandler(w, cfg.Console.HandlerOptions()...)
}
