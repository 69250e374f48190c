// Package logx is a minimal leveled logger used throughout the engine.
// It exists so that the CLI can run quiet by default while the MCP server
// (which talks JSON-RPC over stdio) can suppress it entirely. Output goes
// to stderr, never to stdout, which carries the protocol stream there.
package logx

import (
	"log"
	"os"
	"sync/atomic"
)

var (
	std     = log.New(os.Stderr, "sgi: ", log.LstdFlags)
	quiet   atomic.Bool
	verbose atomic.Bool
)

// SetQuiet suppresses all output, including errors. Set by the MCP server
// before it wires up the stdio transport.
func SetQuiet(q bool) { quiet.Store(q) }

// SetVerbose enables Debugf output.
func SetVerbose(v bool) { verbose.Store(v) }

// Printf logs an informational line.
func Printf(format string, args ...any) {
	if quiet.Load() {
		return
	}
	std.Printf(format, args...)
}

// Debugf logs only when verbose mode is on.
func Debugf(format string, args ...any) {
	if quiet.Load() || !verbose.Load() {
		return
	}
	std.Printf("debug: "+format, args...)
}

// Errorf always logs unless quiet.
func Errorf(format string, args ...any) {
	if quiet.Load() {
		return
	}
	std.Printf("error: "+format, args...)
}
