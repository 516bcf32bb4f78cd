/*
File    : sync/internal/diag/diag.go
Package : diag
*/

// Package diag implements Syn's fatal diagnostic policy (spec.md §7):
// every diagnostic is surfaced with (filename, line, column) and is
// fatal; the compiler does not continue after one and there is no error
// list, unlike go-mix's tolerant Parser.Errors accumulation.
//
// Grounded on main/main.go (go-mix)'s `redColor.Fprintf(os.Stderr, ...)`
// convention for reporting fatal CLI errors, generalized into a
// reusable package since Syn's diagnostics originate inside the lexer,
// parser, and codegen, not just main.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Positioner is satisfied by anything carrying a "file:line:col" string,
// so Fatalf can accept a token.Token, an ast.Position, or a plain string
// without this package importing either.
type Positioner interface {
	Pos() string
}

// stderr is the stream fatal diagnostics are written to; tests may
// redirect it to capture output without exercising os.Exit.
var stderr io.Writer = os.Stderr

// exit is os.Exit, indirected so tests can observe a "fatal happened"
// condition instead of killing the test binary.
var exit = os.Exit

var fatalColor = color.New(color.FgRed, color.Bold)

func init() {
	fatalColor.EnableColor()
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		fatalColor.DisableColor()
	}
}

// Fatalf prints "pos: message" in red to stderr and terminates the
// process with a non-zero status (spec.md §7, §5's "exits with a
// non-zero status on any fatal condition").
func Fatalf(pos Positioner, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fatalColor.Fprintf(stderr, "%s: %s\n", pos.Pos(), msg)
	exit(1)
}

// FatalfAt is a convenience for callers that only have a bare position
// string (no Positioner value at hand).
func FatalfAt(pos string, format string, args ...interface{}) {
	Fatalf(stringPos(pos), format, args...)
}

type stringPos string

func (s stringPos) Pos() string { return string(s) }
