/*
File    : sync/cmd/sync/main.go
Package : main
*/

// Command sync is the Syn compiler's CLI driver (spec.md §6): it reads
// one source file, runs it through internal/parser and internal/codegen,
// and writes the resulting textual LLVM IR to the path named by -o.
//
// The driver itself is an "external collaborator" per spec.md §1 (the
// command-line driver and argument parsing are explicitly out of the
// core's scope) — it is kept as a thin entrypoint the same way go-mix
// keeps its flag dispatch in main/main.go, outside eval/parser.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/synlang/sync/internal/codegen"
	"github.com/synlang/sync/internal/harness"
	"github.com/synlang/sync/internal/parser"
)

// VERSION is the compiler's version string, reported by --version.
var VERSION = "v0.1.0"

// Color definitions mirror go-mix's main/main.go three-tier convention:
// red for fatal errors, yellow for status/result output, cyan for
// informational banner text.
var (
	redColor    = color.New(color.FgRed, color.Bold)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "test" {
		runTestHarness(os.Args[2:])
		return
	}

	var output string
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	fs.StringVar(&output, "o", "", "output path for the emitted LLVM IR file")
	help := fs.Bool("help", false, "show usage")
	version := fs.Bool("version", false, "show version")
	fs.Parse(os.Args[1:])
	// flag stops at the first positional argument, so flags written after
	// the source file (`sync prog.syn -o prog.ll`) are parsed in a second pass.
	args := fs.Args()
	if len(args) > 0 {
		fs.Parse(args[1:])
		args = append([]string{args[0]}, fs.Args()...)
	}

	if *help {
		showHelp()
		return
	}
	if *version {
		showVersion()
		return
	}

	if len(args) != 1 {
		redColor.Fprintln(os.Stderr, "[USAGE ERROR] expected exactly one source file")
		showHelp()
		os.Exit(1)
	}
	if output == "" {
		redColor.Fprintln(os.Stderr, "[USAGE ERROR] missing -o <output-ll>")
		os.Exit(1)
	}

	compile(args[0], output)
}

// compile runs one source file through the lexer/parser/codegen pipeline
// and writes the resulting IR text to output. Any fatal condition inside
// the pipeline calls diag.Fatalf, which prints file:line:col and exits
// non-zero directly — compile itself only handles I/O-layer failures
// (spec.md §7's "I/O error" taxonomy entry).
func compile(source, output string) {
	src, err := os.ReadFile(source)
	if err != nil {
		redColor.Fprintf(os.Stderr, "cannot open %s: %v\n", source, err)
		os.Exit(1)
	}

	root, reg := parser.Parse(string(src), source)
	ir := codegen.New(reg).Generate(root)

	if err := os.WriteFile(output, []byte(ir), 0o644); err != nil {
		redColor.Fprintf(os.Stderr, "cannot write %s: %v\n", output, err)
		os.Exit(1)
	}

	yellowColor.Fprintf(os.Stdout, "wrote %s\n", output)
}

// runTestHarness drives internal/harness over the golden .syn/.ll.golden
// fixture pairs (spec.md §6's "test" special argument, grounded on
// original_source/src/tests.c per SPEC_FULL.md §C). Passing "-i" replays
// fixtures one at a time through a readline prompt instead of running
// the whole batch, mirroring go-mix's repl package's interactive feel.
func runTestHarness(args []string) {
	interactive := false
	for _, a := range args {
		if a == "-i" || a == "--interactive" {
			interactive = true
		}
	}

	var results []harness.Result
	var err error
	if interactive {
		results, err = harness.RunInteractive(harness.DefaultFixtureDir, os.Stdin, os.Stdout)
	} else {
		results, err = harness.RunAll(harness.DefaultFixtureDir)
	}
	if err != nil {
		redColor.Fprintf(os.Stderr, "test harness: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			redColor.Fprintf(os.Stdout, "FAIL %s: %v\n", r.Name, r.Err)
		} else {
			yellowColor.Fprintf(os.Stdout, "ok   %s\n", r.Name)
		}
	}
	cyanColor.Fprintf(os.Stdout, "%d/%d fixtures passed\n", len(results)-failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}

func showHelp() {
	cyanColor.Println("sync - the Syn ahead-of-time compiler")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	fmt.Println("  sync <source-file> -o <output-ll>   Compile a .syn file to LLVM IR")
	fmt.Println("  sync test [-i]                      Run the golden-fixture test harness")
	fmt.Println("  sync --help                         Display this help message")
	fmt.Println("  sync --version                      Display version information")
}

func showVersion() {
	cyanColor.Printf("sync %s\n", VERSION)
}
