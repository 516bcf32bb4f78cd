/*
File    : sync/internal/harness/harness.go
Package : harness
*/

// Package harness implements the golden-fixture test driver behind the
// `sync test` CLI argument (spec.md §6). It compiles each fixture's .syn
// source in-memory through internal/parser and internal/codegen and
// diffs the emitted IR text against a checked-in .ll.golden file,
// replacing original_source/src/tests.c's hand-rolled C assert loop with
// Go's idiomatic table-driven-over-a-directory shape (SPEC_FULL.md §C).
package harness

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/synlang/sync/internal/codegen"
	"github.com/synlang/sync/internal/parser"
)

// DefaultFixtureDir is where `sync test` looks for fixtures when no
// directory override is given.
const DefaultFixtureDir = "internal/harness/testdata"

// Result is one fixture's outcome: Err is nil on a golden match.
type Result struct {
	Name string
	Err  error
}

// fixtures lists the names (without extension) of the *.syn files in
// dir, sorted for deterministic output. Whether each has a *.ll.golden
// sibling is not checked here; runOne reports a missing one.
func fixtures(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".syn") {
			names = append(names, strings.TrimSuffix(e.Name(), ".syn"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// runOne compiles dir/name.syn and compares the result against
// dir/name.ll.golden, returning a descriptive error on any mismatch.
func runOne(dir, name string) error {
	srcPath := filepath.Join(dir, name+".syn")
	goldenPath := filepath.Join(dir, name+".ll.golden")

	src, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading fixture source: %w", err)
	}
	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		return fmt.Errorf("reading golden file: %w", err)
	}

	got, err := compileFixture(string(src), srcPath)
	if err != nil {
		return err
	}

	want := strings.TrimSpace(string(golden))
	got = strings.TrimSpace(got)
	if got != want {
		return fmt.Errorf("IR mismatch:\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
	return nil
}

// compileFixture is the in-memory equivalent of cmd/sync's compile(),
// minus the file-write step — the harness only ever needs the IR text.
// A fatal diagnostic inside the pipeline still calls os.Exit directly
// (internal/diag's policy per spec.md §7), so fixtures exercising an
// expected-fatal case are not supported by this harness; every checked-in
// fixture is expected to compile cleanly.
func compileFixture(src, name string) (ir string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic lowering %s: %v", name, r)
		}
	}()
	root, reg := parser.Parse(src, name)
	ir = codegen.New(reg).Generate(root)
	return ir, nil
}

// RunAll compiles every fixture in dir and reports a Result per fixture.
func RunAll(dir string) ([]Result, error) {
	names, err := fixtures(dir)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(names))
	for _, name := range names {
		results = append(results, Result{Name: name, Err: runOne(dir, name)})
	}
	return results, nil
}

// RunInteractive replays fixtures one at a time through a readline
// prompt, the way go-mix's repl package drives an interactive session —
// pressing enter advances to the next fixture instead of evaluating
// typed input, giving a developer a way to step through golden tests
// and inspect failures one by one rather than in one batch dump.
func RunInteractive(dir string, in io.Reader, out io.Writer) ([]Result, error) {
	names, err := fixtures(dir)
	if err != nil {
		return nil, err
	}

	greenColor := color.New(color.FgGreen)
	redColor := color.New(color.FgRed)
	cyanColor := color.New(color.FgCyan)

	cyanColor.Fprintf(out, "%d fixtures loaded from %s\n", len(names), dir)
	cyanColor.Fprintln(out, "press enter to step through each, or 'q' to stop early")

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "next> ",
		Stdin:  io.NopCloser(in),
		Stdout: out,
	})
	if err != nil {
		return nil, err
	}
	defer rl.Close()

	var results []Result
	for _, name := range names {
		line, err := rl.Readline()
		if err != nil {
			break // EOF (Ctrl+D) ends the interactive session early
		}
		if strings.TrimSpace(line) == "q" {
			break
		}

		res := Result{Name: name, Err: runOne(dir, name)}
		results = append(results, res)
		if res.Err != nil {
			redColor.Fprintf(out, "FAIL %s: %v\n", name, res.Err)
		} else {
			greenColor.Fprintf(out, "ok   %s\n", name)
		}
	}
	return results, nil
}
