/*
File    : sync/cmd/sync/main_test.go
Package : main
*/

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompile_WritesIRToOutputPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.syn")
	out := filepath.Join(dir, "prog.ll")
	require.NoError(t, os.WriteFile(src, []byte("fnc main(): i32 { ret 2 + 3 * 4; }"), 0o644))

	compile(src, out)

	ir, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(ir), "@main")
	require.Contains(t, string(ir), "target triple")
}

func TestCompile_WhileLoopProgram(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "loop.syn")
	out := filepath.Join(dir, "loop.ll")
	program := `
fnc main(): i32 {
	x : i32;
	x = 0;
	while x < 5 {
		x = x + 1;
	}
	ret x;
}
`
	require.NoError(t, os.WriteFile(src, []byte(program), 0o644))

	compile(src, out)

	ir, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(ir), "@main")
}
