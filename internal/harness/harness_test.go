/*
File    : sync/internal/harness/harness_test.go
Package : harness
*/

package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSyn = "fnc main(): i32 { ret 1 + 2; }"

// writeFixture materializes one .syn/.ll.golden pair under dir, deriving
// the golden content from an actual compile so this test exercises the
// harness's discovery/diff plumbing rather than asserting on a
// hand-transcribed LLVM IR string.
func writeFixture(t *testing.T, dir, name, src string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".syn"), []byte(src), 0o644))
	ir, err := compileFixture(src, name+".syn")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".ll.golden"), []byte(ir), 0o644))
	return ir
}

func TestFixtures_ListsSynFilesSorted(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "b_fixture", sampleSyn)
	writeFixture(t, dir, "a_fixture", sampleSyn)

	names, err := fixtures(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"a_fixture", "b_fixture"}, names)
}

func TestRunAll_PassesOnMatchingGolden(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "ok", sampleSyn)

	results, err := RunAll(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.Equal(t, "ok", results[0].Name)
}

func TestRunAll_ReportsMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "drifted", sampleSyn)
	// Corrupt the golden so the fixture's recorded expectation no longer
	// matches what the pipeline actually emits.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drifted.ll.golden"), []byte("not ir"), 0o644))

	results, err := RunAll(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	require.Contains(t, results[0].Err.Error(), "IR mismatch")
}

func TestRunAll_MissingGoldenIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lonely.syn"), []byte(sampleSyn), 0o644))

	results, err := RunAll(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
}

func TestRunAll_EmptyDirYieldsNoResults(t *testing.T) {
	dir := t.TempDir()
	results, err := RunAll(dir)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestRunAll_UnknownDirectoryErrors(t *testing.T) {
	_, err := RunAll(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestRunInteractive_StepsThroughEveryFixture(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "one", sampleSyn)
	writeFixture(t, dir, "two", sampleSyn)

	in := bytes.NewBufferString("\n\n")
	var out bytes.Buffer

	results, err := RunInteractive(dir, in, &out)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
}

func TestRunInteractive_QCommandStopsEarly(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "one", sampleSyn)
	writeFixture(t, dir, "two", sampleSyn)

	in := bytes.NewBufferString("q\n")
	var out bytes.Buffer

	results, err := RunInteractive(dir, in, &out)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestCompileFixture_ReturnsGeneratedIR(t *testing.T) {
	ir, err := compileFixture(sampleSyn, "t.syn")
	require.NoError(t, err)
	require.Contains(t, ir, "@main")
}
