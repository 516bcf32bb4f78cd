/*
File    : sync/internal/diag/diag_test.go
Package : diag
*/

package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatalf_WritesPositionAndMessageThenExits(t *testing.T) {
	var buf bytes.Buffer
	oldOut, oldExit := stderr, exit
	defer func() { stderr, exit = oldOut, oldExit }()

	stderr = &buf
	exited := false
	var exitCode int
	exit = func(code int) { exited = true; exitCode = code }

	fatalColor.DisableColor()
	Fatalf(stringPos("f.syn:3:4"), "unresolved identifier %q", "x")

	assert.True(t, exited)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, buf.String(), "f.syn:3:4")
	assert.Contains(t, buf.String(), `unresolved identifier "x"`)
}

func TestFatalfAt_UsesBarePositionString(t *testing.T) {
	var buf bytes.Buffer
	oldOut, oldExit := stderr, exit
	defer func() { stderr, exit = oldOut, oldExit }()

	stderr = &buf
	exit = func(int) {}

	fatalColor.DisableColor()
	FatalfAt("f.syn:1:1", "boom")

	assert.Contains(t, buf.String(), "f.syn:1:1: boom")
}
