/*
File    : sync/internal/registry/types.go
Package : registry
*/

package registry

import (
	"fmt"
	"strings"
)

// TypeSpec is the canonical representation of a type annotation as it
// appears in source: a base type name and a pointer nesting degree.
// `ptr<ptr<i32>>` is TypeSpec{Base: "i32", PtrDegree: 2} (spec.md §3
// "Pointer degree is positive; `ptr<ptr<T>>` has degree 2").
type TypeSpec struct {
	Base      string
	PtrDegree int
}

// String renders a TypeSpec back to its source spelling.
func (t TypeSpec) String() string {
	s := t.Base
	for i := 0; i < t.PtrDegree; i++ {
		s = "ptr<" + s + ">"
	}
	return s
}

// ParseTypeSpec parses a type annotation spelling ("i32", "ptr<i32>",
// "ptr<ptr<i32>>", ...) into a TypeSpec. It does not consult the
// registry for whether the base name is a known type; callers resolve
// that separately so the caller controls the fatal-diagnostic wording.
func ParseTypeSpec(s string) (TypeSpec, error) {
	degree := 0
	for strings.HasPrefix(s, "ptr<") && strings.HasSuffix(s, ">") {
		s = s[len("ptr<") : len(s)-1]
		degree++
	}
	if s == "" {
		return TypeSpec{}, fmt.Errorf("empty type annotation")
	}
	return TypeSpec{Base: s, PtrDegree: degree}, nil
}
