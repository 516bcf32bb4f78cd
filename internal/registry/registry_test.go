/*
File    : sync/internal/registry/registry_test.go
Package : registry
*/

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PreregistersBuiltins(t *testing.T) {
	r := New()
	for _, name := range builtinTypeNames {
		dt, ok := r.ResolveType(name)
		require.True(t, ok, "builtin %q should be registered", name)
		assert.True(t, dt.Builtin)
	}
}

func TestInsertStruct_RegistersTypeToo(t *testing.T) {
	r := New()
	r.InsertStruct(&Struct{Name: "Point", Members: []StructMember{{Name: "x", Type: "i32"}}})

	_, ok := r.ResolveStruct("Point")
	require.True(t, ok)

	dt, ok := r.ResolveType("Point")
	require.True(t, ok)
	assert.False(t, dt.Builtin)
	assert.True(t, r.IsUserType("Point"))
}

func TestResetFunctionScope_ClearsVarsButNotFuncs(t *testing.T) {
	r := New()
	r.InsertFunction(&Function{Name: "main", ReturnType: "i32", Defined: true})
	r.InsertVariable(&Variable{Name: "x", Type: "i32"})

	r.ResetFunctionScope()

	_, ok := r.ResolveVariable("x")
	assert.False(t, ok)

	_, ok = r.ResolveFunction("main")
	assert.True(t, ok, "functions persist across function scope resets")
}

func TestResolveSymbol_PriorityOrder(t *testing.T) {
	r := New()
	r.InsertVariable(&Variable{Name: "a", Type: "i32"})
	r.InsertPointer(&Pointer{Name: "b", Base: "i32", Degree: 1})
	r.InsertArray(&Array{Name: "c", Elem: "i32", Dims: []int{3}})

	assert.Equal(t, IsVariable, r.ResolveSymbol("a"))
	assert.Equal(t, IsPointer, r.ResolveSymbol("b"))
	assert.Equal(t, IsArray, r.ResolveSymbol("c"))
	assert.Equal(t, NotFound, r.ResolveSymbol("nope"))
}

func TestParseTypeSpec_PointerDegree(t *testing.T) {
	ts, err := ParseTypeSpec("ptr<ptr<i32>>")
	require.NoError(t, err)
	assert.Equal(t, TypeSpec{Base: "i32", PtrDegree: 2}, ts)
	assert.Equal(t, "ptr<ptr<i32>>", ts.String())
}

func TestParseTypeSpec_Scalar(t *testing.T) {
	ts, err := ParseTypeSpec("i32")
	require.NoError(t, err)
	assert.Equal(t, TypeSpec{Base: "i32", PtrDegree: 0}, ts)
}
