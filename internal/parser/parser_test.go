/*
File    : sync/internal/parser/parser_test.go
Package : parser
*/

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synlang/sync/internal/ast"
)

func children(n *ast.Node) []ast.Kind {
	out := make([]ast.Kind, len(n.Children))
	for i, c := range n.Children {
		out[i] = c.Kind
	}
	return out
}

func TestParse_VarDeclWithInitializer(t *testing.T) {
	root, _ := Parse("x : i32 = 2 + 3;", "t.syn")
	require.Len(t, root.Children, 1)
	decl := root.Children[0]
	assert.Equal(t, ast.VarDecl, decl.Kind)
	assert.Equal(t, "x:i32", decl.Payload)
	require.Len(t, decl.Children, 1)
	assign := decl.Children[0]
	assert.Equal(t, ast.Assign, assign.Kind)
	assert.Equal(t, ast.BinaryExpr, assign.Children[1].Kind)
	assert.Equal(t, "+", assign.Children[1].Payload)
}

func TestParse_PointerDeclAndDerefAssignment(t *testing.T) {
	root, reg := Parse("p : ptr<i32>; *p = 5;", "t.syn")
	require.Len(t, root.Children, 2)
	assert.Equal(t, ast.PointerDecl, root.Children[0].Kind)
	assert.Equal(t, "p:1:i32", root.Children[0].Payload)

	assign := root.Children[1]
	assert.Equal(t, ast.Assign, assign.Kind)
	assert.Equal(t, ast.UnaryExpr, assign.Children[0].Kind)
	assert.Equal(t, "*", assign.Children[0].Payload)

	ptr, ok := reg.ResolvePointer("p")
	require.True(t, ok)
	assert.Equal(t, 1, ptr.Degree)
}

func TestParse_NestedPointerDeclaration(t *testing.T) {
	root, reg := Parse("p : ptr<ptr<i32>>;", "t.syn")
	decl := root.Children[0]
	assert.Equal(t, ast.PointerDecl, decl.Kind)
	assert.Equal(t, "p:2:i32", decl.Payload)

	ptr, ok := reg.ResolvePointer("p")
	require.True(t, ok)
	assert.Equal(t, 2, ptr.Degree)
	assert.Equal(t, "i32", ptr.Base)
}

func TestParse_ArrayDeclAndElementAssignment(t *testing.T) {
	root, reg := Parse("a : i32[3]; a[1] = 7;", "t.syn")
	assert.Equal(t, ast.ArrayDecl, root.Children[0].Kind)
	assert.Equal(t, "a:i32:3", root.Children[0].Payload)

	assign := root.Children[1]
	assert.Equal(t, ast.Assign, assign.Kind)
	elem := assign.Children[0]
	assert.Equal(t, ast.ArrayElement, elem.Kind)
	assert.Equal(t, "a", elem.Payload)
	require.Len(t, elem.Children, 1)
	assert.Equal(t, ast.IntLit, elem.Children[0].Kind)

	arr, ok := reg.ResolveArray("a")
	require.True(t, ok)
	assert.Equal(t, []int{3}, arr.Dims)
}

func TestParse_ArrayLiteralInitializer(t *testing.T) {
	root, _ := Parse("a : i32[3] = [1, 2, 3];", "t.syn")
	decl := root.Children[0]
	assign := decl.Children[0]
	lit := assign.Children[1]
	assert.Equal(t, ast.ArrayLit, lit.Kind)
	assert.Len(t, lit.Children, 3)
}

func TestParse_StructDeclAndMemberAssignment(t *testing.T) {
	root, reg := Parse("struct Point { x : i32; y : i32; } p : Point; p.x = 1;", "t.syn")
	structDecl := root.Children[0]
	assert.Equal(t, ast.StructDecl, structDecl.Kind)
	assert.Equal(t, "Point", structDecl.Payload)
	assert.Len(t, structDecl.Children, 2)

	s, ok := reg.ResolveStruct("Point")
	require.True(t, ok)
	assert.Len(t, s.Members, 2)
	assert.True(t, reg.IsUserType("Point"))

	assign := root.Children[2]
	assert.Equal(t, ast.StructMember, assign.Children[0].Kind)
	assert.Equal(t, "p.x", assign.Children[0].Payload)
}

func TestParse_FunctionDeclWithParamsAndCall(t *testing.T) {
	src := `
fnc add(a : i32, b : i32) : i32 {
	ret a + b;
}
fnc main() : void {
	add(1, 2);
}
`
	root, reg := Parse(src, "t.syn")
	require.Len(t, root.Children, 2)

	add := root.Children[0]
	assert.Equal(t, ast.FuncDecl, add.Kind)
	assert.Equal(t, "add:i32:false:false", add.Payload)
	require.Len(t, add.Children, 3) // 2 params + block
	assert.Equal(t, ast.Param, add.Children[0].Kind)
	assert.Equal(t, "a:i32", add.Children[0].Payload)

	fn, ok := reg.ResolveFunction("add")
	require.True(t, ok)
	assert.Equal(t, "i32", fn.ReturnType)
	assert.Len(t, fn.Params, 2)

	main := root.Children[1]
	block := main.Children[0]
	call := block.Children[0]
	assert.Equal(t, ast.Call, call.Kind)
	assert.Equal(t, "add", call.Payload)
	assert.Len(t, call.Children, 2)
}

func TestParse_ForwardDeclarationThenDefinition(t *testing.T) {
	src := `
fnc helper(x : i32) : i32;
fnc helper(x : i32) : i32 {
	ret x;
}
`
	root, reg := Parse(src, "t.syn")
	require.Len(t, root.Children, 2)
	assert.Equal(t, "helper:i32:false:true", root.Children[0].Payload)
	assert.Equal(t, "helper:i32:false:false", root.Children[1].Payload)

	fn, ok := reg.ResolveFunction("helper")
	require.True(t, ok)
	assert.True(t, fn.Defined)
}

func TestParse_IfElifElse(t *testing.T) {
	src := `
fnc f() : void {
	if (a) {
		brk;
	} elif (b) {
		cont;
	} else {
		ret;
	}
}
`
	root, _ := Parse(src, "t.syn")
	block := root.Children[0].Children[0]
	ifNode := block.Children[0]
	assert.Equal(t, ast.If, ifNode.Kind)
	kinds := children(ifNode)
	assert.Equal(t, []ast.Kind{ast.Identifier, ast.Block, ast.Elif, ast.Else}, kinds)
}

func TestParse_WhileLoop(t *testing.T) {
	src := `
fnc f() : void {
	while (x) {
		brk;
	}
}
`
	root, _ := Parse(src, "t.syn")
	block := root.Children[0].Children[0]
	w := block.Children[0]
	assert.Equal(t, ast.While, w.Kind)
	require.Len(t, w.Children, 2)
	assert.Equal(t, ast.Block, w.Children[1].Kind)
	assert.Equal(t, ast.Brk, w.Children[1].Children[0].Kind)
}

func TestReshape_PrecedenceClimbsMultiplicationOverAddition(t *testing.T) {
	root, _ := Parse("x : i32 = 1 + 2 * 3;", "t.syn")
	expr := root.Children[0].Children[0].Children[1]
	require.Equal(t, ast.BinaryExpr, expr.Kind)
	assert.Equal(t, "+", expr.Payload)
	assert.Equal(t, ast.IntLit, expr.Children[0].Kind)
	mul := expr.Children[1]
	assert.Equal(t, ast.BinaryExpr, mul.Kind)
	assert.Equal(t, "*", mul.Payload)
}

func TestReshape_AdjacentUnaryOperators(t *testing.T) {
	root, _ := Parse("x : i32 = - - y;", "t.syn")
	expr := root.Children[0].Children[0].Children[1]
	require.Equal(t, ast.UnaryExpr, expr.Kind)
	assert.Equal(t, "-", expr.Payload)
	inner := expr.Children[0]
	require.Equal(t, ast.UnaryExpr, inner.Kind)
	assert.Equal(t, "-", inner.Payload)
	assert.Equal(t, ast.Identifier, inner.Children[0].Kind)
}

func TestReshape_ParenthesesOverridePrecedence(t *testing.T) {
	root, _ := Parse("x : i32 = (1 + 2) * 3;", "t.syn")
	expr := root.Children[0].Children[0].Children[1]
	require.Equal(t, ast.BinaryExpr, expr.Kind)
	assert.Equal(t, "*", expr.Payload)
	assert.Equal(t, ast.BinaryExpr, expr.Children[0].Kind)
	assert.Equal(t, "+", expr.Children[0].Payload)
}

func TestParse_ScalarAndWholeArrayAssignment(t *testing.T) {
	root, _ := Parse("x : i32; x = 9; a : i32[2] = [1,2]; a = [3,4];", "t.syn")
	require.Len(t, root.Children, 4)
	assert.Equal(t, ast.Assign, root.Children[1].Kind)
	wholeArrayAssign := root.Children[3]
	assert.Equal(t, ast.Assign, wholeArrayAssign.Kind)
	assert.Equal(t, ast.ArrayLit, wholeArrayAssign.Children[1].Kind)
}

func TestParse_DocCommentPreservedAtTopLevelDiscardedInBlock(t *testing.T) {
	src := "/// top doc\nfnc f() : void {\n// inner\nret;\n}\n"
	root, _ := Parse(src, "t.syn")
	require.Len(t, root.Children, 2)
	assert.Equal(t, ast.DocComment, root.Children[0].Kind)
	block := root.Children[1].Children[0]
	require.Len(t, block.Children, 1)
	assert.Equal(t, ast.Ret, block.Children[0].Kind)
}
