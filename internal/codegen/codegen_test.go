/*
File    : sync/internal/codegen/codegen_test.go
Package : codegen
*/

package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synlang/sync/internal/parser"
)

// generate parses and lowers src in one step, returning the module's
// textual IR — the same shape cmd/sync's compile() produces.
func generate(t *testing.T, src string) string {
	t.Helper()
	root, reg := parser.Parse(src, "t.syn")
	return New(reg).Generate(root)
}

func TestGenerate_ArithmeticReturn(t *testing.T) {
	ir := generate(t, "fnc main(): i32 { ret 2 + 3 * 4; }")
	assert.Contains(t, ir, "define i32 @main()")
	assert.Contains(t, ir, "mul")
	assert.Contains(t, ir, "add")
	assert.Contains(t, ir, "ret i32")
}

func TestGenerate_WhileLoopCountsToFive(t *testing.T) {
	src := `fnc main(): i32 {
		x : i32;
		x = 0;
		while x < 5 {
			x = x + 1;
		}
		ret x;
	}`
	ir := generate(t, src)
	assert.Contains(t, ir, "while_cond_check:")
	assert.Contains(t, ir, "while:")
	assert.Contains(t, ir, "whmerge:")
	assert.Contains(t, ir, "icmp slt")
	assert.Contains(t, ir, "br i1")
}

func TestGenerate_ArrayLiteralAndIndex(t *testing.T) {
	src := `fnc main(): i32 {
		a : i32[3] = [1, 2, 3];
		ret a[2];
	}`
	ir := generate(t, src)
	assert.Contains(t, ir, "alloca [3 x i32]")
	assert.Contains(t, ir, "getelementptr")
	assert.Contains(t, ir, "store i32 1")
	assert.Contains(t, ir, "store i32 2")
	assert.Contains(t, ir, "store i32 3")
}

func TestGenerate_TwoDimensionalArrayInterleavesZeroIndices(t *testing.T) {
	src := `fnc main(): i32 {
		a : i32[2;2] = [[1, 2], [3, 4]];
		ret a[1][0];
	}`
	ir := generate(t, src)
	assert.Contains(t, ir, "alloca [2 x [2 x i32]]")
	assert.Contains(t, ir, "getelementptr")
	assert.Contains(t, ir, "store i32 1")
	assert.Contains(t, ir, "store i32 4")
	// Each GEP into this rank-2 array carries a 0 interleaved before
	// every per-dimension index rather than a single leading 0, so "0"
	// appears at least twice per index list.
	assert.True(t, strings.Count(ir, "i32 0") >= 4)
}

func TestGenerate_PointerDeclAndAssignedElement(t *testing.T) {
	src := `fnc alloc_dyn_arr(n : i32) : ptr<i32>;
	fnc main(): i32 {
		p : ptr<i32>;
		p = alloc_dyn_arr(4);
		p[0] = 7;
		ret p[0];
	}`
	ir := generate(t, src)
	assert.Contains(t, ir, "@alloc_dyn_arr")
	assert.Contains(t, ir, "call")
	assert.Contains(t, ir, "store i32 7")
}

func TestGenerate_IfElifElse(t *testing.T) {
	src := `fnc get_num() : i32;
	fnc main(): i32 {
		x : i32 = get_num();
		if x > 0 {
			ret 1;
		} elif x == 0 {
			ret 0;
		} else {
			ret -1;
		}
	}`
	ir := generate(t, src)
	assert.Contains(t, ir, "if:")
	assert.Contains(t, ir, "elif_cond_0:")
	assert.Contains(t, ir, "elif_0:")
	assert.Contains(t, ir, "else:")
	assert.Contains(t, ir, "ifmrg:")
}

func TestGenerate_StructMemberAccess(t *testing.T) {
	src := `struct P { x : i32; y : i32; }
	fnc main(): i32 {
		q : P;
		q.x = 3;
		q.y = 4;
		ret q.x + q.y;
	}`
	ir := generate(t, src)
	assert.Contains(t, ir, "%P = type { i32, i32 }")
	assert.Contains(t, ir, "alloca %P")
	assert.True(t, strings.Count(ir, "getelementptr") >= 2)
}

func TestGenerate_VariadicCallPromotesNarrowIntAndFloat(t *testing.T) {
	src := `fnc print(fmt : ptr<chr>, ...) : void;
	fnc main(): i32 {
		x : i8 = 3;
		y : f32 = 1.5;
		print("%d %f", x, y);
		ret 0;
	}`
	ir := generate(t, src)
	assert.Contains(t, ir, "@print(")
	assert.Contains(t, ir, "...")
	assert.Contains(t, ir, "sext i8")
	assert.Contains(t, ir, "fpext float")
}

func TestGenerate_VoidFunctionAppendsRetVoid(t *testing.T) {
	ir := generate(t, "fnc f(): void { }")
	assert.Contains(t, ir, "define void @f()")
	assert.Contains(t, ir, "ret void")
}

func TestGenerate_BreakAndContinueTargetLoopBlocks(t *testing.T) {
	src := `fnc main(): i32 {
		x : i32;
		x = 0;
		while x < 10 {
			x = x + 1;
			if x == 3 {
				cont;
			}
			if x == 7 {
				brk;
			}
		}
		ret x;
	}`
	ir := generate(t, src)
	assert.Contains(t, ir, "br label %while_cond_check")
	assert.Contains(t, ir, "br label %whmerge")
}

func TestGenerate_DoublePointerParameterLowersAsNestedPointer(t *testing.T) {
	src := `fnc takes(pp : ptr<ptr<i32>>) : i32 {
		ret 0;
	}
	fnc main(): i32 {
		ret takes(null);
	}`
	ir := generate(t, src)
	assert.Contains(t, ir, "@takes(")
	assert.Contains(t, ir, "i32**")
}

func TestGenerate_ForwardDeclarationSharesOneSignature(t *testing.T) {
	src := `fnc helper(x : i32) : i32;
	fnc helper(x : i32) : i32 {
		ret x;
	}
	fnc main(): i32 {
		ret helper(1);
	}`
	ir := generate(t, src)
	assert.Equal(t, 1, strings.Count(ir, "define i32 @helper("))
}

func TestGenerate_EveryBlockHasATerminator(t *testing.T) {
	src := `fnc main(): i32 {
		x : i32 = get_num();
		if x > 0 {
			ret 1;
		}
		ret 0;
	}
	fnc get_num() : i32;`
	// Generate calls g.verify() internally, which calls diag.FatalfAt
	// (os.Exit) the moment any block lacks a terminator — a block
	// without a branch/ret/br falling through to "ifmrg" with nothing
	// after it would have killed this test process before reaching the
	// assertion below, so simply getting IR text back is itself proof
	// every block terminated correctly.
	ir := generate(t, src)
	require.NotEmpty(t, ir)
	assert.Contains(t, ir, "ifmrg:")
}
