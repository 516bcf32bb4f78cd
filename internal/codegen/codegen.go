/*
File    : sync/internal/codegen/codegen.go
Package : codegen
*/

// Package codegen lowers a parsed Syn program to textual LLVM IR
// (spec.md §4.4-§4.7). It is the second and final pass over the tree
// produced by internal/parser: the parser's internal/registry is a
// declaration-time catalogue (module-global types/functions/structs,
// reset per function as it parses), so by the time Generate runs, that
// registry's variable/pointer/array tables only reflect the last
// function parsed. Generator therefore keeps its own codegen-time
// scope (funcCtx, in codegen_functions.go) rebuilt statement-by-statement
// as each function body is lowered — the "scope registry is reset; the
// function is marked current" step spec.md §4.5 describes is this
// codegen-time scope, not the parser's registry.
//
// github.com/llir/llvm has no usage example anywhere in the retrieved
// reference repos (confirmed by searching the pack); its ir/ir.types/
// ir.constant/ir.enum API below is written from recalled knowledge of
// the library rather than grounded in an example file.
package codegen

import (
	"fmt"
	"runtime"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/diag"
	"github.com/synlang/sync/internal/registry"
)

// Generator holds the state threaded through a single lowering pass.
type Generator struct {
	Module *ir.Module
	Reg    *registry.Registry

	structTypes map[string]*types.StructType
	funcs       map[string]*ir.Func
	globals     map[string]*ir.Global
	globalSlots map[string]*slot
	strCount    int

	fc *funcCtx
}

// New creates a Generator over the registry populated by a prior parse.
func New(reg *registry.Registry) *Generator {
	return &Generator{
		Module:      ir.NewModule(),
		Reg:         reg,
		structTypes: make(map[string]*types.StructType),
		funcs:       make(map[string]*ir.Func),
		globals:     make(map[string]*ir.Global),
		globalSlots: make(map[string]*slot),
	}
}

// Generate lowers a Program root to a textual LLVM IR module (spec.md
// §4.7 "Module emission"): struct types and function signatures are
// declared ahead of bodies so mutually-recursive calls and struct
// references resolve regardless of source order, bodies and top-level
// declarations are lowered in source order, then the module is
// structurally verified, given a target triple, and rendered to text.
func (g *Generator) Generate(root *ast.Node) string {
	g.declareStructTypes(root)
	g.declareFunctionSignatures(root)

	for _, child := range root.Children {
		switch child.Kind {
		case ast.FuncDecl:
			g.lowerFunction(child)
		case ast.VarDecl, ast.ArrayDecl, ast.PointerDecl:
			g.lowerGlobal(child)
		case ast.StructDecl, ast.DocComment, ast.Comment:
			// Struct layout already captured by declareStructTypes; a
			// comment carries no IR.
		default:
			diag.Fatalf(child.Pos, "unexpected top-level node kind %s", child.Kind)
		}
	}

	g.verify()
	g.Module.TargetTriple = hostTargetTriple()
	return g.Module.String()
}

// verify performs the structural check available without a linked LLVM
// verifier (llir/llvm constructs IR but does not validate it): every
// block of every function must end in a terminator instruction; a
// function with no blocks is a declaration and is skipped. Aborting here
// catches a lowering bug before it reaches a `.ll` file that no LLVM
// tool downstream would accept.
func (g *Generator) verify() {
	for _, fn := range g.Module.Funcs {
		if len(fn.Blocks) == 0 {
			continue // a forward declaration has no body to verify
		}
		for _, blk := range fn.Blocks {
			if blk.Term == nil {
				diag.FatalfAt("<codegen>", "function %q: block %q has no terminator", fn.Name(), blk.Name())
			}
		}
	}
}

// hostTargetTriple returns a plausible default triple for the machine
// running the compiler (spec.md §4.7 "set the target triple to the
// default for the host"). Syn targets native compilation only, so a
// small table covering the host platforms the toolchain actually runs
// on is enough; cross-compilation triples are out of scope.
func hostTargetTriple() string {
	switch runtime.GOOS {
	case "linux":
		switch runtime.GOARCH {
		case "arm64":
			return "aarch64-unknown-linux-gnu"
		default:
			return "x86_64-unknown-linux-gnu"
		}
	case "darwin":
		switch runtime.GOARCH {
		case "arm64":
			return "arm64-apple-macosx"
		default:
			return "x86_64-apple-macosx"
		}
	default:
		return fmt.Sprintf("%s-unknown-%s", runtime.GOARCH, runtime.GOOS)
	}
}
