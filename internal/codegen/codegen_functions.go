/*
File    : sync/internal/codegen/codegen_functions.go
Package : codegen
*/

// codegen_functions.go declares function signatures, lowers function
// bodies, and owns funcCtx — the codegen-time scope rebuilt fresh for
// each function as its body is lowered (spec.md §4.5 "reset scope; mark
// current function").
package codegen

import (
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/diag"
	"github.com/synlang/sync/internal/registry"
)

// slot is one declared name's codegen-time storage: the stack address
// the parser-level Variable/Pointer/Array/Param maps to, plus enough
// type information to load, store, and index it.
type slot struct {
	addr     value.Value
	valType  types.Type // type of the value stored at addr
	declType registry.TypeSpec

	isArray bool
	dims    []int
	elemRaw string // array element type name, pre-IR-resolution
}

// loopFrame is one active while loop's continue/break targets.
type loopFrame struct {
	condCheck *ir.Block
	merge     *ir.Block
}

// funcCtx is the live lowering state for one function body.
type funcCtx struct {
	fn      *ir.Func
	cur     *ir.Block
	retType types.Type
	scope   map[string]*slot
	loops   []loopFrame
}

// declareFunctionSignatures pre-creates every ir.Func so calls (forward
// or mutually recursive) resolve regardless of source order.
func (g *Generator) declareFunctionSignatures(root *ast.Node) {
	for _, child := range root.Children {
		if child.Kind != ast.FuncDecl {
			continue
		}
		name, _, _ := splitFuncPayload(child.Payload)
		if _, already := g.funcs[name]; already {
			continue // forward declaration and definition share one signature
		}
		fn, ok := g.Reg.ResolveFunction(name)
		if !ok {
			diag.Fatalf(child.Pos, "function %q was not registered by the parser", name)
		}

		retTS, err := registry.ParseTypeSpec(fn.ReturnType)
		if err != nil {
			diag.Fatalf(child.Pos, "function %q return type: %v", name, err)
		}
		var params []*ir.Param
		for _, p := range fn.Params {
			pts, err := registry.ParseTypeSpec(p.Type)
			if err != nil {
				diag.Fatalf(child.Pos, "function %q parameter %q: %v", name, p.Name, err)
			}
			params = append(params, ir.NewParam(p.Name, g.irTypeSpec(pts)))
		}

		irFn := g.Module.NewFunc(name, g.irTypeSpec(retTS), params...)
		irFn.Sig.Variadic = fn.Variadic
		g.funcs[name] = irFn
	}
}

// splitFuncPayload decodes a FuncDecl payload ("name:rettype:variadic:forward").
func splitFuncPayload(payload string) (name string, variadic bool, forward bool) {
	parts := strings.SplitN(payload, ":", 4)
	if len(parts) != 4 {
		diag.FatalfAt("<codegen>", "malformed function payload %q", payload)
	}
	v, _ := strconv.ParseBool(parts[2])
	f, _ := strconv.ParseBool(parts[3])
	return parts[0], v, f
}

// lowerFunction lowers a FuncDecl's body, if it has one. A forward
// declaration (no trailing Block child) was already fully handled by
// declareFunctionSignatures, so there is nothing further to do here.
func (g *Generator) lowerFunction(node *ast.Node) {
	name, _, forward := splitFuncPayload(node.Payload)
	if forward {
		return
	}
	body := node.Children[len(node.Children)-1]
	if body.Kind != ast.Block {
		return
	}

	irFn := g.funcs[name]
	fn, _ := g.Reg.ResolveFunction(name)
	retTS, _ := registry.ParseTypeSpec(fn.ReturnType)

	entry := irFn.NewBlock("entry")
	g.fc = &funcCtx{
		fn:      irFn,
		cur:     entry,
		retType: g.irTypeSpec(retTS),
		scope:   make(map[string]*slot),
	}

	// Parameters get a stack slot like any other declared variable, since
	// the parser registers them in the same variable/pointer tables a
	// plain declaration uses — making them assignable the same way.
	for _, param := range irFn.Params {
		ts, err := registry.ParseTypeSpec(paramTypeOf(fn, param.Name()))
		if err != nil {
			diag.Fatalf(node.Pos, "parameter %q: %v", param.Name(), err)
		}
		s := g.declareLocal(param.Name(), ts)
		g.fc.cur.NewStore(param, s.addr)
	}

	g.lowerBlock(body)

	if g.fc.cur.Term == nil {
		if _, isVoid := g.fc.retType.(*types.VoidType); isVoid {
			g.fc.cur.NewRet(nil)
		} else {
			// A non-void function whose source fell off the end of its
			// body without an explicit ret still needs a terminator for
			// the emitted IR to be well-formed; the zero value of the
			// return type is the least surprising fallback.
			g.fc.cur.NewRet(g.zeroValue(g.fc.retType))
		}
	}

	g.fc = nil
}

func paramTypeOf(fn *registry.Function, name string) string {
	for _, p := range fn.Params {
		if p.Name == name {
			return p.Type
		}
	}
	return "i32"
}

// declareLocal allocates stack storage for a scalar or pointer symbol in
// the current function and records it in the codegen-time scope.
func (g *Generator) declareLocal(name string, ts registry.TypeSpec) *slot {
	irT := g.irTypeSpec(ts)
	addr := g.fc.cur.NewAlloca(irT)
	s := &slot{addr: addr, valType: irT, declType: ts}
	g.fc.scope[name] = s
	return s
}

// declareArray allocates stack storage for a fixed-shape array symbol.
func (g *Generator) declareArray(name, elem string, dims []int) *slot {
	elemIR := g.irBuiltinOrStruct(elem)
	arrType := buildArrayType(elemIR, dims)
	addr := g.fc.cur.NewAlloca(arrType)
	s := &slot{addr: addr, valType: arrType, isArray: true, dims: dims, elemRaw: elem}
	g.fc.scope[name] = s
	return s
}

func buildArrayType(elem types.Type, dims []int) types.Type {
	t := elem
	for i := len(dims) - 1; i >= 0; i-- {
		t = types.NewArray(uint64(dims[i]), t)
	}
	return t
}

// zeroValue produces the default-initialized constant for t, used both
// for global declarations without an initializer and for the synthetic
// fallthrough ret appended to a non-void function lacking one.
func (g *Generator) zeroValue(t types.Type) constant.Constant {
	switch tt := t.(type) {
	case *types.IntType:
		return constant.NewInt(tt, 0)
	case *types.FloatType:
		return constant.NewFloat(tt, 0)
	case *types.PointerType:
		return constant.NewNull(tt)
	default:
		return constant.NewZeroInitializer(t)
	}
}

// lowerGlobal lowers a top-level (module-scope) variable/array/pointer
// declaration to an ir.Global. There is no enclosing function at module
// scope, so an initializer must be a compile-time constant; spec.md is
// silent on top-level declarations beyond parsing them, so a runtime
// expression here is rejected with a clear diagnostic rather than
// silently misCompiled.
func (g *Generator) lowerGlobal(node *ast.Node) {
	switch node.Kind {
	case ast.VarDecl, ast.PointerDecl:
		name, ts := globalScalarSpec(node)
		irT := g.irTypeSpec(ts)
		init := g.zeroValue(irT)
		if len(node.Children) == 1 {
			init = g.constantExpr(node.Children[0].Children[1], irT)
		}
		global := g.Module.NewGlobalDef(name, init)
		g.globals[name] = global
		g.globalSlots[name] = &slot{addr: global, valType: irT, declType: ts}
	case ast.ArrayDecl:
		parts := strings.SplitN(node.Payload, ":", 3)
		name, elem, dims := parts[0], parts[1], parseDimsPayload(parts[2])
		arrType := buildArrayType(g.irBuiltinOrStruct(elem), dims)
		var init constant.Constant = constant.NewZeroInitializer(arrType)
		if len(node.Children) == 1 {
			init = g.constantExpr(node.Children[0].Children[1], arrType)
		}
		global := g.Module.NewGlobalDef(name, init)
		g.globals[name] = global
		g.globalSlots[name] = &slot{addr: global, valType: arrType, isArray: true, dims: dims, elemRaw: elem}
	}
}

func globalScalarSpec(node *ast.Node) (string, registry.TypeSpec) {
	if node.Kind == ast.PointerDecl {
		parts := strings.SplitN(node.Payload, ":", 3)
		degree, _ := strconv.Atoi(parts[1])
		return parts[0], registry.TypeSpec{Base: parts[2], PtrDegree: degree}
	}
	parts := strings.SplitN(node.Payload, ":", 2)
	return parts[0], registry.TypeSpec{Base: parts[1]}
}

func parseDimsPayload(s string) []int {
	fields := strings.Split(s, ";")
	dims := make([]int, len(fields))
	for i, f := range fields {
		n, _ := strconv.Atoi(f)
		dims[i] = n
	}
	return dims
}
