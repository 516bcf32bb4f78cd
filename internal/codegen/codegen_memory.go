/*
File    : sync/internal/codegen/codegen_memory.go
Package : codegen
*/

// codegen_memory.go lowers array and struct-member addressing, whole-
// array literal assignment, and the handful of compile-time-constant
// expressions a global initializer is allowed to use (spec.md §4.6
// "Array lowering" and "Struct member lowering").
package codegen

import (
	"strconv"
	"strings"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/diag"
	"github.com/synlang/sync/internal/registry"
)

func parseTypeSpecOrFatal(pos ast.Position, s string) (registry.TypeSpec, error) {
	return registry.ParseTypeSpec(s)
}

// lowerArrayElementAddr addresses `name[i1][i2]...`. A statically
// shaped array indexes with a single GEP carrying a 0-prefixed index
// list `(0, i1, 0, i2, …)` — a `0` interleaved before every
// per-dimension index, each stepping through the outer array level the
// way the inner ones step through the elements (spec.md §4.6 "Array
// lowering"). A pointer symbol indexed the same way is treated as
// pointer arithmetic instead: each bracket level steps one element and,
// short of the last level, loads the resulting address to keep indexing
// into the next pointer (spec.md §4.6's pointer-to-array form, no
// leading `0`).
func (g *Generator) lowerArrayElementAddr(node *ast.Node) (value.Value, types.Type) {
	s := g.mustSlot(node)
	if s.isArray {
		if len(node.Children) != len(s.dims) {
			diag.Fatalf(node.Pos, "array %q expects %d index expression(s), got %d", node.Payload, len(s.dims), len(node.Children))
		}
		indices := make([]value.Value, 0, len(node.Children)*2)
		for _, idxNode := range node.Children {
			indices = append(indices, constant.NewInt(types.I32, 0), g.lowerExprRvalue(idxNode, types.I32))
		}
		addr := g.fc.cur.NewGetElementPtr(s.valType, s.addr, indices...)
		elemType := g.irBuiltinOrStruct(s.elemRaw)
		return addr, elemType
	}

	cur := value.Value(g.fc.cur.NewLoad(s.valType, s.addr))
	curType := s.valType
	var addr value.Value
	for i, idxNode := range node.Children {
		pt, ok := curType.(*types.PointerType)
		if !ok {
			diag.Fatalf(node.Pos, "cannot index non-array, non-pointer symbol %q", node.Payload)
		}
		idx := g.lowerExprRvalue(idxNode, types.I32)
		addr = g.fc.cur.NewGetElementPtr(pt.ElemType, cur, idx)
		if i == len(node.Children)-1 {
			return addr, pt.ElemType
		}
		cur = g.fc.cur.NewLoad(pt.ElemType, addr)
		curType = pt.ElemType
	}
	diag.Fatalf(node.Pos, "symbol %q indexed with no index expressions", node.Payload)
	return nil, nil
}

// lowerStructMemberAddr addresses a `base.m1.m2...` chain via a GEP per
// member hop. A pointer-typed base is rejected outright: Syn does not
// support pointer-to-struct member access (spec.md §4.6 "pointer-to-
// struct assignment ... reject with error" — extended here to member
// reads too, since both need the same through-the-pointer indirection
// this compiler does not implement).
func (g *Generator) lowerStructMemberAddr(node *ast.Node) (value.Value, types.Type) {
	parts := strings.Split(node.Payload, ".")
	base := parts[0]
	s, ok := g.resolveSlot(base)
	if !ok {
		diag.Fatalf(node.Pos, "use of undeclared name %q", base)
	}
	if s.declType.PtrDegree > 0 {
		diag.Fatalf(node.Pos, "pointer-to-struct member access is not supported")
	}

	addr := s.addr
	curType := s.valType
	structName := s.declType.Base
	for _, member := range parts[1:] {
		st, ok := g.structTypes[structName]
		if !ok {
			diag.Fatalf(node.Pos, "%q is not a struct type", structName)
		}
		strct, ok := g.Reg.ResolveStruct(structName)
		if !ok {
			diag.Fatalf(node.Pos, "unknown struct type %q", structName)
		}
		idx := -1
		var memberType string
		for i, m := range strct.Members {
			if m.Name == member {
				idx = i
				memberType = m.Type
				break
			}
		}
		if idx == -1 {
			diag.Fatalf(node.Pos, "struct %q has no member %q", structName, member)
		}
		addr = g.fc.cur.NewGetElementPtr(st, addr, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, int64(idx)))
		ts, err := registry.ParseTypeSpec(memberType)
		if err != nil {
			diag.Fatalf(node.Pos, "struct %q member %q: %v", structName, member, err)
		}
		curType = g.irTypeSpec(ts)
		structName = ts.Base
	}
	return addr, curType
}

// lowerArrayWholeAssign stores an ArrayLit's leaves, element by element,
// into name's storage (spec.md §4.2 "whole-array assignment").
func (g *Generator) lowerArrayWholeAssign(name string, lit *ast.Node) {
	s, ok := g.resolveSlot(name)
	if !ok {
		diag.Fatalf(lit.Pos, "assignment to undeclared array %q", name)
	}
	g.storeArrayLiteral(s.addr, s.valType, s.dims, 0, lit, nil)
}

// storeArrayLiteral builds the same 0-prefixed index list
// lowerArrayElementAddr does, one `(0, iDepth)` pair per recursion
// level, so a rank-N literal's leaf store addresses with `(0, i1, 0,
// i2, …, 0, iN)` instead of a single leading zero.
func (g *Generator) storeArrayLiteral(base value.Value, baseType types.Type, dims []int, depth int, lit *ast.Node, prefixIdx []value.Value) {
	for i, child := range lit.Children {
		idxList := make([]value.Value, len(prefixIdx), len(prefixIdx)+2)
		copy(idxList, prefixIdx)
		idxList = append(idxList, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, int64(i)))

		if depth == len(dims)-1 {
			addr := g.fc.cur.NewGetElementPtr(baseType, base, idxList...)
			elemType := addr.Type().(*types.PointerType).ElemType
			val := g.lowerExprRvalue(child, elemType)
			g.fc.cur.NewStore(val, addr)
			continue
		}
		g.storeArrayLiteral(base, baseType, dims, depth+1, child, idxList)
	}
}

// constantExpr lowers the handful of expression forms that are valid as
// a module-scope global initializer: literals, and arbitrarily nested
// array literals of them. Anything else (a call, an identifier, an
// operator) has no meaning outside a function body, so it is rejected.
func (g *Generator) constantExpr(node *ast.Node, expected types.Type) constant.Constant {
	switch node.Kind {
	case ast.IntLit:
		v, _ := strconv.ParseInt(node.Payload, 10, 64)
		if it, ok := expected.(*types.IntType); ok {
			return constant.NewInt(it, v)
		}
		return constant.NewInt(types.I32, v)
	case ast.FloatLit:
		v, _ := strconv.ParseFloat(node.Payload, 64)
		if ft, ok := expected.(*types.FloatType); ok {
			return constant.NewFloat(ft, v)
		}
		return constant.NewFloat(types.Double, v)
	case ast.BoolLit:
		return constant.NewBool(node.Payload == "true")
	case ast.NullLit:
		if pt, ok := expected.(*types.PointerType); ok {
			return constant.NewNull(pt)
		}
		return constant.NewNull(types.NewPointer(types.I8))
	case ast.ArrayLit:
		at, ok := expected.(*types.ArrayType)
		if !ok {
			diag.Fatalf(node.Pos, "array literal used where %s was expected", expected)
		}
		elems := make([]constant.Constant, len(node.Children))
		for i, child := range node.Children {
			elems[i] = g.constantExpr(child, at.ElemType)
		}
		return constant.NewArray(at, elems...)
	default:
		diag.Fatalf(node.Pos, "top-level initializer must be a constant expression")
		return nil
	}
}
