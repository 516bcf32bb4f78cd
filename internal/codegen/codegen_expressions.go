/*
File    : sync/internal/codegen/codegen_expressions.go
Package : codegen
*/

// codegen_expressions.go lowers identifiers, literals, unary/binary
// operators, and calls to LLVM IR values (spec.md §4.6 "Lowering —
// values, operators, memory"). Syn's `&&`/`||` are plain bitwise
// operators rather than short-circuiting control flow (spec.md §4.2),
// so expression lowering never branches: every node here appends
// straight-line instructions to the function's current block.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/diag"
)

// lowerExprRvalue lowers node to a usable value. expected, when
// non-nil, is the IR type the surrounding context wants (an assignment
// target, a declared parameter, a binary operator's other operand) and
// steers literal/null lowering onto that type instead of the untyped
// default (spec.md §4.6's literal rules give defaults for a literal
// with no surrounding context; a typed slot should still get its own
// width rather than always falling back to i32/f64).
func (g *Generator) lowerExprRvalue(node *ast.Node, expected types.Type) value.Value {
	switch node.Kind {
	case ast.IntLit:
		return g.lowerIntLit(node, expected)
	case ast.FloatLit:
		return g.lowerFloatLit(node, expected)
	case ast.BoolLit:
		return constant.NewBool(node.Payload == "true")
	case ast.NullLit:
		if pt, ok := expected.(*types.PointerType); ok {
			return constant.NewNull(pt)
		}
		return constant.NewNull(types.NewPointer(types.I8))
	case ast.StringLit:
		return g.lowerStringLit(node)
	case ast.Identifier:
		s := g.mustSlot(node)
		return g.fc.cur.NewLoad(s.valType, s.addr)
	case ast.ArrayElement:
		addr, elemType := g.lowerArrayElementAddr(node)
		return g.fc.cur.NewLoad(elemType, addr)
	case ast.StructMember:
		addr, memberType := g.lowerStructMemberAddr(node)
		return g.fc.cur.NewLoad(memberType, addr)
	case ast.UnaryExpr:
		return g.lowerUnary(node)
	case ast.BinaryExpr:
		return g.lowerBinary(node)
	case ast.Call:
		v := g.lowerCall(node)
		if v == nil {
			diag.Fatalf(node.Pos, "Cannot use void function %q as a value", node.Payload)
		}
		return v
	default:
		diag.Fatalf(node.Pos, "cannot lower expression node kind %s", node.Kind)
		return nil
	}
}

// resolveSlot looks a name up in the current function's codegen-time
// scope first, falling back to module-scope globals (spec.md §4.5's
// per-function scope reset only clears local bindings; a top-level
// declaration stays visible to every function that follows it).
func (g *Generator) resolveSlot(name string) (*slot, bool) {
	if s, ok := g.fc.scope[name]; ok {
		return s, true
	}
	s, ok := g.globalSlots[name]
	return s, ok
}

func (g *Generator) mustSlot(node *ast.Node) *slot {
	s, ok := g.resolveSlot(node.Payload)
	if !ok {
		diag.Fatalf(node.Pos, "use of undeclared name %q", node.Payload)
	}
	return s
}

func (g *Generator) lowerIntLit(node *ast.Node, expected types.Type) value.Value {
	v, err := strconv.ParseInt(node.Payload, 10, 64)
	if err != nil {
		diag.Fatalf(node.Pos, "invalid integer literal %q", node.Payload)
	}
	if it, ok := expected.(*types.IntType); ok {
		return constant.NewInt(it, v)
	}
	return constant.NewInt(types.I32, v)
}

func (g *Generator) lowerFloatLit(node *ast.Node, expected types.Type) value.Value {
	v, err := strconv.ParseFloat(node.Payload, 64)
	if err != nil {
		diag.Fatalf(node.Pos, "invalid float literal %q", node.Payload)
	}
	if ft, ok := expected.(*types.FloatType); ok {
		return constant.NewFloat(ft, v)
	}
	return constant.NewFloat(types.Double, v)
}

// lowerStringLit emits a private global byte array holding the
// unescaped string plus a trailing NUL and returns a pointer to its
// first element (spec.md §4.6 "string literal lowers to a global
// constant byte array ... plus a pointer to its first byte").
func (g *Generator) lowerStringLit(node *ast.Node) value.Value {
	raw := unescapeString(node.Payload)
	data := constant.NewCharArrayFromString(raw + "\x00")
	name := fmt.Sprintf(".str.%d", g.strCount)
	g.strCount++
	global := g.Module.NewGlobalDef(name, data)
	global.Immutable = true
	zero := constant.NewInt(types.I32, 0)
	return constant.NewGetElementPtr(data.Type(), global, zero, zero)
}

func unescapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// lowerExprLvalue lowers node to the address that should be written to
// on assignment or read from with &.
func (g *Generator) lowerExprLvalue(node *ast.Node) value.Value {
	switch node.Kind {
	case ast.Identifier:
		return g.mustSlot(node).addr
	case ast.ArrayElement:
		addr, _ := g.lowerArrayElementAddr(node)
		return addr
	case ast.StructMember:
		addr, _ := g.lowerStructMemberAddr(node)
		return addr
	case ast.UnaryExpr:
		if node.Payload != "*" {
			diag.Fatalf(node.Pos, "cannot take the address of a %q expression", node.Payload)
		}
		return g.lowerExprRvalue(node.Children[0], nil)
	default:
		diag.Fatalf(node.Pos, "expression kind %s does not have an address", node.Kind)
		return nil
	}
}

func isFloatType(t types.Type) bool {
	_, ok := t.(*types.FloatType)
	return ok
}

func sameType(a, b types.Type) bool {
	return a.String() == b.String()
}

// lowerUnary lowers `& * - ! ~ ++ --` (spec.md §4.6 "Unary operators").
func (g *Generator) lowerUnary(node *ast.Node) value.Value {
	operand := node.Children[0]
	switch node.Payload {
	case "&":
		return g.lowerExprLvalue(operand)
	case "*":
		ptrVal := g.lowerExprRvalue(operand, nil)
		pt, ok := ptrVal.Type().(*types.PointerType)
		if !ok {
			diag.Fatalf(node.Pos, "cannot dereference a non-pointer value")
		}
		return g.fc.cur.NewLoad(pt.ElemType, ptrVal)
	case "-":
		val := g.lowerExprRvalue(operand, nil)
		if isFloatType(val.Type()) {
			return g.fc.cur.NewFNeg(val)
		}
		return g.fc.cur.NewSub(constant.NewInt(val.Type().(*types.IntType), 0), val)
	case "!", "~":
		val := g.lowerExprRvalue(operand, nil)
		it, ok := val.Type().(*types.IntType)
		if !ok {
			diag.Fatalf(node.Pos, "operator %q requires an integer or boolean operand", node.Payload)
		}
		return g.fc.cur.NewXor(val, constant.NewInt(it, -1))
	case "++", "--":
		addr := g.lowerExprLvalue(operand)
		pt := addr.Type().(*types.PointerType)
		old := g.fc.cur.NewLoad(pt.ElemType, addr)
		var updated value.Value
		one := int64(1)
		if node.Payload == "--" {
			one = -1
		}
		if isFloatType(pt.ElemType) {
			delta := constant.NewFloat(pt.ElemType.(*types.FloatType), float64(one))
			updated = g.fc.cur.NewFAdd(old, delta)
		} else {
			delta := constant.NewInt(pt.ElemType.(*types.IntType), one)
			updated = g.fc.cur.NewAdd(old, delta)
		}
		g.fc.cur.NewStore(updated, addr)
		return updated
	default:
		diag.Fatalf(node.Pos, "unsupported unary operator %q", node.Payload)
		return nil
	}
}

// lowerBinary lowers a binary operator, enforcing spec.md §4.6's
// same-operand-type rule (no implicit conversion) and its float
// restriction to `+ - *` only.
func (g *Generator) lowerBinary(node *ast.Node) value.Value {
	lhs := g.lowerExprRvalue(node.Children[0], nil)
	rhs := g.lowerExprRvalue(node.Children[1], lhs.Type())
	if !sameType(lhs.Type(), rhs.Type()) {
		diag.Fatalf(node.Pos, "mismatched operand types %s and %s for operator %q", lhs.Type(), rhs.Type(), node.Payload)
	}
	float := isFloatType(lhs.Type())

	switch node.Payload {
	case "+":
		if float {
			return g.fc.cur.NewFAdd(lhs, rhs)
		}
		return g.fc.cur.NewAdd(lhs, rhs)
	case "-":
		if float {
			return g.fc.cur.NewFSub(lhs, rhs)
		}
		return g.fc.cur.NewSub(lhs, rhs)
	case "*":
		if float {
			return g.fc.cur.NewFMul(lhs, rhs)
		}
		return g.fc.cur.NewMul(lhs, rhs)
	}

	if float {
		diag.Fatalf(node.Pos, "operator %q is not supported on float operands (only + - *)", node.Payload)
	}

	switch node.Payload {
	case "/":
		return g.fc.cur.NewSDiv(lhs, rhs)
	case "%":
		return g.fc.cur.NewSRem(lhs, rhs)
	case "==":
		return g.fc.cur.NewICmp(enum.IPredEQ, lhs, rhs)
	case "!=":
		return g.fc.cur.NewICmp(enum.IPredNE, lhs, rhs)
	case "<":
		return g.fc.cur.NewICmp(enum.IPredSLT, lhs, rhs)
	case "<=":
		return g.fc.cur.NewICmp(enum.IPredSLE, lhs, rhs)
	case ">":
		return g.fc.cur.NewICmp(enum.IPredSGT, lhs, rhs)
	case ">=":
		return g.fc.cur.NewICmp(enum.IPredSGE, lhs, rhs)
	case "&&", "&":
		return g.fc.cur.NewAnd(lhs, rhs)
	case "||", "|":
		return g.fc.cur.NewOr(lhs, rhs)
	case "^":
		return g.fc.cur.NewXor(lhs, rhs)
	case ">>":
		return g.fc.cur.NewAShr(lhs, rhs)
	case "<<":
		return g.fc.cur.NewShl(lhs, rhs)
	default:
		diag.Fatalf(node.Pos, "unsupported binary operator %q", node.Payload)
		return nil
	}
}

// lowerCall lowers a function call, applying C-style variadic argument
// promotion to any argument past the declared parameter list (spec.md
// §4.6 "Call lowering"). It returns nil for a void-returning call, by
// design: no SSA value is produced, matching the statement-level call
// path that discards it.
func (g *Generator) lowerCall(node *ast.Node) value.Value {
	fn, ok := g.Reg.ResolveFunction(node.Payload)
	if !ok {
		diag.Fatalf(node.Pos, "Cannot call undeclared function %q", node.Payload)
	}
	irFn, ok := g.funcs[node.Payload]
	if !ok {
		diag.Fatalf(node.Pos, "function %q has no declared signature", node.Payload)
	}

	declared := len(fn.Params)
	if fn.Variadic {
		if len(node.Children) < declared {
			diag.Fatalf(node.Pos, "call to %q needs at least %d argument(s), got %d", node.Payload, declared, len(node.Children))
		}
	} else if len(node.Children) != declared {
		diag.Fatalf(node.Pos, "call to %q needs %d argument(s), got %d", node.Payload, declared, len(node.Children))
	}

	args := make([]value.Value, 0, len(node.Children))
	for i, argNode := range node.Children {
		if i < declared {
			pts, err := parseTypeSpecOrFatal(node.Pos, fn.Params[i].Type)
			if err != nil {
				diag.Fatalf(node.Pos, "%v", err)
			}
			args = append(args, g.lowerExprRvalue(argNode, g.irTypeSpec(pts)))
			continue
		}
		args = append(args, g.promoteVariadicArg(g.lowerExprRvalue(argNode, nil)))
	}

	call := g.fc.cur.NewCall(irFn, args...)
	if fn.ReturnType == "void" {
		return nil
	}
	return call
}

// promoteVariadicArg applies the classic C default argument promotions
// to an extra (non-fixed) variadic argument: integers narrower than 32
// bits sign-extend to i32, and f32 widens to f64 (spec.md §4.6).
func (g *Generator) promoteVariadicArg(v value.Value) value.Value {
	switch t := v.Type().(type) {
	case *types.IntType:
		if t.BitSize < 32 {
			return g.fc.cur.NewSExt(v, types.I32)
		}
	case *types.FloatType:
		if t == types.Float {
			return g.fc.cur.NewFPExt(v, types.Double)
		}
	}
	return v
}
