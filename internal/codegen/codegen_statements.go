/*
File    : sync/internal/codegen/codegen_statements.go
Package : codegen
*/

// codegen_statements.go lowers a function body's statements: block
// traversal, declarations, assignment targets, if/elif/else and while
// control flow, and brk/cont/ret (spec.md §4.5 "Lowering — control
// flow"). Block names follow spec.md §4.5's naming contract exactly —
// `if`/`elif_cond_N`/`elif_N`/`else`/`ifmrg` for a conditional, and
// `while_cond_check`/`while`/`whmerge` for a loop — so the emitted IR
// reads the way the contract describes it.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/diag"
	"github.com/synlang/sync/internal/registry"
)

// lowerBlock lowers each statement in source order, stopping early if a
// statement terminated the current block (brk/cont/ret): anything
// written after that point in the source is unreachable and would
// otherwise append instructions past a block's terminator.
func (g *Generator) lowerBlock(block *ast.Node) {
	for _, stmt := range block.Children {
		if g.fc.cur.Term != nil {
			return
		}
		g.lowerStatement(stmt)
	}
}

func (g *Generator) lowerStatement(node *ast.Node) {
	switch node.Kind {
	case ast.VarDecl:
		name, base, ok := strings.Cut(node.Payload, ":")
		if !ok {
			diag.Fatalf(node.Pos, "malformed declaration payload %q", node.Payload)
		}
		g.declareLocal(name, registry.TypeSpec{Base: base})
		if len(node.Children) == 1 {
			g.lowerAssign(node.Children[0])
		}
	case ast.PointerDecl:
		parts := strings.SplitN(node.Payload, ":", 3)
		degree, _ := strconv.Atoi(parts[1])
		g.declareLocal(parts[0], registry.TypeSpec{Base: parts[2], PtrDegree: degree})
		if len(node.Children) == 1 {
			g.lowerAssign(node.Children[0])
		}
	case ast.ArrayDecl:
		parts := strings.SplitN(node.Payload, ":", 3)
		dims := parseDimsPayload(parts[2])
		g.declareArray(parts[0], parts[1], dims)
		if len(node.Children) == 1 {
			g.lowerArrayWholeAssign(parts[0], node.Children[0].Children[1])
		}
	case ast.Assign:
		g.lowerAssign(node)
	case ast.Call:
		g.lowerCall(node)
	case ast.If:
		g.lowerIf(node)
	case ast.While:
		g.lowerWhile(node)
	case ast.Ret:
		g.lowerReturn(node)
	case ast.Brk:
		g.lowerBreak(node)
	case ast.Cnt:
		g.lowerContinue(node)
	case ast.NoOp, ast.Comment, ast.DocComment:
		// carries no IR
	default:
		diag.Fatalf(node.Pos, "cannot lower statement node kind %s", node.Kind)
	}
}

// lowerAssign stores rhs's value into lhs's address. A whole-array
// target (an Identifier naming an array symbol) is handled element by
// element rather than as a single store (spec.md §4.2 "whole-array
// assignment").
func (g *Generator) lowerAssign(node *ast.Node) {
	lhs, rhs := node.Children[0], node.Children[1]

	switch lhs.Kind {
	case ast.Identifier:
		s := g.mustSlot(lhs)
		if s.isArray {
			g.lowerArrayWholeAssign(lhs.Payload, rhs)
			return
		}
		val := g.lowerExprRvalue(rhs, s.valType)
		g.fc.cur.NewStore(val, s.addr)
	case ast.ArrayElement:
		addr, elemType := g.lowerArrayElementAddr(lhs)
		val := g.lowerExprRvalue(rhs, elemType)
		g.fc.cur.NewStore(val, addr)
	case ast.StructMember:
		addr, memberType := g.lowerStructMemberAddr(lhs)
		val := g.lowerExprRvalue(rhs, memberType)
		g.fc.cur.NewStore(val, addr)
	case ast.UnaryExpr:
		if lhs.Payload != "*" {
			diag.Fatalf(lhs.Pos, "invalid assignment target")
		}
		ptrVal := g.lowerExprRvalue(lhs.Children[0], nil)
		pt, ok := ptrVal.Type().(*types.PointerType)
		if !ok {
			diag.Fatalf(lhs.Pos, "cannot dereference a non-pointer value for assignment")
		}
		if _, isStruct := pt.ElemType.(*types.StructType); isStruct {
			diag.Fatalf(lhs.Pos, "assignment through a pointer to a struct is not supported")
		}
		val := g.lowerExprRvalue(rhs, pt.ElemType)
		g.fc.cur.NewStore(val, ptrVal)
	default:
		diag.Fatalf(lhs.Pos, "invalid assignment target kind %s", lhs.Kind)
	}
}

// lowerIf lowers If's children — [cond, thenBlock, Elif..., Else?] — to
// a chain of conditional branches sharing one merge block (spec.md §4.5
// "Conditional").
func (g *Generator) lowerIf(node *ast.Node) {
	cond := node.Children[0]
	thenBlock := node.Children[1]
	var elifs []*ast.Node
	var elseNode *ast.Node
	for _, c := range node.Children[2:] {
		switch c.Kind {
		case ast.Elif:
			elifs = append(elifs, c)
		case ast.Else:
			elseNode = c
		}
	}

	mergeBlk := g.fc.fn.NewBlock("ifmrg")
	ifBlk := g.fc.fn.NewBlock("if")

	var next *ir.Block
	switch {
	case len(elifs) > 0:
		next = g.fc.fn.NewBlock("elif_cond_0")
	case elseNode != nil:
		next = g.fc.fn.NewBlock("else")
	default:
		next = mergeBlk
	}

	condVal := g.lowerExprRvalue(cond, types.I1)
	g.fc.cur.NewCondBr(condVal, ifBlk, next)

	g.fc.cur = ifBlk
	g.lowerBlock(thenBlock)
	g.branchToIfUnterminated(mergeBlk)

	cursor := next
	for i, elifNode := range elifs {
		g.fc.cur = cursor
		econd := g.lowerExprRvalue(elifNode.Children[0], types.I1)
		bodyBlk := g.fc.fn.NewBlock(fmt.Sprintf("elif_%d", i))

		var after *ir.Block
		switch {
		case i+1 < len(elifs):
			after = g.fc.fn.NewBlock(fmt.Sprintf("elif_cond_%d", i+1))
		case elseNode != nil:
			after = g.fc.fn.NewBlock("else")
		default:
			after = mergeBlk
		}
		g.fc.cur.NewCondBr(econd, bodyBlk, after)

		g.fc.cur = bodyBlk
		g.lowerBlock(elifNode.Children[1])
		g.branchToIfUnterminated(mergeBlk)

		cursor = after
	}

	if elseNode != nil {
		g.fc.cur = cursor
		g.lowerBlock(elseNode.Children[0])
		g.branchToIfUnterminated(mergeBlk)
	}

	g.fc.cur = mergeBlk
}

func (g *Generator) branchToIfUnterminated(target *ir.Block) {
	if g.fc.cur.Term == nil {
		g.fc.cur.NewBr(target)
	}
}

// lowerWhile lowers While's [cond, body] children to a
// condition-check/body/merge triple with a loop-stack frame pushed for
// the body's brk/cont (spec.md §4.5 "Loop").
func (g *Generator) lowerWhile(node *ast.Node) {
	cond := node.Children[0]
	body := node.Children[1]

	condCheck := g.fc.fn.NewBlock("while_cond_check")
	bodyBlk := g.fc.fn.NewBlock("while")
	mergeBlk := g.fc.fn.NewBlock("whmerge")

	g.fc.cur.NewBr(condCheck)

	g.fc.cur = condCheck
	condVal := g.lowerExprRvalue(cond, types.I1)
	g.fc.cur.NewCondBr(condVal, bodyBlk, mergeBlk)

	g.fc.loops = append(g.fc.loops, loopFrame{condCheck: condCheck, merge: mergeBlk})
	g.fc.cur = bodyBlk
	g.lowerBlock(body)
	g.branchToIfUnterminated(condCheck)
	g.fc.loops = g.fc.loops[:len(g.fc.loops)-1]

	g.fc.cur = mergeBlk
}

func (g *Generator) lowerBreak(node *ast.Node) {
	if len(g.fc.loops) == 0 {
		diag.Fatalf(node.Pos, "brk used outside of loop")
	}
	top := g.fc.loops[len(g.fc.loops)-1]
	g.fc.cur.NewBr(top.merge)
}

func (g *Generator) lowerContinue(node *ast.Node) {
	if len(g.fc.loops) == 0 {
		diag.Fatalf(node.Pos, "cont used outside of loop")
	}
	top := g.fc.loops[len(g.fc.loops)-1]
	g.fc.cur.NewBr(top.condCheck)
}

func (g *Generator) lowerReturn(node *ast.Node) {
	if len(node.Children) == 0 {
		g.fc.cur.NewRet(nil)
		return
	}
	val := g.lowerExprRvalue(node.Children[0], g.fc.retType)
	g.fc.cur.NewRet(val)
}
