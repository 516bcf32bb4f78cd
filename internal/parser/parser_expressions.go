/*
File    : sync/internal/parser/parser_expressions.go
Package : parser
*/

// parser_expressions.go implements spec.md §4.2's two-phase expression
// parser: a flat collection pass gathers operands and bare operators
// into an ast.FlatExpr without regard to precedence, then a precedence-
// climbing reshape pass turns that flat list into a BinaryExpr/
// UnaryExpr tree. Grounded directly on original_source/src/ast.c's
// ast_parse_expression rather than go-mix's native Pratt parser, since
// spec.md specifies this two-phase algorithm as Syn's own semantics.
package parser

import (
	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/diag"
	"github.com/synlang/sync/internal/token"
)

// precedence is the binary-operator table from spec.md §4.2, transcribed
// group-by-group from its lowest-to-highest listing:
//
//	... , %= /= *= -= += = , || , && , | , ^ , & , != == , >= > <= < , >> << , - + , % / *
//
// ELLIPSIS never reaches an expression (it only terminates a parameter
// list) so it is omitted; every other group keeps its listed tier.
var precedence = map[token.Kind]int{
	token.PLUS_ASSIGN:  2,
	token.MINUS_ASSIGN: 2,
	token.MUL_ASSIGN:   2,
	token.DIV_ASSIGN:   2,
	token.MOD_ASSIGN:   2,
	token.ASSIGN:       2,

	token.OR: 3,

	token.AND: 4,

	token.BIT_OR: 5,

	token.BIT_XOR: 6,

	token.BIT_AND: 7,

	token.EQ: 8,
	token.NE: 8,

	token.GE: 9,
	token.GT: 9,
	token.LE: 9,
	token.LT: 9,

	token.SHR: 10,
	token.SHL: 10,

	token.MINUS: 11,
	token.PLUS:  11,

	token.PERCENT: 12,
	token.SLASH:   12,
	token.STAR:    12,
}

// stopsExpression reports whether kind ends a flat-collection pass
// without being consumed (spec.md §4.2 "Stops at `,`, `;`, `]`, or an
// outer closing `)`"). `{` and EOF also stop it, so an if/while
// condition ends right before its block.
func stopsExpression(k token.Kind) bool {
	switch k {
	case token.COMMA, token.SEMI, token.RBRACKET, token.RPAREN, token.EOF, token.LBRACE:
		return true
	default:
		return false
	}
}

// parseExpression is the package's single expression entry point: flat
// collection followed by precedence-climbing reshape.
func (p *Parser) parseExpression() *ast.Node {
	flat := p.collectFlatExpr()
	return reshape(flat)
}

// collectFlatExpr walks tokens into an ast.FlatExpr holding, in source
// order: operands (Identifier/Call/ArrayElement/StructMember/literal/
// parenthesized subexpression nodes) and bare ast.OpToken leaves for
// every operator encountered (spec.md §4.2 "Flat collection").
func (p *Parser) collectFlatExpr() *ast.Node {
	pos := p.pos_()
	flat := ast.New(ast.FlatExpr, "", pos)

	for !stopsExpression(p.cur().Kind) {
		switch {
		case p.at(token.LPAREN):
			p.advance()
			inner := p.collectFlatExpr()
			p.expect(token.RPAREN)
			flat.AddChild(reshape(inner))
		case p.at(token.IDENT):
			flat.AddChild(p.parseIdentifierOperand())
		case p.at(token.INT):
			t := p.advance()
			flat.AddChild(ast.New(ast.IntLit, t.Literal, p.posOf(t)))
		case p.at(token.FLOAT):
			t := p.advance()
			flat.AddChild(ast.New(ast.FloatLit, t.Literal, p.posOf(t)))
		case p.at(token.STRING):
			t := p.advance()
			flat.AddChild(ast.New(ast.StringLit, t.Literal, p.posOf(t)))
		case p.at(token.TRUE), p.at(token.FALSE):
			t := p.advance()
			flat.AddChild(ast.New(ast.BoolLit, t.Literal, p.posOf(t)))
		case p.at(token.NULL):
			t := p.advance()
			flat.AddChild(ast.New(ast.NullLit, "", p.posOf(t)))
		case token.IsOperator(p.cur().Kind):
			t := p.advance()
			flat.AddChild(ast.New(ast.OpToken, string(t.Kind), p.posOf(t)))
		default:
			diag.Fatalf(p.cur(), "unexpected token %s %q in expression", p.cur().Kind, p.cur().Literal)
		}
	}

	if len(flat.Children) == 0 {
		diag.Fatalf(p.cur(), "expected an expression, found %s %q", p.cur().Kind, p.cur().Literal)
	}
	return flat
}

// parseIdentifierOperand resolves a leading identifier inside an
// expression into a Call, ArrayElement, StructMember, or bare
// Identifier node, looking ahead exactly one token the same way
// parseIdentifierStatement does at statement level (spec.md §4.2).
func (p *Parser) parseIdentifierOperand() *ast.Node {
	nameTok := p.advance()
	switch p.cur().Kind {
	case token.LPAREN:
		call := p.finishCall(nameTok)
		if fn, ok := p.Reg.ResolveFunction(nameTok.Literal); ok && fn.ReturnType == "void" {
			diag.Fatalf(nameTok, "Cannot use void function %q as an expression", nameTok.Literal)
		}
		return call
	case token.LBRACKET:
		return p.parseArrayElementTail(nameTok)
	case token.DOT:
		chain := []string{nameTok.Literal}
		for p.at(token.DOT) {
			p.advance()
			m := p.expect(token.IDENT)
			chain = append(chain, m.Literal)
		}
		pos := p.posOf(nameTok)
		return ast.New(ast.StructMember, joinChain(chain), pos)
	default:
		return ast.New(ast.Identifier, nameTok.Literal, p.posOf(nameTok))
	}
}

func joinChain(chain []string) string {
	out := chain[0]
	for _, c := range chain[1:] {
		out += "." + c
	}
	return out
}

// parseCallExpression parses a call used as a full statement (spec.md
// §4.2's `name(...)` statement form).
func (p *Parser) parseCallExpression() *ast.Node {
	nameTok := p.advance()
	return p.finishCall(nameTok)
}

// finishCall parses `( arg, arg, ... )` after an already-consumed
// function name. The "call to a void function inside an expression" rule
// (spec.md §4.2 "Flat collection") is enforced by parseIdentifierOperand,
// since a call used as a bare statement (parseCallExpression) may
// legitimately target a void function.
func (p *Parser) finishCall(nameTok token.Token) *ast.Node {
	pos := p.posOf(nameTok)
	p.expect(token.LPAREN)
	call := ast.New(ast.Call, nameTok.Literal, pos)
	if !p.at(token.RPAREN) {
		for {
			call.AddChild(p.parseExpression())
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RPAREN)
	return call
}

// reshape turns a FlatExpr's children into a single expression node via
// precedence climbing (spec.md §4.2 "Precedence climbing").
func reshape(flat *ast.Node) *ast.Node {
	children := flat.Children

	for {
		switch len(children) {
		case 1:
			return children[0]
		case 2:
			op := children[0]
			operand := children[1]
			n := ast.New(ast.UnaryExpr, op.Payload, op.Pos)
			n.AddChild(operand)
			return n
		}

		if idx, ok := lowestPrecedenceSplit(children); ok {
			left := children[:idx]
			op := children[idx]
			right := children[idx+1:]
			n := ast.New(ast.BinaryExpr, op.Payload, op.Pos)
			n.AddChild(reshape(wrap(left)))
			n.AddChild(reshape(wrap(right)))
			return n
		}

		// No binary operator remains at this level: every OpToken here is
		// unary, applying right-to-left to the operand that follows it.
		// Resolve the rightmost adjacent unary run into a fresh child
		// list and loop (spec.md §4.2's iterative "resolve adjacent
		// unary operators" step).
		children = resolveOneUnaryRun(children)
	}
}

func wrap(children []*ast.Node) *ast.Node {
	n := ast.New(ast.FlatExpr, "", children[0].Pos)
	n.Children = children
	return n
}

// lowestPrecedenceSplit finds the binary operator with the lowest
// precedence among children, tie-broken by leftmost occurrence (spec.md
// §4.2). An OpToken is only a binary-split candidate when it is neither
// the first nor the last child and its predecessor is not an operator
// (its successor may be, as in `a * -b`); a leading operator, or one
// immediately following another operator, is unary.
func lowestPrecedenceSplit(children []*ast.Node) (int, bool) {
	best := -1
	bestPrec := int(^uint(0) >> 1)
	for i, c := range children {
		if c.Kind != ast.OpToken {
			continue
		}
		if i == 0 || i == len(children)-1 {
			continue
		}
		if children[i-1].Kind == ast.OpToken {
			continue
		}
		prec, ok := precedence[token.Kind(c.Payload)]
		if !ok {
			continue
		}
		if prec < bestPrec {
			bestPrec = prec
			best = i
		}
	}
	return best, best >= 0
}

// resolveOneUnaryRun finds the rightmost maximal run of adjacent
// OpToken children immediately followed by a non-operator operand, and
// collapses that run with the operand into a single UnaryExpr chain
// (innermost operator binds tightest), returning a fresh child list
// with the run+operand replaced by the collapsed node.
func resolveOneUnaryRun(children []*ast.Node) []*ast.Node {
	end := -1
	for i := len(children) - 1; i >= 0; i-- {
		if children[i].Kind != ast.OpToken {
			if end == -1 {
				continue
			}
			break
		}
		if i+1 < len(children) && children[i+1].Kind != ast.OpToken {
			end = i + 1
		}
	}
	if end == -1 {
		diag.Fatalf(children[0].Pos, "malformed expression: no operand follows operator run")
	}
	start := end - 1
	for start > 0 && children[start-1].Kind == ast.OpToken {
		start--
	}

	node := children[end]
	for i := end - 1; i >= start; i-- {
		u := ast.New(ast.UnaryExpr, children[i].Payload, children[i].Pos)
		u.AddChild(node)
		node = u
	}

	out := make([]*ast.Node, 0, len(children)-(end-start))
	out = append(out, children[:start]...)
	out = append(out, node)
	out = append(out, children[end+1:]...)
	return out
}
