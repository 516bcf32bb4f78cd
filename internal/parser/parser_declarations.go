/*
File    : sync/internal/parser/parser_declarations.go
Package : parser
*/

// parser_declarations.go parses variable, array, and pointer
// declarations (spec.md §4.2 "Declarations") and the assignment forms
// that target them (scalar, whole/element array, struct member, pointer
// dereference).
package parser

import (
	"strconv"
	"strings"

	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/diag"
	"github.com/synlang/sync/internal/registry"
	"github.com/synlang/sync/internal/token"
)

// parseTypeAnnotation parses a type spelling ("i32", "ptr<i32>",
// "ptr<ptr<i32>>", ...) starting at the current token (spec.md §4.2
// "Pointer declaration").
func (p *Parser) parseTypeAnnotation() registry.TypeSpec {
	if p.at(token.BUILTIN_TYPE) && p.cur().Literal == "ptr" {
		p.advance()
		p.expect(token.LT)
		inner := p.parseTypeAnnotation()
		p.consumeTypeClose()
		inner.PtrDegree++
		return inner
	}
	if !p.at(token.BUILTIN_TYPE) && !p.at(token.USER_TYPE) {
		diag.Fatalf(p.cur(), "expected a type name, found %s %q", p.cur().Kind, p.cur().Literal)
	}
	t := p.advance()
	return registry.TypeSpec{Base: t.Literal}
}

// consumeTypeClose consumes one closing `>` of a `ptr<...>` annotation.
// When a `>>` reaches the parser as a single SHR token (internal/lexer's
// post-pass keeps it together only when a `=` precedes it in the same
// statement; otherwise it arrives already split into two GT tokens),
// this call rewrites that token in place into a single GT so the next
// enclosing consumeTypeClose call consumes the other half. This is a
// narrow, single-purpose token rewrite local to nested pointer-type
// parsing — distinct from (and a replacement for) the original's
// broader "rewrite the token at the cursor" trick that DESIGN NOTES §9
// flags for the assignment-after-declaration case.
func (p *Parser) consumeTypeClose() {
	switch p.cur().Kind {
	case token.GT:
		p.advance()
	case token.SHR:
		t := p.cur()
		p.toks[p.pos] = token.Token{Kind: token.GT, Literal: ">", Line: t.Line, Column: t.Column + 1, File: t.File}
	default:
		diag.Fatalf(p.cur(), "expected '>' to close pointer type, found %s", p.cur().Kind)
	}
}

// parseDeclaration parses `name : T[= expr];`, `name : T[d1;d2;...][= arr]`
// or `name : ptr<T>[= expr];`, registering the declared symbol and
// building the Assign sub-node directly instead of rewriting the token
// stream (spec.md §4.2 "Variable declaration", DESIGN NOTES §9).
func (p *Parser) parseDeclaration() *ast.Node {
	nameTok := p.advance()
	pos := p.posOf(nameTok)
	p.expect(token.COLON)
	ts := p.parseTypeAnnotation()

	if ts.PtrDegree == 0 && p.at(token.LBRACKET) {
		dims := p.parseArrayDims()
		node := ast.New(ast.ArrayDecl, nameTok.Literal+":"+ts.Base+":"+joinDims(dims), pos)
		p.Reg.InsertArray(&registry.Array{Name: nameTok.Literal, Elem: ts.Base, Dims: dims})
		if p.at(token.ASSIGN) {
			p.advance()
			rhs := p.parseArrayLiteral(len(dims))
			node.AddChild(p.buildAssign(pos, ast.New(ast.Identifier, nameTok.Literal, pos), rhs))
		}
		return node
	}

	if ts.PtrDegree > 0 {
		node := ast.New(ast.PointerDecl, nameTok.Literal+":"+strconv.Itoa(ts.PtrDegree)+":"+ts.Base, pos)
		p.Reg.InsertPointer(&registry.Pointer{Name: nameTok.Literal, Base: ts.Base, Degree: ts.PtrDegree})
		if p.at(token.ASSIGN) {
			p.advance()
			rhs := p.parseExpression()
			node.AddChild(p.buildAssign(pos, ast.New(ast.Identifier, nameTok.Literal, pos), rhs))
		}
		return node
	}

	node := ast.New(ast.VarDecl, nameTok.Literal+":"+ts.Base, pos)
	p.Reg.InsertVariable(&registry.Variable{Name: nameTok.Literal, Type: ts.Base})
	if p.at(token.ASSIGN) {
		p.advance()
		rhs := p.parseExpression()
		node.AddChild(p.buildAssign(pos, ast.New(ast.Identifier, nameTok.Literal, pos), rhs))
	}
	return node
}

func (p *Parser) buildAssign(pos ast.Position, lhs, rhs *ast.Node) *ast.Node {
	n := ast.New(ast.Assign, "", pos)
	n.AddChild(lhs)
	n.AddChild(rhs)
	return n
}

// parseArrayDims parses `[ d1 ; d2 ; ... ]`, each dimension a numeric
// literal (spec.md §3 "Arrays have statically known sizes").
func (p *Parser) parseArrayDims() []int {
	p.expect(token.LBRACKET)
	var dims []int
	for {
		tok := p.expect(token.INT)
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			diag.Fatalf(tok, "invalid array dimension %q", tok.Literal)
		}
		dims = append(dims, n)
		if p.at(token.SEMI) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return dims
}

func joinDims(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ";")
}

// parseArrayLiteral parses a nested `[ ... ]` literal of the given rank:
// the innermost level holds comma-separated scalar expressions, each
// outer level holds comma-separated literals of the next rank down
// (spec.md §4.2 "Array declaration").
func (p *Parser) parseArrayLiteral(rank int) *ast.Node {
	pos := p.pos_()
	p.expect(token.LBRACKET)
	node := ast.New(ast.ArrayLit, "", pos)
	for {
		var child *ast.Node
		if rank > 1 {
			child = p.parseArrayLiteral(rank - 1)
		} else {
			child = p.parseExpression()
		}
		node.AddChild(child)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return node
}

// parseArrayElementTail parses zero or more `[expr]` index groups
// following an already-consumed base identifier, forming an
// ArrayElement node whose children are the per-dimension index
// expressions (spec.md §4.2 "Array indexing ... is parsed as an
// ArrayElement node whose children are per-dimension expression
// subtrees").
func (p *Parser) parseArrayElementTail(nameTok token.Token) *ast.Node {
	pos := p.posOf(nameTok)
	node := ast.New(ast.ArrayElement, nameTok.Literal, pos)
	for p.at(token.LBRACKET) {
		p.advance()
		idx := p.parseExpression()
		node.AddChild(idx)
		p.expect(token.RBRACKET)
	}
	return node
}

// parseArrayElementAssignment parses `name[i1][i2]... = expr;`.
func (p *Parser) parseArrayElementAssignment() *ast.Node {
	nameTok := p.advance()
	elem := p.parseArrayElementTail(nameTok)
	p.expect(token.ASSIGN)
	rhs := p.parseExpression()
	return p.buildAssign(p.posOf(nameTok), elem, rhs)
}

// parseScalarOrArrayAssignment parses `name = expr;`, resolving name
// against the registry to decide whether it targets a scalar
// (variable/pointer) or a whole array (spec.md §4.2 "Identifier followed
// by `=`").
func (p *Parser) parseScalarOrArrayAssignment() *ast.Node {
	nameTok := p.advance()
	p.expect(token.ASSIGN)
	pos := p.posOf(nameTok)

	switch p.Reg.ResolveSymbol(nameTok.Literal) {
	case registry.IsVariable, registry.IsPointer:
		rhs := p.parseExpression()
		return p.buildAssign(pos, ast.New(ast.Identifier, nameTok.Literal, pos), rhs)
	case registry.IsArray:
		arr, _ := p.Reg.ResolveArray(nameTok.Literal)
		rhs := p.parseArrayLiteral(len(arr.Dims))
		return p.buildAssign(pos, ast.New(ast.Identifier, nameTok.Literal, pos), rhs)
	default:
		diag.Fatalf(nameTok, "assignment to undeclared name %q", nameTok.Literal)
		return nil
	}
}

// parseStructMemberAssignment parses `base.m1.m2 = expr;` (spec.md §4.2
// "struct-access chain → struct member assignment").
func (p *Parser) parseStructMemberAssignment() *ast.Node {
	nameTok := p.advance()
	chain := []string{nameTok.Literal}
	for p.at(token.DOT) {
		p.advance()
		m := p.expect(token.IDENT)
		chain = append(chain, m.Literal)
	}
	p.expect(token.ASSIGN)
	rhs := p.parseExpression()
	pos := p.posOf(nameTok)
	lhs := ast.New(ast.StructMember, strings.Join(chain, "."), pos)
	return p.buildAssign(pos, lhs, rhs)
}

// parseDerefAssignment parses `*p = expr;`; a bare `*p;` is rejected
// (spec.md §4.2 "Bare `*p;` is rejected").
func (p *Parser) parseDerefAssignment() *ast.Node {
	star := p.advance()
	nameTok := p.expect(token.IDENT)
	if !p.at(token.ASSIGN) {
		diag.Fatalf(nameTok, "bare pointer dereference statement is not allowed")
	}
	p.advance()
	rhs := p.parseExpression()
	pos := p.posOf(star)
	deref := ast.New(ast.UnaryExpr, "*", pos)
	deref.AddChild(ast.New(ast.Identifier, nameTok.Literal, pos))
	return p.buildAssign(pos, deref, rhs)
}
