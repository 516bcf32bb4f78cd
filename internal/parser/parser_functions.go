/*
File    : sync/internal/parser/parser_functions.go
Package : parser
*/

// parser_functions.go parses function declarations/definitions,
// parameter lists, and the statement blocks that form a function body
// (spec.md §4.2 "Function declaration").
package parser

import (
	"strconv"

	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/diag"
	"github.com/synlang/sync/internal/registry"
	"github.com/synlang/sync/internal/token"
)

// parseFuncDecl parses `fnc name(params) : rettype { ... }` or the
// forward-declaration form `fnc name(params) : rettype;` (spec.md §4.2
// "`;` for a forward declaration"). Parameters are registered into a
// freshly reset function scope so the body can resolve them.
func (p *Parser) parseFuncDecl() *ast.Node {
	fncTok := p.advance()
	nameTok := p.expect(token.IDENT)
	pos := p.posOf(fncTok)

	p.Reg.ResetFunctionScope()
	p.expect(token.LPAREN)

	var params []registry.Param
	var paramNodes []*ast.Node
	variadic := false
	if !p.at(token.RPAREN) {
		for {
			if p.at(token.ELLIPSIS) {
				p.advance()
				variadic = true
				break
			}
			pnameTok := p.expect(token.IDENT)
			p.expect(token.COLON)
			ts := p.parseTypeAnnotation()
			params = append(params, registry.Param{Name: pnameTok.Literal, Type: ts.String()})
			paramNodes = append(paramNodes, ast.New(ast.Param, pnameTok.Literal+":"+ts.String(), p.posOf(pnameTok)))
			if ts.PtrDegree > 0 {
				p.Reg.InsertPointer(&registry.Pointer{Name: pnameTok.Literal, Base: ts.Base, Degree: ts.PtrDegree})
			} else {
				p.Reg.InsertVariable(&registry.Variable{Name: pnameTok.Literal, Type: ts.Base})
			}
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.COLON)
	retTs := p.parseTypeAnnotation()

	defined := false
	var body *ast.Node
	if p.at(token.SEMI) {
		defined = false
	} else {
		defined = true
		body = p.parseBlock()
	}

	if err := p.Reg.InsertFunction(&registry.Function{
		Name:       nameTok.Literal,
		ReturnType: retTs.String(),
		Params:     params,
		Variadic:   variadic,
		Defined:    defined,
	}); err != nil {
		diag.Fatalf(nameTok, "%v", err)
	}

	payload := nameTok.Literal + ":" + retTs.String() + ":" + strconv.FormatBool(variadic) + ":" + strconv.FormatBool(!defined)
	node := ast.New(ast.FuncDecl, payload, pos)
	for _, pn := range paramNodes {
		node.AddChild(pn)
	}
	if body != nil {
		node.AddChild(body)
	}
	return node
}

// parseBlock parses `{ stmt... }`, used by function bodies, if/elif/else
// arms, and while bodies alike.
func (p *Parser) parseBlock() *ast.Node {
	lb := p.expect(token.LBRACE)
	block := ast.New(ast.Block, "", p.posOf(lb))
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.AddChild(stmt)
		}
	}
	p.expect(token.RBRACE)
	return block
}
