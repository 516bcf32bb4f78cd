/*
File    : sync/internal/parser/parser_controls.go
Package : parser
*/

// parser_controls.go parses if/elif/else and while statements (spec.md
// §4.2 "Conditional" and "Loop").
package parser

import (
	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/token"
)

// parseIf parses `if expr { ... } [elif expr { ... }]* [else { ... }]`
// (spec.md §6's grammar summary has no parentheses around the
// condition; parseExpression stops at the opening `{` on its own),
// building an If node whose children are [cond, thenBlock, Elif...,
// Else?] (spec.md §4.2 "Conditional").
func (p *Parser) parseIf() *ast.Node {
	ifTok := p.advance()
	pos := p.posOf(ifTok)
	cond := p.parseExpression()
	thenBlock := p.parseBlock()

	node := ast.New(ast.If, "", pos)
	node.AddChild(cond)
	node.AddChild(thenBlock)

	for p.at(token.ELIF) {
		elifTok := p.advance()
		econd := p.parseExpression()
		eblock := p.parseBlock()
		elifNode := ast.New(ast.Elif, "", p.posOf(elifTok))
		elifNode.AddChild(econd)
		elifNode.AddChild(eblock)
		node.AddChild(elifNode)
	}

	if p.at(token.ELSE) {
		elseTok := p.advance()
		eblock := p.parseBlock()
		elseNode := ast.New(ast.Else, "", p.posOf(elseTok))
		elseNode.AddChild(eblock)
		node.AddChild(elseNode)
	}

	return node
}

// parseWhile parses `while expr { ... }` into a While node whose
// children are [cond, block] (spec.md §4.2 "Loop").
func (p *Parser) parseWhile() *ast.Node {
	wTok := p.advance()
	pos := p.posOf(wTok)
	cond := p.parseExpression()
	block := p.parseBlock()

	node := ast.New(ast.While, "", pos)
	node.AddChild(cond)
	node.AddChild(block)
	return node
}

// parseReturn parses `ret [expr];` into a Ret node with zero or one
// child (spec.md §4.2 "Return").
func (p *Parser) parseReturn() *ast.Node {
	rTok := p.advance()
	node := ast.New(ast.Ret, "", p.posOf(rTok))
	if !p.at(token.SEMI) {
		node.AddChild(p.parseExpression())
	}
	return node
}
