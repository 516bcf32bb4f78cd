/*
File    : sync/internal/parser/parser_structs.go
Package : parser
*/

// parser_structs.go parses struct declarations (spec.md §4.2 "Struct
// declaration"), registering the struct both as a registry.Struct and,
// per spec.md §3, as a registry.DataType so later declarations can use
// it as a type name.
package parser

import (
	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/registry"
	"github.com/synlang/sync/internal/token"
)

// parseStructDecl parses `struct Name { field : type; ... }`. The name
// token immediately following `struct` was already classified USER_TYPE
// by the lexer's type-declaration slot (spec.md §4.1 step 2a), not
// IDENT, since the lexer registers it as a type the moment it scans it.
func (p *Parser) parseStructDecl() *ast.Node {
	sTok := p.advance()
	nameTok := p.expect(token.USER_TYPE)
	pos := p.posOf(sTok)

	p.expect(token.LBRACE)
	node := ast.New(ast.StructDecl, nameTok.Literal, pos)
	var members []registry.StructMember
	for !p.at(token.RBRACE) {
		mTok := p.expect(token.IDENT)
		p.expect(token.COLON)
		ts := p.parseTypeAnnotation()
		p.consumeOptionalSemi()
		members = append(members, registry.StructMember{Name: mTok.Literal, Type: ts.String()})
		node.AddChild(ast.New(ast.VarDecl, mTok.Literal+":"+ts.String(), p.posOf(mTok)))
	}
	p.expect(token.RBRACE)

	p.Reg.InsertStruct(&registry.Struct{Name: nameTok.Literal, Members: members})
	return node
}
