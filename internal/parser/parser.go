/*
File    : sync/internal/parser/parser.go
Package : parser
*/

// Package parser implements Syn's recursive-descent parser (spec.md
// §4.2): a cursor over the token stream with small fixed lookahead,
// producing a Program-rooted ast.Node tree and registering symbols into
// a registry.Registry as declarations are parsed.
//
// File split mirrors go-mix's parser package convention (parser.go for
// the cursor and statement-dispatch core, with parser_expressions.go,
// parser_declarations.go, parser_functions.go, parser_structs.go,
// parser_controls.go each owning one grammar concern,
// the way go-mix splits parser_conditionals.go/parser_loops.go/etc. from
// parser.go).
package parser

import (
	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/diag"
	"github.com/synlang/sync/internal/lexer"
	"github.com/synlang/sync/internal/registry"
	"github.com/synlang/sync/internal/token"
)

// Parser holds the token cursor and the registry symbols are declared
// into as parsing proceeds.
type Parser struct {
	toks []token.Token
	pos  int
	file string
	Reg  *registry.Registry
}

// New creates a Parser over an already-lexed token stream.
func New(toks []token.Token, file string, reg *registry.Registry) *Parser {
	return &Parser{toks: toks, file: file, Reg: reg}
}

// Parse lexes src and parses it into a Program node, using a fresh
// registry. This is the package's main entry point.
func Parse(src, file string) (*ast.Node, *registry.Registry) {
	toks, err := lexer.Tokenize(src, file)
	if err != nil {
		diag.FatalfAt(file, "%v", err)
	}
	reg := registry.New()
	p := New(toks, file, reg)
	return p.parseProgram(), reg
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

// expect consumes the current token if it has kind, else raises a fatal
// parse error naming the expected class (spec.md §4.2 "Failures").
func (p *Parser) expect(kind token.Kind) token.Token {
	if !p.at(kind) {
		diag.Fatalf(p.cur(), "expected %s, found %s %q", kind, p.cur().Kind, p.cur().Literal)
	}
	return p.advance()
}

func (p *Parser) pos_() ast.Position {
	t := p.cur()
	return ast.Position{File: t.File, Line: t.Line, Column: t.Column}
}

// consumeOptionalSemi implements spec.md §4.2's "A trailing `;` is
// consumed if present after any statement."
func (p *Parser) consumeOptionalSemi() {
	if p.at(token.SEMI) {
		p.advance()
	}
}

// parseProgram parses the whole token stream into a Program node whose
// children are top-level statements (spec.md §4.2).
func (p *Parser) parseProgram() *ast.Node {
	root := ast.New(ast.Program, "", p.pos_())
	for !p.at(token.EOF) {
		stmt := p.parseTopLevelStatement()
		if stmt != nil {
			root.AddChild(stmt)
		}
	}
	return root
}

// parseTopLevelStatement dispatches on the first token of a top-level
// statement (spec.md §4.2 "Statement dispatch"), preserving doc-comments
// and comments as tree nodes (discarded instead inside blocks, see
// parseBlockStatements).
func (p *Parser) parseTopLevelStatement() *ast.Node {
	switch p.cur().Kind {
	case token.DOC_COMMENT:
		t := p.advance()
		return ast.New(ast.DocComment, t.Literal, p.posOf(t))
	case token.COMMENT:
		t := p.advance()
		return ast.New(ast.Comment, t.Literal, p.posOf(t))
	default:
		return p.parseStatement()
	}
}

func (p *Parser) posOf(t token.Token) ast.Position {
	return ast.Position{File: t.File, Line: t.Line, Column: t.Column}
}

// parseStatement dispatches on the first token of a statement appearing
// inside a function body (spec.md §4.2). Comments are discarded here,
// per spec.md §4.2 "comments are discarded inside blocks."
func (p *Parser) parseStatement() *ast.Node {
	skippedComment := false
	for p.at(token.COMMENT) || p.at(token.DOC_COMMENT) {
		p.advance()
		skippedComment = true
	}
	if skippedComment && p.at(token.RBRACE) {
		return nil // trailing comment before a block's closing brace
	}

	var stmt *ast.Node
	switch p.cur().Kind {
	case token.FNC:
		stmt = p.parseFuncDecl()
	case token.IF:
		stmt = p.parseIf()
	case token.WHILE:
		stmt = p.parseWhile()
	case token.RET:
		stmt = p.parseReturn()
	case token.BRK:
		t := p.advance()
		stmt = ast.New(ast.Brk, "", p.posOf(t))
	case token.CONT:
		t := p.advance()
		stmt = ast.New(ast.Cnt, "", p.posOf(t))
	case token.STRUCT:
		stmt = p.parseStructDecl()
	case token.SEMI:
		t := p.advance()
		return ast.New(ast.NoOp, "", p.posOf(t))
	case token.IDENT:
		stmt = p.parseIdentifierStatement()
	case token.STAR:
		stmt = p.parseDerefAssignment()
	default:
		diag.Fatalf(p.cur(), "unexpected token %s %q in statement context", p.cur().Kind, p.cur().Literal)
		return nil
	}
	p.consumeOptionalSemi()
	return stmt
}

// parseIdentifierStatement handles every statement form that begins with
// a bare identifier (spec.md §4.2): calls, declarations, array-element
// assignment, scalar/array/struct-member assignment.
func (p *Parser) parseIdentifierStatement() *ast.Node {
	switch p.peekAt(1).Kind {
	case token.LPAREN:
		expr := p.parseCallExpression()
		return expr
	case token.COLON:
		return p.parseDeclaration()
	case token.LBRACKET:
		return p.parseArrayElementAssignment()
	case token.DOT:
		return p.parseStructMemberAssignment()
	case token.ASSIGN:
		return p.parseScalarOrArrayAssignment()
	default:
		diag.Fatalf(p.cur(), "unexpected token %s after identifier %q", p.peekAt(1).Kind, p.cur().Literal)
		return nil
	}
}
