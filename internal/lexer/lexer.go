/*
File    : sync/internal/lexer/lexer.go
Package : lexer
*/

// Package lexer implements the single-pass scanner described in
// spec.md §4.1. It turns a source buffer into the full ordered token
// sequence, maintaining the running registry of user-defined type names
// so later identifiers referencing them lex as type annotations instead
// of plain identifiers.
//
// Structurally this mirrors go-mix's lexer package: a small struct
// tracking the current byte/position/line/column, with NextToken driving
// a single dispatch loop, and helper predicates split into lexer_utils.go.
package lexer

import (
	"fmt"

	"github.com/synlang/sync/internal/token"
)

// Lexer scans Src one byte at a time, tracking line/column for
// diagnostics. Tab characters count as four columns (spec.md §4.1 step 1).
type Lexer struct {
	Src       string
	File      string
	Current   byte
	Position  int
	SrcLength int
	Line      int
	Column    int

	// userTypes is the running set of identifiers registered as types by
	// a struct/enum/union declaration seen earlier in this file. Once an
	// identifier is in this set, later occurrences lex as USER_TYPE
	// rather than IDENT (spec.md §4.1 step 2b).
	userTypes map[string]bool

	// afterTypeKeyword is set for exactly the token immediately following
	// a struct/enum/union keyword: that identifier is a type declaration
	// and gets registered into userTypes (spec.md §4.1 step 2a).
	afterTypeKeyword bool
}

// New creates a Lexer ready to scan src, attributing diagnostics to file.
func New(src, file string) *Lexer {
	lx := &Lexer{
		Src:       src,
		File:      file,
		SrcLength: len(src),
		Line:      1,
		Column:    1,
		userTypes: make(map[string]bool),
	}
	if lx.SrcLength > 0 {
		lx.Current = src[0]
	}
	return lx
}

// Tokenize runs the lexer to completion and returns every token,
// terminated by a single EOF token, or an error for an ill-formed
// literal or stray character (spec.md §4.1 "Failure").
func Tokenize(src, file string) ([]token.Token, error) {
	lx := New(src, file)
	var toks []token.Token
	for {
		tok, err := lx.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return splitShiftInAngles(toks), nil
}

// advance consumes the current byte and moves the cursor forward,
// updating line/column bookkeeping.
func (lx *Lexer) advance() {
	if lx.Current == '\n' {
		lx.Line++
		lx.Column = 1
	} else if lx.Current == '\t' {
		lx.Column += 4
	} else {
		lx.Column++
	}
	lx.Position++
	if lx.Position < lx.SrcLength {
		lx.Current = lx.Src[lx.Position]
	} else {
		lx.Current = 0
	}
}

// peek returns the byte offset bytes ahead of Current without consuming
// anything, or 0 past the end of the buffer.
func (lx *Lexer) peek(offset int) byte {
	idx := lx.Position + offset
	if idx >= lx.SrcLength {
		return 0
	}
	return lx.Src[idx]
}

func (lx *Lexer) atEnd() bool {
	return lx.Position >= lx.SrcLength
}

func (lx *Lexer) makeToken(kind token.Kind, literal string, line, col int) token.Token {
	return token.Token{Kind: kind, Literal: literal, Line: line, Column: col, File: lx.File}
}

func (lx *Lexer) errf(line, col int, format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d:%d: %s", lx.File, line, col, fmt.Sprintf(format, args...))
}

// NextToken scans and returns the next token, skipping whitespace and
// classifying the following run of characters per the priority order in
// spec.md §4.1.
func (lx *Lexer) NextToken() (token.Token, error) {
	lx.skipWhitespace()

	line, col := lx.Line, lx.Column

	if lx.atEnd() {
		return lx.makeToken(token.EOF, "", line, col), nil
	}

	c := lx.Current

	switch {
	case isIdentStart(c):
		return lx.scanIdentifier(line, col)
	case isDigit(c):
		return lx.scanNumber(line, col)
	case c == '"':
		return lx.scanString(line, col)
	case c == '/' && lx.peek(1) == '/':
		return lx.scanLineComment(line, col)
	case c == '/' && lx.peek(1) == '*':
		return lx.scanBlockComment(line, col)
	}

	if isPunct(c) {
		lx.advance()
		return lx.makeToken(punctKind(c), string(c), line, col), nil
	}

	if tok, ok := lx.scanOperator(line, col); ok {
		return tok, nil
	}

	return token.Token{}, lx.errf(line, col, "stray character %q", c)
}

func (lx *Lexer) skipWhitespace() {
	for !lx.atEnd() {
		switch lx.Current {
		case ' ', '\t', '\n', '\r':
			lx.advance()
		default:
			return
		}
	}
}

// scanIdentifier consumes [A-Za-z_][A-Za-z0-9_-]* and classifies it per
// spec.md §4.1 step 2: (a) type-declaration slot, (b) known user type,
// (c) keyword, (d) builtin type, (e) plain identifier.
func (lx *Lexer) scanIdentifier(line, col int) (token.Token, error) {
	start := lx.Position
	for !lx.atEnd() && isIdentPart(lx.Current) {
		lx.advance()
	}
	text := lx.Src[start:lx.Position]

	wasTypeSlot := lx.afterTypeKeyword
	lx.afterTypeKeyword = false

	if wasTypeSlot {
		lx.userTypes[text] = true
		return lx.makeToken(token.USER_TYPE, text, line, col), nil
	}
	if lx.userTypes[text] {
		return lx.makeToken(token.USER_TYPE, text, line, col), nil
	}
	if kw, ok := token.Keywords[text]; ok {
		if kw == token.STRUCT || kw == token.ENUM || kw == token.UNION {
			lx.afterTypeKeyword = true
		}
		return lx.makeToken(kw, text, line, col), nil
	}
	if token.BuiltinTypes[text] {
		return lx.makeToken(token.BUILTIN_TYPE, text, line, col), nil
	}
	return lx.makeToken(token.IDENT, text, line, col), nil
}

// scanNumber consumes digits with an optional single '.', turning the
// kind to FLOAT when a decimal point is present (spec.md §4.1 step 3).
func (lx *Lexer) scanNumber(line, col int) (token.Token, error) {
	start := lx.Position
	kind := token.INT
	for !lx.atEnd() && isDigit(lx.Current) {
		lx.advance()
	}
	if !lx.atEnd() && lx.Current == '.' && isDigit(lx.peek(1)) {
		kind = token.FLOAT
		lx.advance()
		for !lx.atEnd() && isDigit(lx.Current) {
			lx.advance()
		}
	}
	return lx.makeToken(kind, lx.Src[start:lx.Position], line, col), nil
}

// scanString consumes a double-quoted literal. Escape sequences are
// recognised later during emission (spec.md §4.1 step 4), so the raw
// escaped text (including backslashes) is kept as the token literal.
func (lx *Lexer) scanString(line, col int) (token.Token, error) {
	lx.advance() // opening quote
	start := lx.Position
	for {
		if lx.atEnd() {
			return token.Token{}, lx.errf(line, col, "unterminated string literal")
		}
		if lx.Current == '\\' {
			lx.advance()
			if lx.atEnd() {
				return token.Token{}, lx.errf(line, col, "unterminated string literal")
			}
			lx.advance()
			continue
		}
		if lx.Current == '"' {
			break
		}
		if lx.Current == '\n' {
			return token.Token{}, lx.errf(line, col, "unterminated string literal")
		}
		lx.advance()
	}
	text := lx.Src[start:lx.Position]
	lx.advance() // closing quote
	return lx.makeToken(token.STRING, text, line, col), nil
}

func (lx *Lexer) scanLineComment(line, col int) (token.Token, error) {
	doc := lx.peek(2) == '/'
	skip := 2
	if doc {
		skip = 3
	}
	for i := 0; i < skip; i++ {
		lx.advance()
	}
	start := lx.Position
	for !lx.atEnd() && lx.Current != '\n' {
		lx.advance()
	}
	text := lx.Src[start:lx.Position]
	if doc {
		return lx.makeToken(token.DOC_COMMENT, text, line, col), nil
	}
	return lx.makeToken(token.COMMENT, text, line, col), nil
}

// scanBlockComment consumes a /* ... */ comment, normalising internal
// whitespace runs to a single space (spec.md §4.1 step 6).
func (lx *Lexer) scanBlockComment(line, col int) (token.Token, error) {
	lx.advance()
	lx.advance()
	var out []byte
	lastWasSpace := false
	for {
		if lx.atEnd() {
			return token.Token{}, lx.errf(line, col, "unterminated block comment")
		}
		if lx.Current == '*' && lx.peek(1) == '/' {
			lx.advance()
			lx.advance()
			break
		}
		if isSpaceByte(lx.Current) {
			if !lastWasSpace {
				out = append(out, ' ')
			}
			lastWasSpace = true
		} else {
			out = append(out, lx.Current)
			lastWasSpace = false
		}
		lx.advance()
	}
	text := string(out)
	for len(text) > 0 && text[0] == ' ' {
		text = text[1:]
	}
	for len(text) > 0 && text[len(text)-1] == ' ' {
		text = text[:len(text)-1]
	}
	return lx.makeToken(token.COMMENT, text, line, col), nil
}

// operators lists every multi-/single-character operator in
// longest-match-first order (spec.md §4.1 step 7).
var operators = []struct {
	text string
	kind token.Kind
}{
	{"...", token.ELLIPSIS},
	{"+=", token.PLUS_ASSIGN},
	{"-=", token.MINUS_ASSIGN},
	{"*=", token.MUL_ASSIGN},
	{"/=", token.DIV_ASSIGN},
	{"%=", token.MOD_ASSIGN},
	{"==", token.EQ},
	{"!=", token.NE},
	{"<=", token.LE},
	{">=", token.GE},
	{"&&", token.AND},
	{"||", token.OR},
	{"<<", token.SHL},
	{">>", token.SHR},
	{"++", token.INC},
	{"--", token.DEC},
	{".", token.DOT},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.STAR},
	{"/", token.SLASH},
	{"%", token.PERCENT},
	{"=", token.ASSIGN},
	{"<", token.LT},
	{">", token.GT},
	{"!", token.NOT},
	{"&", token.BIT_AND},
	{"|", token.BIT_OR},
	{"^", token.BIT_XOR},
	{"~", token.BIT_NOT},
}

func (lx *Lexer) scanOperator(line, col int) (token.Token, bool) {
	for _, op := range operators {
		if lx.matchesAt(op.text) {
			for range op.text {
				lx.advance()
			}
			return lx.makeToken(op.kind, op.text, line, col), true
		}
	}
	return token.Token{}, false
}

func (lx *Lexer) matchesAt(s string) bool {
	if lx.Position+len(s) > lx.SrcLength {
		return false
	}
	return lx.Src[lx.Position:lx.Position+len(s)] == s
}
