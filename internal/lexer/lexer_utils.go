/*
File    : sync/internal/lexer/lexer_utils.go
Package : lexer
*/

package lexer

import "github.com/synlang/sync/internal/token"

// Character classification helpers, split out the way go-mix's
// lexer_utils.go separates predicate helpers from the scanning loop.

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isPunct(c byte) bool {
	switch c {
	case '(', ')', '{', '}', '[', ']', ',', ';', ':', '`':
		return true
	default:
		return false
	}
}

func punctKind(c byte) token.Kind {
	switch c {
	case '(':
		return token.LPAREN
	case ')':
		return token.RPAREN
	case '{':
		return token.LBRACE
	case '}':
		return token.RBRACE
	case '[':
		return token.LBRACKET
	case ']':
		return token.RBRACKET
	case ',':
		return token.COMMA
	case ';':
		return token.SEMI
	case ':':
		return token.COLON
	case '`':
		return token.BACKTICK
	}
	return token.INVALID
}

// splitShiftInAngles implements the lexer-parser contract from spec.md
// §4.1's final post-pass: a `>>` token is split into two `>` tokens
// unless the lexer has already passed a `=` since the last `;`, `{`, or
// `}`. That window is how real right-shift expressions survive intact
// (`x = y >> 1;` lexes `>>` after the `=`) while a `>>` appearing in a
// type annotation — which always precedes any `=` in the same
// declaration or reassignment — still gets split into two `>` so
// `ptr<ptr<i32>>` closes with two single angle brackets.
//
// Grounded on original_source/src/lexer.c's lexer_lexall, which tracks
// the identical `encountered_equal` flag token-by-token in its single
// lex pass and resets it on the same three punctuation marks; this port
// keys off token.ASSIGN exactly as the original does and makes the same
// decision in a post-pass over the finished token stream instead, which
// spec.md §4.1 allows either way.
func splitShiftInAngles(toks []token.Token) []token.Token {
	encounteredEqual := false
	out := make([]token.Token, 0, len(toks)+4)
	for _, t := range toks {
		switch t.Kind {
		case token.ASSIGN:
			encounteredEqual = true
		case token.SEMI, token.LBRACE, token.RBRACE:
			encounteredEqual = false
		}
		if t.Kind == token.SHR && !encounteredEqual {
			out = append(out,
				token.Token{Kind: token.GT, Literal: ">", Line: t.Line, Column: t.Column, File: t.File},
				token.Token{Kind: token.GT, Literal: ">", Line: t.Line, Column: t.Column + 1, File: t.File},
			)
			continue
		}
		out = append(out, t)
	}
	return out
}
