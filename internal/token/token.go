/*
File    : sync/internal/token/token.go
Package : token
*/

// Package token defines the lexical token vocabulary of the Syn language:
// the Kind enumeration and the Token value produced by internal/lexer.
package token

import "fmt"

// Kind identifies the lexical category of a Token. It is defined as a
// string so that token kinds double as their own debug representation,
// the same convention go-mix's lexer package uses for TokenType.
type Kind string

const (
	// Special kinds.
	EOF     Kind = "EOF"
	INVALID Kind = "INVALID"

	// Identifiers and literals.
	IDENT    Kind = "IDENT"
	INT      Kind = "INT"
	FLOAT    Kind = "FLOAT"
	STRING   Kind = "STRING"
	TRUE     Kind = "true"
	FALSE    Kind = "false"
	NULL     Kind = "null"

	// Type annotations. BUILTIN_TYPE covers the eleven preregistered
	// builtin type names (spec.md §3); USER_TYPE covers identifiers that have been
	// registered as struct/enum/union names earlier in the same file.
	BUILTIN_TYPE Kind = "BUILTIN_TYPE"
	USER_TYPE    Kind = "USER_TYPE"

	// Keywords.
	FNC    Kind = "fnc"
	IF     Kind = "if"
	ELIF   Kind = "elif"
	ELSE   Kind = "else"
	WHILE  Kind = "while"
	RET    Kind = "ret"
	BRK    Kind = "brk"
	CONT   Kind = "cont"
	STRUCT Kind = "struct"
	ENUM   Kind = "enum"
	UNION  Kind = "union"
	// FOR and IN are reserved but never consumed by the parser; see
	// spec.md §9 Open Question (b) and DESIGN.md.
	FOR Kind = "for"
	IN  Kind = "in"

	// Punctuation.
	LPAREN   Kind = "("
	RPAREN   Kind = ")"
	LBRACE   Kind = "{"
	RBRACE   Kind = "}"
	LBRACKET Kind = "["
	RBRACKET Kind = "]"
	COMMA    Kind = ","
	SEMI     Kind = ";"
	COLON    Kind = ":"
	BACKTICK Kind = "`"

	// Comments.
	COMMENT     Kind = "COMMENT"
	DOC_COMMENT Kind = "DOC_COMMENT"

	// Operators, longest-match-first order mirrored in lexer.operators.
	ELLIPSIS    Kind = "..."
	PLUS_ASSIGN Kind = "+="
	MINUS_ASSIGN Kind = "-="
	MUL_ASSIGN  Kind = "*="
	DIV_ASSIGN  Kind = "/="
	MOD_ASSIGN  Kind = "%="
	EQ          Kind = "=="
	NE          Kind = "!="
	LE          Kind = "<="
	GE          Kind = ">="
	AND         Kind = "&&"
	OR          Kind = "||"
	SHL         Kind = "<<"
	SHR         Kind = ">>"
	INC         Kind = "++"
	DEC         Kind = "--"
	DOT         Kind = "."
	PLUS        Kind = "+"
	MINUS       Kind = "-"
	STAR        Kind = "*"
	SLASH       Kind = "/"
	PERCENT     Kind = "%"
	ASSIGN      Kind = "="
	LT          Kind = "<"
	GT          Kind = ">"
	NOT         Kind = "!"
	BIT_AND     Kind = "&"
	BIT_OR      Kind = "|"
	BIT_XOR     Kind = "^"
	BIT_NOT     Kind = "~"
)

// Keywords maps the reserved-word spelling to its Kind. Built during
// package init so the lexer's identifier classification (spec.md §4.1
// step 2c) can do a single map lookup.
var Keywords = map[string]Kind{
	"fnc":    FNC,
	"if":     IF,
	"elif":   ELIF,
	"else":   ELSE,
	"while":  WHILE,
	"ret":    RET,
	"brk":    BRK,
	"cont":   CONT,
	"struct": STRUCT,
	"enum":   ENUM,
	"union":  UNION,
	"for":    FOR,
	"in":     IN,
	"true":   TRUE,
	"false":  FALSE,
	"null":   NULL,
}

// BuiltinTypes is the eleven preregistered builtin type names from
// spec.md §3: ten data types plus "ptr", the pointer type constructor, and always appears
// spelled `ptr<T>` in source.
var BuiltinTypes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"f32": true, "f64": true,
	"str": true, "chr": true, "bln": true,
	"void": true, "ptr": true,
}

// Token is a single lexical unit: its Kind, the literal source text it
// covers, and the (line, column, filename) of its first byte. The
// literal string is owned by the Token, matching spec.md §3's "string
// payload is owned by the token."
type Token struct {
	Kind    Kind
	Literal string
	Line    int
	Column  int
	File    string
}

// String renders a Token for diagnostics and test failure messages.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s:%d:%d", t.Kind, t.Literal, t.File, t.Line, t.Column)
}

// Pos formats the token's source location as "file:line:column", the
// format every fatal diagnostic in this compiler uses (spec.md §7).
func (t Token) Pos() string {
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}

// IsOperator reports whether k is one of the binary/unary operator kinds
// recognised by the expression parser's precedence tables.
func IsOperator(k Kind) bool {
	switch k {
	case ELLIPSIS, PLUS_ASSIGN, MINUS_ASSIGN, MUL_ASSIGN, DIV_ASSIGN, MOD_ASSIGN,
		EQ, NE, LE, GE, AND, OR, SHL, SHR, INC, DEC,
		PLUS, MINUS, STAR, SLASH, PERCENT, ASSIGN, LT, GT, NOT,
		BIT_AND, BIT_OR, BIT_XOR, BIT_NOT:
		return true
	default:
		return false
	}
}

// IsUnaryOnly reports whether k can only appear as a unary operator.
// Per spec.md §4.2, `~ ! - + & * -- ++` are unary; of these, `- + & *`
// are also meaningful in binary position so they are not included here.
func IsUnaryOnly(k Kind) bool {
	switch k {
	case BIT_NOT, NOT, INC, DEC:
		return true
	default:
		return false
	}
}
