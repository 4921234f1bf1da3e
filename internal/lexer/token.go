package lexer

import (
	"strconv"

	"style-engine/internal/diag"
)

// Type determines the kind of a token.
type Type uint32

// Type values.
const (
	EOF Type = iota

	Unknown        // unlexable input; a diagnostic was reported
	Whitespace     // only emitted in Selector mode
	Ident          // foo, -foo, fo\:o
	Variable       // $foo
	AtKeyword      // @foo
	Number         // 1, 1.5px, 50%
	String         // "foo" 'foo'
	HexColor       // #fff in Values mode
	Hash           // #foo in Tokens and Selector modes
	Important      // !important
	Default        // !default
	Global         // !global
	LeftBrace      // {
	RightBrace     // }
	LeftParen      // (
	RightParen     // )
	LeftBracket    // [
	RightBracket   // ]
	Colon          // :
	DoubleColon    // ::
	Semicolon      // ;
	Comma          // ,
	Dot            // .
	Ellipsis       // ...
	Ampersand      // &
	Plus           // +
	Minus          // -
	Star           // *
	Slash          // /
	Percent        // % (modulo, not a unit)
	Greater        // >
	GreaterEqual   // >=
	Less           // <
	LessEqual      // <=
	Equal          // ==
	NotEqual       // !=
	Assign         // =
	Bang           // !
	Tilde          // ~
	Pipe           // |
	DashMatch      // |=
	IncludeMatch   // ~=
	PrefixMatch    // ^=
	SuffixMatch    // $=
	SubstringMatch // *=
)

var typeNames = map[Type]string{
	EOF:            "EOF",
	Unknown:        "Unknown",
	Whitespace:     "Whitespace",
	Ident:          "Ident",
	Variable:       "Variable",
	AtKeyword:      "AtKeyword",
	Number:         "Number",
	String:         "String",
	HexColor:       "HexColor",
	Hash:           "Hash",
	Important:      "!important",
	Default:        "!default",
	Global:         "!global",
	LeftBrace:      "{",
	RightBrace:     "}",
	LeftParen:      "(",
	RightParen:     ")",
	LeftBracket:    "[",
	RightBracket:   "]",
	Colon:          ":",
	DoubleColon:    "::",
	Semicolon:      ";",
	Comma:          ",",
	Dot:            ".",
	Ellipsis:       "...",
	Ampersand:      "&",
	Plus:           "+",
	Minus:          "-",
	Star:           "*",
	Slash:          "/",
	Percent:        "%",
	Greater:        ">",
	GreaterEqual:   ">=",
	Less:           "<",
	LessEqual:      "<=",
	Equal:          "==",
	NotEqual:       "!=",
	Assign:         "=",
	Bang:           "!",
	Tilde:          "~",
	Pipe:           "|",
	DashMatch:      "|=",
	IncludeMatch:   "~=",
	PrefixMatch:    "^=",
	SuffixMatch:    "$=",
	SubstringMatch: "*=",
}

// String returns the string representation of a Type.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// Token is a lexed token. Text is the raw source slice; Value holds the decoded literal:
// value.Primitive for Number, value.Color for HexColor, the unescaped text for String,
// Ident, Variable, AtKeyword and Hash.
type Token struct {
	Type  Type
	Start diag.Location
	End   diag.Location
	Text  string
	Value any
}

// Name returns the decoded name of an identifier-like token.
func (t Token) Name() string {
	if s, ok := t.Value.(string); ok {
		return s
	}
	return t.Text
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case Whitespace:
		return "whitespace"
	}
	return strconv.Quote(t.Text)
}
