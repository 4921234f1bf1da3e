// Package lexer turns stylesheet source into a lazy, peekable stream of tokens.
//
// Lexing is mode sensitive. In Selector mode whitespace is a token, since it is the
// descendant combinator; in Tokens and Values modes whitespace and comments are skipped.
// A '#' starts an id (Hash) outside of Values mode and a hex color inside it.
package lexer

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"

	"style-engine/internal/diag"
	"style-engine/internal/value"
)

// Mode selects how the next token is lexed.
type Mode int

const (
	Tokens Mode = iota
	Selector
	Values
)

func (m Mode) String() string {
	switch m {
	case Selector:
		return "selector"
	case Values:
		return "values"
	}
	return "tokens"
}

// Lexer produces tokens on demand from a source string.
type Lexer struct {
	src  string
	errs *diag.Errors

	pos  int
	line int
	col  int

	modes  []Mode
	peeked *Token
	quiet  int
}

// New returns a lexer over src reporting lexical errors to errs.
func New(src string, errs *diag.Errors) *Lexer {
	if errs == nil {
		errs = diag.NewErrors("", src, nil)
	}
	return &Lexer{src: src, errs: errs, line: 1, col: 1, modes: []Mode{Tokens}}
}

// Source returns the text being lexed.
func (l *Lexer) Source() string { return l.src }

// Mode returns the active lexing mode.
func (l *Lexer) Mode() Mode { return l.modes[len(l.modes)-1] }

// PushMode switches to m until the matching PopMode. A token already peeked in the old
// mode is dropped and lexed again.
func (l *Lexer) PushMode(m Mode) {
	l.unpeek()
	l.modes = append(l.modes, m)
}

// PopMode restores the previous mode. The base mode is never popped.
func (l *Lexer) PopMode() {
	l.unpeek()
	if len(l.modes) > 1 {
		l.modes = l.modes[:len(l.modes)-1]
	}
}

func (l *Lexer) unpeek() {
	if l.peeked == nil {
		return
	}
	l.pos, l.line, l.col = l.peeked.Start.Cursor, l.peeked.Start.Line, l.peeked.Start.Column
	l.peeked = nil
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

// Next consumes and returns the next token.
func (l *Lexer) Next() Token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

// HasNext reports whether a token other than EOF remains.
func (l *Lexer) HasNext() bool {
	return l.Peek().Type != EOF
}

// Location returns the position of the next unread byte.
func (l *Lexer) Location() diag.Location {
	if l.peeked != nil {
		return l.peeked.Start
	}
	return diag.Location{Line: l.line, Column: l.col, Cursor: l.pos}
}

// Mark is a saved lexer state.
type Mark struct {
	pos, line, col int
	peeked         *Token
	modes          []Mode
}

// Mark saves the lexer state for a later Reset.
func (l *Lexer) Mark() Mark {
	m := Mark{pos: l.pos, line: l.line, col: l.col, modes: append([]Mode(nil), l.modes...)}
	if l.peeked != nil {
		t := *l.peeked
		m.peeked = &t
	}
	return m
}

// Reset restores a state saved by Mark.
func (l *Lexer) Reset(m Mark) {
	l.pos, l.line, l.col = m.pos, m.line, m.col
	l.modes = append(l.modes[:0], m.modes...)
	l.peeked = nil
	if m.peeked != nil {
		t := *m.peeked
		l.peeked = &t
	}
}

// Lookahead runs fn against the token stream and then restores the state from before
// the call, whatever fn consumed. Lexical errors are not reported while fn runs; they
// are reported when the same input is lexed for real.
func (l *Lexer) Lookahead(fn func() bool) bool {
	m := l.Mark()
	l.quiet++
	defer func() {
		l.quiet--
		l.Reset(m)
	}()
	return fn()
}

func (l *Lexer) errorf(at diag.Location, format string, args ...any) {
	if l.quiet > 0 {
		return
	}
	l.errs.Error(at, format, args...)
}

////////////////////////////////////////////////////////////////

func (l *Lexer) loc() diag.Location {
	return diag.Location{Line: l.line, Column: l.col, Cursor: l.pos}
}

func (l *Lexer) at(i int) byte {
	if l.pos+i < len(l.src) {
		return l.src[l.pos+i]
	}
	return 0
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) advance(n int) {
	for ; n > 0 && l.pos < len(l.src); n-- {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) token(tt Type, start diag.Location, v any) Token {
	return Token{Type: tt, Start: start, End: l.loc(), Text: l.src[start.Cursor:l.pos], Value: v}
}

func (l *Lexer) single(tt Type, start diag.Location, n int) Token {
	l.advance(n)
	return l.token(tt, start, nil)
}

// skipBlank consumes whitespace and comments and reports whether anything was skipped.
func (l *Lexer) skipBlank() bool {
	skipped := false
	for !l.eof() {
		c := l.at(0)
		switch {
		case isSpace(c):
			l.advance(1)
		case c == '/' && l.at(1) == '/':
			for !l.eof() && l.at(0) != '\n' {
				l.advance(1)
			}
		case c == '/' && l.at(1) == '*':
			start := l.loc()
			l.advance(2)
			end := strings.Index(l.src[l.pos:], "*/")
			if end < 0 {
				l.errorf(start, "unterminated comment")
				l.advance(len(l.src) - l.pos)
			} else {
				l.advance(end + 2)
			}
		default:
			return skipped
		}
		skipped = true
	}
	return skipped
}

func (l *Lexer) scan() Token {
	start := l.loc()
	if l.skipBlank() && l.Mode() == Selector {
		return l.token(Whitespace, start, nil)
	}
	start = l.loc()
	if l.eof() {
		return Token{Type: EOF, Start: start, End: start}
	}

	c := l.at(0)
	switch {
	case c == '"' || c == '\'':
		return l.scanString(start, c)
	case c == '#':
		return l.scanHash(start)
	case isDigit(c) || c == '.' && isDigit(l.at(1)):
		return l.scanNumber(start)
	case isNameStart(c) || c == '\\' && l.at(1) != '\n' && l.at(1) != 0:
		return l.scanIdent(start, Ident, 0)
	case c == '-' && (isNameStart(l.at(1)) || l.at(1) == '-' || l.at(1) == '\\'):
		return l.scanIdent(start, Ident, 0)
	}

	switch c {
	case '$':
		if l.at(1) == '=' {
			return l.single(SuffixMatch, start, 2)
		}
		if isNameStart(l.at(1)) || l.at(1) == '-' {
			return l.scanIdent(start, Variable, 1)
		}
	case '@':
		if isNameStart(l.at(1)) || l.at(1) == '-' {
			return l.scanIdent(start, AtKeyword, 1)
		}
	case '!':
		return l.scanBang(start)
	case '.':
		if l.at(1) == '.' && l.at(2) == '.' {
			return l.single(Ellipsis, start, 3)
		}
		return l.single(Dot, start, 1)
	case ':':
		if l.at(1) == ':' {
			return l.single(DoubleColon, start, 2)
		}
		return l.single(Colon, start, 1)
	case '|':
		if l.at(1) == '=' {
			return l.single(DashMatch, start, 2)
		}
		return l.single(Pipe, start, 1)
	case '~':
		if l.at(1) == '=' {
			return l.single(IncludeMatch, start, 2)
		}
		return l.single(Tilde, start, 1)
	case '^':
		if l.at(1) == '=' {
			return l.single(PrefixMatch, start, 2)
		}
	case '*':
		if l.at(1) == '=' {
			return l.single(SubstringMatch, start, 2)
		}
		return l.single(Star, start, 1)
	case '=':
		if l.at(1) == '=' {
			return l.single(Equal, start, 2)
		}
		return l.single(Assign, start, 1)
	case '<':
		if l.at(1) == '=' {
			return l.single(LessEqual, start, 2)
		}
		return l.single(Less, start, 1)
	case '>':
		if l.at(1) == '=' {
			return l.single(GreaterEqual, start, 2)
		}
		return l.single(Greater, start, 1)
	case '{':
		return l.single(LeftBrace, start, 1)
	case '}':
		return l.single(RightBrace, start, 1)
	case '(':
		return l.single(LeftParen, start, 1)
	case ')':
		return l.single(RightParen, start, 1)
	case '[':
		return l.single(LeftBracket, start, 1)
	case ']':
		return l.single(RightBracket, start, 1)
	case ';':
		return l.single(Semicolon, start, 1)
	case ',':
		return l.single(Comma, start, 1)
	case '&':
		return l.single(Ampersand, start, 1)
	case '+':
		return l.single(Plus, start, 1)
	case '-':
		return l.single(Minus, start, 1)
	case '/':
		return l.single(Slash, start, 1)
	case '%':
		return l.single(Percent, start, 1)
	}

	l.errorf(start, "unexpected character %q", c)
	return l.single(Unknown, start, 1)
}

var flags = []struct {
	word string
	tt   Type
}{
	{"important", Important},
	{"default", Default},
	{"global", Global},
}

func (l *Lexer) scanBang(start diag.Location) Token {
	if l.at(1) == '=' {
		return l.single(NotEqual, start, 2)
	}
	// "! important" is accepted like CSS does.
	i := 1
	for isSpace(l.at(i)) {
		i++
	}
	rest := l.src[min(l.pos+i, len(l.src)):]
	for _, f := range flags {
		if len(rest) >= len(f.word) && strings.EqualFold(rest[:len(f.word)], f.word) && !isNameChar(byteAt(rest, len(f.word))) {
			return l.single(f.tt, start, i+len(f.word))
		}
	}
	return l.single(Bang, start, 1)
}

func (l *Lexer) scanString(start diag.Location, quote byte) Token {
	l.advance(1)
	var b strings.Builder
	for {
		if l.eof() || l.at(0) == '\n' {
			l.errorf(start, "unterminated string")
			return l.token(Unknown, start, b.String())
		}
		c := l.at(0)
		if c == quote {
			l.advance(1)
			return l.token(String, start, b.String())
		}
		if c == '\\' {
			l.advance(1)
			if l.at(0) == '\n' {
				l.advance(1)
				continue
			}
			l.scanEscape(&b)
			continue
		}
		b.WriteByte(c)
		l.advance(1)
	}
}

// scanEscape decodes the escape after a consumed backslash: up to six hex digits and one
// optional trailing space, or any other single character taken literally.
func (l *Lexer) scanEscape(b *strings.Builder) {
	if l.eof() {
		return
	}
	n := 0
	for n < 6 && isHex(l.at(n)) {
		n++
	}
	if n == 0 {
		b.WriteByte(l.at(0))
		l.advance(1)
		return
	}
	cp, _ := strconv.ParseUint(l.src[l.pos:l.pos+n], 16, 32)
	b.WriteRune(rune(cp))
	l.advance(n)
	if isSpace(l.at(0)) {
		l.advance(1)
	}
}

// scanName consumes identifier characters and escapes and returns the decoded name.
func (l *Lexer) scanName() string {
	var b strings.Builder
	for !l.eof() {
		c := l.at(0)
		if c == '\\' && l.at(1) != '\n' && l.pos+1 < len(l.src) {
			l.advance(1)
			l.scanEscape(&b)
			continue
		}
		if !isNameChar(c) {
			break
		}
		b.WriteByte(c)
		l.advance(1)
	}
	return b.String()
}

func (l *Lexer) scanIdent(start diag.Location, tt Type, prefix int) Token {
	l.advance(prefix)
	name := l.scanName()
	return l.token(tt, start, name)
}

func (l *Lexer) scanHash(start diag.Location) Token {
	l.advance(1)
	name := l.scanName()
	if l.Mode() != Values {
		if name == "" {
			l.errorf(start, "expected a name after '#'")
			return l.token(Unknown, start, nil)
		}
		return l.token(Hash, start, name)
	}
	c, ok := value.ParseHex(name)
	if !ok {
		l.errorf(start, "malformed hex color %q", "#"+name)
		return l.token(Unknown, start, nil)
	}
	return l.token(HexColor, start, c)
}

func (l *Lexer) scanNumber(start diag.Location) Token {
	end := l.pos
	for end < len(l.src) && (isDigit(l.src[end]) || strings.IndexByte(".eE+-", l.src[end]) >= 0) {
		end++
	}
	n := parse.Number([]byte(l.src[l.pos:end]))
	f, _ := strconv.ParseFloat(l.src[l.pos:l.pos+n], 64)
	l.advance(n)

	p := value.Primitive{Value: f}
	switch c := l.at(0); {
	case c == '%':
		l.advance(1)
		p.Unit = value.Percent
	case isLetter(c):
		from := l.pos
		for isLetter(l.at(0)) {
			l.advance(1)
		}
		suffix := l.src[from:l.pos]
		if u, ok := value.ParseUnit(suffix); ok {
			p.Unit = u
		} else if l.Mode() != Selector {
			// In selectors the suffix belongs to an An+B expression (2n+1).
			l.errorf(start, "unknown unit %q", suffix)
		}
	}
	return l.token(Number, start, p)
}

////////////////////////////////////////////////////////////////

func byteAt(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isNameStart(c byte) bool { return isLetter(c) || c == '_' || c >= 0x80 }

func isNameChar(c byte) bool { return isNameStart(c) || isDigit(c) || c == '-' }
