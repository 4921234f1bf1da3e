// Package parser builds the syntax tree of a stylesheet by recursive descent.
//
// The parser never stops on bad input. Every problem is reported to the diag.Errors sink
// it was created with, offending nodes are flagged Invalid or replaced by
// ast.ErroneousExpr, and parsing resumes at the next statement.
package parser

import (
	"golang.org/x/text/cases"

	"style-engine/internal/ast"
	"style-engine/internal/diag"
	"style-engine/internal/lexer"
)

// DefaultMaxDepth bounds block, expression and selector nesting.
const DefaultMaxDepth = 128

// Scope is a grammatical context that decides which constructs are legal.
type Scope int

const (
	ScopeTopLevel Scope = iota
	ScopeRule
	ScopeInline
	ScopeFunction
	ScopeLoop
	ScopeCallExpr
	ScopeSelector

	// scopeGroup is a parenthesized expression, where lists are allowed again.
	scopeGroup
)

func (s Scope) String() string {
	switch s {
	case ScopeRule:
		return "rule"
	case ScopeInline:
		return "style attribute"
	case ScopeFunction:
		return "function"
	case ScopeLoop:
		return "loop"
	case ScopeCallExpr:
		return "call"
	case ScopeSelector:
		return "selector"
	}
	return "top level"
}

// Parser holds the state of one parse.
type Parser struct {
	// MaxDepth bounds nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	l      *lexer.Lexer
	errs   *diag.Errors
	prev   lexer.Token
	scopes []Scope
	depth  int
	deep   bool
	fold   cases.Caser
}

// New returns a parser over src reporting to errs. A nil errs discards diagnostics.
func New(src string, errs *diag.Errors) *Parser {
	if errs == nil {
		errs = diag.NewErrors("", src, nil)
	}
	return &Parser{
		l:      lexer.New(src, errs),
		errs:   errs,
		scopes: []Scope{ScopeTopLevel},
		fold:   cases.Fold(),
	}
}

// Errors returns the diagnostic sink of the parser.
func (p *Parser) Errors() *diag.Errors { return p.errs }

// ParseStylesheet parses a named stylesheet source.
func ParseStylesheet(name, src string, l diag.Listener) (*ast.SheetStatement, *diag.Errors) {
	errs := diag.NewErrors(name, src, l)
	return New(src, errs).Stylesheet(), errs
}

// ParseInline parses the declarations of a style attribute.
func ParseInline(name, src string, l diag.Listener) (*ast.InlineStyleStatement, *diag.Errors) {
	errs := diag.NewErrors(name, src, l)
	return New(src, errs).InlineStyle(), errs
}

// ParseExpr parses a single value expression.
func ParseExpr(src string, l diag.Listener) (ast.Expression, *diag.Errors) {
	errs := diag.NewErrors("", src, l)
	return New(src, errs).Expr(), errs
}

// ParseSelector parses a selector list.
func ParseSelector(src string, l diag.Listener) (*ast.SelectorListStatement, *diag.Errors) {
	errs := diag.NewErrors("", src, l)
	return New(src, errs).Selector(), errs
}

// Stylesheet parses the whole input as a sequence of top-level statements.
func (p *Parser) Stylesheet() *ast.SheetStatement {
	start := p.l.Location()
	sheet := &ast.SheetStatement{}
	for p.l.HasNext() {
		if p.peek().Type == lexer.RightBrace {
			p.errorAt(p.next().Start, "unexpected '}'")
			continue
		}
		if s := p.statement(); s != nil {
			sheet.Statements = append(sheet.Statements, s)
		}
	}
	sheet.Span = p.span(start)
	return sheet
}

// InlineStyle parses the input as a declaration list without selectors.
func (p *Parser) InlineStyle() *ast.InlineStyleStatement {
	start := p.l.Location()
	p.push(ScopeInline)
	defer p.pop()
	inline := &ast.InlineStyleStatement{}
	for p.l.HasNext() {
		if p.peek().Type == lexer.RightBrace {
			p.errorAt(p.next().Start, "unexpected '}'")
			continue
		}
		if s := p.statement(); s != nil {
			inline.Statements = append(inline.Statements, s)
		}
	}
	inline.Span = p.span(start)
	return inline
}

// Expr parses the input as one value, which may be a space or comma separated list.
func (p *Parser) Expr() ast.Expression {
	p.l.PushMode(lexer.Values)
	defer p.l.PopMode()
	e := p.valueList()
	if t := p.peek(); t.Type != lexer.EOF {
		p.errorAt(t.Start, "unexpected %s after expression", t)
	}
	return e
}

// Selector parses the input as a selector list.
func (p *Parser) Selector() *ast.SelectorListStatement {
	p.l.PushMode(lexer.Selector)
	list := p.selectorList()
	p.skipSpace()
	if t := p.peek(); t.Type != lexer.EOF {
		p.errorAt(t.Start, "unexpected %s in selector", t)
	}
	p.l.PopMode()
	return list
}

////////////////////////////////////////////////////////////////

func (p *Parser) peek() lexer.Token { return p.l.Peek() }

func (p *Parser) next() lexer.Token {
	p.prev = p.l.Next()
	return p.prev
}

func (p *Parser) is(tt lexer.Type) bool { return p.peek().Type == tt }

func (p *Parser) isIdent(name string) bool {
	t := p.peek()
	return t.Type == lexer.Ident && t.Name() == name
}

// accept consumes the next token if it has type tt.
func (p *Parser) accept(tt lexer.Type) bool {
	if p.is(tt) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of type tt or reports what was found instead.
func (p *Parser) expect(tt lexer.Type) (lexer.Token, bool) {
	t := p.peek()
	if t.Type == tt {
		return p.next(), true
	}
	p.errorAt(t.Start, "expected %q, found %s", tt.String(), t)
	return t, false
}

func (p *Parser) errorAt(loc diag.Location, format string, args ...any) {
	p.errs.Error(loc, format, args...)
}

func (p *Parser) warnAt(loc diag.Location, format string, args ...any) {
	p.errs.Warn(loc, format, args...)
}

func (p *Parser) span(start diag.Location) ast.Span {
	end := p.prev.End
	if end.Cursor < start.Cursor {
		end = start
	}
	return ast.Span{Start: start, End: end}
}

// sameLine reports whether the next token starts on the line the previous one ended on.
func (p *Parser) sameLine() bool {
	return p.peek().Start.Line == p.prev.End.Line
}

func (p *Parser) push(s Scope) { p.scopes = append(p.scopes, s) }

func (p *Parser) pop() { p.scopes = p.scopes[:len(p.scopes)-1] }

func (p *Parser) top() Scope { return p.scopes[len(p.scopes)-1] }

// context returns the innermost scope that decides what a block may declare, looking
// through loops, calls and selectors.
func (p *Parser) context() Scope {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		switch s := p.scopes[i]; s {
		case ScopeLoop, ScopeCallExpr, ScopeSelector, scopeGroup:
		default:
			return s
		}
	}
	return ScopeTopLevel
}

// within reports whether s encloses the current position without crossing a rule,
// function or top-level boundary.
func (p *Parser) within(s Scope) bool {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		switch p.scopes[i] {
		case s:
			return true
		case ScopeFunction, ScopeRule, ScopeTopLevel, ScopeInline:
			return false
		}
	}
	return false
}

// enter guards recursion depth. Callers must call leave when enter returns true.
func (p *Parser) enter(loc diag.Location) bool {
	limit := p.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if p.depth >= limit {
		if !p.deep {
			p.errorAt(loc, "nesting exceeds the maximum depth of %d", limit)
			p.deep = true
		}
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() { p.depth-- }

// sync skips to the end of the current statement: past the next ';' or balanced
// block, or up to an unbalanced '}'.
func (p *Parser) sync() {
	depth := 0
	for {
		switch p.peek().Type {
		case lexer.EOF:
			return
		case lexer.Semicolon:
			p.next()
			if depth == 0 {
				return
			}
		case lexer.LeftBrace:
			depth++
			p.next()
		case lexer.RightBrace:
			if depth == 0 {
				return
			}
			depth--
			p.next()
			if depth == 0 {
				return
			}
		default:
			p.next()
		}
	}
}
