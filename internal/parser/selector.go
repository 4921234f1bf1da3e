package parser

import (
	"strconv"
	"strings"

	"style-engine/internal/ast"
	"style-engine/internal/lexer"
)

// The functions below run with the lexer in Selector mode, where whitespace is a token.

func (p *Parser) skipSpace() bool {
	skipped := false
	for p.is(lexer.Whitespace) {
		p.next()
		skipped = true
	}
	return skipped
}

func (p *Parser) selectorList() *ast.SelectorListStatement {
	p.skipSpace()
	start := p.peek().Start
	p.push(ScopeSelector)
	defer p.pop()
	list := &ast.SelectorListStatement{}
	for {
		p.skipSpace()
		if c := p.chain(); c != nil {
			list.Chains = append(list.Chains, c)
		}
		p.skipSpace()
		if !p.accept(lexer.Comma) {
			break
		}
	}
	list.Span = p.span(start)
	return list
}

// outermost reports whether the selector being parsed is a rule's own selector rather
// than the argument of a pseudo-class function.
func (p *Parser) outermost() bool {
	n := 0
	for _, s := range p.scopes {
		if s == ScopeSelector {
			n++
		}
	}
	return n == 1
}

func combinatorOf(tt lexer.Type) (ast.Combinator, bool) {
	switch tt {
	case lexer.Greater:
		return ast.Parent, true
	case lexer.Plus:
		return ast.DirectSibling, true
	case lexer.Tilde:
		return ast.Sibling, true
	}
	return ast.None, false
}

func (p *Parser) chain() *ast.SelectorChain {
	start := p.peek().Start
	c := &ast.SelectorChain{}
	comb, leading := combinatorOf(p.peek().Type)
	if leading {
		t := p.next()
		p.skipSpace()
		if p.context() != ScopeRule || !p.outermost() {
			p.errorAt(t.Start, "selector cannot start with a combinator here")
		}
	}
	for {
		node := p.compound(comb)
		if node == nil {
			break
		}
		c.Nodes = append(c.Nodes, node)
		space := p.skipSpace()
		if next, ok := combinatorOf(p.peek().Type); ok {
			p.next()
			p.skipSpace()
			comb = next
			continue
		}
		if space && p.startsCompound() {
			comb = ast.Descendant
			continue
		}
		break
	}
	if len(c.Nodes) == 0 {
		return nil
	}
	if c.Nodes[0].Combinator == ast.None && p.context() == ScopeRule && p.outermost() && !c.HasNested() {
		c.Nodes[0].Combinator = ast.Nest
	}
	c.Span = p.span(start)
	return c
}

func (p *Parser) startsCompound() bool {
	switch p.peek().Type {
	case lexer.Ident, lexer.Star, lexer.Dot, lexer.Hash, lexer.LeftBracket, lexer.Colon,
		lexer.DoubleColon, lexer.Ampersand:
		return true
	}
	return false
}

func (p *Parser) compound(comb ast.Combinator) *ast.SelectorNodeStatement {
	start := p.peek().Start
	n := &ast.SelectorNodeStatement{Combinator: comb}
	for p.startsCompound() {
		if e := p.simpleSelector(); e != nil {
			n.Exprs = append(n.Exprs, e)
		}
	}
	if len(n.Exprs) == 0 {
		t := p.peek()
		p.errorAt(t.Start, "expected a selector, found %s", t)
		p.skipTo(lexer.Comma, lexer.RightParen)
		return nil
	}
	n.Span = p.span(start)
	return n
}

func (p *Parser) simpleSelector() ast.SelectorExpression {
	t := p.next()
	span := ast.Span{Start: t.Start, End: t.End}
	switch t.Type {
	case lexer.Ident:
		return &ast.TagName{Span: span, Name: t.Name()}
	case lexer.Star:
		return &ast.MatchAll{Span: span}
	case lexer.Hash:
		return &ast.ID{Span: span, Name: t.Name()}
	case lexer.Dot:
		name, ok := p.expect(lexer.Ident)
		if !ok {
			return nil
		}
		return &ast.ClassName{Span: p.span(t.Start), Name: name.Name()}
	case lexer.Ampersand:
		if p.context() != ScopeRule {
			p.errorAt(t.Start, "& is only allowed inside a rule")
		}
		return &ast.Nested{Span: span}
	case lexer.LeftBracket:
		return p.attribute(t)
	case lexer.Colon:
		return p.pseudo(t)
	case lexer.DoubleColon:
		name, ok := p.expect(lexer.Ident)
		if !ok {
			return nil
		}
		return &ast.PseudoElement{Span: p.span(t.Start), Name: p.fold.String(name.Name())}
	}
	return nil
}

var attrOps = map[lexer.Type]ast.AttrOp{
	lexer.Assign:         ast.AttrEquals,
	lexer.DashMatch:      ast.AttrDash,
	lexer.IncludeMatch:   ast.AttrWord,
	lexer.PrefixMatch:    ast.AttrPrefix,
	lexer.SuffixMatch:    ast.AttrSuffix,
	lexer.SubstringMatch: ast.AttrSubstring,
}

func (p *Parser) attribute(open lexer.Token) ast.SelectorExpression {
	p.skipSpace()
	name, ok := p.expect(lexer.Ident)
	if !ok {
		p.skipTo(lexer.RightBracket)
		p.accept(lexer.RightBracket)
		return nil
	}
	a := &ast.Attribute{Name: name.Name()}
	p.skipSpace()
	if op, ok := attrOps[p.peek().Type]; ok {
		p.next()
		p.skipSpace()
		a.Op = op
		switch v := p.peek(); v.Type {
		case lexer.String, lexer.Ident:
			p.next()
			a.Value = v.Name()
		case lexer.Number:
			p.next()
			a.Value = v.Text
		default:
			p.errorAt(v.Start, "expected an attribute value, found %s", v)
		}
		p.skipSpace()
		if t := p.peek(); t.Type == lexer.Ident && strings.EqualFold(t.Name(), "i") {
			p.next()
			a.IgnoreCase = true
			p.skipSpace()
		}
	}
	if _, ok := p.expect(lexer.RightBracket); !ok {
		p.skipTo(lexer.RightBracket)
		p.accept(lexer.RightBracket)
	}
	a.Span = p.span(open.Start)
	return a
}

func (p *Parser) pseudo(colon lexer.Token) ast.SelectorExpression {
	name, ok := p.expect(lexer.Ident)
	if !ok {
		return nil
	}
	word := p.fold.String(name.Name())
	if !p.is(lexer.LeftParen) {
		return &ast.PseudoClass{Span: p.span(colon.Start), Name: word}
	}
	p.next()
	fn := &ast.PseudoFunction{Name: word}
	switch word {
	case "nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type":
		nth := p.nthArgument()
		fn.Nth = &nth
		if p.isIdent("of") {
			of := p.next()
			if !strings.HasSuffix(word, "-child") {
				p.errorAt(of.Start, "\"of\" is only allowed in :nth-child and :nth-last-child")
			}
			fn.Selectors = p.nestedSelectors(of)
		}
	case "is", "not", "where", "matches":
		fn.Selectors = p.nestedSelectors(name)
	default:
		p.errorAt(name.Start, "unknown pseudo-class function :%s()", word)
		p.skipTo(lexer.RightParen)
	}
	p.skipSpace()
	if _, ok := p.expect(lexer.RightParen); !ok {
		p.skipTo(lexer.RightParen)
		p.accept(lexer.RightParen)
	}
	fn.Span = p.span(colon.Start)
	return fn
}

func (p *Parser) nestedSelectors(at lexer.Token) *ast.SelectorListStatement {
	if !p.enter(at.Start) {
		p.skipTo(lexer.RightParen)
		return nil
	}
	defer p.leave()
	return p.selectorList()
}

// nthArgument reads the An+B expression of an :nth-* function. The lexer splits it into
// several tokens (2n, +, 1 or -n+3 as an identifier), so the text is joined back and
// parsed as a whole.
func (p *Parser) nthArgument() ast.Nth {
	p.skipSpace()
	start := p.peek().Start
	var b strings.Builder
	for {
		t := p.peek()
		switch t.Type {
		case lexer.RightParen, lexer.EOF, lexer.LeftBrace, lexer.RightBrace, lexer.Semicolon:
		case lexer.Ident:
			if t.Name() == "of" {
				break
			}
			fallthrough
		default:
			p.next()
			if t.Type != lexer.Whitespace {
				b.WriteString(t.Text)
			}
			continue
		}
		break
	}
	nth, ok := parseNth(b.String())
	if !ok {
		p.errorAt(start, "malformed An+B expression %q", b.String())
	}
	return nth
}

// parseNth parses odd, even, an integer, or An+B with optional A and B.
func parseNth(s string) (ast.Nth, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "odd":
		return ast.Nth{A: 2, B: 1}, true
	case "even":
		return ast.Nth{A: 2}, true
	case "":
		return ast.Nth{}, false
	}
	i := strings.IndexByte(s, 'n')
	if i < 0 {
		b, err := strconv.Atoi(s)
		return ast.Nth{B: b}, err == nil
	}
	var nth ast.Nth
	switch a := s[:i]; a {
	case "", "+":
		nth.A = 1
	case "-":
		nth.A = -1
	default:
		v, err := strconv.Atoi(a)
		if err != nil {
			return ast.Nth{}, false
		}
		nth.A = v
	}
	rest := s[i+1:]
	if rest == "" {
		return nth, true
	}
	if rest[0] != '+' && rest[0] != '-' {
		return ast.Nth{}, false
	}
	v, err := strconv.Atoi(rest)
	if err != nil {
		return ast.Nth{}, false
	}
	nth.B = v
	return nth, true
}
