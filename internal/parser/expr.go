package parser

import (
	"style-engine/internal/ast"
	"style-engine/internal/lexer"
	"style-engine/internal/value"
)

// valueList parses a comma separated list of space lists. A single item is returned
// as is.
func (p *Parser) valueList() ast.Expression {
	first := p.spaceList()
	if p.top() == ScopeCallExpr || !p.is(lexer.Comma) {
		return first
	}
	items := []ast.Expression{first}
	for p.accept(lexer.Comma) {
		items = append(items, p.spaceList())
	}
	return &ast.ListLiteral{Span: p.span(first.Range().Start), Items: items, Comma: true}
}

// spaceList parses expressions separated by spaces on one source line. Inside call
// arguments every expression stands alone.
func (p *Parser) spaceList() ast.Expression {
	first := p.expr()
	if p.top() == ScopeCallExpr {
		return first
	}
	items := []ast.Expression{first}
	for p.sameLine() && p.startsItem() {
		items = append(items, p.expr())
	}
	if len(items) == 1 {
		return first
	}
	return &ast.ListLiteral{Span: p.span(first.Range().Start), Items: items}
}

// startsItem reports whether the next token begins another list item.
func (p *Parser) startsItem() bool {
	switch t := p.peek(); t.Type {
	case lexer.Number, lexer.HexColor, lexer.String, lexer.Variable, lexer.LeftParen:
		return true
	case lexer.Ident:
		switch t.Name() {
		case "and", "or":
			return false
		}
		return true
	case lexer.Minus:
		return p.signedItem()
	}
	return false
}

// signedItem reports whether a '-' is the sign of a new list item (`1px -2px`) rather
// than a subtraction (`1px - 2px`, `1px-2px`): it is separated from the previous token
// and attached to the next.
func (p *Parser) signedItem() bool {
	if p.top() == ScopeCallExpr {
		return false
	}
	minus := p.peek()
	if minus.Start.Cursor == p.prev.End.Cursor {
		return false
	}
	return p.l.Lookahead(func() bool {
		p.l.Next()
		t := p.l.Next()
		return t.Start.Cursor == minus.End.Cursor && t.Type != lexer.EOF
	})
}

// expr parses a single expression without list separators.
func (p *Parser) expr() ast.Expression {
	start := p.peek().Start
	if !p.enter(start) {
		return p.erroneous()
	}
	defer p.leave()
	return p.or()
}

func (p *Parser) binary(op ast.Operator, left, right ast.Expression) ast.Expression {
	return &ast.BinaryExpr{
		Span:  ast.Span{Start: left.Range().Start, End: right.Range().End},
		Op:    op,
		Left:  left,
		Right: right,
	}
}

func (p *Parser) or() ast.Expression {
	left := p.and()
	for p.isIdent("or") {
		p.next()
		left = p.binary(ast.OpOr, left, p.and())
	}
	return left
}

func (p *Parser) and() ast.Expression {
	left := p.equality()
	for p.isIdent("and") {
		p.next()
		left = p.binary(ast.OpAnd, left, p.equality())
	}
	return left
}

func (p *Parser) equality() ast.Expression {
	left := p.comparison()
	for {
		var op ast.Operator
		switch p.peek().Type {
		case lexer.Equal:
			op = ast.OpEq
		case lexer.NotEqual:
			op = ast.OpNe
		default:
			return left
		}
		p.next()
		left = p.binary(op, left, p.comparison())
	}
}

func (p *Parser) comparison() ast.Expression {
	left := p.additive()
	for {
		var op ast.Operator
		switch p.peek().Type {
		case lexer.Less:
			op = ast.OpLt
		case lexer.LessEqual:
			op = ast.OpLe
		case lexer.Greater:
			op = ast.OpGt
		case lexer.GreaterEqual:
			op = ast.OpGe
		default:
			return left
		}
		p.next()
		left = p.binary(op, left, p.additive())
	}
}

func (p *Parser) additive() ast.Expression {
	left := p.multiplicative()
	for {
		var op ast.Operator
		switch p.peek().Type {
		case lexer.Plus:
			op = ast.OpAdd
		case lexer.Minus:
			if p.signedItem() {
				return left
			}
			op = ast.OpSub
		default:
			return left
		}
		p.next()
		left = p.binary(op, left, p.multiplicative())
	}
}

func (p *Parser) multiplicative() ast.Expression {
	left := p.unary()
	for {
		var op ast.Operator
		switch p.peek().Type {
		case lexer.Star:
			op = ast.OpMul
		case lexer.Slash:
			op = ast.OpDiv
		case lexer.Percent:
			op = ast.OpMod
		default:
			return left
		}
		p.next()
		left = p.binary(op, left, p.unary())
	}
}

func (p *Parser) unary() ast.Expression {
	t := p.peek()
	var op ast.Operator
	switch {
	case t.Type == lexer.Minus:
		op = ast.OpNeg
	case t.Type == lexer.Plus:
		op = ast.OpPos
	case t.Type == lexer.Ident && t.Name() == "not":
		op = ast.OpNot
	default:
		return p.namespaced()
	}
	p.next()
	if !p.enter(t.Start) {
		return p.erroneous()
	}
	operand := p.unary()
	p.leave()
	if n, ok := operand.(*ast.NumberLiteral); ok && op != ast.OpNot {
		if op == ast.OpNeg {
			n.Value = -n.Value
		}
		n.Span.Start = t.Start
		return n
	}
	return &ast.UnaryExpr{Span: p.span(t.Start), Op: op, Operand: operand}
}

// namespaced parses `ns.$var` and `ns.fn(args)`.
func (p *Parser) namespaced() ast.Expression {
	if !p.is(lexer.Ident) || !p.startsNamespace() {
		return p.primary()
	}
	ns := p.next()
	p.next()
	var target ast.Expression
	if p.is(lexer.Variable) {
		v := p.next()
		target = &ast.VariableExpr{Span: ast.Span{Start: v.Start, End: v.End}, Name: v.Name()}
	} else {
		target = p.call(p.next())
	}
	return &ast.NamespaceExpr{Span: p.span(ns.Start), Namespace: ns.Name(), Target: target}
}

func (p *Parser) startsNamespace() bool {
	return p.l.Lookahead(func() bool {
		ns := p.l.Next()
		dot := p.l.Next()
		if dot.Type != lexer.Dot || dot.Start.Cursor != ns.End.Cursor {
			return false
		}
		switch t := p.l.Next(); t.Type {
		case lexer.Variable:
			return true
		case lexer.Ident:
			return p.l.Next().Type == lexer.LeftParen
		}
		return false
	})
}

func (p *Parser) primary() ast.Expression {
	t := p.peek()
	span := ast.Span{Start: t.Start, End: t.End}
	switch t.Type {
	case lexer.Number:
		p.next()
		n := t.Value.(value.Primitive)
		return &ast.NumberLiteral{Span: span, Value: n.Value, Unit: n.Unit}
	case lexer.HexColor:
		p.next()
		return &ast.ColorLiteral{Span: span, Color: t.Value.(value.Color)}
	case lexer.String:
		p.next()
		return &ast.StringLiteral{Span: span, Text: t.Name()}
	case lexer.Variable:
		p.next()
		return &ast.VariableExpr{Span: span, Name: t.Name()}
	case lexer.Ident:
		p.next()
		if next := p.peek(); next.Type == lexer.LeftParen && next.Start.Cursor == t.End.Cursor {
			return p.call(t)
		}
		if word := p.fold.String(t.Name()); ast.Reserved(word) {
			return &ast.KeywordLiteral{Span: span, Word: word}
		}
		return &ast.Identifier{Span: span, Name: t.Name()}
	case lexer.LeftParen:
		return p.group()
	case lexer.Unknown:
		// Already reported by the lexer.
		p.next()
		return &ast.ErroneousExpr{Span: span}
	}
	p.errorAt(t.Start, "expected a value, found %s", t)
	return p.erroneous()
}

// erroneous returns a placeholder for a missing expression, consuming the offending
// token unless it closes an enclosing construct.
func (p *Parser) erroneous() ast.Expression {
	t := p.peek()
	switch t.Type {
	case lexer.EOF, lexer.Semicolon, lexer.LeftBrace, lexer.RightBrace, lexer.RightParen,
		lexer.Comma, lexer.Important, lexer.Default, lexer.Global:
	default:
		p.next()
	}
	return &ast.ErroneousExpr{Span: ast.Span{Start: t.Start, End: t.End}}
}

// group parses a parenthesized expression; `()` is the empty list.
func (p *Parser) group() ast.Expression {
	open := p.next()
	if p.is(lexer.RightParen) {
		p.next()
		return &ast.ListLiteral{Span: p.span(open.Start)}
	}
	if !p.enter(open.Start) {
		p.skipTo(lexer.RightParen)
		p.accept(lexer.RightParen)
		return &ast.ErroneousExpr{Span: p.span(open.Start)}
	}
	p.push(scopeGroup)
	e := p.valueList()
	p.pop()
	p.leave()
	p.expect(lexer.RightParen)
	return e
}

func (p *Parser) call(name lexer.Token) ast.Expression {
	c := &ast.CallExpr{Name: name.Name()}
	c.Args = p.args()
	c.Span = p.span(name.Start)
	return c
}

// args parses a parenthesized argument list.
func (p *Parser) args() []ast.Arg {
	p.l.PushMode(lexer.Values)
	defer p.l.PopMode()
	if _, ok := p.expect(lexer.LeftParen); !ok {
		return nil
	}
	p.push(ScopeCallExpr)
	defer p.pop()
	var args []ast.Arg
	for !p.is(lexer.RightParen) && !p.is(lexer.EOF) {
		var a ast.Arg
		if p.is(lexer.Variable) && p.startsKeywordArg() {
			a.Name = p.next().Name()
			p.next()
		}
		a.Value = p.spaceList()
		if p.accept(lexer.Ellipsis) {
			a.Spread = true
		}
		args = append(args, a)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RightParen)
	return args
}

func (p *Parser) startsKeywordArg() bool {
	return p.l.Lookahead(func() bool {
		p.l.Next()
		return p.l.Next().Type == lexer.Colon
	})
}
