package parser

import (
	"style-engine/internal/ast"
	"style-engine/internal/diag"
	"style-engine/internal/lexer"
)

// statement parses one statement of a block. It returns nil for empty statements and for
// input that could not be parsed at all; in the latter case an error has been reported
// and the input skipped.
func (p *Parser) statement() ast.Statement {
	t := p.peek()
	switch t.Type {
	case lexer.AtKeyword:
		return p.atRule()
	case lexer.Variable:
		return p.variableDecl()
	case lexer.Semicolon:
		p.next()
		return nil
	case lexer.Ident:
		if p.startsCall() {
			return p.expressionStatement()
		}
		if p.startsRule() {
			return p.rule()
		}
		return p.property()
	case lexer.Dot, lexer.Hash, lexer.Star, lexer.Colon, lexer.DoubleColon, lexer.LeftBracket,
		lexer.Ampersand, lexer.Greater, lexer.Plus, lexer.Tilde:
		return p.rule()
	case lexer.Unknown:
		p.next()
		p.sync()
		return nil
	}
	p.errorAt(t.Start, "unexpected %s", t)
	p.sync()
	return nil
}

// startsCall reports whether the statement is a bare call such as set-property(...).
func (p *Parser) startsCall() bool {
	return p.l.Lookahead(func() bool {
		name := p.l.Next()
		t := p.l.Next()
		return t.Type == lexer.LeftParen && t.Start.Cursor == name.End.Cursor
	})
}

// startsRule reports whether a '{' comes before the end of the statement, which makes
// it a style rule rather than a declaration.
func (p *Parser) startsRule() bool {
	return p.l.Lookahead(func() bool {
		for {
			switch p.l.Next().Type {
			case lexer.LeftBrace:
				return true
			case lexer.Semicolon, lexer.RightBrace, lexer.EOF:
				return false
			}
		}
	})
}

// endStatement consumes the ';' that ends a statement. The last statement of a block
// may omit it.
func (p *Parser) endStatement(invalid *bool) {
	if p.accept(lexer.Semicolon) || p.is(lexer.RightBrace) || p.is(lexer.EOF) {
		return
	}
	t := p.peek()
	p.errorAt(t.Start, "expected ';', found %s", t)
	if invalid != nil {
		*invalid = true
	}
	p.sync()
}

// block parses `{ statements }`, pushing scopes for the duration of the body.
func (p *Parser) block(scopes ...Scope) *ast.Block {
	start := p.peek().Start
	b := &ast.Block{}
	if _, ok := p.expect(lexer.LeftBrace); !ok {
		p.sync()
		b.Span = p.span(start)
		return b
	}
	if !p.enter(start) {
		p.skipBlock()
		b.Span = p.span(start)
		return b
	}
	p.scopes = append(p.scopes, scopes...)
	for !p.is(lexer.RightBrace) && !p.is(lexer.EOF) {
		if s := p.statement(); s != nil {
			b.Statements = append(b.Statements, s)
		}
	}
	p.scopes = p.scopes[:len(p.scopes)-len(scopes)]
	p.leave()
	p.expect(lexer.RightBrace)
	b.Span = p.span(start)
	return b
}

// skipBlock skips the rest of a block whose '{' was consumed.
func (p *Parser) skipBlock() {
	for depth := 1; depth > 0 && !p.is(lexer.EOF); {
		switch p.next().Type {
		case lexer.LeftBrace:
			depth++
		case lexer.RightBrace:
			depth--
		}
	}
}

// skipTo consumes tokens up to, not including, one of the given types or a statement
// boundary.
func (p *Parser) skipTo(types ...lexer.Type) {
	for {
		t := p.peek().Type
		switch t {
		case lexer.EOF, lexer.Semicolon, lexer.LeftBrace, lexer.RightBrace:
			return
		}
		for _, tt := range types {
			if t == tt {
				return
			}
		}
		p.next()
	}
}

func (p *Parser) rule() ast.Statement {
	start := p.peek().Start
	r := &ast.RuleStatement{}
	switch ctx := p.context(); ctx {
	case ScopeInline, ScopeFunction:
		p.errorAt(start, "style rules are not allowed in a %s", ctx)
		r.Invalid = true
	}
	errors := p.errs.Count(diag.Error)
	p.l.PushMode(lexer.Selector)
	r.Selectors = p.selectorList()
	p.l.PopMode()
	if p.errs.Count(diag.Error) > errors {
		r.Invalid = true
	}
	if !p.is(lexer.LeftBrace) {
		t := p.peek()
		p.errorAt(t.Start, "expected '{' after selector, found %s", t)
		r.Invalid = true
		p.sync()
		r.Span = p.span(start)
		return r
	}
	r.Body = p.block(ScopeRule)
	r.Span = p.span(start)
	return r
}

func (p *Parser) property() ast.Statement {
	name := p.next()
	prop := &ast.PropertyStatement{Name: name.Name()}
	switch ctx := p.context(); ctx {
	case ScopeTopLevel, ScopeFunction:
		p.errorAt(name.Start, "property %q declared outside of a rule", prop.Name)
		prop.Invalid = true
	}
	if _, ok := p.expect(lexer.Colon); !ok {
		prop.Invalid = true
		p.sync()
		prop.Span = p.span(name.Start)
		return prop
	}
	p.l.PushMode(lexer.Values)
	prop.Value = p.valueList()
	if p.is(lexer.Important) {
		t := p.next()
		if ctx := p.context(); ctx != ScopeRule {
			p.errorAt(t.Start, "!important is not allowed in a %s", ctx)
			prop.Invalid = true
		} else {
			prop.Important = true
		}
	}
	p.l.PopMode()
	p.endStatement(&prop.Invalid)
	prop.Span = p.span(name.Start)
	return prop
}

func (p *Parser) variableDecl() ast.Statement {
	v := p.next()
	decl := &ast.VariableDecl{Name: v.Name()}
	if _, ok := p.expect(lexer.Colon); !ok {
		decl.Invalid = true
		p.sync()
		decl.Span = p.span(v.Start)
		return decl
	}
	p.l.PushMode(lexer.Values)
	decl.Value = p.valueList()
	for {
		if p.accept(lexer.Default) {
			decl.Default = true
		} else if p.accept(lexer.Global) {
			decl.Global = true
		} else {
			break
		}
	}
	p.l.PopMode()
	p.endStatement(&decl.Invalid)
	decl.Span = p.span(v.Start)
	return decl
}

func (p *Parser) expressionStatement() ast.Statement {
	start := p.peek().Start
	p.l.PushMode(lexer.Values)
	s := &ast.ExpressionStatement{Expr: p.expr()}
	p.l.PopMode()
	p.endStatement(nil)
	s.Span = p.span(start)
	return s
}

////////////////////////////////////////////////////////////////

func (p *Parser) atRule() ast.Statement {
	t := p.peek()
	switch t.Name() {
	case "import":
		return p.importStatement()
	case "function":
		return p.functionStatement()
	case "mixin":
		return p.mixinStatement()
	case "include":
		return p.includeStatement()
	case "if":
		return p.ifStatement()
	case "else":
		p.errorAt(t.Start, "@else without a preceding @if")
		p.next()
		p.sync()
		return nil
	case "return", "break", "continue":
		return p.controlFlow()
	case "assert":
		return p.assertStatement()
	case "print", "debug", "warn", "error":
		return p.logStatement()
	case "for":
		return p.forStatement()
	case "each":
		return p.eachStatement()
	case "while":
		return p.whileStatement()
	case "namespace":
		return p.namespaceStatement()
	}
	p.errorAt(t.Start, "unknown at-rule @%s", t.Name())
	p.next()
	p.sync()
	return nil
}

// declares checks that a declaration at-rule is allowed in the current context.
func (p *Parser) declares(t lexer.Token) bool {
	switch ctx := p.context(); ctx {
	case ScopeInline, ScopeFunction:
		p.errorAt(t.Start, "@%s is not allowed in a %s", t.Name(), ctx)
		return false
	}
	return true
}

func (p *Parser) importStatement() ast.Statement {
	t := p.next()
	imp := &ast.ImportStatement{}
	valid := p.declares(t)
	s, ok := p.expect(lexer.String)
	if !ok {
		p.sync()
		return nil
	}
	imp.Path = s.Name()
	p.endStatement(nil)
	imp.Span = p.span(t.Start)
	if !valid {
		return nil
	}
	return imp
}

func (p *Parser) params() []ast.Param {
	p.l.PushMode(lexer.Values)
	defer p.l.PopMode()
	if _, ok := p.expect(lexer.LeftParen); !ok {
		return nil
	}
	p.push(ScopeCallExpr)
	defer p.pop()
	var params []ast.Param
	for !p.is(lexer.RightParen) && !p.is(lexer.EOF) {
		v, ok := p.expect(lexer.Variable)
		if !ok {
			p.skipTo(lexer.RightParen)
			break
		}
		prm := ast.Param{Name: v.Name()}
		if p.accept(lexer.Colon) {
			prm.Default = p.spaceList()
		}
		if p.accept(lexer.Ellipsis) {
			prm.Variadic = true
		}
		if len(params) > 0 && params[len(params)-1].Variadic {
			p.errorAt(v.Start, "parameter $%s follows a rest parameter", prm.Name)
		}
		params = append(params, prm)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RightParen)
	return params
}

func (p *Parser) functionStatement() ast.Statement {
	t := p.next()
	valid := p.declares(t)
	name, ok := p.expect(lexer.Ident)
	if !ok {
		p.sync()
		return nil
	}
	fn := &ast.FunctionStatement{Name: name.Name()}
	fn.Params = p.params()
	fn.Body = p.block(ScopeFunction)
	fn.Span = p.span(t.Start)
	if !valid {
		return nil
	}
	return fn
}

func (p *Parser) mixinStatement() ast.Statement {
	t := p.next()
	valid := p.declares(t)
	name, ok := p.expect(lexer.Ident)
	if !ok {
		p.sync()
		return nil
	}
	m := &ast.MixinStatement{Name: name.Name()}
	if p.is(lexer.LeftParen) {
		m.Params = p.params()
	}
	m.Body = p.block(ScopeRule)
	m.Span = p.span(t.Start)
	if !valid {
		return nil
	}
	return m
}

func (p *Parser) includeStatement() ast.Statement {
	t := p.next()
	inc := &ast.IncludeStatement{}
	if ctx := p.context(); ctx == ScopeFunction {
		p.errorAt(t.Start, "@include is not allowed in a %s", ctx)
		inc.Invalid = true
	}
	name, ok := p.expect(lexer.Ident)
	if !ok {
		p.sync()
		return nil
	}
	inc.Name = name.Name()
	if p.is(lexer.Dot) {
		p.next()
		member, ok := p.expect(lexer.Ident)
		if !ok {
			p.sync()
			return nil
		}
		inc.Namespace, inc.Name = inc.Name, member.Name()
	}
	if p.is(lexer.LeftParen) {
		inc.Args = p.args()
	}
	p.endStatement(&inc.Invalid)
	inc.Span = p.span(t.Start)
	return inc
}

func (p *Parser) ifStatement() *ast.IfStatement {
	start := p.next().Start
	s := &ast.IfStatement{}
	p.l.PushMode(lexer.Values)
	s.Cond = p.expr()
	p.l.PopMode()
	s.Then = p.block()
	if t := p.peek(); t.Type == lexer.AtKeyword && t.Name() == "else" {
		p.next()
		if p.isIdent("if") {
			s.Else = p.ifStatement()
		} else {
			s.Else = p.block()
		}
	}
	s.Span = p.span(start)
	return s
}

func (p *Parser) controlFlow() ast.Statement {
	t := p.next()
	c := &ast.ControlFlowStatement{}
	switch t.Name() {
	case "return":
		c.Kind = ast.Return
		if !p.within(ScopeFunction) {
			p.errorAt(t.Start, "@return outside of a function")
			c.Invalid = true
		}
		p.l.PushMode(lexer.Values)
		c.Value = p.valueList()
		p.l.PopMode()
	case "break", "continue":
		c.Kind = ast.Break
		if t.Name() == "continue" {
			c.Kind = ast.Continue
		}
		if !p.within(ScopeLoop) {
			p.errorAt(t.Start, "@%s outside of a loop", t.Name())
			c.Invalid = true
		}
	}
	p.endStatement(&c.Invalid)
	c.Span = p.span(t.Start)
	return c
}

func (p *Parser) assertStatement() ast.Statement {
	t := p.next()
	a := &ast.AssertStatement{}
	p.l.PushMode(lexer.Values)
	a.Cond = p.expr()
	if p.accept(lexer.Colon) {
		a.Message = p.valueList()
	}
	p.l.PopMode()
	p.endStatement(nil)
	a.Span = p.span(t.Start)
	return a
}

var logLevels = map[string]ast.LogLevel{
	"print": ast.LogPrint,
	"debug": ast.LogDebug,
	"warn":  ast.LogWarn,
	"error": ast.LogError,
}

func (p *Parser) logStatement() ast.Statement {
	t := p.next()
	s := &ast.LogStatement{Level: logLevels[t.Name()]}
	p.l.PushMode(lexer.Values)
	s.Value = p.valueList()
	p.l.PopMode()
	p.endStatement(nil)
	s.Span = p.span(t.Start)
	return s
}

// keyword consumes the identifier word or reports it missing.
func (p *Parser) keyword(word string) bool {
	if p.isIdent(word) {
		p.next()
		return true
	}
	t := p.peek()
	p.errorAt(t.Start, "expected %q, found %s", word, t)
	return false
}

func (p *Parser) forStatement() ast.Statement {
	t := p.next()
	f := &ast.ForStatement{}
	p.l.PushMode(lexer.Values)
	ok := false
	if v, found := p.expect(lexer.Variable); found && p.keyword("from") {
		f.Var = v.Name()
		f.From = p.expr()
		switch {
		case p.isIdent("through"):
			f.Inclusive = true
			ok = true
		case p.isIdent("to"):
			ok = true
		default:
			p.errorAt(p.peek().Start, "expected \"through\" or \"to\", found %s", p.peek())
		}
		if ok {
			p.next()
			f.To = p.expr()
		}
	}
	if !ok {
		p.skipTo()
	}
	p.l.PopMode()
	f.Body = p.block(ScopeLoop)
	f.Span = p.span(t.Start)
	if !ok {
		return nil
	}
	return f
}

func (p *Parser) eachStatement() ast.Statement {
	t := p.next()
	e := &ast.EachStatement{}
	p.l.PushMode(lexer.Values)
	ok := true
	for {
		v, found := p.expect(lexer.Variable)
		if !found {
			ok = false
			break
		}
		e.Vars = append(e.Vars, v.Name())
		if !p.accept(lexer.Comma) {
			break
		}
	}
	if ok && p.keyword("in") {
		e.List = p.valueList()
	} else {
		ok = false
		p.skipTo()
	}
	p.l.PopMode()
	e.Body = p.block(ScopeLoop)
	e.Span = p.span(t.Start)
	if !ok {
		return nil
	}
	return e
}

func (p *Parser) whileStatement() ast.Statement {
	t := p.next()
	w := &ast.WhileStatement{}
	p.l.PushMode(lexer.Values)
	w.Cond = p.expr()
	p.l.PopMode()
	w.Body = p.block(ScopeLoop)
	w.Span = p.span(t.Start)
	return w
}

func (p *Parser) namespaceStatement() ast.Statement {
	t := p.next()
	valid := true
	if ctx := p.context(); ctx != ScopeTopLevel {
		p.errorAt(t.Start, "@namespace is not allowed in a %s", ctx)
		valid = false
	}
	name, ok := p.expect(lexer.Ident)
	if !ok {
		p.sync()
		return nil
	}
	ns := &ast.NamespaceStatement{Name: name.Name()}
	ns.Body = p.block(ScopeTopLevel)
	ns.Span = p.span(t.Start)
	if !valid {
		return nil
	}
	return ns
}
