package ast

import (
	"io"
	"strconv"
	"strings"

	"style-engine/internal/value"
)

// Printer renders nodes back to normalized source.
type Printer struct {
	// Indent is repeated once per nesting level. Empty means two spaces.
	Indent string

	b     strings.Builder
	depth int
}

// Print renders n with the default printer.
func Print(n Node) string {
	var p Printer
	p.node(n)
	return p.b.String()
}

// Fprint writes the rendering of n to w.
func (p *Printer) Fprint(w io.Writer, n Node) error {
	p.b.Reset()
	p.depth = 0
	p.node(n)
	_, err := io.WriteString(w, p.b.String())
	return err
}

func (p *Printer) write(s ...string) {
	for _, x := range s {
		p.b.WriteString(x)
	}
}

func (p *Printer) line() {
	p.b.WriteByte('\n')
	indent := p.Indent
	if indent == "" {
		indent = "  "
	}
	for i := 0; i < p.depth; i++ {
		p.b.WriteString(indent)
	}
}

func (p *Printer) node(n Node) {
	switch n := n.(type) {
	case nil:
	case Statement:
		p.stmt(n)
	case Expression:
		p.expr(n, 0)
	case SelectorExpression:
		p.simple(n)
	case *SelectorNodeStatement:
		p.compound(n)
	case *SelectorChain:
		p.chain(n)
	case *SelectorListStatement:
		p.selectors(n)
	}
}

func (p *Printer) statements(list []Statement) {
	for i, s := range list {
		if i > 0 {
			p.line()
		}
		p.stmt(s)
	}
}

func (p *Printer) block(b *Block) {
	if b == nil || len(b.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.depth++
	for _, s := range b.Statements {
		p.line()
		p.stmt(s)
	}
	p.depth--
	p.line()
	p.write("}")
}

func (p *Printer) stmt(s Statement) {
	switch s := s.(type) {
	case *SheetStatement:
		p.statements(s.Statements)
	case *InlineStyleStatement:
		for i, d := range s.Statements {
			if i > 0 {
				p.write(" ")
			}
			p.stmt(d)
		}
	case *Block:
		p.block(s)
	case *RuleStatement:
		p.selectors(s.Selectors)
		p.write(" ")
		p.block(s.Body)
	case *PropertyStatement:
		p.write(s.Name, ": ")
		p.expr(s.Value, 0)
		if s.Important {
			p.write(" !important")
		}
		p.write(";")
	case *VariableDecl:
		p.write("$", s.Name, ": ")
		p.expr(s.Value, 0)
		if s.Default {
			p.write(" !default")
		}
		if s.Global {
			p.write(" !global")
		}
		p.write(";")
	case *IfStatement:
		p.write("@if ")
		p.expr(s.Cond, 0)
		p.write(" ")
		p.block(s.Then)
		if s.Else != nil {
			p.write(" @else ")
			if elif, ok := s.Else.(*IfStatement); ok {
				p.write("if ")
				p.expr(elif.Cond, 0)
				p.write(" ")
				p.block(elif.Then)
				if elif.Else != nil {
					p.write(" @else ")
					p.stmt(elif.Else)
				}
			} else {
				p.stmt(s.Else)
			}
		}
	case *ControlFlowStatement:
		p.write(s.Kind.String())
		if s.Value != nil {
			p.write(" ")
			p.expr(s.Value, 0)
		}
		p.write(";")
	case *FunctionStatement:
		p.write("@function ", s.Name)
		p.params(s.Params)
		p.write(" ")
		p.block(s.Body)
	case *MixinStatement:
		p.write("@mixin ", s.Name)
		if len(s.Params) > 0 {
			p.params(s.Params)
		}
		p.write(" ")
		p.block(s.Body)
	case *IncludeStatement:
		p.write("@include ")
		if s.Namespace != "" {
			p.write(s.Namespace, ".")
		}
		p.write(s.Name)
		if len(s.Args) > 0 {
			p.args(s.Args)
		}
		p.write(";")
	case *ImportStatement:
		p.write("@import ", strconv.Quote(s.Path), ";")
	case *AssertStatement:
		p.write("@assert ")
		p.expr(s.Cond, 0)
		if s.Message != nil {
			p.write(" : ")
			p.expr(s.Message, 0)
		}
		p.write(";")
	case *LogStatement:
		p.write(s.Level.String(), " ")
		p.expr(s.Value, 0)
		p.write(";")
	case *ForStatement:
		p.write("@for $", s.Var, " from ")
		p.expr(s.From, 0)
		if s.Inclusive {
			p.write(" through ")
		} else {
			p.write(" to ")
		}
		p.expr(s.To, 0)
		p.write(" ")
		p.block(s.Body)
	case *EachStatement:
		p.write("@each ")
		for i, v := range s.Vars {
			if i > 0 {
				p.write(", ")
			}
			p.write("$", v)
		}
		p.write(" in ")
		p.expr(s.List, 0)
		p.write(" ")
		p.block(s.Body)
	case *WhileStatement:
		p.write("@while ")
		p.expr(s.Cond, 0)
		p.write(" ")
		p.block(s.Body)
	case *ExpressionStatement:
		p.expr(s.Expr, 0)
		p.write(";")
	case *NamespaceStatement:
		p.write("@namespace ", s.Name, " ")
		p.block(s.Body)
	}
}

func (p *Printer) params(params []Param) {
	p.write("(")
	for i, prm := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write("$", prm.Name)
		if prm.Default != nil {
			p.write(": ")
			p.expr(prm.Default, 0)
		}
		if prm.Variadic {
			p.write("...")
		}
	}
	p.write(")")
}

func (p *Printer) args(args []Arg) {
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		if a.Name != "" {
			p.write("$", a.Name, ": ")
		}
		p.expr(a.Value, precSpace+1)
		if a.Spread {
			p.write("...")
		}
	}
	p.write(")")
}

// Binding strength of each expression level, loosest first.
const (
	precComma = iota + 1
	precSpace
	precOr
	precAnd
	precEquality
	precComparison
	precAdditive
	precMultiplicative
	precUnary
)

func precedence(op Operator) int {
	switch op {
	case OpOr:
		return precOr
	case OpAnd:
		return precAnd
	case OpEq, OpNe:
		return precEquality
	case OpLt, OpLe, OpGt, OpGe:
		return precComparison
	case OpAdd, OpSub:
		return precAdditive
	}
	return precMultiplicative
}

// expr prints e, parenthesized when it binds looser than the context requires.
func (p *Printer) expr(e Expression, min int) {
	switch e := e.(type) {
	case nil:
	case *BinaryExpr:
		prec := precedence(e.Op)
		if prec < min {
			p.write("(")
		}
		p.expr(e.Left, prec)
		p.write(" ", e.Op.String(), " ")
		p.expr(e.Right, prec+1)
		if prec < min {
			p.write(")")
		}
	case *UnaryExpr:
		p.write(e.Op.String())
		p.expr(e.Operand, precUnary)
	case *CallExpr:
		p.write(e.Name)
		p.args(e.Args)
	case *ListLiteral:
		prec, sep := precSpace, " "
		if e.Comma {
			prec, sep = precComma, ", "
		}
		if prec < min || len(e.Items) == 0 {
			p.write("(")
		}
		for i, it := range e.Items {
			if i > 0 {
				p.write(sep)
			}
			p.expr(it, prec+1)
		}
		if prec < min || len(e.Items) == 0 {
			p.write(")")
		}
	case *NumberLiteral:
		p.write(e.Primitive().String())
	case *ColorLiteral:
		p.write(e.Color.String())
	case *StringLiteral:
		p.write(value.String{Text: e.Text, Quoted: true}.String())
	case *KeywordLiteral:
		p.write(e.Word)
	case *VariableExpr:
		p.write("$", e.Name)
	case *NamespaceExpr:
		p.write(e.Namespace, ".")
		p.expr(e.Target, precUnary)
	case *Identifier:
		p.write(e.Name)
	case *ErroneousExpr:
		p.write("<error>")
	}
}

func (p *Printer) selectors(l *SelectorListStatement) {
	if l == nil {
		return
	}
	for i, c := range l.Chains {
		if i > 0 {
			p.write(", ")
		}
		p.chain(c)
	}
}

func (p *Printer) chain(c *SelectorChain) {
	for i, n := range c.Nodes {
		if i == 0 {
			if n.Combinator != Descendant {
				p.write(strings.TrimLeft(n.Combinator.String(), " "))
			}
		} else {
			p.write(n.Combinator.String())
		}
		p.compound(n)
	}
}

func (p *Printer) compound(n *SelectorNodeStatement) {
	for _, e := range n.Exprs {
		p.simple(e)
	}
}

func (p *Printer) simple(e SelectorExpression) {
	switch e := e.(type) {
	case *MatchAll:
		p.write("*")
	case *TagName:
		p.write(e.Name)
	case *ClassName:
		p.write(".", e.Name)
	case *ID:
		p.write("#", e.Name)
	case *Attribute:
		p.write("[", e.Name)
		if e.Op != AttrHas {
			p.write(e.Op.String(), strconv.Quote(e.Value))
			if e.IgnoreCase {
				p.write(" i")
			}
		}
		p.write("]")
	case *PseudoClass:
		p.write(":", e.Name)
	case *PseudoFunction:
		p.write(":", e.Name, "(")
		if e.Nth != nil {
			p.write(e.Nth.String())
			if e.Selectors != nil {
				p.write(" of ")
			}
		}
		p.selectors(e.Selectors)
		p.write(")")
	case *PseudoElement:
		p.write("::", e.Name)
	case *Nested:
		p.write("&")
	}
}
