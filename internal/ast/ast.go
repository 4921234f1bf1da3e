// Package ast declares the syntax tree produced by the parser.
//
// Every category of node (statement, expression, selector expression) is a closed set:
// the marker methods are unexported, so only this package can add variants and every
// pass can switch over them exhaustively. Nodes are not modified after parsing.
package ast

import (
	"style-engine/internal/diag"
	"style-engine/internal/value"
)

// Span is the source range of a node.
type Span struct {
	Start diag.Location
	End   diag.Location
}

// Range returns the span itself; embedding Span gives every node a Range method.
func (s Span) Range() Span { return s }

// Node is any syntax tree node.
type Node interface {
	Range() Span
}

// Statement is a node that appears in a block.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that evaluates to a value.
type Expression interface {
	Node
	exprNode()
}

////////////////////////////////////////////////////////////////
// Statements

// SheetStatement is the root of a parsed stylesheet.
type SheetStatement struct {
	Span
	Statements []Statement
}

// Block is a braced statement sequence.
type Block struct {
	Span
	Statements []Statement
}

// RuleStatement is `selectors { body }`.
type RuleStatement struct {
	Span
	Selectors *SelectorListStatement
	Body      *Block
	Invalid   bool
}

// PropertyStatement is a `name: value [!important];` declaration.
type PropertyStatement struct {
	Span
	Name      string
	Value     Expression
	Important bool
	Invalid   bool
}

// VariableDecl is `$name: value [!default] [!global];`.
type VariableDecl struct {
	Span
	Name    string
	Value   Expression
	Default bool
	Global  bool
	Invalid bool
}

// IfStatement is `@if cond { } [@else if cond { }] [@else { }]`. Else is nil, a *Block
// or an *IfStatement.
type IfStatement struct {
	Span
	Cond Expression
	Then *Block
	Else Statement
}

// ControlKind distinguishes the three control flow statements.
type ControlKind int

const (
	Return ControlKind = iota
	Break
	Continue
)

func (k ControlKind) String() string {
	switch k {
	case Break:
		return "@break"
	case Continue:
		return "@continue"
	}
	return "@return"
}

// ControlFlowStatement is @return, @break or @continue.
type ControlFlowStatement struct {
	Span
	Kind    ControlKind
	Value   Expression // @return only
	Invalid bool
}

// Param is a declared function or mixin parameter.
type Param struct {
	Name     string
	Default  Expression
	Variadic bool
}

// Arg is a call argument. Name is set for keyword arguments (`$name: value`); Spread
// marks a trailing `list...`.
type Arg struct {
	Name   string
	Value  Expression
	Spread bool
}

// FunctionStatement is `@function name(params) { body }`.
type FunctionStatement struct {
	Span
	Name   string
	Params []Param
	Body   *Block
}

// MixinStatement is `@mixin name[(params)] { body }`.
type MixinStatement struct {
	Span
	Name   string
	Params []Param
	Body   *Block
}

// IncludeStatement is `@include [ns.]name[(args)];`.
type IncludeStatement struct {
	Span
	Namespace string
	Name      string
	Args      []Arg
	Invalid   bool
}

// ImportStatement is `@import "path";`.
type ImportStatement struct {
	Span
	Path string
}

// AssertStatement is `@assert cond [: message];`.
type AssertStatement struct {
	Span
	Cond    Expression
	Message Expression
}

// LogLevel is the level of a log statement.
type LogLevel int

const (
	LogPrint LogLevel = iota
	LogDebug
	LogWarn
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "@debug"
	case LogWarn:
		return "@warn"
	case LogError:
		return "@error"
	}
	return "@print"
}

// LogStatement is @print, @debug, @warn or @error.
type LogStatement struct {
	Span
	Level LogLevel
	Value Expression
}

// ForStatement is `@for $var from a through|to b { }`. Inclusive is set for through.
type ForStatement struct {
	Span
	Var       string
	From      Expression
	To        Expression
	Inclusive bool
	Body      *Block
}

// EachStatement is `@each $a[, $b...] in list { }`. With more than one variable each item
// is destructured.
type EachStatement struct {
	Span
	Vars []string
	List Expression
	Body *Block
}

// WhileStatement is `@while cond { }`.
type WhileStatement struct {
	Span
	Cond Expression
	Body *Block
}

// ExpressionStatement is a bare expression used for its effect, such as a call to
// set-property.
type ExpressionStatement struct {
	Span
	Expr Expression
}

// InlineStyleStatement is the declaration list of an element's style attribute.
type InlineStyleStatement struct {
	Span
	Statements []Statement
}

// NamespaceStatement is `@namespace name { }`. Declarations in the body are reachable as
// name.$var, name.fn() and @include name.mixin.
type NamespaceStatement struct {
	Span
	Name string
	Body *Block
}

func (*SheetStatement) stmtNode()       {}
func (*Block) stmtNode()                {}
func (*RuleStatement) stmtNode()        {}
func (*PropertyStatement) stmtNode()    {}
func (*VariableDecl) stmtNode()         {}
func (*IfStatement) stmtNode()          {}
func (*ControlFlowStatement) stmtNode() {}
func (*FunctionStatement) stmtNode()    {}
func (*MixinStatement) stmtNode()       {}
func (*IncludeStatement) stmtNode()     {}
func (*ImportStatement) stmtNode()      {}
func (*AssertStatement) stmtNode()      {}
func (*LogStatement) stmtNode()         {}
func (*ForStatement) stmtNode()         {}
func (*EachStatement) stmtNode()        {}
func (*WhileStatement) stmtNode()       {}
func (*ExpressionStatement) stmtNode()  {}
func (*InlineStyleStatement) stmtNode() {}
func (*NamespaceStatement) stmtNode()   {}

////////////////////////////////////////////////////////////////
// Expressions

// Operator is a unary or binary operator.
type Operator int

const (
	OpOr Operator = iota
	OpAnd
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNot
	OpNeg
	OpPos
)

var operatorText = [...]string{
	OpOr: "or", OpAnd: "and", OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">",
	OpGe: ">=", OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpNot: "not ",
	OpNeg: "-", OpPos: "+",
}

func (op Operator) String() string {
	if int(op) < len(operatorText) {
		return operatorText[op]
	}
	return "?"
}

// BinaryExpr is `Left Op Right`.
type BinaryExpr struct {
	Span
	Op    Operator
	Left  Expression
	Right Expression
}

// UnaryExpr is `Op Operand`.
type UnaryExpr struct {
	Span
	Op      Operator
	Operand Expression
}

// CallExpr is `name(args)`.
type CallExpr struct {
	Span
	Name string
	Args []Arg
}

// ListLiteral is a space or comma separated list.
type ListLiteral struct {
	Span
	Items []Expression
	Comma bool
}

// NumberLiteral is a number with an optional unit.
type NumberLiteral struct {
	Span
	Value float64
	Unit  value.Unit
}

// Primitive returns the literal as a runtime value.
func (n *NumberLiteral) Primitive() value.Primitive {
	return value.Primitive{Value: n.Value, Unit: n.Unit}
}

// ColorLiteral is a hex color.
type ColorLiteral struct {
	Span
	Color value.Color
}

// StringLiteral is a quoted string.
type StringLiteral struct {
	Span
	Text string
}

// KeywordLiteral is one of the reserved words true, false, null, auto, inherit,
// initial and unset.
type KeywordLiteral struct {
	Span
	Word string
}

// VariableExpr is `$name`.
type VariableExpr struct {
	Span
	Name string
}

// NamespaceExpr is `ns.$var` or `ns.fn(args)`. Target is a *VariableExpr or *CallExpr.
type NamespaceExpr struct {
	Span
	Namespace string
	Target    Expression
}

// Identifier is any other bare word, such as row or red.
type Identifier struct {
	Span
	Name string
}

// ErroneousExpr stands in for an expression that failed to parse.
type ErroneousExpr struct {
	Span
}

func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*CallExpr) exprNode()       {}
func (*ListLiteral) exprNode()    {}
func (*NumberLiteral) exprNode()  {}
func (*ColorLiteral) exprNode()   {}
func (*StringLiteral) exprNode()  {}
func (*KeywordLiteral) exprNode() {}
func (*VariableExpr) exprNode()   {}
func (*NamespaceExpr) exprNode()  {}
func (*Identifier) exprNode()     {}
func (*ErroneousExpr) exprNode()  {}

// Reserved reports whether word parses as a KeywordLiteral.
func Reserved(word string) bool {
	switch word {
	case "true", "false", "null", "auto", "inherit", "initial", "unset":
		return true
	}
	return false
}
