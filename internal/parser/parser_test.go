package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-engine/internal/ast"
	"style-engine/internal/diag"
	"style-engine/internal/value"
)

var ignoreSpans = cmpopts.IgnoreTypes(ast.Span{})

func messages(errs *diag.Errors) []string {
	var out []string
	for _, d := range errs.All() {
		out = append(out, d.Message)
	}
	return out
}

func TestRuleStructure(t *testing.T) {
	sheet, errs := ParseStylesheet("test", `.a > b { margin: 1px 2px; color: #fff }`, nil)
	require.False(t, errs.HasErrors(), messages(errs))

	want := &ast.SheetStatement{Statements: []ast.Statement{
		&ast.RuleStatement{
			Selectors: &ast.SelectorListStatement{Chains: []*ast.SelectorChain{{
				Nodes: []*ast.SelectorNodeStatement{
					{Exprs: []ast.SelectorExpression{&ast.ClassName{Name: "a"}}},
					{Combinator: ast.Parent, Exprs: []ast.SelectorExpression{&ast.TagName{Name: "b"}}},
				},
			}}},
			Body: &ast.Block{Statements: []ast.Statement{
				&ast.PropertyStatement{Name: "margin", Value: &ast.ListLiteral{Items: []ast.Expression{
					&ast.NumberLiteral{Value: 1, Unit: value.Px},
					&ast.NumberLiteral{Value: 2, Unit: value.Px},
				}}},
				&ast.PropertyStatement{Name: "color", Value: &ast.ColorLiteral{Color: 0xffffffff}},
			}},
		},
	}}
	if diff := cmp.Diff(want, sheet, ignoreSpans); diff != "" {
		t.Errorf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestExpressionPrinting(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3 == 7 and not $x", "1 + 2 * 3 == 7 and not $x"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"$a or $b and $c", "$a or $b and $c"},
		{"10px / 2 % 3", "10px / 2 % 3"},
		{"-$x + -5px", "-$x + -5px"},
		{"rgba(#000, 0.5)", "rgba(#000000, 0.5)"},
		{"theme.$primary", "theme.$primary"},
		{"theme.shade(10%)", "theme.shade(10%)"},
		{"AUTO", "auto"},
		{"1px 2px, 3px 4px", "1px 2px, 3px 4px"},
		{"join((1 2), 3)", "join((1 2), 3)"},
		{"()", "()"},
		{`"a b"`, `"a b"`},
		{"$a < $b != $c >= 2", "$a < $b != $c >= 2"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, errs := ParseExpr(tt.src, nil)
			require.False(t, errs.HasErrors(), messages(errs))
			assert.Equal(t, tt.want, ast.Print(e))
		})
	}
}

func TestSpaceListsAndCalls(t *testing.T) {
	e, _ := ParseExpr("foo(1px, 2px) 3px", nil)
	list, ok := e.(*ast.ListLiteral)
	require.True(t, ok)
	require.Len(t, list.Items, 2)
	call, ok := list.Items[0].(*ast.CallExpr)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)

	e, _ = ParseExpr("1px -2px", nil)
	list, ok = e.(*ast.ListLiteral)
	require.True(t, ok, "a separated sign starts a new item")
	assert.Equal(t, -2.0, list.Items[1].(*ast.NumberLiteral).Value)

	for _, src := range []string{"1px - 2px", "1px-2px"} {
		e, _ = ParseExpr(src, nil)
		bin, ok := e.(*ast.BinaryExpr)
		require.True(t, ok, src)
		assert.Equal(t, ast.OpSub, bin.Op, src)
	}

	e, _ = ParseExpr("mix($a, $b, $weight: 25%)", nil)
	call = e.(*ast.CallExpr)
	assert.Equal(t, "weight", call.Args[2].Name)

	e, _ = ParseExpr("max($list...)", nil)
	assert.True(t, e.(*ast.CallExpr).Args[0].Spread)
}

func TestSpaceListInCallArgs(t *testing.T) {
	_, errs := ParseExpr("min(4 2 8)", nil)
	require.True(t, errs.HasErrors())
	assert.Equal(t, `expected ")", found "2"`, errs.All()[0].Message)

	e, errs := ParseExpr("min((4 2 8))", nil)
	require.False(t, errs.HasErrors(), messages(errs))
	list, ok := e.(*ast.CallExpr).Args[0].Value.(*ast.ListLiteral)
	require.True(t, ok, "a parenthesized list is one argument")
	assert.Len(t, list.Items, 3)
}

func TestListEndsAtLineBreak(t *testing.T) {
	sheet, errs := ParseStylesheet("test", ".a {\n  margin: 1px\n    2px;\n}", nil)
	require.True(t, errs.HasErrors())
	assert.Equal(t, 3, errs.All()[0].Location.Line)
	prop := sheet.Statements[0].(*ast.RuleStatement).Body.Statements[0].(*ast.PropertyStatement)
	assert.True(t, prop.Invalid)
}

func TestScopeLegality(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"return outside function", "@return 1;", "@return outside of a function"},
		{"break outside loop", ".a { @break; }", "@break outside of a loop"},
		{"break through rule", "@for $i from 1 through 2 { .a { @continue; } }", "@continue outside of a loop"},
		{"nesting at top level", "&.a { color: red; }", "& is only allowed inside a rule"},
		{"property at top level", "color: red;", `property "color" declared outside of a rule`},
		{"rule in function", "@function f() { .a { } @return 1; }", "style rules are not allowed in a function"},
		{"else without if", "@else { }", "@else without a preceding @if"},
		{"unknown at-rule", "@media screen { .a { } }", "unknown at-rule @media"},
		{"rest not last", "@function f($a..., $b) { @return 1; }", "parameter $b follows a rest parameter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseStylesheet("test", tt.src, nil)
			assert.Contains(t, messages(errs), tt.want)
		})
	}

	_, errs := ParseStylesheet("test", "@function f($n) { @for $i from 1 to $n { @if $i == 2 { @break; } } @return $n; }", nil)
	assert.False(t, errs.HasErrors(), messages(errs))
}

func TestInlineStyle(t *testing.T) {
	inline, errs := ParseInline("style", "color: red; width: 10px !important; .a { }", nil)
	assert.Contains(t, messages(errs), "!important is not allowed in a style attribute")
	assert.Contains(t, messages(errs), "style rules are not allowed in a style attribute")
	require.Len(t, inline.Statements, 3)
	assert.False(t, inline.Statements[0].(*ast.PropertyStatement).Invalid)
	assert.True(t, inline.Statements[1].(*ast.PropertyStatement).Invalid)
	assert.True(t, inline.Statements[2].(*ast.RuleStatement).Invalid)
}

func TestErrorRecovery(t *testing.T) {
	src := ".a { color: red; }\n..b { color: blue; }\n.c { width: 1px; height: ; }\n.d { width: 2px }"
	sheet, errs := ParseStylesheet("test", src, nil)
	require.True(t, errs.HasErrors())
	for _, d := range errs.All() {
		require.NotNil(t, d.Location)
		assert.NotEmpty(t, d.Context)
	}
	assert.Equal(t, 2, errs.All()[0].Location.Line)

	var valid []string
	for _, s := range sheet.Statements {
		if r, ok := s.(*ast.RuleStatement); ok && !r.Invalid {
			valid = append(valid, ast.Print(r.Selectors))
		}
	}
	assert.Equal(t, []string{".a", ".c", ".d"}, valid)
}

func TestNesting(t *testing.T) {
	sheet, errs := ParseStylesheet("test", ".a { &:hover { } .b { } > .c { } & + & { } }", nil)
	require.False(t, errs.HasErrors(), messages(errs))
	body := sheet.Statements[0].(*ast.RuleStatement).Body.Statements
	lead := func(i int) ast.Combinator {
		return body[i].(*ast.RuleStatement).Selectors.Chains[0].Nodes[0].Combinator
	}
	assert.Equal(t, ast.None, lead(0))
	assert.Equal(t, ast.Nest, lead(1))
	assert.Equal(t, ast.Parent, lead(2))
	assert.Equal(t, ast.None, lead(3))
	assert.True(t, body[3].(*ast.RuleStatement).Selectors.Chains[0].HasNested())
}

func TestSelectors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"ul > li:nth-child(2n+1 of .x), a[href^=\"http\" i]::before", `ul > li:nth-child(odd of .x), a[href^="http" i]::before`},
		{"div   p ~ span + em", "div p ~ span + em"},
		{"*:not(.a, #b):FIRST-CHILD", "*:not(.a, #b):first-child"},
		{"li:nth-last-child( -n + 3 )", "li:nth-last-child(-n+3)"},
		{"[data-x] [lang|=en][class~=y][src$='.png'][title*=z]", `[data-x] [lang|="en"][class~="y"][src$=".png"][title*="z"]`},
		{"tr:nth-of-type(even)", "tr:nth-of-type(even)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			sel, errs := ParseSelector(tt.src, nil)
			require.False(t, errs.HasErrors(), messages(errs))
			assert.Equal(t, tt.want, ast.Print(sel))
		})
	}

	_, errs := ParseSelector("a:nth-child(2x)", nil)
	assert.Contains(t, messages(errs), `malformed An+B expression "2x"`)
	_, errs = ParseSelector("a >", nil)
	assert.True(t, errs.HasErrors())
}

func TestParseNth(t *testing.T) {
	tests := []struct {
		in   string
		want ast.Nth
		ok   bool
	}{
		{"odd", ast.Nth{A: 2, B: 1}, true},
		{"EVEN", ast.Nth{A: 2}, true},
		{"2n+1", ast.Nth{A: 2, B: 1}, true},
		{"-n+3", ast.Nth{A: -1, B: 3}, true},
		{"n", ast.Nth{A: 1}, true},
		{"+5", ast.Nth{B: 5}, true},
		{"3n-2", ast.Nth{A: 3, B: -2}, true},
		{"-2n+1", ast.Nth{A: -2, B: 1}, true},
		{"2n1", ast.Nth{}, false},
		{"x", ast.Nth{}, false},
		{"", ast.Nth{}, false},
	}
	for _, tt := range tests {
		got, ok := parseNth(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestControlFlowStatements(t *testing.T) {
	src := `
@namespace theme {
  $primary: #336699 !default;
  @function shade($c, $amount: 10%, $rest...) { @return darken($c, $amount); }
  @mixin card($pad) { padding: $pad; }
}
@each $name, $size in (small 1px), (large 2px) {
  .btn { width: $size; }
}
@while $i > 0 { $i: $i - 1; }
@if $a { } @else if $b { } @else { }
@include theme.card(4px);
@assert 1 + 1 == 2 : "math";
@warn "careful";
`
	sheet, errs := ParseStylesheet("test", src, nil)
	require.False(t, errs.HasErrors(), messages(errs))
	require.Len(t, sheet.Statements, 7)

	ns := sheet.Statements[0].(*ast.NamespaceStatement)
	assert.Equal(t, "theme", ns.Name)
	decl := ns.Body.Statements[0].(*ast.VariableDecl)
	assert.True(t, decl.Default)
	fn := ns.Body.Statements[1].(*ast.FunctionStatement)
	require.Len(t, fn.Params, 3)
	assert.NotNil(t, fn.Params[1].Default)
	assert.True(t, fn.Params[2].Variadic)

	each := sheet.Statements[1].(*ast.EachStatement)
	assert.Equal(t, []string{"name", "size"}, each.Vars)
	assert.True(t, each.List.(*ast.ListLiteral).Comma)

	ifs := sheet.Statements[3].(*ast.IfStatement)
	elif, ok := ifs.Else.(*ast.IfStatement)
	require.True(t, ok)
	assert.IsType(t, &ast.Block{}, elif.Else)

	inc := sheet.Statements[4].(*ast.IncludeStatement)
	assert.Equal(t, "theme", inc.Namespace)
	assert.Equal(t, "card", inc.Name)

	log := sheet.Statements[6].(*ast.LogStatement)
	assert.Equal(t, ast.LogWarn, log.Level)
}

func TestForStatement(t *testing.T) {
	sheet, errs := ParseStylesheet("test", "@for $i from 1 through $n + 1 { .a { width: $i * 10px; } }", nil)
	require.False(t, errs.HasErrors(), messages(errs))
	f := sheet.Statements[0].(*ast.ForStatement)
	assert.Equal(t, "i", f.Var)
	assert.True(t, f.Inclusive)
	assert.Equal(t, "$n + 1", ast.Print(f.To))
}

func TestDepthGuard(t *testing.T) {
	src := strings.Repeat("(", 10) + "1" + strings.Repeat(")", 10)
	errs := diag.NewErrors("test", src, nil)
	p := New(src, errs)
	p.MaxDepth = 5
	p.Expr()
	assert.Contains(t, messages(errs), "nesting exceeds the maximum depth of 5")
}

func TestRoundTrip(t *testing.T) {
	src := ".menu {\n  > li:first-child {\n    margin: 0 auto !important;\n  }\n  @include card(4px);\n}"
	sheet, errs := ParseStylesheet("test", src, nil)
	require.False(t, errs.HasErrors(), messages(errs))
	assert.Equal(t, src, ast.Print(sheet))
}
