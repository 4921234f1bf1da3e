package interp

import (
	"path"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-engine/internal/diag"
	"style-engine/internal/parser"
	"style-engine/internal/property"
	"style-engine/internal/style"
	"style-engine/internal/value"
)

func messages(errs *diag.Errors) []string {
	var out []string
	for _, d := range errs.All() {
		out = append(out, d.Message)
	}
	return out
}

func eval(t *testing.T, src string) (any, *diag.Errors) {
	t.Helper()
	e, errs := parser.ParseExpr(src, nil)
	require.False(t, errs.HasErrors(), messages(errs))
	return New(Options{}).Eval(e, errs), errs
}

func compile(t *testing.T, opts Options, src string) (*style.Stylesheet, *diag.Errors) {
	t.Helper()
	return New(opts).Compile("test", src)
}

// get returns the resolved value of a declaration in the rule with the given selector.
func get(t *testing.T, sheet *style.Stylesheet, sel string, d property.Descriptor) any {
	t.Helper()
	for _, r := range sheet.Rules {
		if r.Selector.String() != sel {
			continue
		}
		v, ok := r.Properties.Get(d)
		require.True(t, ok, "%s has no %s", sel, d.Name())
		return v.Resolved
	}
	require.Failf(t, "no rule", "no rule for %q in\n%s", sel, sheet)
	return nil
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"1cm + 1m", value.Primitive{Value: 101, Unit: value.Cm}},
		{"1turn + 90deg", value.Primitive{Value: 450, Unit: value.Deg}},
		{"10px * 2", value.Pixels(20)},
		{"2 * 10px - 5", value.Pixels(15)},
		{"10px / 4px", value.Number(2.5)},
		{"-3px % 2", value.Pixels(-1)},
		{`"a" + b`, value.String{Text: "ab", Quoted: true}},
		{`"a" - "b"`, value.String{Text: "a-b"}},
		{"1px < 2px", true},
		{"1cm == 10px", false},
		{"1m == 100cm", true},
		{"2 > 1 and 3", value.Number(3)},
		{"null or 4", value.Number(4)},
		{"not null", true},
		{"true", true},
		{"null", nil},
		{"auto", value.Keyword("auto")},
		{"1px 2px, 3px", value.List{Items: []any{value.List{Items: []any{value.Pixels(1), value.Pixels(2)}}, value.Pixels(3)}, Comma: true}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, errs := eval(t, tt.src)
			require.False(t, errs.HasErrors(), messages(errs))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	tests := []struct {
		src  string
		want any
		msg  string
	}{
		{"90deg + 1px", value.Primitive{}, "90deg + 1px: incompatible units: deg and px"},
		{"10px / 0", value.Primitive{}, "10px / 0: division by zero"},
		{"#fff * 2", nil, "operator * is undefined for color and number"},
		{"a < 2", false, "cannot compare keyword and number"},
		{"$missing", nil, "undefined variable $missing"},
		{"nope(1)", nil, `unknown function "nope"`},
		{"theme.$x", nil, `unknown namespace "theme"`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, errs := eval(t, tt.src)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{tt.msg}, messages(errs))
			for _, d := range errs.All() {
				require.NotNil(t, d.Location)
				assert.Equal(t, 1, d.Location.Line)
			}
		})
	}
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"rgb(255, 0, 0)", value.Color(0xffff0000)},
		{"rgb(100%, 0%, 0%, 0)", value.Color(0x00ff0000)},
		{"rgba(#000, 0.5)", value.Color(0x80000000)},
		{"rgba(0, 0, 255, 50%)", value.Color(0x800000ff)},
		{"hsl(120deg, 100%, 50%)", value.Color(0xff00ff00)},
		{"hsla(0, 100, 50, 1)", value.Color(0xffff0000)},
		{"lighten(#000, 100%)", value.Color(0xffffffff)},
		{"darken(#fff, 1)", value.Color(0xff000000)},
		{"fade(#f00, 0%)", value.Color(0x00ff0000)},
		{"mix(#fff, #000)", value.Color(0xff808080)},
		{"mix(#fff, #000, 100%)", value.Color(0xffffffff)},
		{"red(#102030)", value.Number(16)},
		{"green(#102030)", value.Number(32)},
		{"blue(#102030)", value.Number(48)},
		{"alpha(#00000000)", value.Number(0)},
		{"sqrt(16px)", value.Pixels(4)},
		{"pow(2, 10)", value.Number(1024)},
		{"abs(-2cm)", value.Primitive{Value: 2, Unit: value.Cm}},
		{"round(2.5px)", value.Pixels(3)},
		{"floor(2.7)", value.Number(2)},
		{"ceil(2.1)", value.Number(3)},
		{"max(1px, 3px, 2px)", value.Pixels(3)},
		{"min(1m, 50cm)", value.Primitive{Value: 50, Unit: value.Cm}},
		{"max((1 5 2)...)", value.Number(5)},
		{"min((4 2 8))", value.Number(2)},
		{"clamp(0, 5, 3)", value.Number(3)},
		{"clamp(1px, 0px, 3px)", value.Pixels(1)},
		{"percentage(0.5)", value.Primitive{Value: 50, Unit: value.Percent}},
		{"unit(3px)", value.String{Text: "px", Quoted: true}},
		{"unitless(3)", true},
		{"length((a b c))", value.Number(3)},
		{"length(null)", value.Number(0)},
		{"nth((a b c), 2)", value.Keyword("b")},
		{"nth((a b c), -1)", value.Keyword("c")},
		{"join((a b), c)", value.List{Items: []any{value.Keyword("a"), value.Keyword("b"), value.Keyword("c")}}},
		{"join(a, b, comma)", value.List{Items: []any{value.Keyword("a"), value.Keyword("b")}, Comma: true}},
		{"type-of(#fff)", value.String{Text: "color"}},
		{"type-of((1px 2px))", value.String{Text: "list"}},
		{"if(1 > 2, yes, no)", value.Keyword("no")},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, errs := eval(t, tt.src)
			require.False(t, errs.HasErrors(), messages(errs))
			assert.Equal(t, tt.want, got)
		})
	}

	got, _ := eval(t, "sin(90deg)")
	assert.InDelta(t, 1, got.(value.Primitive).Value, 1e-9)
	got, _ = eval(t, "cos(0.5turn)")
	assert.InDelta(t, -1, got.(value.Primitive).Value, 1e-9)
	got, _ = eval(t, "asin(1)")
	assert.Equal(t, value.Deg, got.(value.Primitive).Unit)
	assert.InDelta(t, 90, got.(value.Primitive).Value, 1e-9)
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"rgb(1, 2, 3, 4, 5)", "rgb() takes 3 to 4 arguments, got 5"},
		{"alpha()", "alpha() takes 1 argument, got 0"},
		{"max()", "max() takes at least 1 argument, got 0"},
		{"lighten(red, 10%)", "lighten(): wrong argument type: argument 1 must be a color, got keyword"},
		{"nth((a b), 3)", "nth(): index 3 out of range for a list of 2"},
		{"sqrt(-1)", "sqrt(): square root of negative number -1"},
		{"min(1px, 1deg)", "min(): incompatible units: deg and px"},
		{"sin(1px)", "sin(): wrong argument type: expected an angle, got 1px"},
		{"rgb($r: 1)", "rgb() does not take keyword arguments"},
		{"get-property(width)", "get-property(): no rule to read from"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, errs := eval(t, tt.src)
			assert.Nil(t, got)
			assert.Equal(t, []string{tt.msg}, messages(errs))
		})
	}
}

func TestVariableScoping(t *testing.T) {
	sheet, errs := compile(t, Options{}, `
$w: 10px;
.a { $w: 20px; $h: 5px; width: $w; height: $h; }
.b { width: $w; height: $h; }
`)
	assert.Equal(t, []string{"undefined variable $h"}, messages(errs))
	assert.Equal(t, value.Pixels(20), get(t, sheet, ".a", property.Width))
	assert.Equal(t, value.Pixels(20), get(t, sheet, ".b", property.Width), "assignment rewrites the declaring scope")
	assert.Equal(t, value.Pixels(5), get(t, sheet, ".a", property.Height))
}

func TestDefaultAndGlobalFlags(t *testing.T) {
	sheet, errs := compile(t, Options{Globals: map[string]any{"gap": value.Pixels(3)}}, `
$gap: 8px !default;
$size: 4px !default;
.a { $local: 1px !global; gap: $gap; width: $size; }
.b { width: $local; }
`)
	require.False(t, errs.HasErrors(), messages(errs))
	assert.Equal(t, value.Pixels(3), get(t, sheet, ".a", property.Gap))
	assert.Equal(t, value.Pixels(4), get(t, sheet, ".a", property.Width))
	assert.Equal(t, value.Pixels(1), get(t, sheet, ".b", property.Width))
}

func TestMixinLexicalScope(t *testing.T) {
	sheet, errs := compile(t, Options{}, `
@namespace theme {
  $pad: 4px;
  @mixin box { padding: $pad; }
}
@mixin pair($a, $b: $a * 2) { margin: $a $b; }
.a { $pad: 8px; @include theme.box; }
.b { @include pair(1px); }
.c { @include pair($b: 3px, $a: 2px); }
`)
	require.False(t, errs.HasErrors(), messages(errs))
	assert.Equal(t, value.Pixels(4), get(t, sheet, ".a", property.PaddingTop))

	assert.Equal(t, value.Pixels(1), get(t, sheet, ".b", property.MarginTop))
	assert.Equal(t, value.Pixels(2), get(t, sheet, ".b", property.MarginRight))
	assert.Equal(t, value.Pixels(2), get(t, sheet, ".c", property.MarginTop))
	assert.Equal(t, value.Pixels(3), get(t, sheet, ".c", property.MarginLeft))
}

func TestMixinErrors(t *testing.T) {
	_, errs := compile(t, Options{}, `
@mixin m($a) { width: $a; }
.a { @include m(); }
.b { @include m(1px, 2px); }
.c { @include m($z: 1px, $a: 1px); }
.d { @include nope; }
.e { @include theme.m; }
`)
	assert.Equal(t, []string{
		"missing argument $a",
		"expected at most 1 arguments, got 2",
		"unknown argument $z",
		`unknown mixin "nope"`,
		`unknown namespace "theme"`,
	}, messages(errs))
}

func TestFunctions(t *testing.T) {
	sheet, errs := compile(t, Options{}, `
@function sum($first, $rest...) {
  $t: $first;
  @each $n in $rest { $t: $t + $n; }
  @return $t;
}
@namespace grid {
  $unit: 8px;
  @function span($n: 1) { @return $n * $unit; }
}
.a { width: sum(1px, 2px, 3px); height: sum($first: 5px); gap: grid.span(2); }
.b { width: grid.span(); }
`)
	require.False(t, errs.HasErrors(), messages(errs))
	assert.Equal(t, value.Pixels(6), get(t, sheet, ".a", property.Width))
	assert.Equal(t, value.Pixels(5), get(t, sheet, ".a", property.Height))
	assert.Equal(t, value.Pixels(16), get(t, sheet, ".a", property.Gap))
	assert.Equal(t, value.Pixels(8), get(t, sheet, ".b", property.Width))
}

func TestFunctionErrors(t *testing.T) {
	_, errs := compile(t, Options{MaxDepth: 16}, `
@function none() { $x: 1; }
@function loop($n) { @return loop($n + 1); }
.a { width: none(); height: loop(1); }
`)
	assert.Equal(t, []string{
		`function "none" ended without @return`,
		"maximum nesting depth of 16 exceeded",
	}, messages(errs))
}

func TestLoops(t *testing.T) {
	sheet, errs := compile(t, Options{}, `
$n: 0;
@while $n < 3 { $n: $n + 1; }
.a {
  $w: 0px;
  @for $i from 1 through 5 {
    @if $i == 4 { @break; }
    @if $i == 2 { @continue; }
    $w: $w + $i * 1px;
  }
  width: $w;
  height: $n * 1px;
}
.b {
  $count: 0;
  @for $i from 3 to 1 { $count: $count + 1; }
  $total: 0px;
  @each $name, $size in (small 1px), (large 2px) { $total: $total + $size; }
  width: $count * 1px;
  height: $total;
}
`)
	require.False(t, errs.HasErrors(), messages(errs))
	assert.Equal(t, value.Pixels(4), get(t, sheet, ".a", property.Width))
	assert.Equal(t, value.Pixels(3), get(t, sheet, ".a", property.Height))
	assert.Equal(t, value.Pixels(2), get(t, sheet, ".b", property.Width))
	assert.Equal(t, value.Pixels(3), get(t, sheet, ".b", property.Height))
}

func TestWhileGuard(t *testing.T) {
	_, errs := compile(t, Options{MaxIterations: 10}, "@while true { }")
	assert.Equal(t, []string{"@while exceeded 10 iterations"}, messages(errs))
}

func TestForGuard(t *testing.T) {
	_, errs := compile(t, Options{MaxIterations: 10}, "@for $i from 1 through 1000000000000 { }")
	assert.Equal(t, []string{"@for exceeded 10 iterations"}, messages(errs))

	sheet, errs := compile(t, Options{MaxIterations: 10}, `
$n: 0;
@for $i from 10 to 0 { $n: $n + 1; }
.a { width: $n * 1px; }
`)
	require.False(t, errs.HasErrors(), messages(errs))
	assert.Equal(t, value.Pixels(10), get(t, sheet, ".a", property.Width))
}

func TestNestedRules(t *testing.T) {
	sheet, errs := compile(t, Options{}, `
.card {
  color: red;
  .btn { width: 1px; }
  &:hover, &.active { height: 2px; }
  .empty { }
  > span { width: 3px; }
}
`)
	require.False(t, errs.HasErrors(), messages(errs))
	var sels []string
	for _, r := range sheet.Rules {
		sels = append(sels, r.Selector.String())
	}
	assert.Equal(t, []string{".card", ".card .btn", ".card:hover, .card.active", ".card > span"}, sels)
	for i := 1; i < len(sheet.Rules); i++ {
		assert.Less(t, sheet.Rules[i-1].Order, sheet.Rules[i].Order)
	}
	assert.Equal(t, 2, sheet.Rules[1].Spec.Classes)
}

func TestPropertyDiagnostics(t *testing.T) {
	sheet, errs := compile(t, Options{}, ".a { colour: red; width: red; height: 1px; }")
	require.Len(t, errs.All(), 2)
	assert.Equal(t, diag.Warn, errs.All()[0].Severity)
	assert.Contains(t, errs.All()[0].Message, `unknown property "colour"`)
	assert.Equal(t, diag.Error, errs.All()[1].Severity)

	require.Len(t, sheet.Rules, 1)
	v, ok := sheet.Rules[0].Properties.Get(property.Width)
	require.True(t, ok)
	assert.Equal(t, property.Initial, v.Kind, "an invalid value falls back to the default")
}

func TestGetAndSetProperty(t *testing.T) {
	sheet, errs := compile(t, Options{}, `
.a {
  width: 10px;
  height: get-property(width) * 2;
  set-property(color, blue);
  set-property(margin, (1px 2px), true);
  display: flex;
  z-index: if(get-property(display) == flex, 1, 2);
}
`)
	require.False(t, errs.HasErrors(), messages(errs))
	assert.Equal(t, value.Pixels(20), get(t, sheet, ".a", property.Height))
	assert.Equal(t, value.Color(0xff0000ff), get(t, sheet, ".a", property.Color))
	assert.Equal(t, value.Pixels(2), get(t, sheet, ".a", property.MarginLeft))
	assert.Equal(t, 1, get(t, sheet, ".a", property.ZIndex))

	v, _ := sheet.Rules[0].Properties.Get(property.MarginTop)
	assert.True(t, v.Important)
}

func TestLogAndAssert(t *testing.T) {
	var got []diag.Diagnostic
	l := diag.ListenerFunc(func(d diag.Diagnostic) { got = append(got, d) })
	_, errs := compile(t, Options{Listener: l}, `
@print "hello";
@warn "careful " + 1px;
@error "broken";
@assert 1 + 1 == 3;
@assert false : "custom";
`)
	require.Len(t, got, 5)
	assert.Equal(t, diag.Info, got[0].Severity)
	assert.Equal(t, "hello", got[0].Message)
	assert.Equal(t, diag.Warn, got[1].Severity)
	assert.Equal(t, "careful 1px", got[1].Message)
	assert.Equal(t, diag.Error, got[2].Severity)
	assert.Equal(t, "assertion failed: 1 + 1 == 3", got[3].Message)
	assert.Equal(t, "assertion failed: custom", got[4].Message)
	assert.Equal(t, 3, errs.Count(diag.Error))
}

func TestParseErrorTolerance(t *testing.T) {
	sheet, errs := compile(t, Options{}, ".a { color: red; }\n..b { color: blue; }\n.c { width: 1px; }")
	require.True(t, errs.HasErrors())
	assert.Equal(t, 2, errs.All()[0].Location.Line)

	var sels []string
	for _, r := range sheet.Rules {
		sels = append(sels, r.Selector.String())
	}
	assert.Equal(t, []string{".a", ".c"}, sels)
}

func TestInline(t *testing.T) {
	in := New(Options{})
	_, errs := in.Compile("sheet", "$w: 5px;")
	require.False(t, errs.HasErrors())

	set, errs := in.InlineSource("style", "color: red; width: 1px + 2px; height: $w")
	assert.Equal(t, []string{"undefined variable $w"}, messages(errs))
	assert.Equal(t, 2, set.Len())
	v, _ := set.Get(property.Width)
	assert.Equal(t, value.Pixels(3), v.Resolved)
}

func newFS(t *testing.T, files map[string]string) hackpadfs.FS {
	t.Helper()
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	for name, src := range files {
		if dir := path.Dir(name); dir != "." {
			require.NoError(t, hackpadfs.MkdirAll(fsys, dir, 0o755))
		}
		require.NoError(t, hackpadfs.WriteFullFile(fsys, name, []byte(src), 0o644))
	}
	return fsys
}

func TestFSImport(t *testing.T) {
	fsys := newFS(t, map[string]string{
		"styles/main.scss":       `@import "parts/vars"; @import "/base.css"; .a { color: $primary; width: $base; }`,
		"styles/parts/vars.scss": `$primary: #ff0000;`,
		"base.css":               `$base: 3px; .base { height: 1px; }`,
	})
	imp := &FSImporter{FS: fsys}
	src, err := hackpadfs.ReadFile(fsys, "styles/main.scss")
	require.NoError(t, err)

	sheet, errs := New(Options{Importer: imp}).Compile("styles/main.scss", string(src))
	require.False(t, errs.HasErrors(), messages(errs))
	assert.Equal(t, value.Color(0xffff0000), get(t, sheet, ".a", property.Color))
	assert.Equal(t, value.Pixels(3), get(t, sheet, ".a", property.Width))
	assert.Equal(t, value.Pixels(1), get(t, sheet, ".base", property.Height))

	_, _, err = imp.Import("styles/main.scss", "missing")
	assert.ErrorIs(t, err, hackpadfs.ErrNotExist)
}

func TestImportCycle(t *testing.T) {
	var got []string
	l := diag.ListenerFunc(func(d diag.Diagnostic) { got = append(got, d.Message) })
	imp := MapImporter{
		"a": `@import "b";`,
		"b": `@import "a"; .b { width: 1px; }`,
	}
	sheet, _ := New(Options{Importer: imp, Listener: l}).Compile("a", `@import "b";`)
	assert.Contains(t, got, "import cycle: a -> b -> a")
	assert.Contains(t, got, `imported sheet "b" has 1 error(s)`)
	assert.Len(t, sheet.Rules, 1)

	_, errs := New(Options{}).Compile("x", `@import "b";`)
	assert.Equal(t, []string{`cannot import "b": no importer configured`}, messages(errs))
}
