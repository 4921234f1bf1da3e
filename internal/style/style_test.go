package style_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-engine/internal/interp"
	"style-engine/internal/property"
	"style-engine/internal/selector"
	"style-engine/internal/style"
	"style-engine/internal/value"
)

type node struct {
	tag      string
	id       string
	classes  []string
	style    string
	parent   *node
	children []*node
}

func el(tag, attrs string, children ...*node) *node {
	n := &node{tag: tag}
	for _, part := range strings.Fields(attrs) {
		switch {
		case strings.HasPrefix(part, "#"):
			n.id = part[1:]
		case strings.HasPrefix(part, "."):
			n.classes = append(n.classes, part[1:])
		case strings.HasPrefix(part, "style="):
			n.style = strings.ReplaceAll(part[len("style="):], "_", " ")
		}
	}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *node) TagName() string     { return n.tag }
func (n *node) ID() string          { return n.id }
func (n *node) InlineStyle() string { return n.style }

func (n *node) HasClass(name string) bool {
	for _, c := range n.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (n *node) Attribute(name string) (string, bool) {
	switch name {
	case "id":
		return n.id, n.id != ""
	case "class":
		return strings.Join(n.classes, " "), len(n.classes) > 0
	}
	return "", false
}

func (n *node) Parent() selector.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) sibling(delta int) selector.Node {
	if n.parent == nil {
		return nil
	}
	for i, c := range n.parent.children {
		if c == n {
			if j := i + delta; j >= 0 && j < len(n.parent.children) {
				return n.parent.children[j]
			}
			return nil
		}
	}
	return nil
}

func (n *node) PreviousSibling() selector.Node { return n.sibling(-1) }
func (n *node) NextSibling() selector.Node     { return n.sibling(1) }

func (n *node) FirstChild() selector.Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func sheet(t *testing.T, src string) *style.Stylesheet {
	t.Helper()
	s, errs := interp.New(interp.Options{}).Compile("test", src)
	require.False(t, errs.HasErrors(), errs.Err())
	return s
}

func inline(name, src string) *property.PropertySet {
	set, _ := interp.New(interp.Options{}).InlineSource(name, src)
	return set
}

func computed(t *testing.T, src string, target *node, root *node) *style.ComputedStyleSet {
	t.Helper()
	e := style.NewEngine(style.Options{Inline: inline})
	e.AddStylesheet(sheet(t, src))
	e.Restyle(root)
	c := e.Computed(target)
	require.NotNil(t, c)
	return c
}

var (
	red   = value.Color(0xffff0000)
	blue  = value.Color(0xff0000ff)
	green = value.Color(0xff008000)
)

func TestIDBeatsClass(t *testing.T) {
	for _, src := range []string{
		"#x { color: blue; } .a { color: red; }",
		".a { color: red; } #x { color: blue; }",
	} {
		n := el("p", "#x .a")
		assert.Equal(t, blue, style.Get(computed(t, src, n, n), property.Color), src)
	}

	n := el("p", "#x .a")
	c := computed(t, "#x { color: blue; } .a { color: red !important; }", n, n)
	assert.Equal(t, red, style.Get(c, property.Color))
}

func TestSourceOrderBreaksTies(t *testing.T) {
	n := el("p", ".a .b")
	c := computed(t, ".a.b { color: red; } .a { color: blue; } .b { width: 1px; } .a { width: 2px; }", n, n)
	assert.Equal(t, red, style.Get(c, property.Color))
	assert.Equal(t, value.Pixels(2), style.Get(c, property.Width))
}

func TestInlineStyleLayers(t *testing.T) {
	src := "#x { color: red; width: 5px !important; }"
	n := el("p", "#x style=color:_blue;_width:_1px")
	c := computed(t, src, n, n)
	assert.Equal(t, blue, style.Get(c, property.Color), "inline beats normal rules")
	assert.Equal(t, value.Pixels(5), style.Get(c, property.Width), "important rules beat inline")

	// Important inline values can only come from code.
	set := property.NewSet()
	_, _ = set.Declare("width", value.Pixels(2), true)
	r := &style.Resolver{Sheets: []*style.Stylesheet{sheet(t, src)}}
	out := r.Cascade(n, set)
	v, _ := out.Get(property.Width)
	assert.Equal(t, value.Pixels(2), v.Resolved)
}

func TestInheritance(t *testing.T) {
	child := el("span", ".child")
	other := el("span", ".other")
	root := el("div", ".root", child, other)
	src := `
.root { color: red; width: 10px; font-size: 20px; }
.child { width: inherit; font-size: initial; }
.other { color: unset; width: unset; }
`
	e := style.NewEngine(style.Options{})
	e.AddStylesheet(sheet(t, src))
	e.Restyle(root)

	c := e.Computed(child)
	assert.Equal(t, red, style.Get(c, property.Color), "color inherits")
	assert.Equal(t, value.Pixels(10), style.Get(c, property.Width))
	assert.Equal(t, property.FontSize.Default(), style.Get(c, property.FontSize))

	o := e.Computed(other)
	assert.Equal(t, red, style.Get(o, property.Color), "unset inherits inherited properties")
	assert.Equal(t, value.AutoSize, style.Get(o, property.Width), "unset resets the others")
}

func TestApplyDirtyBits(t *testing.T) {
	set := property.NewSet()
	_, err := set.Declare("color", value.Keyword("red"), false)
	require.NoError(t, err)
	_, err = set.Declare("width", value.Pixels(10), false)
	require.NoError(t, err)

	c := style.NewComputed()
	assert.Equal(t, property.DirtyLayout|property.DirtyVisual, c.Apply(set, nil))
	assert.Equal(t, property.Dirty(0), c.Apply(set, nil), "applying the same set again changes nothing")

	before := c.Clone()
	_, _ = set.Declare("color", value.Keyword("green"), false)
	assert.Equal(t, property.DirtyVisual, c.Apply(set, nil), "a color change does not need layout")
	assert.Equal(t, green, style.Get(c, property.Color))
	assert.Equal(t, red, style.Get(before, property.Color), "clones are independent")
	assert.Equal(t, "color: #ff0000; width: 10px;", before.String())
}

func TestComputedNeverHoldsMarkers(t *testing.T) {
	n := el("p", ".a")
	c := computed(t, ".a { width: auto; height: inherit; align-self: auto; z-index: auto; }", n, n)
	for _, d := range property.All() {
		_, isValue := c.Value(d).(property.Value)
		assert.False(t, isValue, d.Name())
		assert.NotNil(t, c.Value(d), d.Name())
	}
	assert.Equal(t, value.AutoSize, style.Get(c, property.Width))
	assert.Equal(t, property.AlignAuto, style.Get(c, property.AlignSelf))
}

func TestMatchesOrder(t *testing.T) {
	n := el("p", "#x .a")
	r := &style.Resolver{Sheets: []*style.Stylesheet{
		sheet(t, "#x { color: red; } p { color: blue; }"),
		sheet(t, ".a { color: green; } p { width: 1px; }"),
	}}
	var got []string
	for _, rule := range r.Matches(n) {
		got = append(got, rule.Selector.String())
	}
	assert.Equal(t, []string{"p", "p", ".a", "#x"}, got)
	assert.Equal(t, 1, r.Matches(n)[1].Properties.Len())
	v, ok := r.Matches(n)[1].Properties.Get(property.Width)
	require.True(t, ok, "the later sheet wins ties")
	assert.Equal(t, value.Pixels(1), v.Resolved)
}

func TestEngineRestyle(t *testing.T) {
	item := el("li", ".item")
	last := el("li", ".item")
	root := el("ul", ".list", item, last)

	e := style.NewEngine(style.Options{})
	e.AddStylesheet(sheet(t, `
.list { color: black; }
.list.dark { color: white; }
.item { width: 10px; }
.item.wide { width: 20px; }
.item.red { background-color: red; }
`))

	first := e.Restyle(root)
	assert.Len(t, first, 3)
	for _, d := range first {
		assert.Equal(t, property.DirtyLayout|property.DirtyVisual|property.DirtyContent, d)
	}
	assert.Empty(t, e.Restyle(root), "nothing changed")

	item.classes = append(item.classes, "red")
	e.Invalidate(item, false)
	changed := e.Restyle(root)
	assert.Equal(t, map[style.Element]property.Dirty{item: property.DirtyVisual}, changed)

	item.classes = append(item.classes, "wide")
	e.Invalidate(item, false)
	assert.Equal(t, property.DirtyLayout, e.Restyle(root)[item])

	root.classes = append(root.classes, "dark")
	e.Invalidate(root, false)
	changed = e.Restyle(root)
	assert.Len(t, changed, 3, "an inherited change restyles the children")
	for _, d := range changed {
		assert.Equal(t, property.DirtyVisual, d)
	}

	root.children = root.children[:1]
	e.Restyle(root)
	assert.Nil(t, e.Computed(last), "removed elements are forgotten")
}

func TestEngineInlineChange(t *testing.T) {
	n := el("p", "")
	e := style.NewEngine(style.Options{Inline: inline})
	e.Restyle(n)

	n.style = "width: 3px"
	changed := e.Restyle(n)
	assert.Equal(t, property.DirtyLayout, changed[n])
	assert.Equal(t, value.Pixels(3), style.Get(e.Computed(n), property.Width))
}
