package dom_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-engine/internal/dom"
	"style-engine/internal/selector"
)

func TestNavigation(t *testing.T) {
	root := dom.NewElement("ul", "list", "", "")
	a := root.AppendChild(dom.NewElement("li", "item first", "a", "one"))
	b := root.AppendChild(dom.NewElement("li", "item", "b", "two"))

	assert.Nil(t, root.Parent())
	assert.Equal(t, root, a.ParentElement())
	assert.Nil(t, a.PreviousSibling())
	assert.Equal(t, selector.Node(b), a.NextSibling())
	assert.Nil(t, b.NextSibling())
	assert.Equal(t, selector.Node(a), root.FirstChild())
	assert.Nil(t, a.FirstChild())

	assert.True(t, a.HasClass("first"))
	assert.Equal(t, "a", a.ID())
	assert.Equal(t, "li#a.item.first", a.String())

	c := root.InsertBefore(dom.NewElement("li", "", "c", ""), b)
	assert.Equal(t, []*dom.Element{a, c, b}, root.Children())
	root.AppendChild(a)
	assert.Equal(t, []*dom.Element{c, b, a}, root.Children(), "appending moves an attached element")
}

func TestSelectorsMatchElements(t *testing.T) {
	root := dom.NewElement("div", "app", "", "")
	for i := 0; i < 4; i++ {
		root.AppendChild(dom.NewElement("p", "", "", ""))
	}
	root.Children()[1].SetState("hover", true)
	doc := dom.NewDocument(root)

	odd, err := doc.Query(".app > p:nth-child(odd)")
	require.NoError(t, err)
	assert.Equal(t, []*dom.Element{root.Children()[0], root.Children()[2]}, odd)

	hovered, err := doc.Query("p:hover")
	require.NoError(t, err)
	assert.Equal(t, []*dom.Element{root.Children()[1]}, hovered)

	_, err = doc.Query("p[")
	assert.Error(t, err)
}

func TestMutations(t *testing.T) {
	root := dom.NewElement("div", "", "", "")
	child := root.AppendChild(dom.NewElement("span", "", "", ""))
	doc := dom.NewDocument(root)

	var got []string
	stop := doc.Subscribe(func(m dom.Mutation) {
		got = append(got, m.Kind.String()+" "+m.Target.TagName()+" "+m.Name)
	})

	child.AddClass("x")
	child.AddClass("x")
	child.SetAttribute("style", "color: red")
	child.SetState("focus", true)
	child.SetText("hi")
	root.RemoveChild(child)
	child.AddClass("y")
	stop()
	root.AppendChild(dom.NewElement("b", "", "", ""))

	assert.Equal(t, []string{
		"attribute span class",
		"attribute span style",
		"state span focus",
		"text span ",
		"children div ",
	}, got, "detached elements and stopped subscribers are silent")
	assert.Equal(t, "color: red", child.InlineStyle())
	assert.Equal(t, []string{"x", "y"}, child.Classes())

	child.RemoveClass("x")
	assert.Equal(t, []string{"y"}, child.Classes())
	child.RemoveAttribute("class")
	assert.False(t, child.HasClass("y"))
}

func TestParseMarkup(t *testing.T) {
	doc, err := dom.ParseMarkup(strings.NewReader(`<!doctype html>
<html>
<head><title>t</title><style>.a { color: red; }</style></head>
<body>
  <div id="main" class="a b" style="width: 10px">
    Hello
    <span>world</span>
    again
  </div>
  <script>ignored()</script>
  <style>p { width: 1px; }</style>
</body>
</html>`))
	require.NoError(t, err)
	assert.Equal(t, []string{".a { color: red; }", "p { width: 1px; }"}, doc.Styles)

	root := doc.Root()
	assert.Equal(t, "html", root.TagName())
	require.Len(t, root.Children(), 1)
	body := root.Children()[0]
	assert.Equal(t, "body", body.TagName())
	require.Len(t, body.Children(), 1)

	main := doc.ElementByID("main")
	require.NotNil(t, main)
	assert.Equal(t, "Hello again", main.Text())
	assert.Equal(t, "width: 10px", main.InlineStyle())
	assert.True(t, main.HasClass("b"))
	assert.Equal(t, "world", main.Children()[0].Text())
	assert.Equal(t, body, main.ParentElement())
}
