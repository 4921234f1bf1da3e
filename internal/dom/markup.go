package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseMarkup reads an HTML document. The html element becomes the root; head, script
// and comments are dropped. The text of style elements is kept in Document.Styles.
// The text directly inside an element, whitespace collapsed, becomes its text.
func ParseMarkup(r io.Reader) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	d := &Document{subs: map[int]func(Mutation){}}
	var root *Element
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			root = d.convert(c)
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("parse markup: no root element")
	}
	d.SetRoot(root)
	return d, nil
}

func (d *Document) convert(n *html.Node) *Element {
	e := &Element{tag: strings.ToLower(n.Data)}
	for _, a := range n.Attr {
		e.setAttr(a.Key, a.Val)
	}
	var text []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text = append(text, strings.Fields(c.Data)...)
		case html.ElementNode:
			switch c.DataAtom {
			case atom.Style:
				d.Styles = append(d.Styles, textOf(c))
			case atom.Head:
				d.collectStyles(c)
			case atom.Script, atom.Template:
			default:
				child := d.convert(c)
				child.parent = e
				e.children = append(e.children, child)
			}
		}
	}
	e.text = strings.Join(text, " ")
	return e
}

func (d *Document) collectStyles(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Style {
			d.Styles = append(d.Styles, textOf(c))
		}
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
