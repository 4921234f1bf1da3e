// Package dom is a small element tree for styling: elements with a tag, attributes,
// classes, text and dynamic state, grouped in a Document that reports every mutation
// to its subscribers.
package dom

import (
	"slices"
	"strings"

	"style-engine/internal/selector"
)

// Attr is one attribute of an element.
type Attr struct {
	Name, Value string
}

// Element is a single node of the tree: a panel, a label, etc. It has optional class
// and id attributes for selector matching and optional text.
type Element struct {
	tag      string
	attrs    []Attr
	classes  []string
	text     string
	states   map[string]bool
	parent   *Element
	children []*Element
	doc      *Document
}

// NewElement creates an element with a tag and optional class list, id and text.
func NewElement(tag, class, id, text string) *Element {
	e := &Element{tag: strings.ToLower(tag), text: text}
	if class != "" {
		e.setAttr("class", class)
	}
	if id != "" {
		e.setAttr("id", id)
	}
	return e
}

func (e *Element) TagName() string { return e.tag }

func (e *Element) ID() string {
	id, _ := e.Attribute("id")
	return id
}

func (e *Element) HasClass(name string) bool { return slices.Contains(e.classes, name) }

// Classes returns the class list.
func (e *Element) Classes() []string { return e.classes }

func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attributes returns the attributes in the order they were set.
func (e *Element) Attributes() []Attr { return e.attrs }

// InlineStyle returns the style attribute.
func (e *Element) InlineStyle() string {
	s, _ := e.Attribute("style")
	return s
}

// Text returns the text of the element itself, not of its children.
func (e *Element) Text() string { return e.text }

func (e *Element) HasState(name string) bool { return e.states[name] }

func (e *Element) Parent() selector.Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// ParentElement returns the parent, or nil for a root.
func (e *Element) ParentElement() *Element { return e.parent }

func (e *Element) sibling(delta int) selector.Node {
	if e.parent == nil {
		return nil
	}
	i := e.parent.indexOf(e) + delta
	if i < 0 || i >= len(e.parent.children) {
		return nil
	}
	return e.parent.children[i]
}

func (e *Element) PreviousSibling() selector.Node { return e.sibling(-1) }
func (e *Element) NextSibling() selector.Node     { return e.sibling(1) }

func (e *Element) FirstChild() selector.Node {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// Children returns the child elements.
func (e *Element) Children() []*Element { return e.children }

func (e *Element) indexOf(c *Element) int { return slices.Index(e.children, c) }

func (e *Element) setAttr(name, value string) {
	switch name {
	case "class":
		e.classes = strings.Fields(value)
	}
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

// SetAttribute sets an attribute. Setting "class" replaces the class list.
func (e *Element) SetAttribute(name, value string) {
	if old, ok := e.Attribute(name); ok && old == value {
		return
	}
	e.setAttr(name, value)
	e.notify(Mutation{Kind: AttributeChanged, Target: e, Name: name})
}

// RemoveAttribute deletes an attribute if present.
func (e *Element) RemoveAttribute(name string) {
	i := slices.IndexFunc(e.attrs, func(a Attr) bool { return a.Name == name })
	if i < 0 {
		return
	}
	e.attrs = slices.Delete(e.attrs, i, i+1)
	if name == "class" {
		e.classes = nil
	}
	e.notify(Mutation{Kind: AttributeChanged, Target: e, Name: name})
}

// AddClass adds name to the class list.
func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.SetAttribute("class", strings.Join(append(slices.Clone(e.classes), name), " "))
}

// RemoveClass removes name from the class list.
func (e *Element) RemoveClass(name string) {
	if !e.HasClass(name) {
		return
	}
	rest := slices.DeleteFunc(slices.Clone(e.classes), func(c string) bool { return c == name })
	e.SetAttribute("class", strings.Join(rest, " "))
}

// SetState turns a dynamic state such as hover or focus on or off.
func (e *Element) SetState(name string, on bool) {
	if e.states[name] == on {
		return
	}
	if e.states == nil {
		e.states = map[string]bool{}
	}
	if on {
		e.states[name] = true
	} else {
		delete(e.states, name)
	}
	e.notify(Mutation{Kind: StateChanged, Target: e, Name: name})
}

// SetText replaces the text of the element.
func (e *Element) SetText(text string) {
	if e.text == text {
		return
	}
	e.text = text
	e.notify(Mutation{Kind: TextChanged, Target: e})
}

// AppendChild adds c as the last child, detaching it from its old parent first.
func (e *Element) AppendChild(c *Element) *Element {
	return e.InsertBefore(c, nil)
}

// InsertBefore adds c before ref, or last when ref is nil or not a child of e.
func (e *Element) InsertBefore(c, ref *Element) *Element {
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	i := e.indexOf(ref)
	if ref == nil || i < 0 {
		i = len(e.children)
	}
	e.children = slices.Insert(e.children, i, c)
	c.parent = e
	c.attach(e.doc)
	e.notify(Mutation{Kind: ChildrenChanged, Target: e})
	return c
}

// RemoveChild detaches c from e.
func (e *Element) RemoveChild(c *Element) {
	i := e.indexOf(c)
	if i < 0 {
		return
	}
	e.children = slices.Delete(e.children, i, i+1)
	c.parent = nil
	c.attach(nil)
	e.notify(Mutation{Kind: ChildrenChanged, Target: e})
}

func (e *Element) attach(d *Document) {
	e.doc = d
	for _, c := range e.children {
		c.attach(d)
	}
}

func (e *Element) notify(m Mutation) {
	if e.doc != nil {
		e.doc.notify(m)
	}
}

// Walk calls fn for e and its descendants in document order until fn returns false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

func (e *Element) String() string {
	var b strings.Builder
	b.WriteString(e.tag)
	if id := e.ID(); id != "" {
		b.WriteString("#" + id)
	}
	for _, c := range e.classes {
		b.WriteString("." + c)
	}
	return b.String()
}
