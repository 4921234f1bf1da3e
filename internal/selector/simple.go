package selector

import (
	"strconv"
	"strings"

	"style-engine/internal/ast"
)

// Test is one compiled simple selector.
type Test interface {
	Match(n Node) bool
	Spec() Spec
	String() string
}

type universal struct{}

func (universal) Match(Node) bool { return true }
func (universal) Spec() Spec      { return Spec{} }
func (universal) String() string  { return "*" }

// never stands in for selectors that cannot match anything, such as & without an
// enclosing rule.
type never struct{ text string }

func (never) Match(Node) bool  { return false }
func (never) Spec() Spec       { return Spec{} }
func (t never) String() string { return t.text }

type tagTest struct{ name string }

func (t tagTest) Match(n Node) bool { return strings.EqualFold(n.TagName(), t.name) }
func (tagTest) Spec() Spec          { return Spec{Types: 1} }
func (t tagTest) String() string    { return t.name }

type classTest struct{ name string }

func (t classTest) Match(n Node) bool { return n.HasClass(t.name) }
func (classTest) Spec() Spec          { return Spec{Classes: 1} }
func (t classTest) String() string    { return "." + t.name }

type idTest struct{ name string }

func (t idTest) Match(n Node) bool { return n.ID() == t.name }
func (idTest) Spec() Spec          { return Spec{IDs: 1} }
func (t idTest) String() string    { return "#" + t.name }

type attrTest struct {
	name       string
	op         ast.AttrOp
	value      string
	ignoreCase bool
}

func (t attrTest) Match(n Node) bool {
	v, ok := n.Attribute(t.name)
	if !ok {
		return false
	}
	want := t.value
	if t.ignoreCase {
		v, want = strings.ToLower(v), strings.ToLower(want)
	}
	switch t.op {
	case ast.AttrHas:
		return true
	case ast.AttrEquals:
		return v == want
	case ast.AttrDash:
		return v == want || strings.HasPrefix(v, want+"-")
	case ast.AttrWord:
		if want == "" || strings.ContainsAny(want, " \t\n") {
			return false
		}
		for _, f := range strings.Fields(v) {
			if f == want {
				return true
			}
		}
		return false
	case ast.AttrPrefix:
		return want != "" && strings.HasPrefix(v, want)
	case ast.AttrSuffix:
		return want != "" && strings.HasSuffix(v, want)
	case ast.AttrSubstring:
		return want != "" && strings.Contains(v, want)
	}
	return false
}

func (attrTest) Spec() Spec { return Spec{Classes: 1} }

func (t attrTest) String() string {
	if t.op == ast.AttrHas {
		return "[" + t.name + "]"
	}
	s := "[" + t.name + t.op.String() + strconv.Quote(t.value)
	if t.ignoreCase {
		s += " i"
	}
	return s + "]"
}

// pseudoClass matches structural pseudo-classes directly and everything else through
// StatefulNode.
type pseudoClass struct{ name string }

func (t pseudoClass) Match(n Node) bool {
	switch t.name {
	case "root":
		return n.Parent() == nil
	case "first-child":
		return n.PreviousSibling() == nil
	case "last-child":
		return n.NextSibling() == nil
	case "only-child":
		return n.PreviousSibling() == nil && n.NextSibling() == nil
	case "empty":
		return n.FirstChild() == nil
	case "first-of-type":
		return countSiblings(n, Node.PreviousSibling, sameType(n)) == 0
	case "last-of-type":
		return countSiblings(n, Node.NextSibling, sameType(n)) == 0
	case "only-of-type":
		return countSiblings(n, Node.PreviousSibling, sameType(n)) == 0 &&
			countSiblings(n, Node.NextSibling, sameType(n)) == 0
	}
	if s, ok := n.(StatefulNode); ok {
		return s.HasState(t.name)
	}
	return false
}

func (pseudoClass) Spec() Spec       { return Spec{Classes: 1} }
func (t pseudoClass) String() string { return ":" + t.name }

// pseudoElement matches the generated boxes of a PseudoElementNode.
type pseudoElement struct{ name string }

func (t pseudoElement) Match(n Node) bool {
	p, ok := n.(PseudoElementNode)
	return ok && p.PseudoElement() == t.name
}

func (pseudoElement) Spec() Spec       { return Spec{Types: 1} }
func (t pseudoElement) String() string { return "::" + t.name }

// nthTest implements the :nth-* family. With "of S" only siblings matching S count.
type nthTest struct {
	name   string
	nth    ast.Nth
	of     *List
	last   bool
	ofType bool
}

func (t nthTest) Match(n Node) bool {
	filter := func(Node) bool { return true }
	switch {
	case t.ofType:
		filter = sameType(n)
	case t.of != nil:
		if !t.of.Match(n) {
			return false
		}
		filter = t.of.Match
	}
	step := Node.PreviousSibling
	if t.last {
		step = Node.NextSibling
	}
	return t.nth.Matches(countSiblings(n, step, filter) + 1)
}

func (t nthTest) Spec() Spec {
	s := Spec{Classes: 1}
	if t.of != nil {
		s = s.Add(t.of.maxSpec())
	}
	return s
}

func (t nthTest) String() string {
	s := ":" + t.name + "(" + t.nth.String()
	if t.of != nil {
		s += " of " + t.of.String()
	}
	return s + ")"
}

// listTest implements :is, :where and :not.
type listTest struct {
	name   string
	list   *List
	negate bool
	zero   bool
}

func (t listTest) Match(n Node) bool {
	return t.list.Match(n) != t.negate
}

func (t listTest) Spec() Spec {
	if t.zero {
		return Spec{}
	}
	return t.list.maxSpec()
}

func (t listTest) String() string {
	return ":" + t.name + "(" + t.list.String() + ")"
}

func sameType(n Node) func(Node) bool {
	tag := n.TagName()
	return func(o Node) bool { return strings.EqualFold(o.TagName(), tag) }
}

// countSiblings counts the siblings reached from n by step that satisfy keep.
func countSiblings(n Node, step func(Node) Node, keep func(Node) bool) int {
	count := 0
	for s := step(n); s != nil; s = step(s) {
		if keep(s) {
			count++
		}
	}
	return count
}
