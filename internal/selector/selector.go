// Package selector compiles selector syntax into matchers over an element tree and
// computes their specificity.
//
// Matching runs right to left: the last compound is tested against the candidate
// element, then each combinator walks to the parent, an ancestor or a preceding sibling
// to test the compound before it.
package selector

import (
	"strings"

	"style-engine/internal/ast"
	"style-engine/internal/parser"
)

// Node is the element capability selectors match against. Navigation methods return an
// untyped nil when there is no such element.
type Node interface {
	TagName() string
	ID() string
	HasClass(name string) bool
	Attribute(name string) (string, bool)
	Parent() Node
	PreviousSibling() Node
	NextSibling() Node
	FirstChild() Node
}

// StatefulNode is a Node with dynamic state such as hover, focus or checked.
type StatefulNode interface {
	Node
	HasState(name string) bool
}

// PseudoElementNode is a generated box standing for a pseudo-element of its parent.
type PseudoElementNode interface {
	Node
	PseudoElement() string
}

// Compound is a compiled compound selector and the combinator that relates it to the
// compound before it.
type Compound struct {
	Combinator ast.Combinator
	Tests      []Test
}

// Match reports whether every test matches n.
func (c *Compound) Match(n Node) bool {
	for _, t := range c.Tests {
		if !t.Match(n) {
			return false
		}
	}
	return true
}

// Spec returns the summed specificity of the tests.
func (c *Compound) Spec() Spec {
	var s Spec
	for _, t := range c.Tests {
		s = s.Add(t.Spec())
	}
	return s
}

func (c *Compound) String() string {
	if len(c.Tests) == 0 {
		return "*"
	}
	var b strings.Builder
	for _, t := range c.Tests {
		b.WriteString(t.String())
	}
	return b.String()
}

// Complex is a chain of compounds, left to right.
type Complex struct {
	Compounds []*Compound
	spec      Spec
}

func newComplex(compounds []*Compound) *Complex {
	c := &Complex{Compounds: compounds}
	for _, cp := range compounds {
		c.spec = c.spec.Add(cp.Spec())
	}
	return c
}

// Spec returns the specificity of the chain.
func (c *Complex) Spec() Spec { return c.spec }

// Match reports whether n is the subject of the chain.
func (c *Complex) Match(n Node) bool {
	return len(c.Compounds) > 0 && c.matchAt(n, len(c.Compounds)-1)
}

func (c *Complex) matchAt(n Node, i int) bool {
	cp := c.Compounds[i]
	if !cp.Match(n) {
		return false
	}
	if i == 0 {
		return true
	}
	switch cp.Combinator {
	case ast.Parent:
		p := n.Parent()
		return p != nil && c.matchAt(p, i-1)
	case ast.DirectSibling:
		s := n.PreviousSibling()
		return s != nil && c.matchAt(s, i-1)
	case ast.Sibling:
		for s := n.PreviousSibling(); s != nil; s = s.PreviousSibling() {
			if c.matchAt(s, i-1) {
				return true
			}
		}
		return false
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if c.matchAt(p, i-1) {
			return true
		}
	}
	return false
}

func (c *Complex) String() string {
	var b strings.Builder
	for i, cp := range c.Compounds {
		if i > 0 {
			comb := cp.Combinator
			if comb == ast.Nest || comb == ast.None {
				comb = ast.Descendant
			}
			b.WriteString(comb.String())
		}
		b.WriteString(cp.String())
	}
	return b.String()
}

// List is a compiled selector list. It matches when any chain matches.
type List struct {
	Chains []*Complex
}

// Match reports whether any chain matches n.
func (l *List) Match(n Node) bool {
	if l == nil {
		return false
	}
	for _, c := range l.Chains {
		if c.Match(n) {
			return true
		}
	}
	return false
}

// MatchSpec returns the highest specificity among the chains matching n.
func (l *List) MatchSpec(n Node) (Spec, bool) {
	var best Spec
	found := false
	if l == nil {
		return best, false
	}
	for _, c := range l.Chains {
		if c.Match(n) {
			if !found {
				best = c.spec
			} else {
				best = Max(best, c.spec)
			}
			found = true
		}
	}
	return best, found
}

func (l *List) maxSpec() Spec {
	var best Spec
	if l == nil {
		return best
	}
	for _, c := range l.Chains {
		best = Max(best, c.spec)
	}
	return best
}

func (l *List) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(l.Chains))
	for i, c := range l.Chains {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// Parse parses and compiles a standalone selector list.
func Parse(src string) (*List, error) {
	list, errs := parser.ParseSelector(src, nil)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return Compile(list, nil), nil
}

// MustParse is like Parse but panics on error. It is meant for constant selectors.
func MustParse(src string) *List {
	l, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return l
}
