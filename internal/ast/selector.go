package ast

import "strconv"

// SelectorExpression is one simple selector inside a compound: a tag, class, id,
// attribute test, pseudo-class, pseudo-element or the & marker.
type SelectorExpression interface {
	Node
	selNode()
}

// MatchAll is `*`.
type MatchAll struct{ Span }

// TagName is a type selector.
type TagName struct {
	Span
	Name string
}

// ClassName is `.name`.
type ClassName struct {
	Span
	Name string
}

// ID is `#name`.
type ID struct {
	Span
	Name string
}

// AttrOp is the comparison of an attribute selector.
type AttrOp int

const (
	AttrHas       AttrOp = iota // [a]
	AttrEquals                  // [a=v]
	AttrDash                    // [a|=v]
	AttrWord                    // [a~=v]
	AttrPrefix                  // [a^=v]
	AttrSuffix                  // [a$=v]
	AttrSubstring               // [a*=v]
)

var attrOpText = [...]string{"", "=", "|=", "~=", "^=", "$=", "*="}

func (op AttrOp) String() string { return attrOpText[op] }

// Attribute is `[name op "value" i]`.
type Attribute struct {
	Span
	Name       string
	Op         AttrOp
	Value      string
	IgnoreCase bool
}

// PseudoClass is `:name`.
type PseudoClass struct {
	Span
	Name string
}

// PseudoFunction is `:name(args)`. Nth is set for the nth-* family; Selectors holds the
// argument of :is/:not/:where or the `of S` filter of :nth-child.
type PseudoFunction struct {
	Span
	Name      string
	Nth       *Nth
	Selectors *SelectorListStatement
}

// PseudoElement is `::name`.
type PseudoElement struct {
	Span
	Name string
}

// Nested is the & reference to the enclosing rule's selector.
type Nested struct{ Span }

func (*MatchAll) selNode()       {}
func (*TagName) selNode()        {}
func (*ClassName) selNode()      {}
func (*ID) selNode()             {}
func (*Attribute) selNode()      {}
func (*PseudoClass) selNode()    {}
func (*PseudoFunction) selNode() {}
func (*PseudoElement) selNode()  {}
func (*Nested) selNode()         {}

// Combinator relates a compound selector to the one before it.
type Combinator int

const (
	// None leads a top-level chain.
	None Combinator = iota
	Descendant
	Parent        // >
	Sibling       // ~
	DirectSibling // +
	// Nest leads a chain written inside a rule without & or an explicit combinator; it
	// attaches to the enclosing selector as a descendant.
	Nest
)

func (c Combinator) String() string {
	switch c {
	case Descendant:
		return " "
	case Parent:
		return " > "
	case Sibling:
		return " ~ "
	case DirectSibling:
		return " + "
	}
	return ""
}

// SelectorNodeStatement is a compound selector: simple selectors that must all match the
// same element, preceded by the combinator that relates it to the previous compound.
type SelectorNodeStatement struct {
	Span
	Combinator Combinator
	Exprs      []SelectorExpression
}

// HasNested reports whether the compound contains &.
func (s *SelectorNodeStatement) HasNested() bool {
	for _, e := range s.Exprs {
		if _, ok := e.(*Nested); ok {
			return true
		}
	}
	return false
}

// SelectorChain is a complex selector: compounds joined by combinators, left to right.
type SelectorChain struct {
	Span
	Nodes []*SelectorNodeStatement
}

// HasNested reports whether any compound of the chain contains &.
func (c *SelectorChain) HasNested() bool {
	for _, n := range c.Nodes {
		if n.HasNested() {
			return true
		}
	}
	return false
}

// SelectorListStatement is a comma separated list of chains.
type SelectorListStatement struct {
	Span
	Chains []*SelectorChain
}

// Nth is an An+B index expression. It matches the 1-based index i when i = A*n + B for
// some integer n >= 0.
type Nth struct {
	A, B int
}

// Matches reports whether the 1-based index i is selected.
func (n Nth) Matches(i int) bool {
	if n.A == 0 {
		return i == n.B
	}
	d := i - n.B
	return d%n.A == 0 && d/n.A >= 0
}

func (n Nth) String() string {
	switch {
	case n.A == 2 && n.B == 1:
		return "odd"
	case n.A == 2 && n.B == 0:
		return "even"
	case n.A == 0:
		return strconv.Itoa(n.B)
	}
	s := strconv.Itoa(n.A) + "n"
	switch n.A {
	case 1:
		s = "n"
	case -1:
		s = "-n"
	}
	if n.B > 0 {
		s += "+" + strconv.Itoa(n.B)
	} else if n.B < 0 {
		s += strconv.Itoa(n.B)
	}
	return s
}
