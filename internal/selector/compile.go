package selector

import (
	"strings"

	"style-engine/internal/ast"
)

// Compile turns a parsed selector list into a matcher. parent is the compiled selector
// of the enclosing rule, or nil at the top level.
//
// A chain written inside a rule is joined to the parent. Without & it becomes a
// descendant (or, with a leading combinator, a child or sibling) of every parent chain.
// With & each occurrence is replaced by every parent chain in turn: the parent's last
// compound absorbs the simple selectors written next to &, so `.a, .b { & + & }` yields
// four chains. An & inside a pseudo-class argument such as :not(&) matches whatever the
// parent matches.
func Compile(list *ast.SelectorListStatement, parent *List) *List {
	out := &List{}
	if list == nil {
		return out
	}
	if parent != nil && len(parent.Chains) == 0 {
		parent = nil
	}
	for _, chain := range list.Chains {
		out.Chains = append(out.Chains, compileChain(chain, parent)...)
	}
	return out
}

func compileChain(chain *ast.SelectorChain, parent *List) []*Complex {
	if parent == nil {
		compounds := make([]*Compound, len(chain.Nodes))
		for i, n := range chain.Nodes {
			compounds[i] = compileCompound(n, nil, true)
		}
		return []*Complex{newComplex(compounds)}
	}

	if !chain.HasNested() {
		out := make([]*Complex, 0, len(parent.Chains))
		for _, pc := range parent.Chains {
			compounds := cloneCompounds(pc.Compounds)
			for i, n := range chain.Nodes {
				cp := compileCompound(n, parent, true)
				if i == 0 && (cp.Combinator == ast.None || cp.Combinator == ast.Nest) {
					cp.Combinator = ast.Descendant
				}
				compounds = append(compounds, cp)
			}
			out = append(out, newComplex(compounds))
		}
		return out
	}

	results := [][]*Compound{nil}
	for _, n := range chain.Nodes {
		cp := compileCompound(n, parent, false)
		if !n.HasNested() {
			for i, r := range results {
				results[i] = append(cloneSlice(r), cp)
			}
			continue
		}
		next := make([][]*Compound, 0, len(results)*len(parent.Chains))
		for _, r := range results {
			for _, pc := range parent.Chains {
				spliced := cloneCompounds(pc.Compounds)
				if len(r) > 0 {
					spliced[0].Combinator = cp.Combinator
				}
				last := spliced[len(spliced)-1]
				last.Tests = append(last.Tests, cp.Tests...)
				next = append(next, append(cloneSlice(r), spliced...))
			}
		}
		results = next
	}
	out := make([]*Complex, len(results))
	for i, r := range results {
		out[i] = newComplex(r)
	}
	return out
}

// compileInner compiles the argument of a pseudo-class function. & there matches the
// parent selector instead of being spliced.
func compileInner(list *ast.SelectorListStatement, parent *List) *List {
	out := &List{}
	if list == nil {
		return out
	}
	for _, chain := range list.Chains {
		compounds := make([]*Compound, len(chain.Nodes))
		for i, n := range chain.Nodes {
			compounds[i] = compileCompound(n, parent, true)
		}
		out.Chains = append(out.Chains, newComplex(compounds))
	}
	return out
}

// compileCompound compiles n. With keepNested false, & is dropped so the caller can
// splice the parent in its place.
func compileCompound(n *ast.SelectorNodeStatement, parent *List, keepNested bool) *Compound {
	cp := &Compound{Combinator: n.Combinator, Tests: make([]Test, 0, len(n.Exprs))}
	for _, e := range n.Exprs {
		if _, ok := e.(*ast.Nested); ok && !keepNested {
			continue
		}
		cp.Tests = append(cp.Tests, compileTest(e, parent))
	}
	return cp
}

func compileTest(e ast.SelectorExpression, parent *List) Test {
	switch e := e.(type) {
	case *ast.MatchAll:
		return universal{}
	case *ast.TagName:
		return tagTest{name: e.Name}
	case *ast.ClassName:
		return classTest{name: e.Name}
	case *ast.ID:
		return idTest{name: e.Name}
	case *ast.Attribute:
		return attrTest{name: e.Name, op: e.Op, value: e.Value, ignoreCase: e.IgnoreCase}
	case *ast.PseudoClass:
		return pseudoClass{name: e.Name}
	case *ast.PseudoElement:
		return pseudoElement{name: e.Name}
	case *ast.PseudoFunction:
		return compileFunction(e, parent)
	case *ast.Nested:
		if parent == nil {
			return never{text: "&"}
		}
		return listTest{name: "is", list: parent}
	}
	return never{text: "?"}
}

func compileFunction(e *ast.PseudoFunction, parent *List) Test {
	switch e.Name {
	case "nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type":
		if e.Nth == nil {
			break
		}
		t := nthTest{
			name:   e.Name,
			nth:    *e.Nth,
			last:   strings.HasPrefix(e.Name, "nth-last-"),
			ofType: strings.HasSuffix(e.Name, "-of-type"),
		}
		if e.Selectors != nil && !t.ofType {
			t.of = compileInner(e.Selectors, parent)
		}
		return t
	case "is", "matches":
		return listTest{name: e.Name, list: compileInner(e.Selectors, parent)}
	case "not":
		return listTest{name: e.Name, list: compileInner(e.Selectors, parent), negate: true}
	case "where":
		return listTest{name: e.Name, list: compileInner(e.Selectors, parent), zero: true}
	}
	return never{text: ":" + e.Name + "()"}
}

func cloneSlice(s []*Compound) []*Compound {
	return append([]*Compound(nil), s...)
}

func cloneCompounds(s []*Compound) []*Compound {
	out := make([]*Compound, len(s))
	for i, c := range s {
		out[i] = &Compound{Combinator: c.Combinator, Tests: append([]Test(nil), c.Tests...)}
	}
	return out
}
