package style

import (
	"sort"

	"style-engine/internal/property"
	"style-engine/internal/selector"
)

// Element is a styled node: a selector node with an optional style attribute.
type Element interface {
	selector.Node
	InlineStyle() string
}

type match struct {
	rule  *Rule
	spec  selector.Spec
	sheet int
}

// Resolver runs the cascade over an ordered list of stylesheets. Later sheets win ties
// against earlier ones.
type Resolver struct {
	Sheets []*Stylesheet
}

// Matches returns the rules matching n, weakest first: by the specificity of the
// matching chain, then by sheet, then by source order.
func (r *Resolver) Matches(n selector.Node) []*Rule {
	ms := r.matches(n)
	out := make([]*Rule, len(ms))
	for i, m := range ms {
		out[i] = m.rule
	}
	return out
}

func (r *Resolver) matches(n selector.Node) []match {
	var ms []match
	for i, sheet := range r.Sheets {
		for _, rule := range sheet.Rules {
			if spec, ok := rule.Selector.MatchSpec(n); ok {
				ms = append(ms, match{rule: rule, spec: spec, sheet: i})
			}
		}
	}
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if c := a.spec.Compare(b.spec); c != 0 {
			return c < 0
		}
		if a.sheet != b.sheet {
			return a.sheet < b.sheet
		}
		return a.rule.Order < b.rule.Order
	})
	return ms
}

// Cascade merges the declarations of every rule matching n and the inline declarations
// into one set. Normal rule declarations apply first, then normal inline ones, then
// important rule declarations, then important inline ones. Within each layer weaker
// rules apply first so stronger ones overwrite them.
func (r *Resolver) Cascade(n selector.Node, inline *property.PropertySet) *property.PropertySet {
	ms := r.matches(n)
	out := property.NewSet()
	layer := func(set *property.PropertySet, important bool) {
		set.Each(func(d property.Descriptor, v property.Value) {
			if v.Important == important {
				out.Set(d, v)
			}
		})
	}
	for _, m := range ms {
		layer(m.rule.Properties, false)
	}
	if inline != nil {
		layer(inline, false)
	}
	for _, m := range ms {
		layer(m.rule.Properties, true)
	}
	if inline != nil {
		layer(inline, true)
	}
	return out
}
