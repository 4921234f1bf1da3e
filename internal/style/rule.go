package style

import (
	"sort"
	"strings"

	"style-engine/internal/diag"
	"style-engine/internal/property"
	"style-engine/internal/selector"
)

// Rule is one compiled style rule: a selector and the declarations it applies.
type Rule struct {
	Selector   *selector.List
	Properties *property.PropertySet
	// Spec is the highest specificity among the selector's chains. The cascade uses the
	// specificity of the chain that actually matched.
	Spec selector.Spec
	// Order is the position of the rule in source order across all sheets.
	Order    int
	Source   string
	Location diag.Location
}

// Less orders rules by specificity, then by source order.
func (r *Rule) Less(o *Rule) bool {
	if c := r.Spec.Compare(o.Spec); c != 0 {
		return c < 0
	}
	return r.Order < o.Order
}

func (r *Rule) String() string {
	return r.Selector.String() + " { " + r.Properties.String() + " }"
}

// Stylesheet is an ordered list of rules.
type Stylesheet struct {
	Name  string
	Rules []*Rule
}

// Add appends a rule for sel with an empty property set and returns it.
func (s *Stylesheet) Add(sel *selector.List, order int, loc diag.Location) *Rule {
	r := &Rule{
		Selector:   sel,
		Properties: property.NewSet(),
		Order:      order,
		Source:     s.Name,
		Location:   loc,
	}
	for _, c := range sel.Chains {
		r.Spec = selector.Max(r.Spec, c.Spec())
	}
	s.Rules = append(s.Rules, r)
	return r
}

// Compact drops rules that declare nothing.
func (s *Stylesheet) Compact() {
	kept := s.Rules[:0]
	for _, r := range s.Rules {
		if r.Properties.Len() > 0 {
			kept = append(kept, r)
		}
	}
	clear(s.Rules[len(kept):])
	s.Rules = kept
}

// Sort orders the rules by specificity, then source order.
func (s *Stylesheet) Sort() {
	sort.SliceStable(s.Rules, func(i, j int) bool { return s.Rules[i].Less(s.Rules[j]) })
}

func (s *Stylesheet) String() string {
	var b strings.Builder
	for _, r := range s.Rules {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}
