package selector

import "fmt"

// Spec is a selector's specificity: id selectors, class-like selectors (classes,
// attributes, pseudo-classes) and type selectors (tags, pseudo-elements).
type Spec struct {
	IDs     int
	Classes int
	Types   int
}

// Compare orders specificities lexicographically. It returns -1, 0 or +1.
func (s Spec) Compare(o Spec) int {
	switch {
	case s.IDs != o.IDs:
		return sign(s.IDs - o.IDs)
	case s.Classes != o.Classes:
		return sign(s.Classes - o.Classes)
	}
	return sign(s.Types - o.Types)
}

// Add returns the component-wise sum.
func (s Spec) Add(o Spec) Spec {
	return Spec{IDs: s.IDs + o.IDs, Classes: s.Classes + o.Classes, Types: s.Types + o.Types}
}

// Max returns the greater of a and b.
func Max(a, b Spec) Spec {
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}

func (s Spec) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.IDs, s.Classes, s.Types)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
