package layout

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Walk calls fn for b and every box below it, parents first. Returning false from fn
// skips the children of that box.
func Walk(b Box, fn func(b Box, depth int) bool) {
	var walk func(b Box, depth int)
	walk = func(b Box, depth int) {
		if !fn(b, depth) {
			return
		}
		for _, c := range b.Base().children {
			walk(c, depth+1)
		}
	}
	if b != nil {
		walk(b, 0)
	}
}

// Label names a box for debug output: its tag, id and classes, or its text.
func Label(b Box) string {
	if t, ok := b.(*TextBox); ok {
		return strconv.Quote(t.Text)
	}
	lb := b.Base()
	if lb.Element == nil {
		return "box"
	}
	var s strings.Builder
	s.WriteString(lb.Element.TagName())
	if id := lb.Element.ID(); id != "" {
		s.WriteString("#" + id)
	}
	if cls, ok := lb.Element.Attribute("class"); ok {
		for _, c := range strings.Fields(cls) {
			s.WriteString("." + c)
		}
	}
	return s.String()
}

// Dump writes one line per box with its label and geometry, indented by depth.
func Dump(w io.Writer, root Box) error {
	var err error
	Walk(root, func(b Box, depth int) bool {
		lb := b.Base()
		_, err = fmt.Fprintf(w, "%s%s %g,%g %gx%g\n", strings.Repeat("  ", depth), Label(b), lb.X, lb.Y, lb.Width, lb.Height)
		return err == nil
	})
	return err
}
