package ui

import (
	"fmt"

	"style-engine/internal/dom"
	"style-engine/internal/property"
)

// InspectorSheet styles the inspector panel.
const InspectorSheet = `
.inspector {
	display: flex;
	flex-direction: column;
	width: 280px;
	padding: 6px;
	gap: 2px;
	background-color: #202020;
	color: white;
	font-size: 13px;
	.inspector-title { color: #ffcc00; }
	.inspector-properties { display: flex; flex-direction: column; }
}
`

// Inspector is a panel that shows the selected element, its border box and every
// computed property that differs from its initial value. The panel is an ordinary
// element tree styled by the document's sheets (.inspector, .inspector-title, etc.).
type Inspector struct {
	panel  *dom.Element
	title  *dom.Element
	name   *dom.Element
	bounds *dom.Element
	props  *dom.Element
}

// NewInspector creates the panel. Attach Panel() to a document to show it.
func NewInspector() *Inspector {
	in := &Inspector{
		panel:  dom.NewElement("div", "inspector", "", ""),
		title:  dom.NewElement("div", "inspector-title", "", "Inspector"),
		name:   dom.NewElement("div", "inspector-name", "", ""),
		bounds: dom.NewElement("div", "inspector-bounds", "", ""),
		props:  dom.NewElement("ul", "inspector-properties", "", ""),
	}
	for _, c := range []*dom.Element{in.title, in.name, in.bounds, in.props} {
		in.panel.AppendChild(c)
	}
	return in
}

// Panel returns the root element of the inspector.
func (in *Inspector) Panel() *dom.Element { return in.panel }

// Show updates the panel for sel. A nil sel clears it. Only labels whose text changed
// are touched, so an unchanged selection causes no relayout.
func (in *Inspector) Show(e *Engine, sel *dom.Element) {
	if sel == nil {
		in.name.SetText("")
		in.bounds.SetText("")
		in.setLines(nil)
		return
	}
	in.name.SetText(sel.String())
	if b := e.BoxOf(sel); b != nil {
		r := b.Base().Bounds()
		in.bounds.SetText(fmt.Sprintf("%g,%g %gx%g", r.X, r.Y, r.Width, r.Height))
	} else {
		in.bounds.SetText("no box")
	}
	in.setLines(Properties(e, sel))
}

func (in *Inspector) setLines(lines []string) {
	items := in.props.Children()
	for i, line := range lines {
		if i < len(items) {
			items[i].SetText(line)
			continue
		}
		in.props.AppendChild(dom.NewElement("li", "inspector-property", "", line))
	}
	for i := len(items) - 1; i >= len(lines); i-- {
		in.props.RemoveChild(items[i])
	}
}

// Properties lists the computed properties of el that differ from their initial value,
// in registry order, as "name: value".
func Properties(e *Engine, el *dom.Element) []string {
	cs := e.Computed(el)
	if cs == nil {
		return nil
	}
	var out []string
	for _, d := range property.All() {
		v := cs.Value(d)
		if v == d.Initial() {
			continue
		}
		out = append(out, d.Name()+": "+property.Format(v))
	}
	return out
}
