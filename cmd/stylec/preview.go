package main

import (
	"go.uber.org/zap"

	"style-engine/internal/debug"
	"style-engine/internal/dom"
	"style-engine/internal/graphics"
	"style-engine/internal/layout"
	"style-engine/internal/property"
	"style-engine/internal/ui"
)

// preview shows the document in a resizable window. Hovered elements get the hover
// state, and clicking an element shows it in the inspector panel.
func (a *app) preview(doc string, sheets []string) error {
	e, err := a.engine(doc, sheets)
	if err != nil {
		return err
	}
	e.AddStylesheet("inspector", ui.InspectorSheet)
	in := ui.NewInspector()
	e.Document().Root().AppendChild(in.Panel())

	overlay := debug.New()
	overlay.ShowFPS = a.cfg.Debug
	overlay.ShowMemAlloc = a.cfg.Debug
	overlay.ShowLayout = a.cfg.Debug
	var (
		hovered *dom.Element
		dirty   property.Dirty
	)
	setHover := func(el *dom.Element, on bool) {
		for ; el != nil; el = el.ParentElement() {
			el.SetState("hover", on)
		}
	}
	update := func(w, h float32) {
		e.SetViewport(layout.Size{Width: w, Height: h})
		x, y, clicked := graphics.Mouse()
		if hit := e.HitTest(x, y); hit != hovered {
			setHover(hovered, false)
			setHover(hit, true)
			hovered = hit
		}
		if clicked {
			in.Show(e, hovered)
			a.log.Zap().Debug("selected", zap.Stringer("element", hovered))
		}
		if d := e.Update(); d != 0 {
			dirty = d
		}
	}
	draw := func() {
		graphics.DrawBoxes(e.Root())
		if hovered != nil {
			if b := e.BoxOf(hovered); b != nil {
				graphics.Highlight(b.Base().Bounds())
			}
		}
		boxes := 0
		layout.Walk(e.Root(), func(layout.Box, int) bool { boxes++; return true })
		overlay.Draw(debug.Stats{FPS: graphics.FPS(), Layouts: e.Layouts(), Boxes: boxes, Dirty: dirty})
	}
	graphics.Run(graphics.Window{
		Title:     "stylec " + doc,
		Width:     int32(a.cfg.ViewportWidth),
		Height:    int32(a.cfg.ViewportHeight),
		Resizable: true,
	}, update, draw)
	return a.result()
}
