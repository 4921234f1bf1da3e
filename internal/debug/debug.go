// Package debug draws runtime statistics over the preview window.
package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"style-engine/internal/property"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// Stats is what the overlay reports each frame.
type Stats struct {
	FPS     int32
	Layouts int
	Boxes   int
	// Dirty is the union of the dirty bits of the last restyle that changed anything.
	Dirty property.Dirty
}

// Overlay holds runtime debugging features. All overlays are off by default.
type Overlay struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowLayout   bool

	frameCount uint32
	lines      []string
	mem        runtime.MemStats
}

// New returns an overlay with everything hidden.
func New() *Overlay {
	return &Overlay{}
}

// Lines returns the text to draw for s, recomputed every updateInterval frames.
func (o *Overlay) Lines(s Stats) []string {
	o.frameCount++
	if o.lines != nil && o.frameCount%updateInterval != 0 {
		return o.lines
	}
	o.lines = o.lines[:0:0]
	if o.ShowFPS {
		o.lines = append(o.lines, fmt.Sprintf("FPS: %d", s.FPS))
	}
	if o.ShowMemAlloc {
		runtime.ReadMemStats(&o.mem)
		o.lines = append(o.lines, fmt.Sprintf("Mem: %.2f MiB", float64(o.mem.Alloc)/(1024*1024)))
	}
	if o.ShowLayout {
		o.lines = append(o.lines,
			fmt.Sprintf("Layouts: %d", s.Layouts),
			fmt.Sprintf("Boxes: %d", s.Boxes),
			fmt.Sprintf("Dirty: %v", s.Dirty))
	}
	return o.lines
}

// Draw renders the enabled overlays at the top-right in green. Call last in the draw
// loop.
func (o *Overlay) Draw(s Stats) {
	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	for _, text := range o.Lines(s) {
		w := rl.MeasureText(text, fontSize)
		rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Green)
		y += lineHeight
	}
}
