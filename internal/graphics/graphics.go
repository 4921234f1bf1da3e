// Package graphics opens a preview window and draws laid-out boxes with raylib.
package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"style-engine/internal/layout"
	"style-engine/internal/value"
)

// Window describes the preview window.
type Window struct {
	Title         string
	Width, Height int32
	Resizable     bool
}

// Run opens the window and runs the main loop until it is closed. Each frame it calls
// update with the current window size, then clears the screen and calls draw.
func Run(w Window, update func(width, height float32), draw func()) {
	if w.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(w.Width, w.Height, w.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		update(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)
		draw()
		rl.EndDrawing()
	}
}

// Mouse returns the cursor position and whether the left button was pressed this frame.
func Mouse() (x, y float32, clicked bool) {
	p := rl.GetMousePosition()
	return p.X, p.Y, rl.IsMouseButtonPressed(rl.MouseButtonLeft)
}

// FPS returns the current frame rate.
func FPS() int32 { return rl.GetFPS() }

// DrawBoxes draws the tree under root: backgrounds, borders and text.
func DrawBoxes(root layout.Box) {
	for _, op := range layout.Paint(root) {
		c := rlColor(op.Color)
		switch op.Kind {
		case layout.FillRect:
			rl.DrawRectangleRec(rl.Rectangle{X: op.Rect.X, Y: op.Rect.Y, Width: op.Rect.Width, Height: op.Rect.Height}, c)
		case layout.DrawText:
			rl.DrawText(op.Text, int32(op.Rect.X), int32(op.Rect.Y), int32(op.Size), c)
		}
	}
}

// Highlight outlines r, e.g. the box under the cursor.
func Highlight(r layout.Rect) {
	rl.DrawRectangleLinesEx(rl.Rectangle{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, 1, rl.Magenta)
}

func rlColor(c value.Color) rl.Color {
	return rl.NewColor(c.R(), c.G(), c.B(), c.A())
}
