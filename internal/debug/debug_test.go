package debug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"style-engine/internal/debug"
	"style-engine/internal/property"
)

func TestLinesRefreshEveryInterval(t *testing.T) {
	o := debug.New()
	o.ShowFPS = true
	o.ShowLayout = true

	first := o.Lines(debug.Stats{FPS: 60, Layouts: 1, Boxes: 3, Dirty: property.DirtyLayout})
	assert.Equal(t, []string{"FPS: 60", "Layouts: 1", "Boxes: 3", "Dirty: LAYOUT"}, first)

	next := debug.Stats{FPS: 30, Layouts: 2, Boxes: 3}
	for frame := 2; frame < 30; frame++ {
		assert.Equal(t, first, o.Lines(next))
	}
	assert.Equal(t, []string{"FPS: 30", "Layouts: 2", "Boxes: 3", "Dirty: NONE"}, o.Lines(next))
}

func TestHiddenByDefault(t *testing.T) {
	assert.Empty(t, debug.New().Lines(debug.Stats{FPS: 60}))
}
