package snapshot_test

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-engine/internal/interp"
	"style-engine/internal/layout"
	"style-engine/internal/snapshot"
	"style-engine/internal/style"
)

func box(t *testing.T, decls string, children ...layout.Box) layout.Box {
	t.Helper()
	set, errs := interp.New(interp.Options{}).InlineSource("test", decls)
	require.False(t, errs.HasErrors(), errs.Err())
	cs := style.NewComputed()
	cs.Apply(set, nil)
	return layout.NewBox(cs, children...)
}

func TestRender(t *testing.T) {
	root := box(t, "display: block; width: 40px; height: 20px; background-color: red; border: 2px solid blue;")
	layout.Solve(root, layout.NewContext(layout.Size{Width: 60, Height: 30}))

	img := snapshot.Render(root, 60, 30)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(39, 19))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(50, 25))
}

func TestSaveLoad(t *testing.T) {
	root := box(t, "display: block; width: 4px; height: 4px; background-color: lime;")
	layout.Solve(root, layout.NewContext(layout.Size{Width: 8, Height: 8}))
	path := filepath.Join(t.TempDir(), "out", "box.png")

	require.NoError(t, snapshot.Save(path, snapshot.Scale(snapshot.Render(root, 8, 8), 2)))
	img, err := snapshot.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	r, g, b, _ := img.At(7, 7).RGBA()
	assert.Equal(t, [3]uint32{0, 0xffff, 0}, [3]uint32{r, g, b})
}
