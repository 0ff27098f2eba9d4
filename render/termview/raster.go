package termview

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/smoke/render"
)

// Ramp maps coverage to glyphs, sparse to dense.
const Ramp = " .:-=+*#%@"

var rampRunes = []rune(Ramp)

// Cell is one rasterized terminal cell.
type Cell struct {
	Rune  rune
	Color color.RGBA
	// Density is the accumulated coverage in [0,1].
	Density float32
}

// Rasterize samples list at the center of each of cols×rows cells and blends
// the covering primitives back to front. The result is row-major.
func Rasterize(list *render.DrawList, cols, rows int) []Cell {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	cells := make([]Cell, cols*rows)
	RasterizeInto(cells, list, cols, rows)
	return cells
}

// RasterizeInto is Rasterize writing into cells, which must hold cols*rows.
func RasterizeInto(cells []Cell, list *render.DrawList, cols, rows int) {
	sx := float32(list.Width) / float32(cols)
	sy := float32(list.Height) / float32(rows)
	bg := list.Background

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			pt := mgl32.Vec2{(float32(x) + 0.5) * sx, (float32(y) + 0.5) * sy}
			r, g, b := float32(bg.R), float32(bg.G), float32(bg.B)
			var density float32

			for i := range list.Primitives {
				prim := &list.Primitives[i]
				a := prim.Coverage(pt) * float32(prim.Color.A) / 255
				if a <= 0 {
					continue
				}
				r += (float32(prim.Color.R) - r) * a
				g += (float32(prim.Color.G) - g) * a
				b += (float32(prim.Color.B) - b) * a
				density += (1 - density) * a
			}

			cells[y*cols+x] = Cell{
				Rune:    glyph(density),
				Color:   color.RGBA{R: uint8(r + 0.5), G: uint8(g + 0.5), B: uint8(b + 0.5), A: 0xff},
				Density: density,
			}
		}
	}
}

func glyph(density float32) rune {
	i := int(density*float32(len(rampRunes)-1) + 0.5)
	return rampRunes[min(max(i, 0), len(rampRunes)-1)]
}
