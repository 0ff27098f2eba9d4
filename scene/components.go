package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an entity in the world. Rotation is XYZ Euler, radians.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
}

// Sprite is a flat square. Transparent sprites are drawn with the smoke
// texture; opaque ones are filled with Tint.
type Sprite struct {
	Size        float32
	Tint        color.RGBA
	Transparent bool
}

// Box is a solid, Lambert-shaded box.
type Box struct {
	Size  mgl32.Vec3
	Color color.RGBA
}

// Smoke marks a particle. Direction is picked at random on spawn and is
// not read by any system.
type Smoke struct {
	Direction bool
}

// CubeMotion drives the cube's spin and its bobbing along Z.
type CubeMotion struct {
	SpinX     float32
	SpinY     float32
	Phase     float64
	PhaseStep float64
	BaseZ     float64
	Amplitude float64
}

// Visible puts an entity in the render set.
type Visible struct{}

// Viewport is the size of the render target in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Aspect returns width over height.
func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}
