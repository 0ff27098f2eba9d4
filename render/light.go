package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Light is a directional light shining from Position toward the origin.
type Light struct {
	Color     color.RGBA
	Intensity float32
	Position  mgl32.Vec3
}

// NewDirectionalLight returns a light of the given color and intensity.
func NewDirectionalLight(c color.RGBA, intensity float32, position mgl32.Vec3) Light {
	return Light{Color: c, Intensity: intensity, Position: position}
}

// Direction returns the unit vector from a lit surface toward the light.
func (l Light) Direction() mgl32.Vec3 {
	if l.Position.Len() == 0 {
		return mgl32.Vec3{0, 0, 1}
	}
	return l.Position.Normalize()
}

// Lambert returns base lit by l on a surface with the given unit normal.
// Faces turned away from the light come out black.
func (l Light) Lambert(base color.RGBA, normal mgl32.Vec3) color.RGBA {
	k := l.Intensity * max(0, normal.Dot(l.Direction()))
	return color.RGBA{
		R: shade(base.R, l.Color.R, k),
		G: shade(base.G, l.Color.G, k),
		B: shade(base.B, l.Color.B, k),
		A: base.A,
	}
}

func shade(base, light uint8, k float32) uint8 {
	v := float32(base) * float32(light) / 255 * k
	return uint8(min(255, v+0.5))
}
