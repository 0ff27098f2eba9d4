package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind tells a host how to fill a primitive.
type Kind uint8

const (
	// KindSprite is a quad sampled from the sprite texture and tinted.
	KindSprite Kind = iota
	// KindFace is a flat, solid-colored quad.
	KindFace
)

func (k Kind) String() string {
	switch k {
	case KindSprite:
		return "sprite"
	case KindFace:
		return "face"
	default:
		return "unknown"
	}
}

// SpriteUV holds the texture coordinates of a sprite's corners, in the
// order of Primitive.Points.
var SpriteUV = [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// Primitive is one projected quad.
type Primitive struct {
	Kind   Kind
	Points [4]mgl32.Vec2
	Color  color.RGBA
	// Depth is the view-axis distance of the quad's center.
	Depth float32
}

// Center returns the mean of the corners.
func (p Primitive) Center() mgl32.Vec2 {
	var c mgl32.Vec2
	for _, pt := range p.Points {
		c = c.Add(pt)
	}
	return c.Mul(0.25)
}

// Contains reports whether pt lies inside the quad. Quads are convex; either
// winding is accepted.
func (p Primitive) Contains(pt mgl32.Vec2) bool {
	var pos, neg bool
	for i := range p.Points {
		a, b := p.Points[i], p.Points[(i+1)%len(p.Points)]
		cross := (b.X()-a.X())*(pt.Y()-a.Y()) - (b.Y()-a.Y())*(pt.X()-a.X())
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// Coverage returns how strongly the primitive covers pt, in [0,1]. Faces are
// opaque; sprites follow the puff falloff from their center.
func (p Primitive) Coverage(pt mgl32.Vec2) float32 {
	if !p.Contains(pt) {
		return 0
	}
	if p.Kind == KindFace {
		return 1
	}
	center := p.Center()
	half := (p.Points[0].Sub(p.Points[1]).Len() + p.Points[1].Sub(p.Points[2]).Len()) / 4
	if half == 0 {
		return 0
	}
	return PuffAlpha(pt.Sub(center).Len() / half)
}

// DrawList is everything needed to present one frame.
type DrawList struct {
	Frame      uint64
	Width      int
	Height     int
	Background color.RGBA
	// Primitives are ordered far to near.
	Primitives []Primitive
}

// Counts returns the number of primitives of each kind.
func (d *DrawList) Counts() (sprites, faces int) {
	for _, p := range d.Primitives {
		switch p.Kind {
		case KindSprite:
			sprites++
		case KindFace:
			faces++
		}
	}
	return sprites, faces
}
