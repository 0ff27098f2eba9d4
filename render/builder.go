package render

import (
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Builder collects primitives for one frame.
type Builder struct {
	camera   Camera
	light    Light
	width    int
	height   int
	viewProj mgl32.Mat4
	prims    []Primitive
}

// NewBuilder prepares a builder for a width×height target.
func NewBuilder(camera Camera, light Light, width, height int) *Builder {
	return &Builder{
		camera:   camera,
		light:    light,
		width:    width,
		height:   height,
		viewProj: camera.ViewProjection(),
	}
}

// Reset reuses the builder for another frame, keeping its buffer.
func (b *Builder) Reset(camera Camera, light Light, width, height int) {
	b.camera = camera
	b.light = light
	b.width = width
	b.height = height
	b.viewProj = camera.ViewProjection()
	b.prims = b.prims[:0]
}

// AddSprite adds a size×size quad lying in the model's XY plane, facing +Z.
// It reports false when the quad was culled.
func (b *Builder) AddSprite(model mgl32.Mat4, size float32, tint color.RGBA) bool {
	return b.addQuad(KindSprite, model, squareCorners(size), mgl32.Vec3{0, 0, 1}, tint)
}

// AddPanel is AddSprite for an opaque, untextured square.
func (b *Builder) AddPanel(model mgl32.Mat4, size float32, c color.RGBA) bool {
	return b.addQuad(KindFace, model, squareCorners(size), mgl32.Vec3{0, 0, 1}, c)
}

func squareCorners(size float32) [4]mgl32.Vec3 {
	h := size / 2
	return [4]mgl32.Vec3{{-h, -h, 0}, {h, -h, 0}, {h, h, 0}, {-h, h, 0}}
}

type boxFace struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
}

// boxFaces is a unit cube centred on the origin, corners counter-clockwise
// seen from outside.
var boxFaces = [6]boxFace{
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{.5, -.5, .5}, {.5, -.5, -.5}, {.5, .5, -.5}, {.5, .5, .5}}},
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-.5, -.5, -.5}, {-.5, -.5, .5}, {-.5, .5, .5}, {-.5, .5, -.5}}},
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-.5, .5, .5}, {.5, .5, .5}, {.5, .5, -.5}, {-.5, .5, -.5}}},
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-.5, -.5, -.5}, {.5, -.5, -.5}, {.5, -.5, .5}, {-.5, -.5, .5}}},
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-.5, -.5, .5}, {.5, -.5, .5}, {.5, .5, .5}, {-.5, .5, .5}}},
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{.5, -.5, -.5}, {-.5, -.5, -.5}, {-.5, .5, -.5}, {.5, .5, -.5}}},
}

// AddBox adds the camera-facing faces of a box and returns how many were kept.
func (b *Builder) AddBox(model mgl32.Mat4, size mgl32.Vec3, c color.RGBA) int {
	added := 0
	for _, face := range boxFaces {
		var corners [4]mgl32.Vec3
		for i, v := range face.corners {
			corners[i] = mgl32.Vec3{v.X() * size.X(), v.Y() * size.Y(), v.Z() * size.Z()}
		}
		if b.addQuad(KindFace, model, corners, face.normal, c) {
			added++
		}
	}
	return added
}

func (b *Builder) addQuad(kind Kind, model mgl32.Mat4, corners [4]mgl32.Vec3, normal mgl32.Vec3, base color.RGBA) bool {
	var world [4]mgl32.Vec3
	var center mgl32.Vec3
	for i, c := range corners {
		world[i] = model.Mul4x1(c.Vec4(1)).Vec3()
		center = center.Add(world[i])
	}
	center = center.Mul(0.25)

	n := model.Mul4x1(normal.Vec4(0)).Vec3().Normalize()
	if n.Dot(b.camera.Position.Sub(center)) <= 0 {
		return false
	}

	prim := Primitive{Kind: kind, Color: b.light.Lambert(base, n)}
	for i, w := range world {
		screen, _, ok := project(b.viewProj, b.camera.Near, w, b.width, b.height)
		if !ok {
			return false
		}
		prim.Points[i] = screen
	}
	_, depth, _ := project(b.viewProj, b.camera.Near, center, b.width, b.height)
	prim.Depth = depth

	b.prims = append(b.prims, prim)
	return true
}

// Len returns the number of primitives added since the last Reset.
func (b *Builder) Len() int {
	return len(b.prims)
}

// DrawList sorts the primitives far to near and returns them. The list
// shares the builder's buffer until the next Reset.
func (b *Builder) DrawList(frame uint64, background color.RGBA) DrawList {
	slices.SortStableFunc(b.prims, func(x, y Primitive) int {
		switch {
		case x.Depth > y.Depth:
			return -1
		case x.Depth < y.Depth:
			return 1
		default:
			return 0
		}
	})
	return DrawList{
		Frame:      frame,
		Width:      b.width,
		Height:     b.height,
		Background: background,
		Primitives: b.prims,
	}
}
