// Package render turns scene transforms into screen-space primitives.
//
// Nothing here touches a GPU or a terminal: a Builder projects sprites and
// boxes through a Camera, shades them with a Light and returns a DrawList in
// painter's order. Hosts in the subpackages present that list.
package render

import "github.com/go-gl/mathgl/mgl32"

// Camera is a perspective camera looking down -Z from Position.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV      float32
	Aspect   float32
	Near     float32
	Far      float32
	Position mgl32.Vec3
}

// NewPerspectiveCamera returns a camera at the origin.
func NewPerspectiveCamera(fov, aspect, near, far float32) Camera {
	return Camera{FOV: fov, Aspect: aspect, Near: near, Far: far}
}

// Projection returns the perspective matrix.
func (c Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z())
}

// ViewProjection returns Projection · View.
func (c Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Project maps a world point to pixel coordinates on a width×height target.
// depth is the distance along the view axis; ok is false when the point is
// closer than the near plane.
func (c Camera) Project(p mgl32.Vec3, width, height int) (screen mgl32.Vec2, depth float32, ok bool) {
	return project(c.ViewProjection(), c.Near, p, width, height)
}

func project(viewProj mgl32.Mat4, near float32, p mgl32.Vec3, width, height int) (mgl32.Vec2, float32, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w < near {
		return mgl32.Vec2{}, w, false
	}
	ndcX, ndcY := clip.X()/w, clip.Y()/w
	return mgl32.Vec2{
		(ndcX + 1) * 0.5 * float32(width),
		(1 - ndcY) * 0.5 * float32(height),
	}, w, true
}

// ModelMatrix composes a translation with an XYZ Euler rotation in radians.
func ModelMatrix(position, rotation mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.HomogRotate3DX(rotation.X())).
		Mul4(mgl32.HomogRotate3DY(rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(rotation.Z()))
}
