package scene

import (
	"image/color"
	"math"

	"github.com/plus3/smoke/ecs"
	"github.com/plus3/smoke/render"
)

// SmokeSystem turns every particle about its Z axis at SmokeSpin radians per
// second.
type SmokeSystem struct {
	Particles ecs.Query[struct {
		*Transform
		*Smoke
	}]
}

func (s *SmokeSystem) Execute(frame *ecs.UpdateFrame) {
	spin := float32(frame.DeltaTime * SmokeSpin)
	for p := range s.Particles.Values() {
		p.Transform.Rotation[2] += spin
	}
}

// CubeSystem spins the cube and bobs it along Z. The steps are per frame, not
// per second.
type CubeSystem struct {
	Cubes ecs.Query[struct {
		*Transform
		*CubeMotion
	}]
}

func (s *CubeSystem) Execute(frame *ecs.UpdateFrame) {
	for c := range s.Cubes.Values() {
		m := c.CubeMotion
		m.Phase += m.PhaseStep
		c.Transform.Rotation[0] += m.SpinX
		c.Transform.Rotation[1] += m.SpinY
		c.Transform.Position[2] = float32(m.BaseZ + math.Sin(m.Phase)*m.Amplitude)
	}
}

// RenderSystem projects every visible entity and publishes the result as the
// DrawList singleton.
type RenderSystem struct {
	Background color.RGBA

	Sprites ecs.Query[struct {
		*Transform
		*Sprite
		*Visible
	}]
	Boxes ecs.Query[struct {
		*Transform
		*Box
		*Visible
	}]

	Camera   ecs.Singleton[render.Camera]
	Light    ecs.Singleton[render.Light]
	Viewport ecs.Singleton[Viewport]
	DrawList ecs.Singleton[render.DrawList]

	builder *render.Builder
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	camera, light, vp := s.Camera.Get(), s.Light.Get(), s.Viewport.Get()
	if camera == nil || light == nil || vp == nil {
		return
	}

	if s.builder == nil {
		s.builder = render.NewBuilder(*camera, *light, vp.Width, vp.Height)
	} else {
		s.builder.Reset(*camera, *light, vp.Width, vp.Height)
	}

	for b := range s.Boxes.Values() {
		model := render.ModelMatrix(b.Transform.Position, b.Transform.Rotation)
		s.builder.AddBox(model, b.Box.Size, b.Box.Color)
	}
	for p := range s.Sprites.Values() {
		model := render.ModelMatrix(p.Transform.Position, p.Transform.Rotation)
		if p.Sprite.Transparent {
			s.builder.AddSprite(model, p.Sprite.Size, p.Sprite.Tint)
		} else {
			s.builder.AddPanel(model, p.Sprite.Size, p.Sprite.Tint)
		}
	}

	if list := s.DrawList.Get(); list != nil {
		*list = s.builder.DrawList(frame.Index, s.Background)
	}
}
