// Package scene builds the smoke demo world and the systems that animate it.
package scene

import (
	"fmt"
	"math/rand/v2"
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/smoke/clock"
	"github.com/plus3/smoke/ecs"
	"github.com/plus3/smoke/render"
)

// Scene is everything one running demo owns.
type Scene struct {
	Config    Config
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Clock     *clock.Clock

	// Refs follow their entity as Visible moves it between archetypes.
	Cube      *ecs.EntityRef
	Particles []*ecs.EntityRef

	viewport *ecs.Singleton[Viewport]
	camera   *ecs.Singleton[render.Camera]
	drawList *ecs.Singleton[render.DrawList]
}

// NewRegistry registers every component the scene spawns.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Box](registry)
	ecs.RegisterComponent[Smoke](registry)
	ecs.RegisterComponent[CubeMotion](registry)
	ecs.RegisterComponent[Visible](registry)
	return registry
}

// New builds the world: camera, light, the cube and the smoke cloud, and
// registers the frame systems. rng drives particle placement.
func New(cfg Config, rng *rand.Rand) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scene config: %w", err)
	}

	storage := ecs.NewStorage(NewRegistry())
	s := &Scene{
		Config:  cfg,
		Storage: storage,
		Clock:   clock.New(),
	}

	vp := Viewport{Width: cfg.Width, Height: cfg.Height}
	s.viewport = ecs.NewSingleton(storage, vp)

	camera := render.NewPerspectiveCamera(CameraFOV, vp.Aspect(), CameraNear, CameraFar)
	camera.Position = mgl32.Vec3{0, 0, CameraZ}
	s.camera = ecs.NewSingleton(storage, camera)

	ecs.NewSingleton(storage, render.NewDirectionalLight(LightColor, LightIntensity, LightPosition))
	s.drawList = ecs.NewSingleton(storage, render.DrawList{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Background: cfg.Background,
	})

	s.Cube = storage.CreateEntityRef(spawnCube(storage, cfg.ShowCube))
	s.Particles = spawnSmoke(storage, rng)

	s.Scheduler = ecs.NewScheduler(storage)
	s.Scheduler.Register(&SmokeSystem{})
	s.Scheduler.Register(&CubeSystem{})
	s.Scheduler.Register(&RenderSystem{Background: cfg.Background})

	return s, nil
}

func spawnCube(storage *ecs.Storage, visible bool) ecs.EntityId {
	components := []any{
		Transform{},
		Box{Size: mgl32.Vec3{CubeSize, CubeSize, CubeSize}, Color: CubeColor},
		CubeMotion{
			SpinX:     CubeSpinX,
			SpinY:     CubeSpinY,
			PhaseStep: CubePhaseStep,
			BaseZ:     CubeBaseZ,
			Amplitude: CubeAmplitude,
		},
	}
	if visible {
		components = append(components, Visible{})
	}
	return storage.Spawn(components...)
}

func spawnSmoke(storage *ecs.Storage, rng *rand.Rand) []*ecs.EntityRef {
	span := ParticleMax.Sub(ParticleMin)
	refs := make([]*ecs.EntityRef, 0, ParticleCount)
	for i := 0; i < ParticleCount; i++ {
		position := mgl32.Vec3{
			ParticleMin.X() + rng.Float32()*span.X(),
			ParticleMin.Y() + rng.Float32()*span.Y(),
			ParticleMin.Z() + rng.Float32()*span.Z(),
		}
		refs = append(refs, storage.CreateEntityRef(storage.Spawn(
			Transform{
				Position: position,
				Rotation: mgl32.Vec3{0, 0, rng.Float32() * ParticleMaxRotation},
			},
			Sprite{Size: SpriteSize, Tint: SmokeTint, Transparent: true},
			Smoke{Direction: rng.Float64() > 0.5},
			Visible{},
		)))
	}
	return refs
}

// Step runs one frame of systems with dt seconds of elapsed time.
func (s *Scene) Step(dt float64) {
	s.Scheduler.Once(dt)
}

// DrawList returns the primitives produced by the last Step.
func (s *Scene) DrawList() *render.DrawList {
	return s.drawList.Get()
}

// Viewport returns the current render target size.
func (s *Scene) Viewport() Viewport {
	return *s.viewport.Get()
}

// Camera returns the scene camera.
func (s *Scene) Camera() render.Camera {
	return *s.camera.Get()
}

// Resize changes the render target and the camera aspect to match. Sizes
// that are not positive are ignored.
func (s *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	vp := s.viewport.Get()
	vp.Width, vp.Height = width, height
	s.camera.Get().Aspect = vp.Aspect()
}

// CubeTransform returns the cube's current transform.
func (s *Scene) CubeTransform() Transform {
	return *ecs.ReadComponent[Transform](s.Storage, s.Cube.Id)
}

// CubeVisible reports whether the cube is in the render set.
func (s *Scene) CubeVisible() bool {
	return s.Storage.HasComponent(s.Cube.Id, reflect.TypeFor[Visible]())
}

// SetCubeVisible adds the cube to or removes it from the render set. Call it
// between frames, never from inside a system.
func (s *Scene) SetCubeVisible(visible bool) {
	id, ok := s.Storage.ResolveEntityRef(s.Cube)
	if !ok || visible == s.CubeVisible() {
		return
	}
	if visible {
		s.Storage.AddComponent(id, Visible{})
	} else {
		s.Storage.RemoveComponent(id, reflect.TypeFor[Visible]())
	}
}

// ToggleCube flips the cube's visibility and returns the new state.
func (s *Scene) ToggleCube() bool {
	s.SetCubeVisible(!s.CubeVisible())
	return s.CubeVisible()
}

// ParticleTransform returns the transform of the i-th particle.
func (s *Scene) ParticleTransform(i int) Transform {
	return *ecs.ReadComponent[Transform](s.Storage, s.Particles[i].Id)
}
