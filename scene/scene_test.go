package scene_test

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/plus3/smoke/ecs"
	"github.com/plus3/smoke/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScene(t *testing.T, cfg scene.Config) *scene.Scene {
	t.Helper()
	s, err := scene.New(cfg, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return s
}

func TestNewSpawnsSmokeCloud(t *testing.T) {
	s := newScene(t, scene.DefaultConfig())
	require.Len(t, s.Particles, scene.ParticleCount)

	particles := ecs.NewView[struct {
		*scene.Transform
		*scene.Smoke
	}](s.Storage)
	assert.Equal(t, 150, particles.Count())

	for i := range s.Particles {
		tr := s.ParticleTransform(i)
		assert.GreaterOrEqual(t, tr.Position.X(), float32(-250))
		assert.Less(t, tr.Position.X(), float32(250))
		assert.GreaterOrEqual(t, tr.Position.Y(), float32(-300))
		assert.Less(t, tr.Position.Y(), float32(0))
		assert.GreaterOrEqual(t, tr.Position.Z(), float32(-100))
		assert.Less(t, tr.Position.Z(), float32(900))
		assert.GreaterOrEqual(t, tr.Rotation.Z(), float32(0))
		assert.Less(t, tr.Rotation.Z(), float32(360))
		assert.Zero(t, tr.Rotation.X())
		assert.Zero(t, tr.Rotation.Y())
	}
}

func TestNewIsDeterministicForSeed(t *testing.T) {
	a := newScene(t, scene.DefaultConfig())
	b := newScene(t, scene.DefaultConfig())
	for i := range a.Particles {
		assert.Equal(t, a.ParticleTransform(i), b.ParticleTransform(i))
	}
}

func TestNewRejectsEmptyViewport(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.Height = 0
	_, err := scene.New(cfg, rand.New(rand.NewPCG(1, 2)))
	assert.Error(t, err)
}

func TestNewSetsUpCamera(t *testing.T) {
	s := newScene(t, scene.DefaultConfig())
	cam := s.Camera()
	assert.Equal(t, float32(75), cam.FOV)
	assert.Equal(t, float32(1), cam.Near)
	assert.Equal(t, float32(10000), cam.Far)
	assert.Equal(t, float32(1000), cam.Position.Z())
	assert.InDelta(t, 800.0/600.0, cam.Aspect, 1e-6)
}

func TestSmokeRotatesWithDelta(t *testing.T) {
	s := newScene(t, scene.DefaultConfig())
	before := make([]float32, len(s.Particles))
	for i := range s.Particles {
		before[i] = s.ParticleTransform(i).Rotation.Z()
	}

	const frames, dt = 100, 1.0 / 60
	for range frames {
		s.Step(dt)
	}

	for i := range s.Particles {
		tr := s.ParticleTransform(i)
		assert.InDelta(t, before[i]+0.2*dt*frames, tr.Rotation.Z(), 1e-2)
	}
}

func TestZeroDeltaLeavesSmokeStill(t *testing.T) {
	s := newScene(t, scene.DefaultConfig())
	before := s.ParticleTransform(0)
	s.Step(0)
	assert.Equal(t, before, s.ParticleTransform(0))
}

func TestCubeMotionIsPerFrame(t *testing.T) {
	s := newScene(t, scene.DefaultConfig())

	const frames = 50
	for range frames {
		s.Step(0.5)
	}

	cube := s.CubeTransform()
	assert.InDelta(t, 0.005*frames, cube.Rotation.X(), 1e-4)
	assert.InDelta(t, 0.01*frames, cube.Rotation.Y(), 1e-4)
	assert.InDelta(t, 100+500*math.Sin(0.01*frames), cube.Position.Z(), 1e-2)
}

func TestCubeHiddenByDefault(t *testing.T) {
	s := newScene(t, scene.DefaultConfig())
	s.Step(0)

	list := s.DrawList()
	sprites, faces := list.Counts()
	assert.Equal(t, 150, sprites)
	assert.Zero(t, faces)
	assert.Equal(t, uint64(1), list.Frame)
	assert.Equal(t, 800, list.Width)
}

func TestShowCubeAddsFaces(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.ShowCube = true
	s := newScene(t, cfg)
	s.Step(0)

	_, faces := s.DrawList().Counts()
	assert.GreaterOrEqual(t, faces, 1)
	assert.LessOrEqual(t, faces, 3)
}

func TestToggleCubeKeepsMotion(t *testing.T) {
	s := newScene(t, scene.DefaultConfig())
	require.False(t, s.CubeVisible())

	const frames = 10
	for i := range frames {
		assert.Equal(t, i%2 == 0, s.ToggleCube())
		s.Step(0)

		_, faces := s.DrawList().Counts()
		if s.CubeVisible() {
			assert.GreaterOrEqual(t, faces, 1, "frame %d", i)
		} else {
			assert.Zero(t, faces, "frame %d", i)
		}
	}

	_, ok := s.Storage.ResolveEntityRef(s.Cube)
	require.True(t, ok)
	cube := s.CubeTransform()
	assert.InDelta(t, 0.005*frames, cube.Rotation.X(), 1e-4)
	assert.InDelta(t, 100+500*math.Sin(0.01*frames), cube.Position.Z(), 1e-2)
}

func TestSetCubeVisibleIsIdempotent(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.ShowCube = true
	s := newScene(t, cfg)
	id := s.Cube.Id

	s.SetCubeVisible(true)
	assert.Equal(t, id, s.Cube.Id)

	s.SetCubeVisible(false)
	assert.NotEqual(t, id, s.Cube.Id)
	assert.False(t, s.CubeVisible())
	assert.False(t, s.Storage.Alive(id))
}

func TestHiddenParticleKeepsSpinning(t *testing.T) {
	s := newScene(t, scene.DefaultConfig())
	ref := s.Particles[0]
	s.Storage.RemoveComponent(ref.Id, reflect.TypeFor[scene.Visible]())

	before := s.ParticleTransform(0).Rotation.Z()
	s.Step(1)

	sprites, _ := s.DrawList().Counts()
	assert.Equal(t, scene.ParticleCount-1, sprites)
	assert.NotEqual(t, before, s.ParticleTransform(0).Rotation.Z())
}

func TestDrawListIsBackToFront(t *testing.T) {
	s := newScene(t, scene.DefaultConfig())
	s.Step(0)

	prims := s.DrawList().Primitives
	for i := 1; i < len(prims); i++ {
		assert.GreaterOrEqual(t, prims[i-1].Depth, prims[i].Depth)
	}
}

func TestResize(t *testing.T) {
	s := newScene(t, scene.DefaultConfig())
	s.Resize(400, 400)
	assert.Equal(t, scene.Viewport{Width: 400, Height: 400}, s.Viewport())
	assert.InDelta(t, 1, s.Camera().Aspect, 1e-6)

	s.Step(0)
	assert.Equal(t, 400, s.DrawList().Width)

	s.Resize(0, 100)
	assert.Equal(t, 400, s.Viewport().Width)
}

func BenchmarkStep(b *testing.B) {
	cfg := scene.DefaultConfig()
	cfg.ShowCube = true
	s, err := scene.New(cfg, rand.New(rand.NewPCG(1, 2)))
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(1.0 / 60)
	}
}
