package scene

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// ParticleCount is the size of the smoke cloud. It never changes after
	// setup.
	ParticleCount = 150

	// SmokeSpin is the z rotation added per second of frame time.
	SmokeSpin = 0.2

	CubeSpinX     = 0.005
	CubeSpinY     = 0.01
	CubePhaseStep = 0.01
	CubeBaseZ     = 100
	CubeAmplitude = 500
	CubeSize      = 200

	SpriteSize = 300

	CameraFOV  = 75
	CameraNear = 1
	CameraFar  = 10000
	CameraZ    = 1000

	LightIntensity = 0.5
)

var (
	SmokeTint  = color.RGBA{0x30, 0xa0, 0xff, 0xff}
	CubeColor  = color.RGBA{0xff, 0x00, 0x00, 0xff}
	LightColor = color.RGBA{0xff, 0xff, 0xff, 0xff}

	LightPosition = mgl32.Vec3{-1, 0, 1}
)

// Particles are placed uniformly in [ParticleMin, ParticleMax).
var (
	ParticleMin = mgl32.Vec3{-250, -300, -100}
	ParticleMax = mgl32.Vec3{250, 0, 900}
)

// ParticleMaxRotation bounds the random initial z rotation. The value is in
// degrees while rotations are applied as radians; it is kept as is.
const ParticleMaxRotation = 360

// Config holds the few knobs the scene exposes.
type Config struct {
	Width  int
	Height int
	// ShowCube adds the cube to the render set. It is animated either way.
	ShowCube   bool
	Background color.RGBA
}

// DefaultConfig returns an 800×600 scene with the cube hidden.
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		Background: color.RGBA{0, 0, 0, 0xff},
	}
}

// Validate reports a config the scene cannot be built from.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Width, c.Height)
	}
	return nil
}
