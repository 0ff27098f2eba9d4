package render

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
)

// PuffAlpha is the opacity of a smoke puff at distance r from its center,
// measured in half-widths. It is 0 from r = 1 outward.
func PuffAlpha(r float32) float32 {
	a := 1 - r*r
	if a <= 0 {
		return 0
	}
	return a * a * 0.6
}

// SmokePuff draws a white, soft-edged, wispy puff to use when no smoke
// texture can be loaded. The same seed gives the same image.
func SmokePuff(size int, seed uint64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}

	noise := newValueNoise(seed, 8)
	half := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - half) / half
			dy := (float64(y) + 0.5 - half) / half
			r := math.Hypot(dx, dy)

			n := noise.at((dx+1)/2, (dy+1)/2)
			a := float64(PuffAlpha(float32(r))) * (0.55 + 0.45*n)
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: uint8(a*255 + 0.5)})
		}
	}
	return img
}

// valueNoise is bilinear interpolation over a small random lattice.
type valueNoise struct {
	cells   int
	lattice []float64
}

func newValueNoise(seed uint64, cells int) *valueNoise {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	lattice := make([]float64, (cells+1)*(cells+1))
	for i := range lattice {
		lattice[i] = rng.Float64()
	}
	return &valueNoise{cells: cells, lattice: lattice}
}

// at samples the noise at u, v in [0,1].
func (n *valueNoise) at(u, v float64) float64 {
	fx := min(max(u, 0), 1) * float64(n.cells)
	fy := min(max(v, 0), 1) * float64(n.cells)
	x0, y0 := min(int(fx), n.cells-1), min(int(fy), n.cells-1)
	tx, ty := smoothstep(fx-float64(x0)), smoothstep(fy-float64(y0))

	stride := n.cells + 1
	a := n.lattice[y0*stride+x0]
	b := n.lattice[y0*stride+x0+1]
	c := n.lattice[(y0+1)*stride+x0]
	d := n.lattice[(y0+1)*stride+x0+1]

	top := a + (b-a)*tx
	bottom := c + (d-c)*tx
	return top + (bottom-top)*ty
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}
