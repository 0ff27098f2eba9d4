// Package ebitenview presents draw lists in an ebiten window.
package ebitenview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/smoke/animate"
	"github.com/plus3/smoke/render"
)

// Source supplies the draw list to present.
type Source interface {
	DrawList() *render.DrawList
}

// Overlay is drawn over the scene. Update is bracketed by BeginFrame and
// EndFrame so the overlay can collect widgets from the frame callback.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(outsideWidth, outsideHeight int)
}

// Game runs one pending frame callback per ebiten tick and draws the
// source's draw list. It is the animate.Requester for the window host.
type Game struct {
	animate.Queue

	source  Source
	texture *ebiten.Image
	overlay Overlay
	keys    map[ebiten.Key]func()
	width   int
	height  int

	white    *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewGame returns a game with a fixed width×height logical screen. texture
// fills sprites.
func NewGame(source Source, texture *ebiten.Image, width, height int) *Game {
	return &Game{
		source:  source,
		texture: texture,
		width:   width,
		height:  height,
	}
}

// SetOverlay installs o, replacing any earlier overlay. nil removes it.
func (g *Game) SetOverlay(o Overlay) {
	g.overlay = o
}

// OnKey binds fn to key. fn runs in Update, before the frame callback, on
// the tick the key goes down.
func (g *Game) OnKey(key ebiten.Key, fn func()) {
	if g.keys == nil {
		g.keys = make(map[ebiten.Key]func())
	}
	g.keys[key] = fn
}

func (g *Game) handleKeys(pressed func(ebiten.Key) bool) {
	for key, fn := range g.keys {
		if pressed(key) {
			fn()
		}
	}
}

// Update runs the pending callback. It ends the game once nothing is pending.
func (g *Game) Update() error {
	g.handleKeys(inpututil.IsKeyJustPressed)
	if g.overlay != nil {
		g.overlay.BeginFrame()
	}
	ran := g.RunPending()
	if g.overlay != nil {
		g.overlay.EndFrame()
	}
	if !ran {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	list := g.source.DrawList()
	if list == nil {
		screen.Fill(color.Black)
	} else {
		screen.Fill(list.Background)
		g.drawList(screen, list)
	}
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}

// drawList batches runs of same-kind primitives so painter's order holds.
func (g *Game) drawList(screen *ebiten.Image, list *render.DrawList) {
	if g.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		g.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.FillRule = ebiten.FillAll

	var current render.Kind
	flush := func() {
		if len(g.indices) == 0 {
			return
		}
		src := g.white
		if current == render.KindSprite && g.texture != nil {
			src = g.texture
		}
		screen.DrawTriangles(g.vertices, g.indices, src, op)
		g.vertices = g.vertices[:0]
		g.indices = g.indices[:0]
	}

	texW, texH := 1, 1
	if g.texture != nil {
		b := g.texture.Bounds()
		texW, texH = b.Dx(), b.Dy()
	}

	for i, prim := range list.Primitives {
		if i == 0 || prim.Kind != current || len(g.vertices)+4 > maxBatchVertices {
			flush()
			current = prim.Kind
		}
		if prim.Kind == render.KindSprite && g.texture != nil {
			g.vertices, g.indices = appendQuad(g.vertices, g.indices, prim, float32(texW), float32(texH))
		} else {
			g.vertices, g.indices = appendSolidQuad(g.vertices, g.indices, prim)
		}
	}
	flush()
}

const maxBatchVertices = 1 << 15

// appendQuad adds a textured quad. UVs are scaled to the texture's pixel size.
func appendQuad(vertices []ebiten.Vertex, indices []uint16, prim render.Primitive, texW, texH float32) ([]ebiten.Vertex, []uint16) {
	base := uint16(len(vertices))
	r, gr, b, a := colorScale(prim.Color)
	for i, pt := range prim.Points {
		uv := render.SpriteUV[i]
		vertices = append(vertices, ebiten.Vertex{
			DstX:   pt.X(),
			DstY:   pt.Y(),
			SrcX:   uv.X() * texW,
			SrcY:   uv.Y() * texH,
			ColorR: r,
			ColorG: gr,
			ColorB: b,
			ColorA: a,
		})
	}
	return vertices, append(indices, base, base+1, base+2, base, base+2, base+3)
}

// appendSolidQuad adds a flat quad sampled from the 1×1 white image.
func appendSolidQuad(vertices []ebiten.Vertex, indices []uint16, prim render.Primitive) ([]ebiten.Vertex, []uint16) {
	base := uint16(len(vertices))
	r, gr, b, a := colorScale(prim.Color)
	for _, pt := range prim.Points {
		vertices = append(vertices, ebiten.Vertex{
			DstX:   pt.X(),
			DstY:   pt.Y(),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: gr,
			ColorB: b,
			ColorA: a,
		})
	}
	return vertices, append(indices, base, base+1, base+2, base, base+2, base+3)
}

func colorScale(c color.RGBA) (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// LoadTexture reads the sprite texture from path. When that fails it logs a
// warning and returns a procedural puff instead.
func LoadTexture(path string) *ebiten.Image {
	img, err := loadImage(path)
	if err != nil {
		log.Printf("warning: %v; using procedural smoke", err)
		return ebiten.NewImageFromImage(render.SmokePuff(256, 1))
	}
	return img
}

func loadImage(path string) (*ebiten.Image, error) {
	if path == "" {
		return nil, errors.New("no texture path")
	}
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	return img, nil
}
