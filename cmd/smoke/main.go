package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"reflect"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/smoke/animate"
	"github.com/plus3/smoke/debugui"
	debugui_ebiten "github.com/plus3/smoke/debugui/ebiten"
	"github.com/plus3/smoke/render/ebitenview"
	"github.com/plus3/smoke/render/termview"
	"github.com/plus3/smoke/scene"
)

type options struct {
	mode     string
	width    int
	height   int
	seed     uint64
	texture  string
	frames   uint64
	tps      int
	showCube bool
	debug    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.mode, "mode", "window", "Where to draw: window, term or headless.")
	flag.IntVar(&opts.width, "width", 800, "Viewport width in pixels.")
	flag.IntVar(&opts.height, "height", 600, "Viewport height in pixels.")
	flag.Uint64Var(&opts.seed, "seed", uint64(time.Now().UnixNano()), "Seed for particle placement.")
	flag.StringVar(&opts.texture, "texture", "smoke.png", "Smoke sprite texture.")
	flag.Uint64Var(&opts.frames, "frames", 0, "Stop after this many frames (0 runs forever).")
	flag.IntVar(&opts.tps, "tps", 60, "Frames per second.")
	flag.BoolVar(&opts.showCube, "show-cube", false, "Render the cube as well as the smoke. Press c to toggle it.")
	flag.BoolVar(&opts.debug, "debug", false, "Show the ImGui debug panels (window mode).")
	flag.Parse()

	if opts.tps <= 0 {
		log.Fatalf("Invalid -tps %d", opts.tps)
	}

	cfg := scene.DefaultConfig()
	cfg.Width, cfg.Height = opts.width, opts.height
	cfg.ShowCube = opts.showCube

	s, err := scene.New(cfg, rand.New(rand.NewPCG(opts.seed, opts.seed)))
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}
	log.Printf("Scene ready: %d particles, seed %d", len(s.Particles), opts.seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch opts.mode {
	case "window":
		err = runWindow(s, opts)
	case "term":
		err = runTerm(ctx, s, opts)
	case "headless":
		err = runHeadless(ctx, s, opts)
	default:
		err = fmt.Errorf("unknown mode %q", opts.mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("%s: %v", opts.mode, err)
	}
}

func stopCondition(frames uint64) animate.StopCondition {
	if frames == 0 {
		return animate.Forever()
	}
	return animate.After(frames)
}

func runWindow(s *scene.Scene, opts options) error {
	game := ebitenview.NewGame(s, ebitenview.LoadTexture(opts.texture), opts.width, opts.height)
	game.OnKey(ebiten.KeyC, func() { toggleCube(s) })

	if opts.debug {
		backend := debugui_ebiten.NewImguiBackend("Smoke", opts.width, opts.height)
		game.SetOverlay(backend)
		debugui.Install(s.Scheduler,
			append([]debugui.Watch{{Label: "Cube", Entity: s.Cube, Toggles: visibleToggle}}, particleWatches(s)...)...)
	} else {
		ebiten.SetWindowTitle("Smoke")
		ebiten.SetWindowSize(opts.width, opts.height)
	}
	ebiten.SetTPS(opts.tps)

	animate.New(s.Clock, game, s, stopCondition(opts.frames)).Start()
	return ebiten.RunGame(game)
}

var visibleToggle = []reflect.Type{reflect.TypeFor[scene.Visible]()}

func toggleCube(s *scene.Scene) {
	log.Printf("Cube visible: %t", s.ToggleCube())
}

func particleWatches(s *scene.Scene) []debugui.Watch {
	watches := make([]debugui.Watch, len(s.Particles))
	for i, ref := range s.Particles {
		watches[i] = debugui.Watch{
			Label:   fmt.Sprintf("Particle %d", i),
			Entity:  ref,
			Toggles: visibleToggle,
		}
	}
	return watches
}

func runTerm(ctx context.Context, s *scene.Scene, opts options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()

	// Cells are about twice as tall as they are wide.
	resize := func(cols, rows int) { s.Resize(cols, rows*2) }
	resize(screen.Size())

	view := termview.New(screen, s)
	view.OnResize(resize)
	view.OnKey('c', func() { s.ToggleCube() })

	animate.New(s.Clock, view, s, stopCondition(opts.frames)).Start()
	return view.Run(ctx, time.Second/time.Duration(opts.tps))
}

func runHeadless(ctx context.Context, s *scene.Scene, opts options) error {
	ticker := animate.NewTickerRequester()
	animator := animate.New(s.Clock, ticker, s, animate.UntilDone(ctx))
	animator.Start()

	start := time.Now()
	err := ticker.Run(ctx, time.Second/time.Duration(opts.tps), opts.frames)

	sprites, faces := s.DrawList().Counts()
	log.Printf("Ran %d frames in %s (%d sprites, %d faces in last frame)",
		animator.Frames(), time.Since(start).Round(time.Millisecond), sprites, faces)
	return err
}
