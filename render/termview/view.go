// Package termview presents draw lists in a terminal with tcell.
package termview

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/smoke/animate"
	"github.com/plus3/smoke/render"
)

// Source supplies the draw list to present.
type Source interface {
	DrawList() *render.DrawList
}

// View runs frame callbacks on a ticker and draws each frame as colored
// glyphs. It is the animate.Requester for the terminal host.
type View struct {
	animate.Queue

	screen   tcell.Screen
	source   Source
	onResize func(cols, rows int)
	keys     map[rune]func()
	cells    []Cell
}

// New wraps an initialized screen. The caller keeps ownership of it.
func New(screen tcell.Screen, source Source) *View {
	return &View{screen: screen, source: source}
}

// OnResize sets a callback run when the terminal changes size.
func (v *View) OnResize(fn func(cols, rows int)) {
	v.onResize = fn
}

// OnKey binds fn to a rune key. fn runs on the Run goroutine between frames.
// q is reserved for quitting.
func (v *View) OnKey(r rune, fn func()) {
	if v.keys == nil {
		v.keys = make(map[rune]func())
	}
	v.keys[r] = fn
}

// Run runs one pending callback per interval and draws the result. It
// returns nil when no callback is pending or on Esc, q or Ctrl-C, and
// ctx.Err() when ctx is cancelled.
func (v *View) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if !v.handleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			if !v.RunPending() {
				return nil
			}
			v.Draw()
		}
	}
}

func (v *View) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			if fn := v.keys[ev.Rune()]; fn != nil {
				fn()
			}
		}

	case *tcell.EventResize:
		v.screen.Sync()
		if v.onResize != nil {
			cols, rows := ev.Size()
			v.onResize(cols, rows)
		}
	}
	return true
}

// Draw rasterizes the current draw list to the whole screen and shows it.
func (v *View) Draw() {
	list := v.source.DrawList()
	cols, rows := v.screen.Size()
	if list == nil || cols <= 0 || rows <= 0 {
		return
	}

	if len(v.cells) != cols*rows {
		v.cells = make([]Cell, cols*rows)
	}
	RasterizeInto(v.cells, list, cols, rows)

	bg := tcell.NewRGBColor(int32(list.Background.R), int32(list.Background.G), int32(list.Background.B))
	base := tcell.StyleDefault.Background(bg)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := v.cells[y*cols+x]
			fg := tcell.NewRGBColor(int32(c.Color.R), int32(c.Color.G), int32(c.Color.B))
			v.screen.SetContent(x, y, c.Rune, nil, base.Foreground(fg))
		}
	}
	v.screen.Show()
}
