// Package animate drives a scene one frame callback at a time.
//
// The host owns the frame cadence. An Animator asks the host's Requester for
// the next callback from inside the current one, so a host that stops
// calling stops the animation.
package animate

import "context"

// Requester schedules frame to run once, at the host's next refresh. A later
// request before the refresh replaces the earlier one.
type Requester interface {
	Request(frame func())
}

// DeltaSource reports seconds elapsed since it was last asked.
type DeltaSource interface {
	Delta() float64
}

// Stepper advances the world by dt seconds.
type Stepper interface {
	Step(dt float64)
}

// StopCondition reports whether no callback should follow frame. Frames are
// numbered from 1; Start asks about frame 0.
type StopCondition func(frame uint64) bool

// Forever never stops.
func Forever() StopCondition {
	return func(uint64) bool { return false }
}

// After stops once n frames have run.
func After(n uint64) StopCondition {
	return func(frame uint64) bool { return frame >= n }
}

// UntilDone stops once ctx is cancelled.
func UntilDone(ctx context.Context) StopCondition {
	return func(uint64) bool { return ctx.Err() != nil }
}

// Animator is the per-frame loop: read the delta, request the next frame,
// then step.
type Animator struct {
	clock     DeltaSource
	requester Requester
	stepper   Stepper
	stop      StopCondition

	frames uint64
	done   bool
}

// New returns an idle animator. A nil stop means Forever.
func New(clock DeltaSource, requester Requester, stepper Stepper, stop StopCondition) *Animator {
	if stop == nil {
		stop = Forever()
	}
	return &Animator{
		clock:     clock,
		requester: requester,
		stepper:   stepper,
		stop:      stop,
	}
}

// Start requests the first frame.
func (a *Animator) Start() {
	if a.stop(0) {
		a.done = true
		return
	}
	a.requester.Request(a.frame)
}

func (a *Animator) frame() {
	dt := a.clock.Delta()
	a.frames++
	if a.stop(a.frames) {
		a.done = true
	} else {
		a.requester.Request(a.frame)
	}
	a.stepper.Step(dt)
}

// Frames returns the number of callbacks run.
func (a *Animator) Frames() uint64 {
	return a.frames
}

// Done reports whether the last frame has been requested and run.
func (a *Animator) Done() bool {
	return a.done
}
