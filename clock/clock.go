// Package clock measures frame time the way render loops usually ask for it:
// "how long since I last asked".
package clock

import "time"

// Clock tracks elapsed time between Delta calls. A Clock with auto start
// begins running on its first Delta, which returns 0.
type Clock struct {
	now       func() time.Time
	autoStart bool
	running   bool
	startTime time.Time
	oldTime   time.Time
	elapsed   float64
}

// New returns an auto-starting clock on the wall clock.
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource returns an auto-starting clock reading time from now.
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{now: now, autoStart: true}
}

// SetAutoStart controls whether Delta starts a stopped clock.
func (c *Clock) SetAutoStart(on bool) {
	c.autoStart = on
}

// Start resets the clock and begins measuring.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.oldTime = c.startTime
	c.elapsed = 0
	c.running = true
}

// Stop folds the time since the last query into Elapsed and stops the clock.
func (c *Clock) Stop() {
	c.Elapsed()
	c.running = false
	c.autoStart = false
}

// Running reports whether the clock is measuring.
func (c *Clock) Running() bool {
	return c.running
}

// Delta returns the seconds since the previous Delta or Elapsed call.
func (c *Clock) Delta() float64 {
	if c.autoStart && !c.running {
		c.Start()
		return 0
	}
	if !c.running {
		return 0
	}
	newTime := c.now()
	diff := newTime.Sub(c.oldTime).Seconds()
	c.oldTime = newTime
	c.elapsed += diff
	return diff
}

// Elapsed returns the seconds accumulated since Start.
func (c *Clock) Elapsed() float64 {
	c.Delta()
	return c.elapsed
}
