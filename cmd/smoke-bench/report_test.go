package main

import (
	"bytes"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/plus3/smoke/ecs"
	"github.com/plus3/smoke/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRecord(t *testing.T) {
	var s Stats
	for _, d := range []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond} {
		s.Record(d)
	}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)
	assert.Equal(t, int64(3), s.Count)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
	assert.Zero(t, empty.Min)
}

func TestTimedStepperKeepsRunningStats(t *testing.T) {
	s, err := scene.New(scene.DefaultConfig(), rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	stepper := &timedStepper{scene: s}
	for range 100 {
		stepper.Step(1.0 / 60)
	}
	assert.Equal(t, int64(100), stepper.stats.Count)
	assert.Positive(t, stepper.stats.Max)

	var stats Stats
	allocs := testing.AllocsPerRun(1000, func() { stats.Record(time.Microsecond) })
	assert.Zero(t, allocs)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{
		Duration:     time.Second,
		Seed:         7,
		Particles:    150,
		TotalUpdates: 42,
		Scheduler: &ecs.SchedulerStats{
			Systems: []ecs.SystemStats{{Name: "SmokeSystem", ExecutionCount: 42}},
		},
	}
	r.MemStatsEnd.HeapAlloc = 100
	r.MemStatsStart.HeapAlloc = 150

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "# Smoke Benchmark Report")
	assert.Contains(t, out, "**Seed:** 7")
	assert.Contains(t, out, "**Total Frames:** 42")
	assert.Contains(t, out, "| SmokeSystem | 42 |")
	assert.Contains(t, out, "delta: -50")
	assert.NotContains(t, out, "GC Pause")
}
