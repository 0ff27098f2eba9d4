package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/smoke/animate"
	"github.com/plus3/smoke/scene"
)

// timedStepper records how long each scene step takes.
type timedStepper struct {
	scene *scene.Scene
	stats Stats
}

func (t *timedStepper) Step(dt float64) {
	start := time.Now()
	t.scene.Step(dt)
	t.stats.Record(time.Since(start))
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the benchmark should run for.")
	seed := flag.Uint64("seed", 1, "Seed for particle placement.")
	showCube := flag.Bool("show-cube", false, "Render the cube as well as the smoke.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting smoke benchmark...")

	cfg := scene.DefaultConfig()
	cfg.ShowCube = *showCube
	s, err := scene.New(cfg, rand.New(rand.NewPCG(*seed, *seed)))
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}

	report := &Report{
		Duration:       *duration,
		Seed:           *seed,
		ShowCube:       *showCube,
		Particles:      len(s.Particles),
		GCPauseMetrics: *gcPauseMetrics,
	}

	stepper := &timedStepper{scene: s}
	ticker := animate.NewTickerRequester()
	animator := animate.New(s.Clock, ticker, stepper, animate.Forever())

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running scene for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	animator.Start()
	if err := ticker.Run(ctx, 0, 0); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Fatalf("Benchmark stopped: %v", err)
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = int64(animator.Frames())
	report.UpdateTime = stepper.stats
	report.UpdateTime.Finalize()
	report.Scheduler = s.Scheduler.GetStats()
	report.Primitives = len(s.DrawList().Primitives)
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Benchmark finished.")

	fmt.Println("\n\n--- Smoke Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
