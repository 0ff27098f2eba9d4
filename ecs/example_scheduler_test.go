package ecs_test

import (
	"fmt"
	"math"

	"github.com/plus3/smoke/ecs"
)

type Bob struct {
	Phase, Step, Base, Amplitude float64
}

type BobSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Bob
	}]
}

func (s *BobSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Entities.Values() {
		e.Bob.Phase += e.Bob.Step
		e.Position.Z = float32(e.Bob.Base + math.Sin(e.Bob.Phase)*e.Bob.Amplitude)
	}
}

type TurnSystem struct {
	Entities ecs.Query[struct {
		*Rotation
		*Spin
	}]
}

func (s *TurnSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Entities.Values() {
		e.Rotation.Z += e.Spin.Rate * float32(frame.DeltaTime)
	}
}

// ExampleScheduler runs two systems over a small world. Query fields are
// bound on Register and refreshed at the start of every Once.
func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Rotation](registry)
	ecs.RegisterComponent[Spin](registry)
	ecs.RegisterComponent[Bob](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Position{}, Bob{Step: math.Pi / 2, Base: 100, Amplitude: 500})
	storage.Spawn(Rotation{Z: 1}, Spin{Rate: 0.2})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&BobSystem{})
	scheduler.Register(&TurnSystem{})

	scheduler.Once(0.5)

	for e := range ecs.NewView[struct{ *Position }](storage).Values() {
		fmt.Printf("z=%.0f\n", e.Position.Z)
	}
	for e := range ecs.NewView[struct{ *Rotation }](storage).Values() {
		fmt.Printf("rotation=%.1f\n", e.Rotation.Z)
	}

	// Output:
	// z=600
	// rotation=1.1
}
