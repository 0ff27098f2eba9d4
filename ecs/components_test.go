package ecs_test

import "github.com/plus3/smoke/ecs"

// Common test component types
type Position struct {
	X, Y, Z float32
}

type Rotation struct {
	X, Y, Z float32
}

type Spin struct {
	Rate float32
}

type Label struct {
	Value string
}

type Hidden struct{}

// Custom primitive types for testing non-struct components
type Opacity float32
type Layer int32

type Palette struct {
	Colors []uint32
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Rotation](registry)
	ecs.RegisterComponent[Spin](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Hidden](registry)
	ecs.RegisterComponent[Opacity](registry)
	ecs.RegisterComponent[Layer](registry)
	ecs.RegisterComponent[Palette](registry)
	ecs.RegisterComponent[string](registry)
	return registry
}
