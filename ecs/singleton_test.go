package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/smoke/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Viewport struct {
	Width, Height int
}

func TestSingleton(t *testing.T) {
	t.Run("initializer is used once", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())

		first := ecs.NewSingleton[Viewport](storage, Viewport{Width: 800, Height: 600})
		second := ecs.NewSingleton[Viewport](storage, Viewport{Width: 1, Height: 1})

		assert.Equal(t, Viewport{Width: 800, Height: 600}, *second.Get())
		assert.Same(t, first.Get(), second.Get())
	})

	t.Run("zero value without initializer", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		s := ecs.NewSingleton[Viewport](storage)
		assert.True(t, s.Exists())
		assert.Equal(t, Viewport{}, *s.Get())
	})

	t.Run("unbound accessor reports nothing", func(t *testing.T) {
		var s ecs.Singleton[Viewport]
		assert.False(t, s.Exists())
		assert.Nil(t, s.Get())
	})

	t.Run("read singleton", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())

		var vp *Viewport
		assert.False(t, storage.ReadSingleton(&vp))

		storage.AddSingleton(Viewport{Width: 320, Height: 200})
		require.True(t, storage.ReadSingleton(&vp))
		assert.Equal(t, 320, vp.Width)

		vp.Width = 640
		assert.Equal(t, 640, ecs.NewSingleton[Viewport](storage).Get().Width)

		assert.Panics(t, func() { storage.ReadSingleton(vp) })
	})

	t.Run("remove", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		s := ecs.NewSingleton[Viewport](storage)
		storage.RemoveSingleton(reflect.TypeFor[Viewport]())
		assert.Nil(t, s.Get())
	})
}
