package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/smoke/ecs"
	"github.com/stretchr/testify/assert"
)

type spawnOnceSystem struct {
	done bool
}

func (s *spawnOnceSystem) Execute(frame *ecs.UpdateFrame) {
	if s.done {
		return
	}
	frame.Commands.Spawn(Position{X: 1}, Spin{Rate: 1})
	s.done = true
}

type deleteHiddenSystem struct {
	Hidden ecs.Query[struct {
		ecs.EntityId
		*Hidden
	}]
}

func (s *deleteHiddenSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Hidden.Values() {
		frame.Commands.Delete(item.EntityId)
	}
}

func TestCommands(t *testing.T) {
	t.Run("spawn is deferred to the end of the frame", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&spawnOnceSystem{})

		view := ecs.NewView[struct{ *Spin }](storage)
		assert.Equal(t, 0, view.Count())

		scheduler.Once(0)
		assert.Equal(t, 1, view.Count())
	})

	t.Run("delete", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		keep := storage.Spawn(Position{})
		drop := storage.Spawn(Position{}, Hidden{})

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&deleteHiddenSystem{})
		scheduler.Once(0)

		assert.True(t, storage.Alive(keep))
		assert.False(t, storage.Alive(drop))
	})

	t.Run("flush order and reset", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		victim := storage.Spawn(Label{Value: "old"})

		var order []string
		commands := &ecs.Commands{}
		commands.Defer(func() {
			order = append(order, "defer")
			assert.False(t, storage.Alive(victim))
			assert.Equal(t, 1, ecs.NewView[struct{ *Spin }](storage).Count())
		})
		commands.Spawn(Spin{})
		commands.Delete(victim)
		assert.Equal(t, 3, commands.Pending())

		commands.Flush(storage)
		assert.Equal(t, []string{"defer"}, order)
		assert.Equal(t, 0, commands.Pending())

		commands.Flush(storage)
		assert.Equal(t, []string{"defer"}, order)
	})
	t.Run("add and remove component", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		shown := storage.Spawn(Position{X: 1}, Hidden{})
		plain := storage.Spawn(Position{X: 2})
		shownRef := storage.CreateEntityRef(shown)
		plainRef := storage.CreateEntityRef(plain)

		commands := &ecs.Commands{}
		commands.RemoveComponent(shown, reflect.TypeFor[Hidden]())
		commands.AddComponent(plain, Hidden{})
		assert.Equal(t, 2, commands.Pending())
		assert.True(t, storage.HasComponent(shown, reflect.TypeFor[Hidden]()))

		commands.Flush(storage)
		assert.Equal(t, 0, commands.Pending())
		assert.False(t, storage.HasComponent(shownRef.Id, reflect.TypeFor[Hidden]()))
		assert.True(t, storage.HasComponent(plainRef.Id, reflect.TypeFor[Hidden]()))
		assert.Equal(t, float32(1), ecs.ReadComponent[Position](storage, shownRef.Id).X)
		assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, plainRef.Id).X)
	})

	t.Run("changes to a deleted entity are dropped", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		victim := storage.Spawn(Position{})

		commands := &ecs.Commands{}
		commands.AddComponent(victim, Spin{})
		commands.Delete(victim)
		commands.Flush(storage)

		assert.False(t, storage.Alive(victim))
		assert.Nil(t, storage.GetArchetype(Position{}, Spin{}))
	})
}
