package ecs_test

import (
	"runtime"
	"testing"

	"github.com/plus3/smoke/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityRefBasicLifecycle(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 1, Y: 2})
	ref := storage.CreateEntityRef(id)

	require.NotNil(t, ref)
	assert.Equal(t, id, ref.Id)
	assert.NotNil(t, ref.Archetype)

	resolved, ok := storage.ResolveEntityRef(ref)
	assert.True(t, ok)
	assert.Equal(t, id, resolved)
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, resolved).Y)

	assert.True(t, storage.InvalidateEntityRef(ref))
	_, ok = storage.ResolveEntityRef(ref)
	assert.False(t, ok)
	assert.True(t, storage.Alive(id), "invalidating a ref keeps the entity")
}

func TestEntityRefStability(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id1 := storage.Spawn(&Position{X: 1})
	id2 := storage.Spawn(&Position{X: 2})
	id3 := storage.Spawn(&Position{X: 3})

	ref1 := storage.CreateEntityRef(id1)
	ref2 := storage.CreateEntityRef(id2)
	ref3 := storage.CreateEntityRef(id3)

	storage.InvalidateEntityRef(ref2)

	resolved1, ok1 := storage.ResolveEntityRef(ref1)
	resolved3, ok3 := storage.ResolveEntityRef(ref3)
	assert.True(t, ok1)
	assert.True(t, ok3)
	assert.Equal(t, id1, resolved1)
	assert.Equal(t, id3, resolved3)

	_, ok2 := storage.ResolveEntityRef(ref2)
	assert.False(t, ok2)
}

func TestEntityRefIdempotency(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(&Position{X: 5, Y: 10})

	ref1 := storage.CreateEntityRef(id)
	ref2 := storage.CreateEntityRef(id)
	assert.Same(t, ref1, ref2)

	runtime.KeepAlive(ref1)
}

func TestEntityRefMultipleInvalidations(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ref := storage.CreateEntityRef(storage.Spawn(&Position{X: 1}))

	assert.True(t, storage.InvalidateEntityRef(ref))
	assert.False(t, storage.InvalidateEntityRef(ref))

	_, ok := storage.ResolveEntityRef(ref)
	assert.False(t, ok)
}

func TestEntityRefInvalidBeforeCreate(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	_, ok := storage.ResolveEntityRef(nil)
	assert.False(t, ok)
	assert.False(t, storage.InvalidateEntityRef(nil))
	assert.Nil(t, storage.CreateEntityRef(ecs.NewEntityId(12345, 0)))
}

func TestEntityRefClearedOnDelete(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{}, Spin{})
	ref := storage.CreateEntityRef(id)

	storage.Delete(id)

	_, ok := storage.ResolveEntityRef(ref)
	assert.False(t, ok)
	assert.Nil(t, ref.Archetype)

	reused := storage.Spawn(Position{}, Spin{})
	assert.Equal(t, id, reused, "slot is reused")
	assert.NotSame(t, ref, storage.CreateEntityRef(reused))
}
