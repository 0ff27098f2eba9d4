package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry records which component types a Storage may hold and how
// to build a column for each of them.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent makes T usable as an entity component in storages built
// from r. Registering the same type twice is harmless.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const blockSize = 64

type componentBlock[T any] struct {
	items  [blockSize]T
	filled [blockSize]bool
}

// genericComponentStorage keeps components in fixed-size blocks allocated
// separately, so a pointer handed out by Get stays valid when the column
// grows.
type genericComponentStorage[T any] struct {
	blocks    []*componentBlock[T]
	freeSlots []int
	nextIndex int
	live      int
}

func (cs *genericComponentStorage[T]) slot(index int) (*componentBlock[T], int) {
	if index < 0 || index >= cs.nextIndex {
		return nil, 0
	}
	return cs.blocks[index/blockSize], index % blockSize
}

// Append stores item (a T or *T) and returns its slot, reusing freed slots
// first. It returns -1 when item has the wrong type.
func (cs *genericComponentStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
		if index/blockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, &componentBlock[T]{})
		}
	}

	block, i := cs.slot(index)
	block.items[i] = value
	block.filled[i] = true
	cs.live++
	return index
}

// Get returns a *T for a filled slot, nil otherwise.
func (cs *genericComponentStorage[T]) Get(index int) any {
	block, i := cs.slot(index)
	if block == nil || !block.filled[i] {
		return nil
	}
	return &block.items[i]
}

// Delete empties a slot. Other slots keep their indices.
func (cs *genericComponentStorage[T]) Delete(index int) {
	block, i := cs.slot(index)
	if block == nil || !block.filled[i] {
		return
	}
	var zero T
	block.items[i] = zero
	block.filled[i] = false
	cs.freeSlots = append(cs.freeSlots, index)
	cs.live--
}

func (cs *genericComponentStorage[T]) Has(index int) bool {
	block, i := cs.slot(index)
	return block != nil && block.filled[i]
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.live
}

// Compact moves filled slots down to close the gaps left by deletes and
// returns old index -> new index for every filled slot.
func (cs *genericComponentStorage[T]) Compact() map[int]int {
	indexMap := make(map[int]int, cs.live)
	blocks := make([]*componentBlock[T], 0, (cs.live+blockSize-1)/blockSize)
	write := 0
	for read := 0; read < cs.nextIndex; read++ {
		src := cs.blocks[read/blockSize]
		if !src.filled[read%blockSize] {
			continue
		}
		if write/blockSize >= len(blocks) {
			blocks = append(blocks, &componentBlock[T]{})
		}
		dst := blocks[write/blockSize]
		dst.items[write%blockSize] = src.items[read%blockSize]
		dst.filled[write%blockSize] = true
		indexMap[read] = write
		write++
	}
	cs.blocks = blocks
	cs.freeSlots = nil
	cs.nextIndex = write
	return indexMap
}

// Iter yields filled slots in ascending order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for index := 0; index < cs.nextIndex; index++ {
			if !cs.blocks[index/blockSize].filled[index%blockSize] {
				continue
			}
			if !yield(index) {
				return
			}
		}
	}
}
