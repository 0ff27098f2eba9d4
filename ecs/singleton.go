package ecs

import (
	"reflect"
	"unsafe"
)

// singletonEntry holds one world-wide value outside any archetype.
type singletonEntry struct {
	typ     reflect.Type
	value   reflect.Value // addressable, keeps the value alive
	dataPtr unsafe.Pointer
}

// AddSingleton stores value (a T or *T, copied) as the singleton of its type,
// replacing any earlier one. Singletons need no registration.
func (s *Storage) AddSingleton(value any) {
	src := reflect.ValueOf(value)
	if src.Kind() == reflect.Ptr {
		src = src.Elem()
	}
	holder := reflect.New(src.Type())
	holder.Elem().Set(src)
	s.singletons[src.Type()] = &singletonEntry{
		typ:     src.Type(),
		value:   holder,
		dataPtr: holder.UnsafePointer(),
	}
}

// RemoveSingleton drops the singleton of t. Existing Singleton accessors
// notice on their next Get.
func (s *Storage) RemoveSingleton(t reflect.Type) {
	delete(s.singletons, t)
}

// ReadSingleton points *target at the singleton of its element type.
// target must be a **T; it reports false when no T singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}
	entry := s.getSingletonEntry(v.Elem().Type().Elem())
	if entry == nil {
		return false
	}
	v.Elem().Set(entry.value)
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// Singleton is a cached accessor for the storage-wide T. Declare one as a
// field of a System to have the Scheduler bind it.
type Singleton[T any] struct {
	storage      *Storage
	componentPtr unsafe.Pointer
}

// NewSingleton returns an accessor for T, creating the singleton from
// initializer (or the zero value) when it does not exist yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()
	if storage.getSingletonEntry(t) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(&value)
	}
	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage. The Scheduler calls it on registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.updateCache()
}

// Get returns the singleton, or nil when none exists.
func (s *Singleton[T]) Get() *T {
	s.updateCache()
	if s.componentPtr == nil {
		return nil
	}
	return (*T)(s.componentPtr)
}

// Exists reports whether the singleton is present.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}
