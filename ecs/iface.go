package ecs

import "unsafe"

// iface mirrors the runtime layout of an interface value so the data word
// can be read without reflection on hot paths.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

func dataPointer(v any) unsafe.Pointer {
	return (*iface)(unsafe.Pointer(&v)).data
}
