package ecs

// System is one step of a frame. Implementations are structs whose exported
// Query and Singleton fields are bound to the storage when the system is
// registered with a Scheduler; any other fields persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
