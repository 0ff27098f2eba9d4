// Package debugui draws Dear ImGui panels over a running scene.
// Panels are ImguiItem entities; ImguiSystem defers their render functions so
// they run inside the host's ImGui frame.
package debugui

import (
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/smoke/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState mirrors ImGui's input capture flags as a singleton.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queues every ImguiItem's render function and refreshes
// ImguiInputState.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		if item.ImguiItem.Render != nil {
			frame.Commands.Defer(item.ImguiItem.Render)
		}
	}
}

// RegisterComponents adds the debug components to registry. It must run
// before any of them are spawned.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}

// Watch names an entity the inspector lists. Toggles are tag component
// types the inspector offers as checkboxes; each must be registered.
type Watch struct {
	Label   string
	Entity  *ecs.EntityRef
	Toggles []reflect.Type
}

// Install spawns the stats panel and the inspector into the scheduler's
// storage and registers ImguiSystem last, after the systems it reports on.
func Install(scheduler *ecs.Scheduler, watches ...Watch) {
	storage := scheduler.Storage()
	RegisterComponents(storage.Registry())
	ecs.NewSingleton[ImguiInputState](storage)

	stats := NewStatsPanel(120)
	inspector := NewInspector(watches)

	storage.Spawn(ImguiItem{Render: func() { stats.Render(storage, scheduler) }})
	storage.Spawn(ImguiItem{Render: func() { inspector.Render(storage) }})

	scheduler.Register(&StatsRecorder{Panel: stats})
	scheduler.Register(&ImguiSystem{})
}
