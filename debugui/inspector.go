package debugui

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/smoke/ecs"
)

// Inspector lists watched entities and edits the numeric and boolean fields of
// the selected one in place.
type Inspector struct {
	watches  []Watch
	selected int
}

func NewInspector(watches []Watch) *Inspector {
	return &Inspector{watches: watches}
}

// Selected returns the entity being inspected.
func (in *Inspector) Selected() (Watch, bool) {
	if in.selected < 0 || in.selected >= len(in.watches) {
		return Watch{}, false
	}
	return in.watches[in.selected], true
}

// Select picks the i-th watched entity.
func (in *Inspector) Select(i int) {
	if i >= 0 && i < len(in.watches) {
		in.selected = i
	}
}

func (in *Inspector) Render(storage *ecs.Storage) {
	imgui.SetNextWindowPosV(imgui.NewVec2(340, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 400), imgui.CondOnce)
	if !imgui.BeginV("Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if imgui.Button("Prev") {
		in.Select(in.selected - 1)
	}
	imgui.SameLine()
	if imgui.Button("Next") {
		in.Select(in.selected + 1)
	}
	imgui.SameLine()
	imgui.Text(fmt.Sprintf("%d / %d", in.selected+1, len(in.watches)))

	watch, ok := in.Selected()
	if !ok {
		imgui.Text("Nothing to inspect")
		imgui.End()
		return
	}

	id, ok := storage.ResolveEntityRef(watch.Entity)
	if !ok {
		imgui.Text(fmt.Sprintf("%s: entity is gone", watch.Label))
		imgui.End()
		return
	}

	imgui.Text(watch.Label)
	for _, tag := range watch.Toggles {
		on := storage.HasComponent(id, tag)
		if imgui.Checkbox(tag.Name()+"##toggle", &on) {
			setComponent(storage, watch.Entity, tag, on)
		}
	}
	id = watch.Entity.Id
	archetype := storage.GetArchetypeById(id.ArchetypeId())

	imgui.Text(fmt.Sprintf("Entity ID: %d", id))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", archetype.ID()))
	imgui.Separator()

	for _, compType := range archetype.Types() {
		component := storage.GetComponent(id, compType)
		if component == nil {
			continue
		}
		if imgui.TreeNodeStr(compType.String()) {
			renderValue(reflect.ValueOf(component).Elem(), "")
			imgui.TreePop()
		}
	}

	imgui.End()
}

// setComponent adds a zero tag to the entity behind ref or removes it. The
// ref follows the entity into its new archetype.
func setComponent(storage *ecs.Storage, ref *ecs.EntityRef, tag reflect.Type, on bool) {
	id, ok := storage.ResolveEntityRef(ref)
	if !ok || storage.HasComponent(id, tag) == on {
		return
	}
	if on {
		storage.AddComponent(id, reflect.New(tag).Elem().Interface())
	} else {
		storage.RemoveComponent(id, tag)
	}
}

func renderValue(val reflect.Value, prefix string) {
	fields := globalReflectionCache.GetFields(val.Type())
	if len(fields) == 0 {
		imgui.Text("(no fields)")
		return
	}
	for _, field := range fields {
		renderField(field, val.Field(field.Index), prefix+field.Name)
	}
}

// renderField draws one field. id keeps widget labels unique across nested
// fields with the same name.
func renderField(field FieldInfo, val reflect.Value, id string) {
	switch {
	case field.IsStruct:
		if imgui.TreeNodeStr(field.Name + "##" + id) {
			renderValue(val, id+".")
			imgui.TreePop()
		}

	case field.IsArray && isFloat(field.Type.Elem().Kind()):
		imgui.Text(field.Name + ":")
		for i := 0; i < val.Len(); i++ {
			v := float32(val.Index(i).Float())
			imgui.SetNextItemWidth(90)
			if imgui.InputFloat(elementLabel(id, i), &v) {
				setFloat(val.Index(i), v)
			}
			if i < val.Len()-1 {
				imgui.SameLine()
			}
		}

	case field.IsArray:
		imgui.Text(fmt.Sprintf("%s: %s", field.Name, formatArray(val)))

	default:
		renderScalar(field.Name, val, id)
	}
}

func renderScalar(name string, val reflect.Value, id string) {
	switch {
	case isFloat(val.Kind()):
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat("##"+id, &v) {
			setFloat(val, v)
		}

	case val.Kind() == reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name+"##"+id, &v) && val.CanSet() {
			val.SetBool(v)
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func elementLabel(id string, i int) string {
	return "##" + id + "." + strconv.Itoa(i)
}

func setFloat(val reflect.Value, v float32) bool {
	if !val.CanSet() {
		return false
	}
	val.SetFloat(float64(v))
	return true
}

func formatArray(val reflect.Value) string {
	parts := make([]string, val.Len())
	for i := range parts {
		elem := val.Index(i)
		switch elem.Kind() {
		case reflect.Float32, reflect.Float64:
			parts[i] = fmt.Sprintf("%.3f", elem.Float())
		default:
			parts[i] = fmt.Sprint(elem.Interface())
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
