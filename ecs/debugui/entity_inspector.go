package debugui

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/logic"
)

func NewEntityInspectorComponent() *EntityInspectorComponent {
	return &EntityInspectorComponent{}
}

func (ei *EntityInspectorComponent) Render(store *ecs.Store, selectedEntityID ecs.EntityID) {
	if !imgui.BeginV("Entity Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ei.selectedEntityID = selectedEntityID

	if ei.selectedEntityID == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	entity := store.Entity(ei.selectedEntityID)
	if entity == nil {
		imgui.Text(fmt.Sprintf("Entity %d was destroyed", ei.selectedEntityID))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity %d: %s", entity.ID, entity.Name))
	imgui.Checkbox("Active", &entity.Active)
	if len(entity.Tags) > 0 {
		imgui.Text("Tags: " + strings.Join(entity.Tags, ", "))
	}
	imgui.Separator()

	if imgui.TreeNodeStr("Transform") {
		ei.renderTransform(&entity.Transform)
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Variables") {
		ei.renderVariables(store, entity.ID)
		imgui.TreePop()
	}

	if ctx := store.PeekContext(entity.ID); ctx != nil {
		if imgui.TreeNodeStr("Signals") {
			ei.renderSignals(&ctx.Signals)
			imgui.TreePop()
		}
		if imgui.TreeNodeStr("Contacts") {
			renderContacts(&ctx.Collisions)
			imgui.TreePop()
		}
	}

	for idx, component := range store.EntityComponents(entity.ID) {
		if imgui.TreeNodeStr(fmt.Sprintf("%s##%d", component.Type, idx)) {
			renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ei *EntityInspectorComponent) renderTransform(t *ecs.Transform) {
	floatField("X", &t.X)
	floatField("Y", &t.Y)
	floatField("Z", &t.Z)
	floatField("Rotation", &t.Rotation)
	floatField("ScaleX", &t.ScaleX)
	floatField("ScaleY", &t.ScaleY)
}

func floatField(name string, f *float64) {
	v := float32(*f)
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(150)
	if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
		*f = float64(v)
	}
}

func (ei *EntityInspectorComponent) renderVariables(store *ecs.Store, id ecs.EntityID) {
	vars := store.EntityVariables(id)
	if len(vars) == 0 {
		imgui.Text("No variables")
		return
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		variable := vars[name]
		label := fmt.Sprintf("##var_%s", name)

		switch variable.Type {
		case ecs.TypeInt:
			n, _ := ecs.ToNumber(variable.Value)
			v := int32(n)
			imgui.Text(fmt.Sprintf("%s (int):", name))
			imgui.SameLine()
			imgui.SetNextItemWidth(150)
			if imgui.InputInt(label, &v) {
				store.SetEntityVariable(id, name, int(v))
			}

		case ecs.TypeFloat:
			n, _ := ecs.ToNumber(variable.Value)
			v := float32(n)
			imgui.Text(fmt.Sprintf("%s (float):", name))
			imgui.SameLine()
			imgui.SetNextItemWidth(150)
			if imgui.InputFloat(label, &v) {
				store.SetEntityVariable(id, name, float64(v))
			}

		case ecs.TypeBool:
			v, _ := variable.Value.(bool)
			if imgui.Checkbox(name, &v) {
				store.SetEntityVariable(id, name, v)
			}

		case ecs.TypeString:
			v := ecs.ToString(variable.Value)
			imgui.Text(fmt.Sprintf("%s (string):", name))
			imgui.SameLine()
			imgui.SetNextItemWidth(200)
			if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) {
				store.SetEntityVariable(id, name, v)
			}

		default:
			imgui.Text(fmt.Sprintf("%s (%s): %s", name, variable.Type, ecs.ToString(variable.Value)))
		}
	}
}

func (ei *EntityInspectorComponent) renderSignals(signals *ecs.Signals) {
	imgui.SetNextItemWidth(150)
	imgui.InputTextWithHint("##signal", "signal name", &ei.newSignal, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Raise") && ei.newSignal != "" {
		signals.Set(ei.newSignal, true)
		ei.newSignal = ""
	}

	for _, row := range signalRows(signals) {
		raised := row.Raised
		if imgui.Checkbox(row.Name, &raised) && !raised {
			signals.Clear(row.Name)
		}
		imgui.SameLine()
		imgui.Text(fmt.Sprintf("= %s", row.Value))
	}
	if pending := signals.Pending(); pending > 0 {
		imgui.Text(fmt.Sprintf("%d undelivered", pending))
	}
}

type SignalRow struct {
	Name   string
	Raised bool
	Value  string
}

func signalRows(signals *ecs.Signals) []SignalRow {
	rows := make([]SignalRow, 0, len(signals.Flags))
	for name, raised := range signals.Flags {
		value, _ := signals.Value(name)
		rows = append(rows, SignalRow{Name: name, Raised: raised, Value: ecs.ToString(value)})
	}
	slices.SortFunc(rows, func(a, b SignalRow) int { return strings.Compare(a.Name, b.Name) })
	return rows
}

func renderContacts(c *ecs.Collisions) {
	imgui.Text(fmt.Sprintf("Grounded: %t", c.Grounded))
	for _, contact := range c.Current {
		imgui.BulletText(fmt.Sprintf("#%d %s (normal %.2f,%.2f)", contact.OtherID, contact.OtherTag, contact.NormalX, contact.NormalY))
	}
}

func renderComponent(c *ecs.RuntimeComponent) {
	if rule, ok := c.Data.(*logic.LogicComponent); ok {
		imgui.Text(describeRule(rule))
		return
	}
	if c.Data == nil {
		imgui.Text("<no data>")
		return
	}

	val := reflect.ValueOf(c.Data)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			imgui.Text("<nil>")
			return
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		imgui.Text(fmt.Sprintf("%v", val.Interface()))
		return
	}

	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}
		renderField(field.Label, fieldVal, field)
	}
}

// describeRule renders a rule on one line, e.g. "collect: OnCollision [KeyPressed] -> SetVar, Destroy".
func describeRule(r *logic.LogicComponent) string {
	var b strings.Builder
	if r.ID != "" {
		b.WriteString(r.ID)
		b.WriteString(": ")
	}
	b.WriteString(string(r.Event))

	if len(r.Conditions) > 0 {
		joiner := " AND "
		if r.ConditionLogic == logic.LogicOr {
			joiner = " OR "
		}
		kinds := make([]string, len(r.Conditions))
		for i, c := range r.Conditions {
			kinds[i] = c.Kind()
		}
		b.WriteString(" [")
		b.WriteString(strings.Join(kinds, joiner))
		b.WriteString("]")
	}

	kinds := make([]string, len(r.Actions))
	for i, a := range r.Actions {
		kinds[i] = a.Kind()
	}
	b.WriteString(" -> ")
	if len(kinds) == 0 {
		b.WriteString("nothing")
	} else {
		b.WriteString(strings.Join(kinds, ", "))
	}
	return b.String()
}

// renderField edits settable fields in place. Component data is held by pointer,
// so struct fields reached through it are addressable.
func renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Ptr && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				renderField(nf.Label, nestedVal, nf)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Kind()))
		}
	}
}
