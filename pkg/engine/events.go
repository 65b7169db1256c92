package engine

import (
	"math"
	"strconv"
	"strings"
)

// Target mirrors the control that raised an event.
type Target struct {
	Name    string
	Value   string
	Type    string
	TagName string
	Checked bool
}

// Event is a UI event delivered to a handler. PreventDefault and Reset are
// optional hooks supplied by the rendering layer: Submit calls PreventDefault
// first and Reset after a successful submission.
type Event struct {
	Target         Target
	PreventDefault func()
	Reset          func()
}

// Handlers is the bundle attached to a form container. OnChange is nil in
// uncontrolled mode.
type Handlers struct {
	OnSubmit func(Event)
	OnFocus  func(Event)
	OnBlur   func(Event)
	OnChange func(Event)
}

// IsCheckbox reports whether the target is a checkbox-like control.
func (t Target) IsCheckbox() bool {
	if t.TagName != "" && !strings.EqualFold(t.TagName, "input") {
		return false
	}
	return strings.EqualFold(t.Type, "checkbox")
}

// IsNumeric reports whether the target collects numeric input.
func (t Target) IsNumeric() bool {
	switch strings.ToLower(t.Type) {
	case "number", "range":
		return true
	default:
		return false
	}
}

// Coerce converts the raw event value into the typed value handed to the
// validator: the checked flag for checkboxes, a float64 for numeric inputs
// (NaN when the text does not parse) and the raw text otherwise.
func Coerce(t Target) any {
	switch {
	case t.IsCheckbox():
		return t.Checked
	case t.IsNumeric():
		n, err := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return t.Value
	}
}
