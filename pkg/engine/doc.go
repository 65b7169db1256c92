// Package engine implements the form state engine: it tracks field values,
// per-field touched/dirty flags and error messages, whole-form validity and
// the submitting flag, and exposes the focus, change, blur and submit
// handlers a rendering layer attaches to a form.
//
// All constraint checking is delegated to a validation.Validator. Raw input
// events are coerced before they reach the validator: checkbox controls yield
// their checked flag, numeric inputs are parsed as float64 (invalid text
// becomes NaN so the validator can reject it) and everything else is kept as
// text.
//
// Two field projection modes exist. In uncontrolled mode the rendering layer
// owns the displayed value after mount, so projections carry DefaultValue and
// no change handler is wired. In controlled mode projections carry the live
// Value and the change handler validates on every keystroke.
//
// An Engine is safe for concurrent use. The submit callback and the reset
// effect run outside the engine lock so they may query the engine.
package engine
