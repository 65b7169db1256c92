// Package httpform adapts classic HTML form posts to an engine. Each declared
// field present in the request is replayed as a focus/blur pair, shaped by
// the kind the validator reports (checkboxes, numeric inputs, text), and the
// form is then submitted. Text values are stripped of markup with a
// bluemonday policy before they reach the engine.
package httpform
