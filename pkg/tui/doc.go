// Package tui drives an engine from a terminal. A Session walks the declared
// fields, prompting for each through a PromptDriver and replaying the answer
// as focus/blur events, re-prompting while the engine reports an error, and
// finally submits the form.
package tui
