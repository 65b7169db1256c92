// Package model describes the fields of a form: their primitive kind, default
// value, human-readable label and the constraint rules the built-in rules
// validator evaluates. Rule kinds use canonical identifiers (min/max,
// minLength/maxLength, pattern, enum) with string parameters so definitions
// can be loaded from JSON or YAML without losing precision.
package model
