package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
)

// Numeric reports whether values of this kind are coerced from numeric input.
func (t FieldType) Numeric() bool {
	return t == FieldTypeNumber || t == FieldTypeInteger
}

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"]
// while pattern rules preserve the original expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Rule is a shorthand for building a ValidationRule with a single "value"
// parameter.
func Rule(kind, value string) ValidationRule {
	if kind == ValidationRulePattern {
		return ValidationRule{Kind: kind, Params: map[string]string{"pattern": value}}
	}
	return ValidationRule{Kind: kind, Params: map[string]string{"value": value}}
}

// Field models an individual input inside a form.
type Field struct {
	Name        string           `json:"name" yaml:"name"`
	Type        FieldType        `json:"type" yaml:"type"`
	Required    bool             `json:"required" yaml:"required"`
	Label       string           `json:"label,omitempty" yaml:"label,omitempty"`
	Default     any              `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []any            `json:"enum,omitempty" yaml:"enum,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty" yaml:"validations,omitempty"`
}

// ZeroValue returns the value a field of this kind holds when no default is
// declared.
func (t FieldType) ZeroValue() any {
	switch t {
	case FieldTypeBoolean:
		return false
	case FieldTypeNumber, FieldTypeInteger:
		return float64(0)
	default:
		return ""
	}
}
