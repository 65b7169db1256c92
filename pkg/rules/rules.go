package rules

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

var (
	// ErrUnknownType is returned when a field declares an unsupported kind.
	ErrUnknownType = errors.New("rules: unknown field type")
	// ErrDuplicateField is returned when two fields share a name.
	ErrDuplicateField = errors.New("rules: duplicate field")
	// ErrInvalidRule is returned when a rule parameter cannot be parsed.
	ErrInvalidRule = errors.New("rules: invalid rule")
)

// Validator validates values against model.Field definitions.
type Validator struct {
	order  []string
	fields map[string]model.Field
	rules  map[string]fieldRules
}

var (
	_ validation.Validator    = (*Validator)(nil)
	_ validation.KindReporter = (*Validator)(nil)
)

type fieldRules struct {
	kind     model.FieldType
	required bool
	min      *float64
	max      *float64
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
	enum     []any
}

// New compiles the rules of every field. Fields without a type default to
// string.
func New(fields []model.Field) (*Validator, error) {
	v := &Validator{
		fields: make(map[string]model.Field, len(fields)),
		rules:  make(map[string]fieldRules, len(fields)),
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, errors.New("rules: field name is required")
		}
		if _, exists := v.fields[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, name)
		}
		if field.Type == "" {
			field.Type = model.FieldTypeString
		}
		compiled, err := compileRules(field)
		if err != nil {
			return nil, fmt.Errorf("rules: field %q: %w", name, err)
		}
		field.Name = name
		v.order = append(v.order, name)
		v.fields[name] = field
		v.rules[name] = compiled
	}
	return v, nil
}

// MustNew is New for static definitions; it panics on error.
func MustNew(fields []model.Field) *Validator {
	v, err := New(fields)
	if err != nil {
		panic(err)
	}
	return v
}

// Fields implements validation.Validator.
func (v *Validator) Fields() []string {
	return append([]string(nil), v.order...)
}

// KindFor implements validation.KindReporter.
func (v *Validator) KindFor(name string) string {
	return string(v.fields[name].Type)
}

// LabelFor implements validation.Validator.
func (v *Validator) LabelFor(name string) string {
	field, ok := v.fields[name]
	if !ok {
		return ""
	}
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(name)
}

// DefaultFor implements validation.Validator.
func (v *Validator) DefaultFor(name string) any {
	field, ok := v.fields[name]
	if !ok {
		return nil
	}
	if field.Default != nil {
		if field.Type.Numeric() {
			if n, ok := toFloat(field.Default); ok {
				return n
			}
		}
		return field.Default
	}
	return field.Type.ZeroValue()
}

// ValidateField implements validation.Validator.
func (v *Validator) ValidateField(name string, value any) validation.Outcome {
	rules, ok := v.rules[name]
	if !ok {
		return validation.Rejected(validation.Issue{Path: name, Message: "unknown field"})
	}
	messages := rules.check(value)
	if len(messages) == 0 {
		return validation.Accepted(value)
	}
	issues := make([]validation.Issue, 0, len(messages))
	for _, msg := range messages {
		issues = append(issues, validation.Issue{Path: name, Message: msg})
	}
	return validation.Rejected(issues...)
}

// ValidateRecord implements validation.Validator. Missing fields are checked
// as if they held their default value.
func (v *Validator) ValidateRecord(values map[string]any) validation.Outcome {
	record := make(map[string]any, len(v.order))
	var issues []validation.Issue
	for _, name := range v.order {
		value, ok := values[name]
		if !ok {
			value = v.DefaultFor(name)
		}
		out := v.ValidateField(name, value)
		if !out.OK() {
			issues = append(issues, out.Issues()...)
			continue
		}
		record[name] = value
	}
	if len(issues) > 0 {
		return validation.Rejected(issues...)
	}
	return validation.Accepted(record)
}

func compileRules(field model.Field) (fieldRules, error) {
	switch field.Type {
	case model.FieldTypeString, model.FieldTypeNumber, model.FieldTypeInteger, model.FieldTypeBoolean:
	default:
		return fieldRules{}, fmt.Errorf("%w: %q", ErrUnknownType, field.Type)
	}
	rules := fieldRules{
		kind:     field.Type,
		required: field.Required,
		enum:     field.Enum,
	}
	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMin, model.ValidationRuleMax:
			val, err := strconv.ParseFloat(rule.Params["value"], 64)
			if err != nil {
				return fieldRules{}, fmt.Errorf("%w: %s %q", ErrInvalidRule, rule.Kind, rule.Params["value"])
			}
			if rule.Kind == model.ValidationRuleMin {
				rules.min = &val
			} else {
				rules.max = &val
			}
		case model.ValidationRuleMinLength, model.ValidationRuleMaxLength:
			val, err := strconv.Atoi(rule.Params["value"])
			if err != nil || val < 0 {
				return fieldRules{}, fmt.Errorf("%w: %s %q", ErrInvalidRule, rule.Kind, rule.Params["value"])
			}
			if rule.Kind == model.ValidationRuleMinLength {
				rules.minLen = &val
			} else {
				rules.maxLen = &val
			}
		case model.ValidationRulePattern:
			re, err := regexp.Compile(rule.Params["pattern"])
			if err != nil {
				return fieldRules{}, fmt.Errorf("%w: pattern: %v", ErrInvalidRule, err)
			}
			rules.pattern = re
		default:
			return fieldRules{}, fmt.Errorf("%w: unsupported kind %q", ErrInvalidRule, rule.Kind)
		}
	}
	return rules, nil
}

func (r fieldRules) check(value any) []string {
	switch r.kind {
	case model.FieldTypeBoolean:
		return r.checkBool(value)
	case model.FieldTypeNumber, model.FieldTypeInteger:
		return r.checkNumber(value)
	default:
		return r.checkString(value)
	}
}

func (r fieldRules) checkString(value any) []string {
	s, ok := value.(string)
	if !ok {
		return []string{fmt.Sprintf("expected string, got %T", value)}
	}
	var out []string
	if r.required && strings.TrimSpace(s) == "" {
		out = append(out, "required")
	}
	length := utf8.RuneCountInString(s)
	if r.minLen != nil && length < *r.minLen {
		out = append(out, fmt.Sprintf("min length %d", *r.minLen))
	}
	if r.maxLen != nil && length > *r.maxLen {
		out = append(out, fmt.Sprintf("max length %d", *r.maxLen))
	}
	if r.pattern != nil && !r.pattern.MatchString(s) {
		out = append(out, "does not match required pattern")
	}
	return append(out, r.checkEnum(s)...)
}

func (r fieldRules) checkBool(value any) []string {
	b, ok := value.(bool)
	if !ok {
		return []string{fmt.Sprintf("expected boolean, got %T", value)}
	}
	if r.required && !b {
		return []string{"required"}
	}
	return r.checkEnum(b)
}

func (r fieldRules) checkNumber(value any) []string {
	n, ok := toFloat(value)
	if !ok {
		return []string{fmt.Sprintf("expected number, got %T", value)}
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return []string{"expected number"}
	}
	var out []string
	if r.kind == model.FieldTypeInteger && n != math.Trunc(n) {
		out = append(out, "expected integer")
	}
	if r.min != nil && n < *r.min {
		out = append(out, fmt.Sprintf("min %v", *r.min))
	}
	if r.max != nil && n > *r.max {
		out = append(out, fmt.Sprintf("max %v", *r.max))
	}
	return append(out, r.checkEnum(n)...)
}

func (r fieldRules) checkEnum(value any) []string {
	if len(r.enum) == 0 {
		return nil
	}
	for _, candidate := range r.enum {
		if n, ok := toFloat(candidate); ok {
			if m, ok := toFloat(value); ok && n == m {
				return nil
			}
			continue
		}
		if reflect.DeepEqual(candidate, value) {
			return nil
		}
	}
	return []string{"must be one of the allowed values"}
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
