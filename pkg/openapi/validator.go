package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

var (
	// ErrNotObject is returned when the schema does not describe an object.
	ErrNotObject = errors.New("openapi: schema is not an object")
	// ErrNoProperties is returned when the object schema declares no fields.
	ErrNoProperties = errors.New("openapi: schema declares no properties")
)

// Validator implements validation.Validator over an object schema.
type Validator struct {
	schema  *openapi3.Schema
	order   []string
	labeler func(string) string
}

var (
	_ validation.Validator    = (*Validator)(nil)
	_ validation.KindReporter = (*Validator)(nil)
)

// Option configures a Validator.
type Option func(*options)

type options struct {
	order   []string
	labeler func(string) string
}

// WithOrder fixes the field order. Unknown names are ignored and properties
// not listed follow in alphabetical order.
func WithOrder(names ...string) Option {
	return func(o *options) {
		o.order = append([]string(nil), names...)
	}
}

// WithLabeler overrides the label used for properties without a title.
func WithLabeler(labeler func(string) string) Option {
	return func(o *options) {
		if labeler != nil {
			o.labeler = labeler
		}
	}
}

// NewValidator wraps schema. The schema must be an object with at least one
// property.
func NewValidator(schema *openapi3.Schema, opts ...Option) (*Validator, error) {
	if schema == nil {
		return nil, errors.New("openapi: schema is nil")
	}
	if schema.Type != nil && !hasType(schema, openapi3.TypeObject) {
		return nil, fmt.Errorf("%w: type %v", ErrNotObject, []string(*schema.Type))
	}

	cfg := options{labeler: model.DefaultLabeler}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	order := fieldOrder(schema, cfg.order)
	if len(order) == 0 {
		return nil, ErrNoProperties
	}
	return &Validator{schema: schema, order: order, labeler: cfg.labeler}, nil
}

// Schema exposes the wrapped schema.
func (v *Validator) Schema() *openapi3.Schema {
	return v.schema
}

// Fields implements validation.Validator.
func (v *Validator) Fields() []string {
	return append([]string(nil), v.order...)
}

// KindFor implements validation.KindReporter.
func (v *Validator) KindFor(name string) string {
	prop := v.property(name)
	for _, kind := range []string{openapi3.TypeBoolean, openapi3.TypeInteger, openapi3.TypeNumber, openapi3.TypeString} {
		if hasType(prop, kind) {
			return kind
		}
	}
	return ""
}

// LabelFor implements validation.Validator.
func (v *Validator) LabelFor(name string) string {
	prop := v.property(name)
	if prop == nil {
		return ""
	}
	if title := strings.TrimSpace(prop.Title); title != "" {
		return title
	}
	return v.labeler(name)
}

// DefaultFor implements validation.Validator.
func (v *Validator) DefaultFor(name string) any {
	prop := v.property(name)
	if prop == nil {
		return nil
	}
	if prop.Default != nil {
		return normalizeNumber(prop.Default)
	}
	switch {
	case hasType(prop, openapi3.TypeBoolean):
		return false
	case hasType(prop, openapi3.TypeNumber), hasType(prop, openapi3.TypeInteger):
		return float64(0)
	case hasType(prop, openapi3.TypeObject):
		return map[string]any{}
	case hasType(prop, openapi3.TypeArray):
		return []any{}
	default:
		return ""
	}
}

// ValidateField implements validation.Validator.
func (v *Validator) ValidateField(name string, value any) validation.Outcome {
	prop := v.property(name)
	if prop == nil {
		return validation.Rejected(validation.Issue{Path: name, Message: "unknown field"})
	}
	if err := prop.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return validation.Rejected(issuesFromError(name, err)...)
	}
	return validation.Accepted(value)
}

// ValidateRecord implements validation.Validator. Absent properties are left
// to the object schema, which reports missing required ones and fills in
// declared defaults.
func (v *Validator) ValidateRecord(values map[string]any) validation.Outcome {
	var issues []validation.Issue
	for _, name := range v.order {
		value, ok := values[name]
		if !ok {
			continue
		}
		if out := v.ValidateField(name, value); !out.OK() {
			issues = append(issues, out.Issues()...)
		}
	}
	if len(issues) > 0 {
		return validation.Rejected(issues...)
	}

	record := make(map[string]any, len(values))
	for key, value := range values {
		record[key] = value
	}
	if err := v.schema.VisitJSON(record, openapi3.MultiErrors(), openapi3.VisitAsRequest(), openapi3.DefaultsSet(func() {})); err != nil {
		return validation.Rejected(issuesFromError("", err)...)
	}
	return validation.Accepted(record)
}

func (v *Validator) property(name string) *openapi3.Schema {
	ref, ok := v.schema.Properties[name]
	if !ok || ref == nil {
		return nil
	}
	return ref.Value
}

// issuesFromError flattens kin-openapi errors. Schema errors carry the data
// path below base; anything else (NaN input, for instance) is attached to
// base itself.
func issuesFromError(base string, err error) []validation.Issue {
	switch typed := err.(type) {
	case nil:
		return nil
	case openapi3.MultiError:
		var out []validation.Issue
		for _, item := range typed {
			out = append(out, issuesFromError(base, item)...)
		}
		return out
	case *openapi3.SchemaError:
		segments := append([]string{base}, typed.JSONPointer()...)
		msg := strings.TrimSpace(typed.Reason)
		if msg == "" {
			msg = strings.TrimSpace(typed.Error())
		}
		return []validation.Issue{{Path: validation.JoinPath(segments...), Message: msg}}
	default:
		return []validation.Issue{{Path: base, Message: strings.TrimSpace(err.Error())}}
	}
}

func fieldOrder(schema *openapi3.Schema, preferred []string) []string {
	available := make(map[string]struct{}, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil || strings.TrimSpace(name) == "" {
			continue
		}
		available[name] = struct{}{}
	}

	order := make([]string, 0, len(available))
	for _, name := range preferred {
		if _, ok := available[name]; ok {
			order = append(order, name)
			delete(available, name)
		}
	}
	rest := make([]string, 0, len(available))
	for name := range available {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func hasType(schema *openapi3.Schema, kind string) bool {
	if schema == nil || schema.Type == nil {
		return false
	}
	for _, t := range *schema.Type {
		if t == kind {
			return true
		}
	}
	return false
}

func normalizeNumber(value any) any {
	switch n := value.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return value
	}
}
