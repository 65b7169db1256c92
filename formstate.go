package formstate

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/engine"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Engine aliases engine.Engine so callers can depend on the root package only.
type Engine = engine.Engine

// Event is the payload handed to every handler.
type Event = engine.Event

// Target describes the control that raised an event.
type Target = engine.Target

// Projection is the per-field view a rendering layer spreads onto a control.
type Projection = engine.Projection

// Handlers bundles the container-level handlers.
type Handlers = engine.Handlers

// Mode selects controlled or uncontrolled projections.
type Mode = engine.Mode

// Option configures an engine.
type Option = engine.Option

// SubmitFunc receives the validated record.
type SubmitFunc = engine.SubmitFunc

// Validator is the schema capability an engine is built on.
type Validator = validation.Validator

// Field describes one form field for the built-in rules validator.
type Field = model.Field

const (
	ModeUncontrolled = engine.ModeUncontrolled
	ModeControlled   = engine.ModeControlled
)

var (
	WithMode           = engine.WithMode
	WithLogger         = engine.WithLogger
	WithIDPrefix       = engine.WithIDPrefix
	WithErrorSeparator = engine.WithErrorSeparator
)

// New exposes the engine constructor from the top-level module.
func New(v Validator, onSubmit SubmitFunc, opts ...Option) (*Engine, error) {
	return engine.New(v, onSubmit, opts...)
}

// NewFromFields builds an engine over the built-in rules validator.
func NewFromFields(fields []Field, onSubmit SubmitFunc, opts ...Option) (*Engine, error) {
	v, err := rules.New(fields)
	if err != nil {
		return nil, err
	}
	return engine.New(v, onSubmit, opts...)
}

// NewFromSchema builds an engine from a JSON/YAML object schema or from the
// request body of operationID in an OpenAPI document.
func NewFromSchema(ctx context.Context, raw []byte, operationID string, onSubmit SubmitFunc, opts ...Option) (*Engine, error) {
	v, err := openapi.Load(ctx, raw, operationID)
	if err != nil {
		return nil, err
	}
	return engine.New(v, onSubmit, opts...)
}
