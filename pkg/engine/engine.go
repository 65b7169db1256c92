package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/goliatone/go-formstate/pkg/validation"
)

const fallbackMessage = "invalid value"

// SubmitFunc receives the validated record after a successful submission.
type SubmitFunc func(record map[string]any)

// Engine owns the state of one form instance.
type Engine struct {
	validator validation.Validator
	onSubmit  SubmitFunc
	mode      Mode
	logger    *slog.Logger
	idPrefix  string
	separator string

	order []string
	known map[string]struct{}

	mu         sync.RWMutex
	state      *state
	formValid  bool
	formError  string
	submitting bool
	editing    editSlot
}

// editSlot remembers the value a field held when it received focus. Only one
// field is edited at a time.
type editSlot struct {
	name   string
	value  any
	active bool
}

// New builds an engine for the fields declared by v. Every field starts with
// the validator's default value, untouched, clean and without error.
func New(v validation.Validator, onSubmit SubmitFunc, opts ...Option) (*Engine, error) {
	if isNil(v) {
		return nil, fmt.Errorf("%w: validator is nil", ErrInvalidSchema)
	}

	e := &Engine{
		validator: v,
		onSubmit:  onSubmit,
		mode:      ModeUncontrolled,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if !e.mode.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, e.mode)
	}
	if e.idPrefix == "" {
		e.idPrefix = uuid.NewString()
	}

	names := v.Fields()
	var problems error
	if len(names) == 0 {
		problems = multierr.Append(problems, errors.New("no fields declared"))
	}
	e.known = make(map[string]struct{}, len(names))
	initial := make(map[string]any, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			problems = multierr.Append(problems, errors.New("empty field name"))
			continue
		}
		if _, dup := e.known[name]; dup {
			problems = multierr.Append(problems, fmt.Errorf("duplicate field %q", name))
			continue
		}
		e.known[name] = struct{}{}
		e.order = append(e.order, name)
		initial[name] = v.DefaultFor(name)
	}
	if problems != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, problems)
	}

	e.state = newState(initial)
	e.logger.Debug("formstate: engine ready", "fields", len(e.order), "mode", string(e.mode))
	return e, nil
}

// Mode reports the engine's default projection mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Fields returns the declared field names in order.
func (e *Engine) Fields() []string {
	return append([]string(nil), e.order...)
}

// Kind reports the primitive kind the validator declares for name, or "" when
// the validator does not report kinds.
func (e *Engine) Kind(name string) string {
	reporter, ok := e.validator.(validation.KindReporter)
	if !ok || !e.owns(name) {
		return ""
	}
	return reporter.KindFor(name)
}

// Handlers returns the handler bundle for the form container.
func (e *Engine) Handlers() Handlers {
	h := Handlers{
		OnSubmit: func(ev Event) { e.Submit(ev) },
		OnFocus:  e.Focus,
		OnBlur:   e.Blur,
	}
	if e.mode == ModeControlled {
		h.OnChange = e.Change
	}
	return h
}

// Focus clears the field's error, marks it touched and remembers its value so
// Blur can detect edits. No validation runs.
func (e *Engine) Focus(ev Event) {
	name := ev.Target.Name

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.owns(name) {
		return
	}
	e.state.clearField(name)
	e.state.touched[name] = true
	e.editing = editSlot{name: name, value: deepCopy(e.state.values[name]), active: true}
	e.logger.Debug("formstate: focus", "field", name)
}

// Change handles a keystroke in controlled mode: the coerced value is stored
// and validated immediately.
func (e *Engine) Change(ev Event) {
	name := ev.Target.Name
	value := Coerce(ev.Target)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.owns(name) {
		return
	}
	e.state.touched[name] = true
	e.state.dirty[name] = true
	e.state.values[name] = value

	out := e.validator.ValidateField(name, value)
	if out.OK() {
		e.state.clearField(name)
	} else {
		e.state.setError(name, e.message(out))
	}
	e.logger.Debug("formstate: change", "field", name, "valid", out.OK())
}

// Blur stores the coerced value, marks the field dirty when it differs from
// the value held at focus, and validates it. An accepted value also refreshes
// whole-form validity.
func (e *Engine) Blur(ev Event) {
	name := ev.Target.Name
	value := Coerce(ev.Target)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.owns(name) {
		return
	}

	previous := e.state.values[name]
	if e.editing.active && e.editing.name == name {
		previous = e.editing.value
		e.editing = editSlot{}
	}
	if !sameValue(previous, value) {
		e.state.dirty[name] = true
	}
	e.state.touched[name] = true
	e.state.values[name] = value

	out := e.validator.ValidateField(name, value)
	if out.OK() {
		record := e.validator.ValidateRecord(cloneValues(e.state.values))
		e.formValid = record.OK()
		e.state.clearField(name)
	} else {
		e.formValid = false
		e.state.setError(name, e.message(out))
	}
	e.logger.Debug("formstate: blur", "field", name, "valid", out.OK(), "form_valid", e.formValid)
}

// Submit validates the whole record. On acceptance the submit callback
// receives the validated record and every field returns to its initial state;
// on rejection the previous errors are replaced by the new issues and the
// callback is skipped. It reports whether the submission was accepted.
//
// A Submit issued while another is still delivering is refused. Edits made
// from inside the callback are discarded by the reset that follows it.
func (e *Engine) Submit(ev Event) bool {
	if ev.PreventDefault != nil {
		ev.PreventDefault()
	}

	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		e.logger.Debug("formstate: submit ignored, already submitting")
		return false
	}
	e.submitting = true
	snapshot := cloneValues(e.state.values)
	out := e.validator.ValidateRecord(snapshot)
	e.formError = ""
	if !out.OK() {
		issues := out.Issues()
		// Record validation covers every field, so its issues replace all
		// earlier errors.
		e.state.errors = make(map[string]string, len(issues))
		for _, issue := range issues {
			msg := issue.Message
			if msg == "" {
				msg = fallbackMessage
			}
			if issue.Path == "" || !e.ownsPath(issue.Path) {
				e.formError = msg
				continue
			}
			e.state.errors[issue.Path] = msg
		}
		e.formValid = false
		e.submitting = false
		e.mu.Unlock()
		e.logger.Info("formstate: submit rejected", "issues", len(issues))
		return false
	}
	e.formValid = true
	e.mu.Unlock()

	record, ok := out.Value().(map[string]any)
	if !ok || record == nil {
		record = snapshot
	}
	e.deliver(record)
	e.logger.Info("formstate: submit accepted", "fields", len(record))

	if ev.Reset != nil {
		ev.Reset()
	}
	return true
}

// deliver runs the submit callback with submitting still set. The form is
// reset only when the callback returns normally.
func (e *Engine) deliver(record map[string]any) {
	completed := false
	defer func() {
		e.mu.Lock()
		if completed {
			e.state.reset()
			e.editing = editSlot{}
		}
		e.submitting = false
		e.mu.Unlock()
	}()
	if e.onSubmit != nil {
		e.onSubmit(record)
	}
	completed = true
}

// SetField validates value for name and, when accepted, stores it and marks
// the field touched and dirty. Rejected values and unknown fields leave the
// state untouched and report false.
func (e *Engine) SetField(name string, value any) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.owns(name) {
		return false
	}
	out := e.validator.ValidateField(name, value)
	if !out.OK() {
		return false
	}
	if accepted := out.Value(); accepted != nil {
		value = accepted
	}
	e.state.values[name] = value
	e.state.touched[name] = true
	e.state.dirty[name] = true
	e.state.clearField(name)
	return true
}

// SetError assigns an error message directly, bypassing validation. Paths
// nested under a declared field ("address.street") are accepted; an empty
// message clears the error.
func (e *Engine) SetError(path, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ownsPath(path) {
		return
	}
	e.state.setError(path, msg)
}

// Field returns the projection for name. The engine's mode applies unless an
// override is given.
func (e *Engine) Field(name string, mode ...Mode) (Projection, bool) {
	selected := e.mode
	if len(mode) > 0 && mode[0].valid() {
		selected = mode[0]
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.owns(name) {
		return Projection{}, false
	}
	p := Projection{
		Mode:  selected,
		ID:    e.idPrefix + "-" + name,
		Name:  name,
		Label: e.validator.LabelFor(name),
		Error: e.state.errors[name],
	}
	value := deepCopy(e.state.values[name])
	if selected == ModeControlled {
		p.Value = value
	} else {
		p.DefaultValue = value
	}
	return p, true
}

// Error returns the error recorded for a field or nested path.
func (e *Engine) Error(path string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.errors[path]
}

// Errors returns every recorded error keyed by path.
func (e *Engine) Errors() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]string, len(e.state.errors))
	for path, msg := range e.state.errors {
		out[path] = msg
	}
	return out
}

// FormError returns the last record-level message that did not target a
// field.
func (e *Engine) FormError() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.formError
}

// Valid reports whether the last whole-record validation was accepted.
func (e *Engine) Valid() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.formValid
}

// FieldValid validates the field's current value now rather than reading the
// cached error.
func (e *Engine) FieldValid(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.owns(name) {
		return false
	}
	return e.validator.ValidateField(name, e.state.values[name]).OK()
}

// Touched reports whether name has been focused or edited.
func (e *Engine) Touched(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.touched[name]
}

// AnyTouched reports whether any field has been touched.
func (e *Engine) AnyTouched() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return anyTrue(e.state.touched)
}

// Dirty reports whether name's value has changed since initialisation.
func (e *Engine) Dirty(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.dirty[name]
}

// AnyDirty reports whether any field is dirty.
func (e *Engine) AnyDirty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return anyTrue(e.state.dirty)
}

// Submitting reports whether a submission is in progress.
func (e *Engine) Submitting() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.submitting
}

// Values returns a copy of the current values.
func (e *Engine) Values() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneValues(e.state.values)
}

func (e *Engine) owns(name string) bool {
	_, ok := e.known[name]
	return ok
}

func (e *Engine) ownsPath(path string) bool {
	if e.owns(path) {
		return true
	}
	head, _, found := strings.Cut(path, ".")
	return found && e.owns(head)
}

func (e *Engine) message(out validation.Outcome) string {
	if out.OK() {
		return ""
	}
	if msg := out.Message(e.separator); msg != "" {
		return msg
	}
	return fallbackMessage
}

// isNil also catches typed nil pointers stored in the interface.
func isNil(v validation.Validator) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func anyTrue(flags map[string]bool) bool {
	for _, flag := range flags {
		if flag {
			return true
		}
	}
	return false
}
