package httpform

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstate/pkg/engine"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Result summarises a bound submission.
type Result struct {
	Submitted bool              `json:"submitted"`
	Errors    map[string]string `json:"errors,omitempty"`
	FormError string            `json:"formError,omitempty"`
}

// Binder replays form posts against an engine.
type Binder struct {
	engine *engine.Engine
	policy *bluemonday.Policy
	logger *slog.Logger
}

// Option configures a Binder.
type Option func(*Binder)

// WithPolicy overrides the sanitising policy applied to text values.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(b *Binder) {
		if policy != nil {
			b.policy = policy
		}
	}
}

// WithLogger routes binder diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New returns a Binder for e. Text values are sanitised with
// bluemonday.StrictPolicy unless WithPolicy is given.
func New(e *engine.Engine, opts ...Option) *Binder {
	b := &Binder{
		engine: e,
		policy: bluemonday.StrictPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Bind parses r's form, feeds every declared field to the engine and submits.
// Unchecked checkboxes are absent from a post, so boolean fields always
// receive an event; other absent fields keep their current value.
func (b *Binder) Bind(r *http.Request) (Result, error) {
	if b == nil || b.engine == nil {
		return Result{}, fmt.Errorf("httpform: engine is nil")
	}
	if err := r.ParseForm(); err != nil {
		return Result{}, fmt.Errorf("httpform: parse form: %w", err)
	}

	for _, name := range b.engine.Fields() {
		target, ok := b.target(name, r)
		if !ok {
			continue
		}
		ev := engine.Event{Target: target}
		b.engine.Focus(ev)
		b.engine.Blur(ev)
	}

	submitted := b.engine.Submit(engine.Event{})
	result := Result{Submitted: submitted}
	if !submitted {
		result.Errors = b.engine.Errors()
		result.FormError = b.engine.FormError()
	}
	b.logger.Debug("httpform: bound request", "path", r.URL.Path, "submitted", submitted, "errors", len(result.Errors))
	return result, nil
}

// ApplyErrors records errors reported by a downstream service. Keys may be
// dotted paths or JSON pointers ("/address/street"); keys that do not resolve
// to a declared field are collected as form-level messages and returned.
func (b *Binder) ApplyErrors(payload map[string]string) []string {
	var unmatched []string
	for key, msg := range payload {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			continue
		}
		path := key
		if strings.HasPrefix(key, "/") || strings.HasPrefix(key, "#") {
			path = validation.PathFromPointer(key)
		}
		if path == "" || !b.declares(path) {
			unmatched = append(unmatched, msg)
			continue
		}
		b.engine.SetError(path, msg)
	}
	return unmatched
}

func (b *Binder) declares(path string) bool {
	head, _, _ := strings.Cut(path, ".")
	for _, name := range b.engine.Fields() {
		if name == head {
			return true
		}
	}
	return false
}

func (b *Binder) target(name string, r *http.Request) (engine.Target, bool) {
	values, present := r.PostForm[name]
	if !present {
		values, present = r.Form[name]
	}
	raw := ""
	if len(values) > 0 {
		raw = values[0]
	}

	switch b.engine.Kind(name) {
	case "boolean":
		return engine.Target{
			Name:    name,
			Value:   raw,
			Type:    "checkbox",
			TagName: "INPUT",
			Checked: present && checked(raw),
		}, true
	case "number", "integer":
		if !present {
			return engine.Target{}, false
		}
		return engine.Target{Name: name, Value: raw, Type: "number", TagName: "INPUT"}, true
	default:
		if !present {
			return engine.Target{}, false
		}
		clean := html.UnescapeString(b.policy.Sanitize(raw))
		return engine.Target{Name: name, Value: clean, Type: "text", TagName: "INPUT"}, true
	}
}

func checked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "off", "0", "no":
		return false
	default:
		return true
	}
}
