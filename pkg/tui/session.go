package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/goliatone/go-formstate/pkg/engine"
)

// Theme captures optional prefixes applied to informational messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Session prompts for every field of an engine and submits it.
type Session struct {
	engine   *engine.Engine
	driver   PromptDriver
	attempts int
	rounds   int
	theme    Theme
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithAttempts caps how many times a single field is re-prompted while it
// holds an error. Values below one are ignored.
func WithAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithRounds caps how many submissions are attempted before giving up.
func WithRounds(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.rounds = n
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// NewSession returns a session for e using the survey driver unless another
// driver is supplied.
func NewSession(e *engine.Engine, opts ...Option) *Session {
	s := &Session{
		engine:   e,
		attempts: 3,
		rounds:   2,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Run prompts for every field and submits. After a rejected submission only
// the fields holding errors are asked again. The engine's submit callback
// receives the record; Run returns ErrRejected when every round failed.
func (s *Session) Run(ctx context.Context) error {
	pending := s.engine.Fields()
	for round := 0; round < s.rounds; round++ {
		for _, name := range pending {
			if err := s.promptField(ctx, name); err != nil {
				return err
			}
		}
		if s.engine.Submit(engine.Event{}) {
			return s.driver.Info(ctx, s.theme.InfoPrefix+"Form submitted")
		}
		if msg := s.engine.FormError(); msg != "" {
			if err := s.driver.Info(ctx, s.theme.ErrorPrefix+msg); err != nil {
				return err
			}
		}
		pending = s.failingFields()
		if len(pending) == 0 {
			pending = s.engine.Fields()
		}
	}
	return ErrRejected
}

func (s *Session) promptField(ctx context.Context, name string) error {
	for attempt := 0; attempt < s.attempts; attempt++ {
		p, ok := s.engine.Field(name)
		if !ok {
			return nil
		}
		if p.Error != "" {
			if err := s.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", s.theme.ErrorPrefix, p.Label, p.Error)); err != nil {
				return err
			}
		}

		handlers := s.engine.Handlers()
		handlers.OnFocus(engine.Event{Target: engine.Target{Name: name}})
		target, err := s.ask(ctx, p)
		if err != nil {
			return err
		}
		ev := engine.Event{Target: target}
		if handlers.OnChange != nil {
			handlers.OnChange(ev)
		}
		handlers.OnBlur(ev)

		if s.engine.Error(name) == "" {
			return nil
		}
	}
	msg := fmt.Sprintf("%sInvalid %s: %s", s.theme.ErrorPrefix, name, s.engine.Error(name))
	return s.driver.Info(ctx, msg)
}

// ask prompts for one field, seeding the prompt from whichever value slot the
// projection's mode fills.
func (s *Session) ask(ctx context.Context, p engine.Projection) (engine.Target, error) {
	value := p.DefaultValue
	if p.Mode == engine.ModeControlled {
		value = p.Value
	}
	switch s.engine.Kind(p.Name) {
	case "boolean":
		current, _ := value.(bool)
		answer, err := s.driver.Confirm(ctx, ConfirmConfig{Message: p.Label, Default: current})
		if err != nil {
			return engine.Target{}, err
		}
		return engine.Target{Name: p.Name, Type: "checkbox", TagName: "INPUT", Checked: answer}, nil
	case "number", "integer":
		answer, err := s.driver.Input(ctx, InputConfig{Message: p.Label, Default: formatNumber(value)})
		if err != nil {
			return engine.Target{}, err
		}
		return engine.Target{Name: p.Name, Value: answer, Type: "number", TagName: "INPUT"}, nil
	default:
		current, _ := value.(string)
		answer, err := s.driver.Input(ctx, InputConfig{Message: p.Label, Default: current})
		if err != nil {
			return engine.Target{}, err
		}
		return engine.Target{Name: p.Name, Value: answer, Type: "text", TagName: "INPUT"}, nil
	}
}

func (s *Session) failingFields() []string {
	errs := s.engine.Errors()
	var out []string
	for _, name := range s.engine.Fields() {
		if errs[name] != "" {
			out = append(out, name)
		}
	}
	return out
}

func formatNumber(value any) string {
	n, ok := value.(float64)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return ""
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
