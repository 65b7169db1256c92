package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/engine"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	confirm      []bool
	infoMessages []string
	defaults     []string
	inputPos     int
	confirmPos   int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.defaults = append(s.defaults, cfg.Default)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newSignupEngine(t *testing.T, onSubmit engine.SubmitFunc) *engine.Engine {
	t.Helper()
	v := rules.MustNew([]model.Field{
		{Name: "firstName", Label: "First Name", Validations: []model.ValidationRule{model.Rule(model.ValidationRuleMinLength, "1")}},
		{Name: "age", Type: model.FieldTypeInteger, Default: 30, Validations: []model.ValidationRule{model.Rule(model.ValidationRuleMin, "0")}},
		{Name: "subscribe", Type: model.FieldTypeBoolean},
	})
	e, err := engine.New(v, onSubmit)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func TestRun_Submits(t *testing.T) {
	var got map[string]any
	e := newSignupEngine(t, func(record map[string]any) { got = record })
	driver := &stubDriver{inputs: []string{"Ann", "42"}, confirm: []bool{true}}

	if err := NewSession(e, WithPromptDriver(driver)).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := map[string]any{"firstName": "Ann", "age": float64(42), "subscribe": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "30"}, driver.defaults); diff != "" {
		t.Fatalf("prompt defaults mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 1 || driver.infoMessages[0] != "Form submitted" {
		t.Fatalf("unexpected info messages %v", driver.infoMessages)
	}
}

func TestRun_RepromptsInvalidFields(t *testing.T) {
	submitted := false
	e := newSignupEngine(t, func(map[string]any) { submitted = true })
	driver := &stubDriver{inputs: []string{"", "Ann", "abc", "7"}, confirm: []bool{false}}

	err := NewSession(e, WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "})).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !submitted {
		t.Fatalf("expected submission")
	}
	if driver.inputPos != 4 {
		t.Fatalf("expected four prompts, got %d", driver.inputPos)
	}
	if len(driver.infoMessages) < 2 || !strings.HasPrefix(driver.infoMessages[0], "! Invalid First Name: ") {
		t.Fatalf("unexpected info messages %v", driver.infoMessages)
	}
}

func TestRun_Rejected(t *testing.T) {
	v := rules.MustNew([]model.Field{{Name: "code", Required: true}})
	e, err := engine.New(v, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	driver := &stubDriver{inputs: []string{"", ""}}

	err = NewSession(e, WithPromptDriver(driver), WithAttempts(1), WithRounds(2)).Run(context.Background())
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if driver.inputPos != 2 {
		t.Fatalf("expected one prompt per round, got %d", driver.inputPos)
	}
}

func TestRun_Aborted(t *testing.T) {
	e := newSignupEngine(t, nil)
	driver := &stubDriver{err: ErrAborted}

	if err := NewSession(e, WithPromptDriver(driver)).Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	values := map[string]any{"name": "Ann", "age": float64(42), "tags": []any{"a", "b"}}

	out, err := Encode(values, OutputFormatJSON)
	if err != nil || string(out) != `{"age":42,"name":"Ann","tags":["a","b"]}` {
		t.Fatalf("json: %s %v", out, err)
	}
	out, _ = Encode(values, OutputFormatFormURLEncoded)
	if string(out) != "age=42&name=Ann&tags%5B%5D=a&tags%5B%5D=b" {
		t.Fatalf("form: %s", out)
	}
	out, _ = Encode(values, OutputFormatPrettyText)
	if string(out) != "age=42\nname=Ann\ntags[0]=a\ntags[1]=b\n" {
		t.Fatalf("pretty: %q", out)
	}
	if _, err := Encode(values, "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if OutputFormatPrettyText.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type")
	}
}

type countingValidator struct {
	*rules.Validator
	fieldCalls int
}

func (c *countingValidator) ValidateField(name string, value any) validation.Outcome {
	c.fieldCalls++
	return c.Validator.ValidateField(name, value)
}

func TestRun_FollowsEngineMode(t *testing.T) {
	cases := map[engine.Mode]int{
		engine.ModeUncontrolled: 1,
		engine.ModeControlled:   2,
	}
	for mode, wantCalls := range cases {
		t.Run(string(mode), func(t *testing.T) {
			v := &countingValidator{Validator: rules.MustNew([]model.Field{{Name: "nickname", Default: "ace"}})}
			e, err := engine.New(v, nil, engine.WithMode(mode))
			if err != nil {
				t.Fatalf("engine: %v", err)
			}
			driver := &stubDriver{inputs: []string{"ace"}}

			if err := NewSession(e, WithPromptDriver(driver)).Run(context.Background()); err != nil {
				t.Fatalf("run: %v", err)
			}
			if v.fieldCalls != wantCalls {
				t.Fatalf("expected %d field validations, got %d", wantCalls, v.fieldCalls)
			}
			if diff := cmp.Diff([]string{"ace"}, driver.defaults); diff != "" {
				t.Fatalf("prompt defaults mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
