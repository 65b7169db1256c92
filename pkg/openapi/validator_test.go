package openapi

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const signupSchemaJSON = `{
  "type": "object",
  "required": ["firstName"],
  "properties": {
    "firstName": {"type": "string", "title": "First Name", "minLength": 1},
    "age": {"type": "integer", "minimum": 0, "default": 18},
    "subscribe": {"type": "boolean"},
    "plan": {"type": "string", "enum": ["free", "pro"], "default": "free"}
  }
}`

const signupSchemaYAML = `
type: object
properties:
  plan:
    type: string
    default: free
  email_address:
    type: string
    format: email
  age:
    type: number
`

func mustLoad(t *testing.T, raw string, opts ...Option) *Validator {
	t.Helper()
	v, err := LoadSchema([]byte(raw), opts...)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return v
}

func TestLoadSchema_JSONMetadata(t *testing.T) {
	v := mustLoad(t, signupSchemaJSON)

	if diff := cmp.Diff([]string{"firstName", "age", "subscribe", "plan"}, v.Fields()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if got := v.LabelFor("firstName"); got != "First Name" {
		t.Fatalf("title label: %q", got)
	}
	if got := v.LabelFor("subscribe"); got != "Subscribe" {
		t.Fatalf("derived label: %q", got)
	}
	defaults := map[string]any{
		"firstName": "",
		"age":       float64(18),
		"subscribe": false,
		"plan":      "free",
	}
	for name, want := range defaults {
		if got := v.DefaultFor(name); got != want {
			t.Fatalf("DefaultFor(%q) = %#v, want %#v", name, got, want)
		}
	}
	if got := v.KindFor("subscribe"); got != "boolean" {
		t.Fatalf("KindFor(subscribe) = %q", got)
	}
	if got := v.KindFor("age"); got != "integer" {
		t.Fatalf("KindFor(age) = %q", got)
	}
}

func TestLoadSchema_YAMLKeepsDeclaredOrder(t *testing.T) {
	v := mustLoad(t, signupSchemaYAML)
	if diff := cmp.Diff([]string{"plan", "email_address", "age"}, v.Fields()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if got := v.LabelFor("email_address"); got != "Email Address" {
		t.Fatalf("label: %q", got)
	}

	v = mustLoad(t, signupSchemaYAML, WithOrder("age", "missing"))
	if diff := cmp.Diff([]string{"age", "email_address", "plan"}, v.Fields()); diff != "" {
		t.Fatalf("override order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSchema_Errors(t *testing.T) {
	if _, err := LoadSchema(nil); err == nil {
		t.Fatalf("expected empty payload error")
	}
	if _, err := LoadSchema([]byte(`{"type": "string"}`)); !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
	if _, err := LoadSchema([]byte(`{"type": "object"}`)); !errors.Is(err, ErrNoProperties) {
		t.Fatalf("expected ErrNoProperties, got %v", err)
	}
}

func TestValidateField(t *testing.T) {
	v := mustLoad(t, signupSchemaJSON)

	cases := []struct {
		name  string
		field string
		value any
		ok    bool
	}{
		{"empty first name", "firstName", "", false},
		{"first name", "firstName", "Ann", true},
		{"nan age", "age", math.NaN(), false},
		{"negative age", "age", float64(-1), false},
		{"fractional age", "age", 1.5, false},
		{"age", "age", float64(42), true},
		{"boolean", "subscribe", true, true},
		{"boolean as text", "subscribe", "true", false},
		{"enum", "plan", "team", false},
		{"unknown", "nope", "x", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := v.ValidateField(tc.field, tc.value)
			if out.OK() != tc.ok {
				t.Fatalf("ValidateField(%q, %#v) ok=%v issues=%v", tc.field, tc.value, out.OK(), out.Issues())
			}
			for _, issue := range out.Issues() {
				if issue.Path != tc.field || issue.Message == "" {
					t.Fatalf("unexpected issue %+v", issue)
				}
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	v := mustLoad(t, signupSchemaJSON)

	out := v.ValidateRecord(map[string]any{"firstName": "", "age": float64(-2)})
	if out.OK() {
		t.Fatalf("expected rejection")
	}
	paths := map[string]bool{}
	for _, issue := range out.Issues() {
		paths[issue.Path] = true
	}
	if !paths["firstName"] || !paths["age"] {
		t.Fatalf("expected issues for firstName and age, got %v", out.Issues())
	}

	out = v.ValidateRecord(map[string]any{"age": float64(3)})
	if out.OK() {
		t.Fatalf("expected missing required property to be rejected")
	}

	out = v.ValidateRecord(map[string]any{"firstName": "Ann", "subscribe": true})
	if !out.OK() {
		t.Fatalf("expected acceptance, got %v", out.Issues())
	}
	record, _ := out.Value().(map[string]any)
	if record["plan"] != "free" {
		t.Fatalf("expected defaults to be applied, got %#v", record)
	}
}

type signupForm struct {
	FirstName string  `json:"firstName" jsonschema:"title=First Name,minLength=1"`
	Age       int     `json:"age" jsonschema:"minimum=0"`
	Subscribe bool    `json:"subscribe,omitempty"`
	Nickname  *string `json:"nickname,omitempty"`
}

func TestFromStruct(t *testing.T) {
	v, err := FromStruct(&signupForm{})
	if err != nil {
		t.Fatalf("from struct: %v", err)
	}
	if diff := cmp.Diff([]string{"firstName", "age", "subscribe", "nickname"}, v.Fields()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if got := v.LabelFor("firstName"); got != "First Name" {
		t.Fatalf("label: %q", got)
	}
	if v.ValidateField("firstName", "").OK() {
		t.Fatalf("expected minLength to be enforced")
	}
	if !v.ValidateField("age", float64(30)).OK() {
		t.Fatalf("expected age to validate")
	}
	if v.ValidateField("age", float64(-1)).OK() {
		t.Fatalf("expected minimum to be enforced")
	}
}

func TestFromStruct_NotObject(t *testing.T) {
	if _, err := FromStruct("text"); !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
}

const signupDocument = `
openapi: 3.0.3
info:
  title: Signup
  version: 1.0.0
paths:
  /signup:
    post:
      operationId: createSignup
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [firstName]
              properties:
                firstName:
                  type: string
                  minLength: 1
                age:
                  type: integer
      responses:
        "201":
          description: created
`

func TestLoad_Document(t *testing.T) {
	v, err := Load(context.Background(), []byte(signupDocument), "createSignup")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"age", "firstName"}, v.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if v.ValidateField("firstName", "").OK() {
		t.Fatalf("expected minLength from request body schema")
	}

	if _, err := FromDocument(context.Background(), []byte(signupDocument), "missing"); !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}

func TestLoad_BareSchema(t *testing.T) {
	v, err := Load(context.Background(), []byte(signupSchemaJSON), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(v.Fields()) != 4 {
		t.Fatalf("expected bare schema fields, got %v", v.Fields())
	}
}
