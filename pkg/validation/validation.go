package validation

import (
	"errors"
	"strings"

	"go.uber.org/multierr"
)

// Validator is the schema capability consumed by the engine. Implementations
// must be safe to call repeatedly with the same inputs and must not retain
// the values passed to them.
type Validator interface {
	// Fields lists the declared field names in presentation order.
	Fields() []string
	// ValidateField checks a single value against the rule declared for name.
	ValidateField(name string, value any) Outcome
	// ValidateRecord checks a complete record of field values.
	ValidateRecord(values map[string]any) Outcome
	// LabelFor returns the human-readable label for name.
	LabelFor(name string) string
	// DefaultFor returns the initial typed value for name.
	DefaultFor(name string) any
}

// KindReporter is implemented by validators that can report the primitive
// kind ("string", "number", "integer", "boolean") declared for a field.
// Adapters use it to shape synthetic input events.
type KindReporter interface {
	KindFor(name string) string
}

// Issue describes a single rejection. Path holds the dotted location of the
// failing value ("address.street"); it is empty for record-level issues.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Error implements error so issues can be aggregated.
func (i Issue) Error() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Outcome is the result of a validation: Accepted carries the value, Rejected
// carries at least one issue.
type Outcome struct {
	value  any
	issues []Issue
}

// Accepted builds a successful outcome carrying the validated value.
func Accepted(value any) Outcome {
	return Outcome{value: value}
}

// Rejected builds a failed outcome. A rejection without issues still reports
// as rejected, with a generic message.
func Rejected(issues ...Issue) Outcome {
	if len(issues) == 0 {
		issues = []Issue{{Message: "invalid value"}}
	}
	return Outcome{issues: append([]Issue(nil), issues...)}
}

// OK reports whether the outcome is Accepted.
func (o Outcome) OK() bool {
	return len(o.issues) == 0
}

// Value returns the accepted value. It is nil for rejections.
func (o Outcome) Value() any {
	return o.value
}

// Issues returns a copy of the rejection issues.
func (o Outcome) Issues() []Issue {
	if len(o.issues) == 0 {
		return nil
	}
	return append([]Issue(nil), o.issues...)
}

// Messages returns the messages of the issues in order.
func (o Outcome) Messages() []string {
	if len(o.issues) == 0 {
		return nil
	}
	out := make([]string, 0, len(o.issues))
	for _, issue := range o.issues {
		out = append(out, issue.Message)
	}
	return out
}

// Message concatenates every issue message using sep.
func (o Outcome) Message(sep string) string {
	return strings.Join(o.Messages(), sep)
}

// Err converts a rejection into a single error combining every issue. It
// returns nil for accepted outcomes.
func (o Outcome) Err() error {
	var err error
	for _, issue := range o.issues {
		err = multierr.Append(err, issue)
	}
	return err
}

// IssuesFromError unpacks an error produced by Outcome.Err back into issues.
func IssuesFromError(err error) []Issue {
	if err == nil {
		return nil
	}
	var out []Issue
	for _, item := range multierr.Errors(err) {
		var issue Issue
		if errors.As(item, &issue) {
			out = append(out, issue)
			continue
		}
		out = append(out, Issue{Message: strings.TrimSpace(item.Error())})
	}
	return out
}
