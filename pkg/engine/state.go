package engine

import (
	"reflect"
	"strings"
)

// state holds the per-field records. Errors are keyed by dotted path so
// record-level issues on nested locations keep their own slot; touched and
// dirty are keyed by declared field name.
type state struct {
	initial map[string]any
	values  map[string]any
	touched map[string]bool
	dirty   map[string]bool
	errors  map[string]string
}

func newState(initial map[string]any) *state {
	s := &state{initial: cloneValues(initial)}
	s.reset()
	return s
}

func (s *state) reset() {
	s.values = cloneValues(s.initial)
	s.touched = make(map[string]bool, len(s.initial))
	s.dirty = make(map[string]bool, len(s.initial))
	s.errors = make(map[string]string)
}

func (s *state) setError(path, msg string) {
	if msg == "" {
		delete(s.errors, path)
		return
	}
	s.errors[path] = msg
}

// clearField drops the error of name and of every path nested under it.
func (s *state) clearField(name string) {
	delete(s.errors, name)
	prefix := name + "."
	for path := range s.errors {
		if strings.HasPrefix(path, prefix) {
			delete(s.errors, path)
		}
	}
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

// sameValue uses strict comparison: NaN never equals itself, so re-entering
// invalid numeric text still marks a field dirty.
func sameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
