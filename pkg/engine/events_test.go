package engine

import (
	"math"
	"testing"
)

func TestCoerce(t *testing.T) {
	cases := []struct {
		name   string
		target Target
		want   any
	}{
		{"text", Target{Type: "text", Value: "Ann"}, "Ann"},
		{"absent text", Target{Type: "text"}, ""},
		{"textarea", Target{TagName: "TEXTAREA", Value: "notes"}, "notes"},
		{"checkbox ignores text", Target{TagName: "INPUT", Type: "checkbox", Value: "true", Checked: false}, false},
		{"checkbox checked", Target{Type: "checkbox", Checked: true}, true},
		{"select is never a checkbox", Target{TagName: "select", Type: "checkbox", Value: "x"}, "x"},
		{"number", Target{Type: "number", Value: "42"}, float64(42)},
		{"number padded", Target{Type: "NUMBER", Value: " 3.5 "}, 3.5},
		{"range", Target{Type: "range", Value: "7"}, float64(7)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Coerce(tc.target); got != tc.want {
				t.Fatalf("Coerce(%+v) = %#v, want %#v", tc.target, got, tc.want)
			}
		})
	}
}

func TestCoerce_InvalidNumberIsNaN(t *testing.T) {
	for _, raw := range []string{"abc", "", "4 2"} {
		got, ok := Coerce(Target{Type: "number", Value: raw}).(float64)
		if !ok || !math.IsNaN(got) {
			t.Fatalf("Coerce(%q) = %#v, want NaN", raw, got)
		}
	}
}
