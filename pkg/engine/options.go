package engine

import "log/slog"

// Mode selects who owns a field's displayed value.
type Mode string

const (
	// ModeUncontrolled lets the rendering layer own displayed values; only
	// focus, blur and submit are wired.
	ModeUncontrolled Mode = "uncontrolled"
	// ModeControlled makes the engine the source of truth and wires change.
	ModeControlled Mode = "controlled"
)

func (m Mode) valid() bool {
	return m == ModeUncontrolled || m == ModeControlled
}

// Option configures an Engine.
type Option func(*Engine)

// WithMode selects the default projection mode.
func WithMode(mode Mode) Option {
	return func(e *Engine) {
		if mode != "" {
			e.mode = mode
		}
	}
}

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDPrefix sets the prefix used to build control identifiers
// ("<prefix>-<field>"). A random prefix is generated when omitted so several
// forms on one page never share identifiers.
func WithIDPrefix(prefix string) Option {
	return func(e *Engine) {
		e.idPrefix = prefix
	}
}

// WithErrorSeparator sets the string placed between multiple rejection
// messages for one field. The default joins them with no separator.
func WithErrorSeparator(sep string) Option {
	return func(e *Engine) {
		e.separator = sep
	}
}
