package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrRejected is returned when the form is still invalid after the
	// configured number of submission rounds.
	ErrRejected = errors.New("tui: form rejected")
)
