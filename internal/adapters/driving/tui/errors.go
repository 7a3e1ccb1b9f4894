package tui

import "errors"

// ErrAborted is returned when the user abandons the run from a prompt.
var ErrAborted = errors.New("tui: aborted by user")

// ErrNotTerminal is returned when a prompt cannot attach to a terminal.
var ErrNotTerminal = errors.New("tui: input is not a terminal")
