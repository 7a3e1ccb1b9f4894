package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrAborted.Error(), ErrNotTerminal.Error())
}

func TestErrAborted_Message(t *testing.T) {
	assert.Contains(t, ErrAborted.Error(), "aborted")
}

func TestErrNotTerminal_Message(t *testing.T) {
	assert.Contains(t, ErrNotTerminal.Error(), "terminal")
}
