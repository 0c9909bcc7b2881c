package deckfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recallvault/internal/deckfile"
)

const sample = `
name: spanish-basics
description: First words
schedule: true
cards:
  - front: hola
    back: hello
  - front: gato
    back: cat
`

func TestDecode(t *testing.T) {
	f, err := deckfile.Decode(strings.NewReader(sample))

	require.NoError(t, err)
	assert.Equal(t, "spanish-basics", f.Name)
	assert.Equal(t, "First words", f.Description)
	assert.True(t, f.Schedule)
	require.Len(t, f.Cards, 2)
	assert.Equal(t, "gato", f.Cards[1].Front)
	assert.Equal(t, "cat", f.Cards[1].Back)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{name: "empty", input: "", contains: "empty"},
		{name: "missing name", input: "cards: []\n", contains: "name is required"},
		{name: "empty front", input: "name: x\ncards:\n  - back: y\n", contains: "card 1"},
		{name: "unknown key", input: "name: x\ncolour: red\n", contains: "parse deck file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deckfile.Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	f, err := deckfile.Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Cards, 2)

	_, err = deckfile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
