// Package deckfile reads YAML deck definitions for bulk import.
//
// A deck file looks like:
//
//	name: spanish-basics
//	description: First hundred words
//	schedule: false
//	cards:
//	  - front: hola
//	    back: hello
package deckfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vytor/recallvault/internal/models"
	"gopkg.in/yaml.v3"
)

// Decode parses and validates a deck file. Unknown keys are rejected.
func Decode(r io.Reader) (models.DeckFile, error) {
	var f models.DeckFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return f, errors.New("deck file is empty")
		}
		return f, fmt.Errorf("parse deck file: %w", err)
	}
	return f, Validate(f)
}

// Load reads and decodes the deck file at path.
func Load(path string) (models.DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.DeckFile{}, err
	}
	return Decode(bytes.NewReader(data))
}

// Validate checks that the deck is named and every card has a front.
func Validate(f models.DeckFile) error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("deck file: name is required")
	}
	for i, c := range f.Cards {
		if strings.TrimSpace(c.Front) == "" {
			return fmt.Errorf("deck file: card %d has an empty front", i+1)
		}
	}
	return nil
}
