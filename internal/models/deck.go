package models

import "time"

type Deck struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DeckFile is the on-disk YAML form of a deck used by the importer.
type DeckFile struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Schedule    bool            `yaml:"schedule"`
	Cards       []DeckFileEntry `yaml:"cards"`
}

type DeckFileEntry struct {
	Front string `yaml:"front"`
	Back  string `yaml:"back"`
}
