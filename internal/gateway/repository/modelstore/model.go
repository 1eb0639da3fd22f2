package modelstore

import (
	"strings"
	"time"
)

// Model is one saved threat model: the definition text plus naming
// metadata. The text is stored verbatim; parsing stays the caller's job.
type Model struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DSL       string    `json:"dsl"`
	UpdatedAt time.Time `json:"updated_at"`
}

func normalizeModel(m Model) Model {
	m.ID = strings.TrimSpace(m.ID)
	if strings.TrimSpace(m.Name) == "" {
		m.Name = "Untitled model"
	}
	return m
}
