package widgets

import (
	"time"

	"github.com/google/uuid"
)

// Definition captures a widget type, its configuration schema, and default values.
type Definition struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Schema      map[string]any `json:"schema"`
	Defaults    map[string]any `json:"defaults,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Icon        *string        `json:"icon,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Instance represents a concrete placement of a widget definition. Key is an
// optional stable handle; keyed instances get deterministic identifiers so
// repeated site builds bind the same state.
type Instance struct {
	ID            uuid.UUID      `json:"id"`
	DefinitionID  uuid.UUID      `json:"definition_id"`
	Key           string         `json:"key,omitempty"`
	Configuration map[string]any `json:"configuration"`
	Position      int            `json:"position"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
