package content

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-blog/internal/validation"
)

// ErrFrontMatterInvalid flags post front matter rejected by the schema.
var ErrFrontMatterInvalid = errors.New("content: front matter invalid")

// postFrontMatterSchema constrains the shape of YAML front matter carried on
// post sources. Title presence is enforced on the request itself, so the
// schema only type-checks the known keys. Unknown keys are allowed so themes
// can carry custom metadata.
var postFrontMatterSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": true,
	"properties": map[string]any{
		"title":    map[string]any{"type": "string", "minLength": 1},
		"slug":     map[string]any{"type": "string", "pattern": "^[a-z0-9-]+$"},
		"summary":  map[string]any{"type": "string"},
		"template": map[string]any{"type": "string"},
		"author":   map[string]any{"type": "string"},
		"draft":    map[string]any{"type": "boolean"},
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"date":    map[string]any{"type": "string", "format": "date-time"},
		"updated": map[string]any{"type": "string", "format": "date-time"},
	},
}

// ValidateFrontMatter checks parsed front matter against the post schema.
// Values are round-tripped through JSON so YAML-native types such as
// timestamps are compared in their JSON form.
func ValidateFrontMatter(raw map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	payload, err := jsonPayload(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFrontMatterInvalid, err)
	}
	if err := validation.ValidatePayload(postFrontMatterSchema, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrFrontMatterInvalid, err)
	}
	return nil
}

func validateFrontMatterMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}
	raw, ok := metadata["frontmatter"].(map[string]any)
	if !ok {
		return nil
	}
	return ValidateFrontMatter(raw)
}

func jsonPayload(raw map[string]any) (map[string]any, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
