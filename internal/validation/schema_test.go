package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeSchemaFieldsForm(t *testing.T) {
	schema := map[string]any{
		"fields": []any{
			map[string]any{"name": "label", "type": "text", "required": true},
			map[string]any{"name": "start", "type": "number"},
		},
	}

	normalized := NormalizeSchema(schema)
	if normalized == nil {
		t.Fatal("expected normalized schema")
	}
	if normalized["type"] != "object" {
		t.Fatalf("expected object schema, got %v", normalized["type"])
	}
	properties, ok := normalized["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected properties map, got %T", normalized["properties"])
	}
	label, ok := properties["label"].(map[string]any)
	if !ok || label["type"] != "string" {
		t.Fatalf("expected label typed as string, got %v", properties["label"])
	}
	start, ok := properties["start"].(map[string]any)
	if !ok || start["type"] != "number" {
		t.Fatalf("expected start typed as number, got %v", properties["start"])
	}
	required, ok := normalized["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "label" {
		t.Fatalf("expected label required, got %v", normalized["required"])
	}
}

func TestNormalizeSchemaPassesThroughJSONSchema(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
		},
	}

	normalized := NormalizeSchema(schema)
	if normalized == nil {
		t.Fatal("expected normalized schema")
	}
	if _, ok := normalized["properties"]; !ok {
		t.Fatal("expected properties preserved")
	}
}

func TestValidatePayloadAcceptsValidPayload(t *testing.T) {
	schema := map[string]any{
		"fields": []any{
			map[string]any{"name": "label", "type": "text", "required": true},
			map[string]any{"name": "start", "type": "number"},
		},
	}

	err := ValidatePayload(schema, map[string]any{"label": "Counter", "start": float64(3)})
	if err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
}

func TestValidatePayloadReportsIssues(t *testing.T) {
	schema := map[string]any{
		"fields": []any{
			map[string]any{"name": "label", "type": "text", "required": true},
			map[string]any{"name": "start", "type": "number"},
		},
	}

	err := ValidatePayload(schema, map[string]any{"start": "three"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}

	issues := Issues(err)
	if len(issues) == 0 {
		t.Fatal("expected validation issues")
	}
	var payloadErr *PayloadValidationError
	if !errors.As(err, &payloadErr) {
		t.Fatalf("expected PayloadValidationError, got %T", err)
	}
	if !strings.Contains(payloadErr.Error(), "#") {
		t.Fatalf("expected locations in message, got %q", payloadErr.Error())
	}
}

func TestValidatePayloadRejectsUnknownProperties(t *testing.T) {
	schema := map[string]any{
		"fields": []any{
			map[string]any{"name": "label", "type": "text"},
		},
	}

	err := ValidatePayload(schema, map[string]any{"label": "ok", "rogue": true})
	if err == nil {
		t.Fatal("expected additionalProperties rejection")
	}
}

func TestValidatePartialPayloadSkipsRequired(t *testing.T) {
	schema := map[string]any{
		"fields": []any{
			map[string]any{"name": "label", "type": "text", "required": true},
			map[string]any{"name": "start", "type": "number"},
		},
	}

	if err := ValidatePartialPayload(schema, map[string]any{"start": float64(1)}); err != nil {
		t.Fatalf("expected partial payload to validate, got %v", err)
	}
}

func TestValidateSchemaRejectsBrokenSchema(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "no-such-type"},
		},
	}

	err := ValidateSchema(schema)
	if err == nil {
		t.Fatal("expected schema compilation failure")
	}
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestValidateSchemaAllowsEmptySchema(t *testing.T) {
	if err := ValidateSchema(nil); err != nil {
		t.Fatalf("expected nil schema to pass, got %v", err)
	}
	if err := ValidatePayload(nil, map[string]any{"anything": true}); err != nil {
		t.Fatalf("expected nil schema to accept any payload, got %v", err)
	}
}
