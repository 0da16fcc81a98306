package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var testSchema = &Schema{
	Name:        "test-evaluation",
	Description: "test schema",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"isCorrect":  map[string]any{"type": "boolean"},
			"confidence": map[string]any{"type": "string", "enum": []any{"high", "medium", "low"}},
		},
		"required":             []any{"isCorrect", "confidence"},
		"additionalProperties": false,
	},
}

func TestValidateResponseAccepts(t *testing.T) {
	raw := json.RawMessage(`{"isCorrect": true, "confidence": "high"}`)
	if err := validateResponse(testSchema, raw); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestValidateResponseRejectsMalformedJSON(t *testing.T) {
	raw := json.RawMessage(`{"isCorrect": true,`)
	err := validateResponse(testSchema, raw)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Errorf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestValidateResponseRejectsMissingField(t *testing.T) {
	raw := json.RawMessage(`{"isCorrect": true}`)
	err := validateResponse(testSchema, raw)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Errorf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestValidateResponseRejectsBadEnum(t *testing.T) {
	raw := json.RawMessage(`{"isCorrect": false, "confidence": "certain"}`)
	err := validateResponse(testSchema, raw)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Errorf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Errorf("nil schema should skip validation, got %v", err)
	}
}
