package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema(name string) *Schema {
	return &Schema{
		Name:        name,
		Description: "test schema",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"answer": map[string]any{"type": "string"},
				"score":  map[string]any{"type": "number"},
			},
			"required":             []any{"answer"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse_Valid(t *testing.T) {
	err := validateResponse(testSchema("validate-valid"), json.RawMessage(`{"answer":"4","score":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	err := validateResponse(testSchema("validate-missing"), json.RawMessage(`{"score":1}`))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestValidateResponse_ExtraField(t *testing.T) {
	err := validateResponse(testSchema("validate-extra"), json.RawMessage(`{"answer":"4","bogus":true}`))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestValidateResponse_NotJSON(t *testing.T) {
	err := validateResponse(testSchema("validate-notjson"), json.RawMessage(`not json at all`))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything goes`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateResponse_CompiledSchemaCached(t *testing.T) {
	s := testSchema("validate-cached")
	if err := validateResponse(s, json.RawMessage(`{"answer":"a"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := schemaCache.Load(s.Name); !ok {
		t.Fatal("expected schema to be cached after first use")
	}
}

func TestWithPurpose(t *testing.T) {
	ctx := WithPurpose(t.Context(), "grade-judge")
	if got := PurposeFrom(ctx); got != "grade-judge" {
		t.Fatalf("unexpected purpose %q", got)
	}
	if got := PurposeFrom(t.Context()); got != "unknown" {
		t.Fatalf("unexpected default purpose %q", got)
	}
}
