package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

var pairSchema = &Schema{
	Name: "test-pair",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"question", "answer"},
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"answer":   map[string]any{"type": "string"},
		},
	},
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"question":"q","answer":"a"}`, false},
		{"missing field", `{"question":"q"}`, true},
		{"extra field", `{"question":"q","answer":"a","x":1}`, true},
		{"wrong type", `{"question":1,"answer":"a"}`, true},
		{"not json", `question: q`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(pairSchema, json.RawMessage(tt.raw))
			if tt.wantErr {
				var inv *InvalidResponseError
				if !errors.As(err, &inv) {
					t.Fatalf("err = %v, want InvalidResponseError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_NilSchemaAcceptsAnything(t *testing.T) {
	if err := validate(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"question":"q"}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: pairSchema})
	var inv *InvalidResponseError
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want InvalidResponseError", err)
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{Prompt: "hi"})
	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want UnavailableError", err)
	}
}
