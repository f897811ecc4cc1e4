package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const mcqSchemaURL = "schema://mcq-list.json"

// mcqListSchema is the shape of a generation response.
var mcqListSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"options": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string"},
			},
			"answer": map[string]any{"type": "string"},
		},
		"required": []any{"question", "options", "answer"},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func mcqSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a parsed JSON value, not Go literals.
		defBytes, err := json.Marshal(mcqListSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(mcqSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(mcqSchemaURL)
	})
	return compiled, compileErr
}

// DecodeMCQs validates raw against the MCQ list schema and decodes it.
// Returns *InvalidResponseError on any failure.
func DecodeMCQs(raw []byte) ([]MCQItem, error) {
	invalid := func(err error) error {
		return &InvalidResponseError{Op: OpGenerate, Content: json.RawMessage(raw), Err: err}
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, invalid(fmt.Errorf("invalid JSON: %w", err))
	}

	sch, err := mcqSchema()
	if err != nil {
		return nil, invalid(fmt.Errorf("compile schema: %w", err))
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, invalid(fmt.Errorf("schema validation failed: %w", err))
	}

	var items []MCQItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, invalid(err)
	}
	return items, nil
}
