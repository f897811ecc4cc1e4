package demoserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/studydeck/internal/api"
	"github.com/abhisek/studydeck/internal/llm"
)

// Generator produces multiple-choice questions for one block. It receives
// copies and may run without the server lock.
type Generator interface {
	Generate(ctx context.Context, sess *Session, b *Block) ([]api.MCQItem, error)
}

type notesGenerator struct{}

func (notesGenerator) Generate(_ context.Context, sess *Session, b *Block) ([]api.MCQItem, error) {
	return generateMCQs(sess, b), nil
}

const (
	llmQuestionCount = 4
	llmOptionCount   = 4
	llmNoteLimit     = 6
)

var mcqSetSchema = &llm.Schema{
	Name:        "mcq-set",
	Description: "Multiple-choice questions about a study block",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"question", "options", "answer"},
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"answer": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

// LLMGenerator asks a language model for questions grounded in the block's
// notes.
type LLMGenerator struct {
	Provider llm.Provider
}

func (g LLMGenerator) Generate(ctx context.Context, sess *Session, b *Block) ([]api.MCQItem, error) {
	notes := b.Notes
	if len(notes) > llmNoteLimit {
		notes = notes[:llmNoteLimit]
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Session: %s\nTopic: %s\nNotes:\n", sess.Name, b.Title)
	for _, n := range notes {
		fmt.Fprintf(&prompt, "- %s\n", n)
	}
	fmt.Fprintf(&prompt, "\nWrite %d multiple-choice questions with %d options each and exactly one correct answer. "+
		"The answer must be copied verbatim from the options.", llmQuestionCount, llmOptionCount)

	resp, err := g.Provider.Generate(ctx, llm.Request{
		System:      "You write short quiz questions for a tutor. Return only JSON.",
		Prompt:      prompt.String(),
		Schema:      mcqSetSchema,
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Questions []api.MCQItem `json:"questions"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	items := normalizeMCQs(out.Questions)
	if len(items) == 0 {
		return nil, fmt.Errorf("model returned no usable questions")
	}
	return items, nil
}

// normalizeMCQs drops incomplete questions and trims or pads options to
// exactly llmOptionCount.
func normalizeMCQs(in []api.MCQItem) []api.MCQItem {
	var items []api.MCQItem
	for _, q := range in {
		if len(items) == llmQuestionCount {
			break
		}
		q.Question = strings.TrimSpace(q.Question)
		q.Answer = strings.TrimSpace(q.Answer)
		if q.Question == "" || q.Answer == "" || len(q.Options) == 0 {
			continue
		}
		opts := make([]string, 0, llmOptionCount)
		for _, o := range q.Options {
			if len(opts) == llmOptionCount {
				break
			}
			opts = append(opts, strings.TrimSpace(o))
		}
		for len(opts) < llmOptionCount {
			opts = append(opts, fmt.Sprintf("Option %d", len(opts)+1))
		}
		q.Options = opts
		items = append(items, q)
	}
	return items
}
