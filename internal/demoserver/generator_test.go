package demoserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydeck/internal/api"
	"github.com/abhisek/studydeck/internal/llm"
)

func TestLLMGeneratorNormalizes(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[
		{"question":" What raises demand? ","options":["Income","Tax","Cost","Supply","Extra"],"answer":"Income"},
		{"question":"","options":["a"],"answer":"a"},
		{"question":"Elastic goods?","options":["Luxuries"],"answer":"Luxuries"}
	]}`)})

	sess := SampleSession()
	items, err := LLMGenerator{Provider: mock}.Generate(context.Background(), sess, sess.Blocks[0])
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "What raises demand?", items[0].Question)
	assert.Equal(t, []string{"Income", "Tax", "Cost", "Supply"}, items[0].Options)
	assert.Equal(t, []string{"Luxuries", "Option 2", "Option 3", "Option 4"}, items[1].Options)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "Topic: "+sess.Blocks[0].Title)
	assert.Contains(t, calls[0].Prompt, sess.Blocks[0].Notes[0])
	assert.Equal(t, "mcq-set", calls[0].Schema.Name)
}

func TestLLMGeneratorRejectsEmptySet(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[]}`)})
	sess := SampleSession()
	_, err := LLMGenerator{Provider: mock}.Generate(context.Background(), sess, sess.Blocks[0])
	assert.Error(t, err)
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, *Session, *Block) ([]api.MCQItem, error) {
	return nil, errors.New("model offline")
}

func TestMCQFallsBackWhenGeneratorFails(t *testing.T) {
	srv := New(nil, SampleSession())
	srv.UseGenerator(failingGenerator{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/demo/mcq/b1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	items, err := api.DecodeMCQs(rec.Body.Bytes())
	require.NoError(t, err)
	assert.NotEmpty(t, items)
}

func TestMCQUsesConfiguredGenerator(t *testing.T) {
	srv := New(nil, SampleSession())
	srv.UseGenerator(LLMGenerator{Provider: llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"questions":[{"question":"Q?","options":["x","y"],"answer":"x"}]}`),
	})})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/demo/mcq/b2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	items, err := api.DecodeMCQs(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Q?", items[0].Question)
}
