package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydeck/internal/api"
)

func TestDescribeSingleItem(t *testing.T) {
	p := newReadyPanel(1, []api.MCQItem{{Question: "Q1", Options: []string{"A", "B"}, Answer: "A"}})

	v := Describe(p)
	assert.Empty(t, v.Text)
	require.Len(t, v.Items, 1)

	it := v.Items[0]
	assert.Equal(t, "Q1. Q1", it.Header)
	assert.Equal(t, []string{"A. A", "B. B"}, it.Options)
	assert.Equal(t, "Mark as asked", it.AskLabel)
	assert.False(t, it.AskDisabled)
	assert.Equal(t, "Show answer", it.AnswerLabel)
	assert.Contains(t, it.Answer, "A")
	assert.False(t, it.AnswerVisible)
}

func TestDescribeNumbersItems(t *testing.T) {
	p := newReadyPanel(1, []api.MCQItem{
		{Question: "first", Options: []string{"x"}},
		{Question: "second", Options: []string{"y"}},
	})
	v := Describe(p)
	assert.Equal(t, "Q1. first", v.Items[0].Header)
	assert.Equal(t, "Q2. second", v.Items[1].Header)
}

func TestDescribeEmptyAndNil(t *testing.T) {
	assert.Equal(t, PanelView{}, Describe(nil))

	v := Describe(newReadyPanel(1, nil))
	assert.Empty(t, v.Text)
	assert.Empty(t, v.Items)
}

func TestSlider(t *testing.T) {
	s := NewSlider(10, 180, 5, 42)
	assert.Equal(t, "42m", s.Label())

	assert.Equal(t, 47, s.Inc())
	assert.Equal(t, 42, s.Dec())
	assert.Equal(t, 10, s.Set(3))
	assert.Equal(t, 10, s.Dec())
	assert.Equal(t, 180, s.Set(500))
	assert.Equal(t, 180, s.Inc())
	assert.Equal(t, "180m", s.Label())
	assert.InDelta(t, 1.0, s.Fraction(), 1e-9)

	z := NewSlider(10, 10, 0, 10)
	assert.Equal(t, 1, z.Step)
	assert.InDelta(t, 1.0, z.Fraction(), 1e-9)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "generating", StatusGenerating.String())
	assert.Equal(t, "ready", StatusReady.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
