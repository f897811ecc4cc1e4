package components

import (
	"strings"
	"testing"

	"github.com/abhisek/studydeck/internal/deck"
)

func TestButtonView(t *testing.T) {
	if v := NewButton("Generate", true, false).View(); !strings.Contains(v, "▸ [Generate]") {
		t.Errorf("focused button = %q, want focus marker", v)
	}
	if v := NewButton("Generate", false, false).View(); strings.Contains(v, "▸") {
		t.Errorf("idle button = %q, should not carry focus marker", v)
	}
	if v := NewButton("Mark as asked", true, true).View(); strings.Contains(v, "▸") {
		t.Errorf("disabled button = %q, should not show focus", v)
	}
}

func TestSliderBarShowsValue(t *testing.T) {
	v := NewSliderBar("Duration", "42m", 0.2, 40).View()
	if !strings.Contains(v, "Duration") || !strings.Contains(v, "42m") {
		t.Errorf("slider bar = %q, want label and value", v)
	}
}

func TestMCQCardHidesAnswerUntilRevealed(t *testing.T) {
	item := deck.ItemView{
		Header:      "Q1. Q1",
		Options:     []string{"A. A", "B. B"},
		AskLabel:    deck.LabelMarkAsked,
		AnswerLabel: deck.LabelShowAnswer,
		Answer:      "Answer: A",
	}

	v := NewMCQCard(item, false, false, 60).View()
	for _, want := range []string{"Q1. Q1", "A. A", "B. B", "Mark as asked", "Show answer"} {
		if !strings.Contains(v, want) {
			t.Errorf("card missing %q:\n%s", want, v)
		}
	}
	if strings.Contains(v, "Answer: A") {
		t.Errorf("answer should be hidden:\n%s", v)
	}

	item.AnswerVisible = true
	item.AnswerLabel = deck.LabelHideAnswer
	v = NewMCQCard(item, false, true, 60).View()
	if !strings.Contains(v, "Answer: A") || !strings.Contains(v, "Hide answer") {
		t.Errorf("revealed card:\n%s", v)
	}
}
