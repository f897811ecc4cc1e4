package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydeck/internal/deck"
	"github.com/abhisek/studydeck/internal/ui/theme"
)

// MCQCard renders one generated question with its two controls.
type MCQCard struct {
	Item        deck.ItemView
	AskFocused  bool
	ShowFocused bool
	Width       int
}

// NewMCQCard creates a card for item.
func NewMCQCard(item deck.ItemView, askFocused, showFocused bool, width int) MCQCard {
	return MCQCard{
		Item:        item,
		AskFocused:  askFocused,
		ShowFocused: showFocused,
		Width:       width,
	}
}

// View renders the card.
func (m MCQCard) View() string {
	var b strings.Builder

	header := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if m.Item.AskDisabled {
		header = header.Foreground(theme.Success)
	}
	b.WriteString(header.Render(m.Item.Header))
	b.WriteString("\n")

	for _, opt := range m.Item.Options {
		b.WriteString("  " + theme.Body.Render(opt) + "\n")
	}

	ask := NewButton(m.Item.AskLabel, m.AskFocused, m.Item.AskDisabled)
	show := NewButton(m.Item.AnswerLabel, m.ShowFocused, false)
	b.WriteString(ask.View() + " " + show.View())
	if m.Item.AnswerVisible {
		b.WriteString("  " + theme.Answer.Render(m.Item.Answer))
	}

	style := theme.Card
	if m.Width > 4 {
		style = style.Width(m.Width)
	}
	return style.Render(b.String())
}
