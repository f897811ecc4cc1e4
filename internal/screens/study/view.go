package study

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydeck/internal/deck"
	"github.com/abhisek/studydeck/internal/ui/components"
	"github.com/abhisek/studydeck/internal/ui/layout"
	"github.com/abhisek/studydeck/internal/ui/theme"
)

func (s *StudyScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCould not load session %s:\n%s", s.sid, s.errMsg))
	}
	if s.deck == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading session...")
	}

	top := s.renderSlider(width)
	if pins := s.renderPins(); pins != "" {
		top += "\n" + pins
	}
	if s.status != "" {
		top += "\n" + theme.Hint.Render(s.status)
	}

	var bottom string
	if s.deck.ShowHelp {
		bottom = theme.Card.Render(s.help.FullHelpView(s.keys.FullHelp()))
	}

	bodyHeight := height - lipgloss.Height(top) - 1
	if bottom != "" {
		bodyHeight -= lipgloss.Height(bottom)
	}
	bodyHeight = max(1, bodyHeight)

	body, currentLine := s.renderBlocks(width)
	lines := strings.Count(body, "\n") + 1
	if s.scroll {
		s.offset = currentLine
		s.scroll = false
	}
	s.offset = max(0, min(s.offset, lines-bodyHeight))

	s.vp.SetWidth(width)
	s.vp.SetHeight(bodyHeight)
	s.vp.SetContent(body)
	s.vp.SetYOffset(s.offset)

	out := top + "\n" + s.vp.View()
	if bottom != "" {
		out += "\n" + bottom
	}
	return out
}

func (s *StudyScreen) renderSlider(width int) string {
	sl := s.deck.Slider
	bar := components.NewSliderBar("Duration", sl.Label(), sl.Fraction(), min(width, 72))
	return bar.View()
}

// renderBlocks draws every block in document order and returns the line at
// which the current block starts.
func (s *StudyScreen) renderBlocks(width int) (string, int) {
	d := s.deck
	if len(d.Blocks) == 0 {
		return theme.Hint.Render("This session has no blocks."), 0
	}

	focused, _ := d.Focused()
	compact := layout.IsCompactWidth(width)
	innerWidth := max(20, width-4)

	var b strings.Builder
	currentLine := 0
	for i, blk := range d.Blocks {
		isCurrent := i == d.Cursor()
		if isCurrent {
			currentLine = strings.Count(b.String(), "\n")
		}

		var sec strings.Builder
		title := fmt.Sprintf("%d. %s", i+1, blk.Title)
		if blk.Minutes > 0 {
			title += fmt.Sprintf(" (%dm)", blk.Minutes)
		}
		titleStyle := theme.Body.Bold(true)
		if isCurrent {
			titleStyle = theme.Title
		}
		sec.WriteString(titleStyle.Render(title))
		if blk.Covered {
			sec.WriteString("  " + theme.Covered.Render("✓ covered"))
		}
		sec.WriteString("\n")

		if !compact || isCurrent {
			for j, n := range blk.Notes {
				noteFocused := isCurrent && focused.Kind == deck.ControlPin && focused.Item == j
				sec.WriteString(s.renderNote(n, noteFocused) + "\n")
			}
		}

		gen := components.NewButton("Generate MCQs", isCurrent && focused.Kind == deck.ControlGenerate, false)
		sec.WriteString(gen.View())

		if panel := s.renderPanel(blk.ID, isCurrent, focused, innerWidth-2); panel != "" {
			sec.WriteString("\n" + panel)
		}

		style := theme.BlockIdle
		if isCurrent {
			style = theme.BlockCurrent
		}
		b.WriteString(style.Width(innerWidth).Render(sec.String()))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n"), currentLine
}

func (s *StudyScreen) renderPins() string {
	if len(s.deck.Pins) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.deck.Pins)+1)
	lines = append(lines, theme.Subtitle.Render("Pinned"))
	for _, p := range s.deck.Pins {
		lines = append(lines, theme.Pin.Render("▍ "+p))
	}
	return strings.Join(lines, "\n")
}

func (s *StudyScreen) renderNote(text string, focused bool) string {
	bullet := "• "
	if s.deck.Pinned(text) {
		bullet = theme.Pin.Render("★ ")
	}
	style := theme.Note
	if focused {
		style = theme.NoteFocused
		bullet = "› " + bullet
	}
	return bullet + style.Render(text)
}

func (s *StudyScreen) renderPanel(blockID string, isCurrent bool, focused deck.Control, width int) string {
	v := deck.Describe(s.deck.Panel(blockID))
	if v.Text != "" {
		if v.Text == deck.FailedText {
			return theme.Failure.Render(v.Text)
		}
		return theme.Hint.Render(v.Text)
	}

	cards := make([]string, 0, len(v.Items))
	for i, it := range v.Items {
		askFocused := isCurrent && focused.Item == i && focused.Kind == deck.ControlMarkAsked
		showFocused := isCurrent && focused.Item == i && focused.Kind == deck.ControlShowAnswer
		cards = append(cards, components.NewMCQCard(it, askFocused, showFocused, width).View())
	}
	return strings.Join(cards, "\n")
}
