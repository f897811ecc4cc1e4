package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydeck/internal/ui/theme"
)

// SliderBar draws the duration slider with its mirrored value label.
type SliderBar struct {
	Label    string
	Value    string
	Fraction float64
	Width    int
}

// NewSliderBar creates a new slider bar.
func NewSliderBar(label, value string, fraction float64, width int) SliderBar {
	return SliderBar{
		Label:    label,
		Value:    value,
		Fraction: fraction,
		Width:    width,
	}
}

// View renders the slider bar.
func (p SliderBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	valueStr := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(p.Value)
	labelWidth := lipgloss.Width(result)
	valueWidth := lipgloss.Width(valueStr) + 2

	barWidth := p.Width - labelWidth - valueWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction)
	filled = max(0, min(barWidth, filled))
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	return result + "  " + valueStr
}
