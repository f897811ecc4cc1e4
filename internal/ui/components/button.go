package components

import (
	"github.com/abhisek/studydeck/internal/ui/theme"
)

// Button is an inline control rendered inside a block.
type Button struct {
	Label    string
	Focused  bool
	Disabled bool
}

// NewButton creates a new button.
func NewButton(label string, focused, disabled bool) Button {
	return Button{
		Label:    label,
		Focused:  focused,
		Disabled: disabled,
	}
}

// View renders the button.
func (b Button) View() string {
	label := "[" + b.Label + "]"
	switch {
	case b.Disabled:
		return theme.ButtonDisabled.Render(label)
	case b.Focused:
		return theme.ButtonFocused.Render("▸ " + label)
	default:
		return theme.ButtonIdle.Render(label)
	}
}
