// Package export shows a session's markdown export as a scrollable overlay.
package export

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydeck/internal/screen"
	"github.com/abhisek/studydeck/internal/ui/layout"
	"github.com/abhisek/studydeck/internal/ui/theme"
)

// ExportScreen displays exported markdown.
type ExportScreen struct {
	session  string
	markdown string
	vp       viewport.Model
	offset   int
	lines    int
}

var _ screen.Screen = (*ExportScreen)(nil)
var _ screen.KeyHintProvider = (*ExportScreen)(nil)

// New creates an overlay for the export of the named session.
func New(session, markdown string) *ExportScreen {
	md := strings.TrimRight(markdown, "\n")
	return &ExportScreen{
		session:  session,
		markdown: md,
		vp:       viewport.New(),
		lines:    strings.Count(md, "\n") + 1,
	}
}

func (s *ExportScreen) Init() tea.Cmd { return nil }

func (s *ExportScreen) Title() string { return "Export" }

func (s *ExportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "g/G", Description: "Top/Bottom"},
		{Key: "Esc", Description: "Back"},
	}
}

// Offset returns the first visible line.
func (s *ExportScreen) Offset() int { return s.offset }

func (s *ExportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		s.offset = max(0, s.offset-1)
	case "down", "j":
		s.offset = min(s.lines-1, s.offset+1)
	case "pgup":
		s.offset = max(0, s.offset-10)
	case "pgdown":
		s.offset = min(s.lines-1, s.offset+10)
	case "g", "home":
		s.offset = 0
	case "G", "end":
		s.offset = s.lines - 1
	}
	return s, nil
}

func (s *ExportScreen) View(width, height int) string {
	heading := theme.Subtitle.Render(s.session + " as markdown")
	bodyHeight := max(1, height-lipgloss.Height(heading)-1)

	if s.markdown == "" {
		return heading + "\n" + theme.Hint.Render("The export is empty.")
	}

	s.offset = max(0, min(s.offset, s.lines-bodyHeight))
	s.vp.SetWidth(width)
	s.vp.SetHeight(bodyHeight)
	s.vp.SetContent(theme.Body.Render(s.markdown))
	s.vp.SetYOffset(s.offset)
	return heading + "\n" + s.vp.View()
}
