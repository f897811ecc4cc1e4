package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydeck/internal/router"
	"github.com/abhisek/studydeck/internal/screen"
	"github.com/abhisek/studydeck/internal/ui/layout"
)

type stubScreen struct {
	title string
	keys  []string
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}
func (s *stubScreen) View(int, int) string { return "body of " + s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) Status() string       { return "2/5" }
func (s *stubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "g", Description: "Generate"}}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestApp_QuitKeys(t *testing.T) {
	m := New(&stubScreen{title: "Cells"})

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if !isQuit(cmd) {
		t.Error("ctrl+c should quit")
	}
	_, cmd = m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if !isQuit(cmd) {
		t.Error("q should quit at the bottom of the stack")
	}
}

func TestApp_EscPopsOverlay(t *testing.T) {
	root := &stubScreen{title: "Cells"}
	m := New(root)
	m.router.Push(&stubScreen{title: "Export"})

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if isQuit(cmd) {
		t.Error("q should not quit while an overlay is open")
	}

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc should pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestApp_ForwardsKeys(t *testing.T) {
	root := &stubScreen{title: "Cells"}
	m := New(root)
	m.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	if len(root.keys) != 1 || root.keys[0] != "g" {
		t.Errorf("keys = %v", root.keys)
	}
}

func TestApp_ViewFrame(t *testing.T) {
	model, _ := New(&stubScreen{title: "Cells"}).Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	content := model.(AppModel).render()
	for _, want := range []string{"Studydeck", "Cells", "2/5", "Generate", "Quit", "body of Cells"} {
		if !strings.Contains(content, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestApp_TooSmall(t *testing.T) {
	model, _ := New(&stubScreen{title: "Cells"}).Update(tea.WindowSizeMsg{Width: 30, Height: 10})

	if content := model.(AppModel).render(); !strings.Contains(content, "Terminal too small") {
		t.Errorf("expected size message, got %q", content)
	}
}
