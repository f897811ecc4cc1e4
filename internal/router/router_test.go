package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydeck/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestBreadcrumb(t *testing.T) {
	r := New(&stubScreen{title: "Cells"})
	if got := r.Breadcrumb(); got != "Cells" {
		t.Errorf("Breadcrumb = %q, want %q", got, "Cells")
	}

	r.Push(&stubScreen{title: ""})
	r.Push(&stubScreen{title: "Export"})
	if got := r.Breadcrumb(); got != "Cells › Export" {
		t.Errorf("Breadcrumb = %q, want %q", got, "Cells › Export")
	}
}

func TestUpdateHandlesNavigationMsgs(t *testing.T) {
	r := New(&stubScreen{title: "session"})

	overlay := &stubScreen{title: "Export"}
	r.Update(PushScreenMsg{Screen: overlay})
	if r.Active() != overlay || !overlay.initRan {
		t.Fatalf("expected overlay to be active and initialised")
	}

	r.Update(PopScreenMsg{})
	if r.Active().Title() != "session" {
		t.Errorf("expected session after pop, got %q", r.Active().Title())
	}
}

type resultMsg struct{}

// recordingScreen counts the messages it receives.
type recordingScreen struct {
	stubScreen
	keys    int
	results int
}

func (s *recordingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyMsg:
		s.keys++
	case resultMsg:
		s.results++
		return s, func() tea.Msg { return nil }
	}
	return s, nil
}

func TestUpdateDeliversResultsUnderOverlay(t *testing.T) {
	session := &recordingScreen{stubScreen: stubScreen{title: "session"}}
	overlay := &recordingScreen{stubScreen: stubScreen{title: "Export"}}
	r := New(session)
	r.Push(overlay)

	r.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if session.keys != 0 || overlay.keys != 1 {
		t.Errorf("keys: session=%d overlay=%d, want 0 and 1", session.keys, overlay.keys)
	}

	if cmd := r.Update(resultMsg{}); cmd == nil {
		t.Error("expected the session's command to be returned")
	}
	if session.results != 1 {
		t.Errorf("session received %d results under the overlay, want 1", session.results)
	}
	if overlay.results != 1 {
		t.Errorf("overlay received %d results, want 1", overlay.results)
	}
}
