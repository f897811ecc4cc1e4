package study

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydeck/internal/api"
	"github.com/abhisek/studydeck/internal/deck"
	"github.com/abhisek/studydeck/internal/router"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var (
	itemQ1 = api.MCQItem{Question: "Q1", Options: []string{"A", "B"}, Answer: "A"}
	itemQ2 = api.MCQItem{Question: "Q2", Options: []string{"C", "D"}, Answer: "D"}
)

func testDocument() *api.Document {
	return &api.Document{
		SessionID:       "s1",
		Name:            "Cells",
		DurationMinutes: 42,
		Blocks: []api.Block{
			{ID: "b1", Title: "Membranes", Minutes: 20, Notes: []string{"Lipid bilayer"}},
			{ID: "b2", Title: "Organelles", Minutes: 12},
			{ID: "b3", Title: "Division", Minutes: 10},
		},
	}
}

func testStudyScreen(t *testing.T) (*StudyScreen, *api.MockClient) {
	t.Helper()
	mock := api.NewMockClient(testDocument())
	s := New(mock, "s1", Options{Slider: deck.SliderBounds{Min: 10, Max: 180, Step: 5}})
	send(t, s, run(t, s.Init()))
	if s.Deck() == nil {
		t.Fatal("expected deck after initial load")
	}
	return s, mock
}

// run executes a command synchronously.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func send(t *testing.T, s *StudyScreen, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := s.Update(msg)
	return cmd
}

func TestStudyScreen_Loading(t *testing.T) {
	s := New(api.NewMockClient(testDocument()), "s1", Options{})
	if s.Title() != "Session s1" {
		t.Errorf("Title = %q before load", s.Title())
	}
	if view := s.View(80, 24); !strings.Contains(view, "Loading session") {
		t.Errorf("expected loading view, got %q", view)
	}
	if cmd := send(t, s, keyPress('g')); cmd != nil {
		t.Error("keys before load should do nothing")
	}
}

func TestStudyScreen_LoadError(t *testing.T) {
	s := New(api.NewMockClient(nil), "s1", Options{})
	send(t, s, run(t, s.Init()))

	if s.Deck() != nil {
		t.Fatal("deck should stay nil on load error")
	}
	if view := s.View(80, 24); !strings.Contains(view, "Could not load session s1") {
		t.Errorf("expected error view, got %q", view)
	}
}

func TestStudyScreen_InitialState(t *testing.T) {
	s, _ := testStudyScreen(t)

	if s.Title() != "Cells" {
		t.Errorf("Title = %q, want Cells", s.Title())
	}
	if s.Deck().Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", s.Deck().Cursor())
	}
	view := s.View(100, 40)
	for _, want := range []string{"42m", "1. Membranes (20m)", "Lipid bilayer", "Generate MCQs"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStudyScreen_Navigation(t *testing.T) {
	s, _ := testStudyScreen(t)

	send(t, s, specialKey(tea.KeyLeft))
	if got := s.Deck().Cursor(); got != 0 {
		t.Errorf("left at 0: cursor = %d", got)
	}
	for range 5 {
		send(t, s, specialKey(tea.KeyRight))
	}
	if got := s.Deck().Cursor(); got != 2 {
		t.Errorf("right past end: cursor = %d, want 2", got)
	}
	if got := s.Status(); got != "3/3  ✓0" {
		t.Errorf("Status = %q", got)
	}
	send(t, s, specialKey(tea.KeyLeft))
	if got := s.Deck().Cursor(); got != 1 {
		t.Errorf("cursor = %d, want 1", got)
	}
}

func TestStudyScreen_GenerateRendersItems(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.QueueGenerate("b1", []api.MCQItem{itemQ1}, nil)

	cmd := send(t, s, keyPress('g'))
	if p := s.Deck().Panel("b1"); p == nil || p.Status != deck.StatusGenerating {
		t.Fatal("expected generating placeholder before the response")
	}
	if view := s.View(100, 40); !strings.Contains(view, "Generating…") {
		t.Error("view should show the placeholder")
	}

	send(t, s, run(t, cmd))
	view := s.View(100, 40)
	for _, want := range []string{"Q1. Q1", "A. A", "B. B", "Mark as asked", "Show answer"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Answer: A") {
		t.Error("answer should start hidden")
	}

	calls := mock.CallsFor(api.OpGenerate)
	if len(calls) != 1 || calls[0].SessionID != "s1" || calls[0].BlockID != "b1" {
		t.Errorf("generate calls = %+v", calls)
	}
}

func TestStudyScreen_GenerateUppercaseKey(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.QueueGenerate("b1", []api.MCQItem{itemQ1}, nil)

	if cmd := send(t, s, keyPress('G')); cmd == nil {
		t.Fatal("G should trigger generation")
	}
}

func TestStudyScreen_GenerateFailure(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.QueueGenerate("b1", nil, &api.TransportError{Op: api.OpGenerate, Err: errors.New("refused")})

	send(t, s, run(t, send(t, s, keyPress('g'))))

	view := s.View(100, 40)
	if !strings.Contains(view, "Failed to generate.") {
		t.Errorf("expected failure text, got:\n%s", view)
	}
	if strings.Contains(view, "Mark as asked") || strings.Contains(view, "Show answer") {
		t.Error("failed panel must not render item controls")
	}
}

func TestStudyScreen_OverlappingGenerations(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.QueueGenerate("b1", []api.MCQItem{itemQ1}, nil)
	mock.QueueGenerate("b1", []api.MCQItem{itemQ2}, nil)

	first := send(t, s, keyPress('g'))
	second := send(t, s, specialKey(tea.KeyEnter)) // Generate control is focused

	firstMsg := run(t, first)
	secondMsg := run(t, second)

	// Resolve in reverse order.
	send(t, s, secondMsg)
	send(t, s, firstMsg)

	p := s.Deck().Panel("b1")
	if p == nil || p.Status != deck.StatusReady || len(p.Items) != 1 {
		t.Fatalf("panel = %+v, want one ready item", p)
	}
	if q := p.Items[0].Question; q != "Q1" && q != "Q2" {
		t.Errorf("question = %q, want one of the two responses", q)
	}
}

func TestStudyScreen_MarkAsked(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.QueueGenerate("b1", []api.MCQItem{itemQ1, itemQ2}, nil)
	send(t, s, run(t, send(t, s, keyPress('g'))))

	send(t, s, specialKey(tea.KeyTab)) // Mark as asked, item 0
	cmd := send(t, s, specialKey(tea.KeyEnter))
	send(t, s, run(t, cmd))

	p := s.Deck().Panel("b1")
	if !p.Items[0].Asked {
		t.Error("item 0 should be marked asked")
	}
	if p.Items[1].Asked {
		t.Error("item 1 should be untouched")
	}

	calls := mock.CallsFor(api.OpMarkAsked)
	if len(calls) != 1 || calls[0].Item == nil || calls[0].Item.Question != "Q1" {
		t.Fatalf("mark asked calls = %+v", calls)
	}
	if calls[0].Item.Answer != "A" || len(calls[0].Item.Options) != 2 {
		t.Errorf("full item should be sent, got %+v", calls[0].Item)
	}

	if cmd := send(t, s, specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("disabled control should not issue a request")
	}
}

func TestStudyScreen_MarkAskedFailureLeavesEnabled(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.MarkAskedErr = errors.New("offline")
	mock.QueueGenerate("b1", []api.MCQItem{itemQ1}, nil)
	send(t, s, run(t, send(t, s, keyPress('g'))))

	send(t, s, specialKey(tea.KeyTab))
	send(t, s, run(t, send(t, s, keyPress('a'))))

	if s.Deck().Panel("b1").Items[0].Asked {
		t.Error("failed mark asked must leave the control enabled")
	}
	if view := s.View(100, 40); strings.Contains(view, "offline") {
		t.Error("mark asked failures are not shown")
	}
}

func TestStudyScreen_ShowAnswerToggle(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.QueueGenerate("b1", []api.MCQItem{itemQ1}, nil)
	send(t, s, run(t, send(t, s, keyPress('g'))))

	send(t, s, specialKey(tea.KeyTab))
	send(t, s, specialKey(tea.KeyTab)) // Show answer
	send(t, s, specialKey(tea.KeySpace))

	view := s.View(100, 40)
	if !strings.Contains(view, "Answer: A") || !strings.Contains(view, "Hide answer") {
		t.Errorf("answer should be visible:\n%s", view)
	}

	send(t, s, keyPress('r'))
	view = s.View(100, 40)
	if strings.Contains(view, "Answer: A") || !strings.Contains(view, "Show answer") {
		t.Errorf("answer should be hidden again:\n%s", view)
	}
}

func TestStudyScreen_ToggleCoveredReloads(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.QueueGenerate("b2", []api.MCQItem{itemQ1}, nil)
	send(t, s, specialKey(tea.KeyRight))
	send(t, s, run(t, send(t, s, keyPress('g'))))

	toggle := send(t, s, keyPress('m'))
	msg := run(t, toggle)
	calls := mock.CallsFor(api.OpToggleCovered)
	if len(calls) != 1 || calls[0].BlockID != "b2" {
		t.Fatalf("toggle calls = %+v", calls)
	}

	mock.Document.Blocks[1].Covered = true
	reload := send(t, s, msg)
	send(t, s, run(t, reload))

	d := s.Deck()
	if !d.Blocks[1].Covered {
		t.Error("reloaded block should be covered")
	}
	if d.Panel("b2") != nil {
		t.Error("reload should discard panels")
	}
	if d.Cursor() != 0 {
		t.Errorf("cursor = %d after reload, want 0", d.Cursor())
	}
	if view := s.View(100, 40); !strings.Contains(view, "✓ covered") {
		t.Error("view should mark the covered block")
	}
}

func TestStudyScreen_ToggleFailureStillReloads(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.ToggleErr = &api.StatusError{Op: api.OpToggleCovered, StatusCode: 500}

	msg := run(t, send(t, s, keyPress('M')))
	if cmd := send(t, s, msg); cmd == nil {
		t.Fatal("expected a reload after a failed toggle")
	}
}

func TestStudyScreen_StaleGenerationAfterReload(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.QueueGenerate("b1", []api.MCQItem{itemQ1}, nil)

	gen := send(t, s, keyPress('g'))
	send(t, s, run(t, s.load()))
	send(t, s, run(t, gen))

	if s.Deck().Panel("b1") != nil {
		t.Error("a response issued before the reload must not render")
	}
}

func TestStudyScreen_SliderAndSave(t *testing.T) {
	s, mock := testStudyScreen(t)

	send(t, s, keyPress(']'))
	if got := s.Deck().Slider.Label(); got != "47m" {
		t.Errorf("label = %q, want 47m", got)
	}
	send(t, s, keyPress('['))
	send(t, s, keyPress('['))
	if view := s.View(100, 40); !strings.Contains(view, "37m") {
		t.Error("view should mirror the slider value")
	}

	cmd := send(t, s, keyPress('s'))
	msg := run(t, cmd)
	calls := mock.CallsFor(api.OpDuration)
	if len(calls) != 1 || calls[0].Minutes != 37 {
		t.Fatalf("duration calls = %+v", calls)
	}
	if reload := send(t, s, msg); reload == nil {
		t.Error("saving the duration should reload")
	}
}

func TestStudyScreen_SaveFailure(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.DurationErr = errors.New("bad gateway")

	if cmd := send(t, s, run(t, send(t, s, keyPress('s')))); cmd != nil {
		t.Error("failed save should not reload")
	}
	if view := s.View(100, 40); !strings.Contains(view, "Could not save duration.") {
		t.Error("expected save failure status")
	}
}

func TestStudyScreen_HelpToggle(t *testing.T) {
	s, _ := testStudyScreen(t)

	send(t, s, keyPress('?'))
	if !s.Deck().ShowHelp {
		t.Fatal("help should be shown")
	}
	if view := s.View(100, 40); !strings.Contains(view, "toggle covered") {
		t.Error("help overlay should list key bindings")
	}
	send(t, s, keyPress('?'))
	if s.Deck().ShowHelp {
		t.Error("help should be hidden again")
	}
}

func TestStudyScreen_ExportPushesOverlay(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.ExportText = "# Cells\n"

	msg := run(t, send(t, s, keyPress('e')))
	push, ok := run(t, send(t, s, msg)).(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected a PushScreenMsg")
	}
	if push.Screen.Title() != "Export" {
		t.Errorf("pushed %q, want Export", push.Screen.Title())
	}
}

func TestStudyScreen_KeyHints(t *testing.T) {
	s, _ := testStudyScreen(t)
	hints := s.KeyHints()
	if len(hints) == 0 || hints[0].Key != "←" {
		t.Errorf("hints = %+v", hints)
	}
}

func TestStudyScreen_ResultsArriveUnderExportOverlay(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.QueueGenerate("b1", []api.MCQItem{itemQ1}, nil)
	mock.ExportText = "# Cells\n"
	r := router.New(s)

	gen := r.Update(keyPress('g'))
	toggle := r.Update(keyPress('m'))
	exported := run(t, r.Update(keyPress('e')))
	r.Update(run(t, r.Update(exported)))
	if r.Depth() != 2 {
		t.Fatalf("depth = %d, want the export overlay on top", r.Depth())
	}

	r.Update(run(t, gen))
	if p := s.Deck().Panel("b1"); p == nil || p.Status != deck.StatusReady {
		t.Fatal("generation result should reach the study screen under the overlay")
	}

	reload := r.Update(run(t, toggle))
	if reload == nil {
		t.Fatal("toggle completion should reload under the overlay")
	}
	mock.Document.Blocks[0].Covered = true
	r.Update(run(t, reload))
	if !s.Deck().Blocks[0].Covered {
		t.Error("reload should have been applied to the study screen")
	}
	if r.Active().Title() != "Export" {
		t.Errorf("active = %q, the overlay should stay on top", r.Active().Title())
	}
}

func TestStudyScreen_PinFocusedNote(t *testing.T) {
	s, mock := testStudyScreen(t)

	if cmd := send(t, s, keyPress('p')); cmd != nil {
		t.Fatal("p on Generate should do nothing")
	}
	send(t, s, specialKey(tea.KeyTab)) // the note
	msg := run(t, send(t, s, keyPress('p')))

	calls := mock.CallsFor(api.OpPin)
	if len(calls) != 1 || calls[0].Text != "Lipid bilayer" || calls[0].SessionID != "s1" {
		t.Fatalf("pin calls = %+v", calls)
	}

	mock.Document.Pins = []string{"Lipid bilayer"}
	reload := send(t, s, msg)
	send(t, s, run(t, reload))

	if !s.Deck().Pinned("Lipid bilayer") {
		t.Error("reload should carry the pin")
	}
	view := s.View(100, 40)
	for _, want := range []string{"Pinned", "▍ Lipid bilayer", "★"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStudyScreen_PinFailureStillReloads(t *testing.T) {
	s, mock := testStudyScreen(t)
	mock.PinErr = errors.New("offline")

	send(t, s, specialKey(tea.KeyTab))
	msg := run(t, send(t, s, keyPress('p')))
	if cmd := send(t, s, msg); cmd == nil {
		t.Fatal("expected a reload after a failed pin")
	}
	if view := s.View(100, 40); !strings.Contains(view, "Could not pin note.") {
		t.Error("view should report the failure")
	}
}
