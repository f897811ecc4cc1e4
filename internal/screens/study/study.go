// Package study implements the study session screen: block navigation,
// covered toggling, the duration slider and per-block question panels.
package study

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studydeck/internal/api"
	"github.com/abhisek/studydeck/internal/deck"
	"github.com/abhisek/studydeck/internal/router"
	"github.com/abhisek/studydeck/internal/screen"
	"github.com/abhisek/studydeck/internal/screens/export"
	"github.com/abhisek/studydeck/internal/ui/layout"
)

// Options configures a StudyScreen.
type Options struct {
	Slider  deck.SliderBounds
	Timeout time.Duration
	Log     *zap.SugaredLogger
}

// StudyScreen implements screen.Screen for one study session.
type StudyScreen struct {
	client  api.Client
	sid     string
	opts    Options
	log     *zap.SugaredLogger
	deck    *deck.Deck
	keys    keyMap
	help    help.Model
	vp      viewport.Model
	offset  int
	scroll  bool // scroll the current block into view on next render
	loading bool
	errMsg  string
	status  string
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)
var _ screen.StatusProvider = (*StudyScreen)(nil)

// New creates a screen for session sid served by client.
func New(client api.Client, sid string, opts Options) *StudyScreen {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &StudyScreen{
		client:  client,
		sid:     sid,
		opts:    opts,
		log:     log,
		keys:    defaultKeyMap(),
		help:    help.New(),
		vp:      viewport.New(),
		loading: true,
	}
}

func (s *StudyScreen) Init() tea.Cmd {
	return s.load()
}

func (s *StudyScreen) Title() string {
	if s.deck != nil && s.deck.Name != "" {
		return s.deck.Name
	}
	return "Session " + s.sid
}

// Status reports progress through the blocks for the header.
func (s *StudyScreen) Status() string {
	if s.deck == nil || len(s.deck.Blocks) == 0 {
		return ""
	}
	covered := 0
	for _, b := range s.deck.Blocks {
		if b.Covered {
			covered++
		}
	}
	return fmt.Sprintf("%d/%d  ✓%d", s.deck.Cursor()+1, len(s.deck.Blocks), covered)
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	bindings := s.keys.ShortHelp()
	hints := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}

// Deck exposes the interaction state.
func (s *StudyScreen) Deck() *deck.Deck {
	return s.deck
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case documentLoadedMsg:
		return s.handleLoaded(msg)

	case generatedMsg:
		if s.deck != nil && !s.deck.FinishGeneration(msg.Epoch, msg.BlockID, msg.Items, msg.Err) {
			s.log.Debugw("dropped stale generation", "block", msg.BlockID, "epoch", msg.Epoch)
		}
		return s, nil

	case toggledMsg:
		if msg.Err != nil {
			s.log.Warnw("toggle covered failed", "sid", s.sid, "block", msg.BlockID, "error", msg.Err)
		}
		// The page reloads whether or not the toggle succeeded.
		return s, s.load()

	case pinnedMsg:
		if msg.Err != nil {
			s.status = "Could not pin note."
			s.log.Warnw("pin note failed", "sid", s.sid, "error", msg.Err)
		}
		// The pin form redirects back to the page, so reload either way.
		return s, s.load()

	case askedMsg:
		if msg.Err != nil {
			s.log.Infow("mark asked failed", "sid", s.sid, "block", msg.BlockID, "item", msg.Item, "error", msg.Err)
			return s, nil
		}
		if s.deck != nil {
			s.deck.MarkAsked(msg.BlockID, msg.Serial, msg.Item)
		}
		return s, nil

	case durationSavedMsg:
		if msg.Err != nil {
			s.status = "Could not save duration."
			s.log.Warnw("save duration failed", "sid", s.sid, "minutes", msg.Minutes, "error", msg.Err)
			return s, nil
		}
		s.status = ""
		return s, s.load()

	case exportedMsg:
		if msg.Err != nil {
			s.status = "Export failed."
			s.log.Warnw("export failed", "sid", s.sid, "error", msg.Err)
			return s, nil
		}
		s.status = ""
		scr := export.New(s.Title(), msg.Markdown)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: scr} }

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *StudyScreen) handleLoaded(msg documentLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil {
		if s.deck == nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.status = "Reload failed."
		}
		s.log.Warnw("load session failed", "sid", s.sid, "error", msg.Err)
		return s, nil
	}
	s.errMsg = ""
	if s.deck == nil {
		s.deck = deck.New(msg.Doc, s.opts.Slider)
	} else {
		s.deck.Reload(msg.Doc)
	}
	s.offset = 0
	s.scroll = true
	return s, nil
}

func (s *StudyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	d := s.deck
	if d == nil {
		return s, nil
	}

	switch {
	case key.Matches(msg, s.keys.Next):
		d.Next()
		s.scroll = true
	case key.Matches(msg, s.keys.Prev):
		d.Prev()
		s.scroll = true
	case key.Matches(msg, s.keys.Covered):
		if cur, ok := d.Current(); ok {
			return s, s.toggleCovered(cur.ID)
		}
	case key.Matches(msg, s.keys.Generate):
		return s, s.dispatch(d.Generate())
	case key.Matches(msg, s.keys.Help):
		d.ToggleHelp()
	case key.Matches(msg, s.keys.Shorter):
		d.Slider.Dec()
	case key.Matches(msg, s.keys.Longer):
		d.Slider.Inc()
	case key.Matches(msg, s.keys.Save):
		s.status = "Saving duration…"
		return s, s.saveDuration(d.Slider.Value())
	case key.Matches(msg, s.keys.FocusNext):
		d.FocusNext()
	case key.Matches(msg, s.keys.FocusPrev):
		d.FocusPrev()
	case key.Matches(msg, s.keys.Activate):
		return s, s.dispatch(d.Activate())
	case key.Matches(msg, s.keys.MarkAsked):
		return s, s.dispatch(d.AskFocused())
	case key.Matches(msg, s.keys.Reveal):
		d.RevealFocused()
	case key.Matches(msg, s.keys.Pin):
		return s, s.dispatch(d.PinFocused())
	case key.Matches(msg, s.keys.Export):
		return s, s.export()
	case key.Matches(msg, s.keys.ScrollUp):
		s.offset = max(0, s.offset-1)
	case key.Matches(msg, s.keys.ScrollDown):
		s.offset++
	}
	return s, nil
}

// dispatch issues the request an activation asked for.
func (s *StudyScreen) dispatch(act deck.Action) tea.Cmd {
	switch act.Kind {
	case deck.ActionGenerate:
		return s.generate(s.deck.Epoch(), act.BlockID)
	case deck.ActionMarkAsked:
		return s.markAsked(act)
	case deck.ActionPin:
		return s.pin(act.Note)
	}
	return nil
}

func (s *StudyScreen) requestContext() (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		return context.WithTimeout(context.Background(), s.opts.Timeout)
	}
	return context.WithCancel(context.Background())
}

func (s *StudyScreen) load() tea.Cmd {
	client, sid := s.client, s.sid
	return func() tea.Msg {
		ctx, cancel := s.requestContext()
		defer cancel()
		doc, err := client.LoadDocument(ctx, sid)
		return documentLoadedMsg{Doc: doc, Err: err}
	}
}

func (s *StudyScreen) generate(epoch int, blockID string) tea.Cmd {
	client, sid := s.client, s.sid
	return func() tea.Msg {
		ctx, cancel := s.requestContext()
		defer cancel()
		items, err := client.GenerateMCQs(ctx, sid, blockID)
		return generatedMsg{Epoch: epoch, BlockID: blockID, Items: items, Err: err}
	}
}

func (s *StudyScreen) toggleCovered(blockID string) tea.Cmd {
	client, sid := s.client, s.sid
	return func() tea.Msg {
		ctx, cancel := s.requestContext()
		defer cancel()
		err := client.ToggleCovered(ctx, sid, blockID)
		return toggledMsg{BlockID: blockID, Err: err}
	}
}

func (s *StudyScreen) markAsked(act deck.Action) tea.Cmd {
	client, sid := s.client, s.sid
	return func() tea.Msg {
		ctx, cancel := s.requestContext()
		defer cancel()
		err := client.MarkAsked(ctx, sid, act.BlockID, act.MCQ)
		return askedMsg{BlockID: act.BlockID, Serial: act.Serial, Item: act.Item, Err: err}
	}
}

func (s *StudyScreen) pin(note string) tea.Cmd {
	client, sid := s.client, s.sid
	return func() tea.Msg {
		ctx, cancel := s.requestContext()
		defer cancel()
		err := client.PinNote(ctx, sid, note)
		return pinnedMsg{Note: note, Err: err}
	}
}

func (s *StudyScreen) saveDuration(minutes int) tea.Cmd {
	client, sid := s.client, s.sid
	return func() tea.Msg {
		ctx, cancel := s.requestContext()
		defer cancel()
		err := client.UpdateDuration(ctx, sid, minutes)
		return durationSavedMsg{Minutes: minutes, Err: err}
	}
}

func (s *StudyScreen) export() tea.Cmd {
	client, sid := s.client, s.sid
	return func() tea.Msg {
		ctx, cancel := s.requestContext()
		defer cancel()
		md, err := client.Export(ctx, sid)
		return exportedMsg{Markdown: md, Err: err}
	}
}
