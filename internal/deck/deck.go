// Package deck holds the interaction state of a study session view: the
// block cursor, the duration slider, per-block question panels and the focus
// ring of the current block's controls. It performs no I/O.
package deck

import "github.com/abhisek/studydeck/internal/api"

// SliderBounds configures the duration slider.
type SliderBounds struct {
	Min  int
	Max  int
	Step int
}

// ControlKind identifies a focusable control of a block.
type ControlKind int

const (
	ControlGenerate ControlKind = iota
	ControlMarkAsked
	ControlShowAnswer
	ControlPin
)

// Control is one entry of the focus ring. Item is the question index for
// item controls, the note index for Pin and -1 for Generate.
type Control struct {
	Kind ControlKind
	Item int
}

// ActionKind tells the caller what I/O an activation needs.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionGenerate
	ActionMarkAsked
	ActionPin
)

// Action is the result of activating a control.
type Action struct {
	Kind    ActionKind
	BlockID string
	Serial  int
	Item    int
	MCQ     api.MCQItem
	Note    string
}

// Deck is the state of one loaded session document.
type Deck struct {
	SessionID string
	Name      string
	Blocks    []api.Block
	Pins      []string

	Slider   Slider
	ShowHelp bool

	cursor Cursor
	panels map[string]*Panel
	focus  int
	serial int
	epoch  int
}

// New builds the state for doc with the cursor on the first block.
func New(doc *api.Document, bounds SliderBounds) *Deck {
	d := &Deck{
		Slider: NewSlider(bounds.Min, bounds.Max, bounds.Step, doc.DurationMinutes),
	}
	d.load(doc)
	return d
}

func (d *Deck) load(doc *api.Document) {
	d.SessionID = doc.SessionID
	d.Name = doc.Name
	d.Blocks = append([]api.Block(nil), doc.Blocks...)
	d.Pins = append([]string(nil), doc.Pins...)
	d.cursor = NewCursor(len(d.Blocks))
	d.panels = make(map[string]*Panel)
	d.focus = 0
	d.Slider.Set(doc.DurationMinutes)
}

// Reload replaces the document, as a page reload would: every panel is
// discarded, the cursor returns to the first block and completions of
// requests issued before the reload are ignored.
func (d *Deck) Reload(doc *api.Document) {
	d.epoch++
	d.load(doc)
}

// Epoch identifies the current load of the document.
func (d *Deck) Epoch() int { return d.epoch }

// Cursor returns the current block index.
func (d *Deck) Cursor() int { return d.cursor.Index() }

// Go moves the cursor to i (clamped). Focus returns to the block's first
// control.
func (d *Deck) Go(i int) int {
	prev := d.cursor.Index()
	idx := d.cursor.Go(i)
	if idx != prev {
		d.focus = 0
	}
	return idx
}

// Next moves one block forward.
func (d *Deck) Next() int { return d.Go(d.cursor.Index() + 1) }

// Prev moves one block back.
func (d *Deck) Prev() int { return d.Go(d.cursor.Index() - 1) }

// Current returns the block under the cursor.
func (d *Deck) Current() (api.Block, bool) {
	if len(d.Blocks) == 0 {
		return api.Block{}, false
	}
	return d.Blocks[d.cursor.Index()], true
}

// Panel returns the panel of blockID, or nil when none was generated since
// the last load.
func (d *Deck) Panel(blockID string) *Panel {
	return d.panels[blockID]
}

func (d *Deck) replacePanel(blockID string, p *Panel) {
	d.panels[blockID] = p
	if cur, ok := d.Current(); ok && cur.ID == blockID {
		d.focus = 0
	}
}

func (d *Deck) nextSerial() int {
	d.serial++
	return d.serial
}

// StartGeneration puts blockID into the generating state, overwriting any
// previous panel.
func (d *Deck) StartGeneration(blockID string) {
	d.replacePanel(blockID, &Panel{Serial: d.nextSerial(), Status: StatusGenerating})
}

// FinishGeneration renders the outcome of a generation request issued in
// epoch. Any completion in the current epoch replaces the panel, so with
// overlapping requests the last one to finish wins. It reports whether the
// result was applied.
func (d *Deck) FinishGeneration(epoch int, blockID string, items []api.MCQItem, err error) bool {
	if epoch != d.epoch {
		return false
	}
	if err != nil {
		d.replacePanel(blockID, &Panel{Serial: d.nextSerial(), Status: StatusFailed})
		return true
	}
	d.replacePanel(blockID, newReadyPanel(d.nextSerial(), items))
	return true
}

func (d *Deck) item(blockID string, serial, idx int) *Item {
	p := d.panels[blockID]
	if p == nil || p.Serial != serial || p.Status != StatusReady {
		return nil
	}
	if idx < 0 || idx >= len(p.Items) {
		return nil
	}
	return &p.Items[idx]
}

// ToggleAnswer flips the answer region of an item on the current render.
func (d *Deck) ToggleAnswer(blockID string, serial, idx int) bool {
	it := d.item(blockID, serial, idx)
	if it == nil {
		return false
	}
	it.Revealed = !it.Revealed
	return true
}

// MarkAsked marks an item done after the server acknowledged it. Results
// for a render that has since been replaced are dropped.
func (d *Deck) MarkAsked(blockID string, serial, idx int) bool {
	it := d.item(blockID, serial, idx)
	if it == nil {
		return false
	}
	it.Asked = true
	return true
}

// Controls lists the focus ring of the current block: Generate first, then
// Mark as asked and Show answer for each rendered item, then one Pin per
// note.
func (d *Deck) Controls() []Control {
	cur, ok := d.Current()
	if !ok {
		return nil
	}
	ctrls := []Control{{Kind: ControlGenerate, Item: -1}}
	if p := d.panels[cur.ID]; p != nil && p.Status == StatusReady {
		for i := range p.Items {
			ctrls = append(ctrls,
				Control{Kind: ControlMarkAsked, Item: i},
				Control{Kind: ControlShowAnswer, Item: i},
			)
		}
	}
	for i := range cur.Notes {
		ctrls = append(ctrls, Control{Kind: ControlPin, Item: i})
	}
	return ctrls
}

// Focused returns the focused control of the current block.
func (d *Deck) Focused() (Control, bool) {
	ctrls := d.Controls()
	if len(ctrls) == 0 {
		return Control{}, false
	}
	return ctrls[min(d.focus, len(ctrls)-1)], true
}

// FocusNext advances focus, wrapping around.
func (d *Deck) FocusNext() {
	if n := len(d.Controls()); n > 0 {
		d.focus = (min(d.focus, n-1) + 1) % n
	}
}

// FocusPrev moves focus back, wrapping around.
func (d *Deck) FocusPrev() {
	if n := len(d.Controls()); n > 0 {
		d.focus = (min(d.focus, n-1) - 1 + n) % n
	}
}

// Activate triggers the focused control. Show answer is handled here;
// the other controls return the request the caller has to issue.
func (d *Deck) Activate() Action {
	ctrl, ok := d.Focused()
	if !ok {
		return Action{}
	}
	switch ctrl.Kind {
	case ControlGenerate:
		return d.Generate()
	case ControlMarkAsked:
		return d.askAction(ctrl.Item)
	case ControlShowAnswer:
		d.revealItem(ctrl.Item)
	case ControlPin:
		return d.pinAction(ctrl.Item)
	}
	return Action{}
}

// Generate starts a generation cycle for the current block.
func (d *Deck) Generate() Action {
	cur, ok := d.Current()
	if !ok {
		return Action{}
	}
	d.StartGeneration(cur.ID)
	return Action{Kind: ActionGenerate, BlockID: cur.ID}
}

// AskFocused returns the mark-as-asked request for the focused item, if any.
func (d *Deck) AskFocused() Action {
	ctrl, ok := d.Focused()
	if !ok || ctrl.Item < 0 || ctrl.Kind == ControlPin {
		return Action{}
	}
	return d.askAction(ctrl.Item)
}

// RevealFocused toggles the answer of the focused item.
func (d *Deck) RevealFocused() bool {
	ctrl, ok := d.Focused()
	if !ok || ctrl.Item < 0 || ctrl.Kind == ControlPin {
		return false
	}
	return d.revealItem(ctrl.Item)
}

// PinFocused returns the pin request for the focused note, if any.
func (d *Deck) PinFocused() Action {
	ctrl, ok := d.Focused()
	if !ok || ctrl.Kind != ControlPin {
		return Action{}
	}
	return d.pinAction(ctrl.Item)
}

// Pinned reports whether text is among the session's pins.
func (d *Deck) Pinned(text string) bool {
	for _, p := range d.Pins {
		if p == text {
			return true
		}
	}
	return false
}

func (d *Deck) pinAction(idx int) Action {
	cur, ok := d.Current()
	if !ok || idx < 0 || idx >= len(cur.Notes) {
		return Action{}
	}
	return Action{Kind: ActionPin, BlockID: cur.ID, Item: idx, Note: cur.Notes[idx]}
}

func (d *Deck) revealItem(idx int) bool {
	cur, _ := d.Current()
	p := d.panels[cur.ID]
	if p == nil {
		return false
	}
	return d.ToggleAnswer(cur.ID, p.Serial, idx)
}

func (d *Deck) askAction(idx int) Action {
	cur, _ := d.Current()
	p := d.panels[cur.ID]
	if p == nil {
		return Action{}
	}
	it := d.item(cur.ID, p.Serial, idx)
	if it == nil || it.Asked {
		return Action{}
	}
	return Action{
		Kind:    ActionMarkAsked,
		BlockID: cur.ID,
		Serial:  p.Serial,
		Item:    idx,
		MCQ:     it.MCQItem,
	}
}

// ToggleHelp flips the help overlay.
func (d *Deck) ToggleHelp() { d.ShowHelp = !d.ShowHelp }
