package deck

import "github.com/abhisek/studydeck/internal/api"

// Status is the state of a block's question panel.
type Status int

const (
	StatusGenerating Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusGenerating:
		return "generating"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	GeneratingText = "Generating…"
	FailedText     = "Failed to generate."
)

// Item is one rendered question with its local flags.
type Item struct {
	api.MCQItem

	// Revealed is true while the answer region is shown.
	Revealed bool

	// Asked is true once the server acknowledged "Mark as asked"; the
	// control is disabled from then on.
	Asked bool
}

// Panel holds the generated questions for one block. Every render replaces
// the panel wholesale and bumps Serial, so completions addressed to an
// older render can be recognised and dropped.
type Panel struct {
	Serial int
	Status Status
	Items  []Item
}

func newReadyPanel(serial int, items []api.MCQItem) *Panel {
	p := &Panel{Serial: serial, Status: StatusReady, Items: make([]Item, len(items))}
	for i, it := range items {
		p.Items[i] = Item{MCQItem: it}
	}
	return p
}
