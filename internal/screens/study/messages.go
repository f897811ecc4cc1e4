package study

import "github.com/abhisek/studydeck/internal/api"

// documentLoadedMsg is sent when the session page has been (re)loaded.
type documentLoadedMsg struct {
	Doc *api.Document
	Err error
}

// generatedMsg carries the outcome of a generation request issued while
// the document was at Epoch.
type generatedMsg struct {
	Epoch   int
	BlockID string
	Items   []api.MCQItem
	Err     error
}

// toggledMsg is sent when the toggle-covered request completes.
type toggledMsg struct {
	BlockID string
	Err     error
}

// pinnedMsg is sent when the pin request completes.
type pinnedMsg struct {
	Note string
	Err  error
}

// askedMsg is sent when a mark-as-asked request completes.
type askedMsg struct {
	BlockID string
	Serial  int
	Item    int
	Err     error
}

// durationSavedMsg is sent when the duration form has been submitted.
type durationSavedMsg struct {
	Minutes int
	Err     error
}

// exportedMsg carries the markdown export.
type exportedMsg struct {
	Markdown string
	Err      error
}
