package api

import "context"

// Operation names, used for journaling and error messages.
const (
	OpLoad          = "load"
	OpToggleCovered = "toggle-covered"
	OpGenerate      = "generate"
	OpMarkAsked     = "mark-asked"
	OpDuration      = "duration"
	OpExport        = "export"
	OpStart         = "start"
	OpDelete        = "delete"
	OpPin           = "pin"
)

// MCQItem is one generated multiple-choice question. Items are immutable
// once received from the server.
type MCQItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// OptionLetter labels the option at index i: A..Z, then AA, AB and so on.
func OptionLetter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return OptionLetter(i/26-1) + OptionLetter(i%26)
}

// Block is a navigable content unit of a session page.
type Block struct {
	ID      string
	Title   string
	Minutes int
	Covered bool
	Notes   []string
}

// Document is a session page as loaded from the server. Pins holds the
// pinned note texts, most recent first.
type Document struct {
	SessionID       string
	Name            string
	Blocks          []Block
	Pins            []string
	DurationMinutes int
}

// StartInput describes a new session upload. Paths are local files.
type StartInput struct {
	Name         string
	Minutes      int
	Notes        []string
	Syllabus     string
	QuestionBank string
}

// Client is the study-session server API.
type Client interface {
	// LoadDocument fetches the session page and extracts its blocks.
	LoadDocument(ctx context.Context, sid string) (*Document, error)

	// ToggleCovered flips the server-side covered flag of a block.
	ToggleCovered(ctx context.Context, sid, blockID string) error

	// GenerateMCQs asks the server for a fresh set of questions for a block.
	GenerateMCQs(ctx context.Context, sid, blockID string) ([]MCQItem, error)

	// MarkAsked reports that item was put to the learner.
	MarkAsked(ctx context.Context, sid, blockID string, item MCQItem) error

	// PinNote pins a note's text to the session, or unpins it when it is
	// already pinned.
	PinNote(ctx context.Context, sid, text string) error

	// UpdateDuration rescales the session plan to minutes.
	UpdateDuration(ctx context.Context, sid string, minutes int) error

	// Export returns the session's markdown report.
	Export(ctx context.Context, sid string) (string, error)

	// StartSession uploads notes and returns the new session id.
	StartSession(ctx context.Context, in StartInput) (string, error)

	// DeleteSession removes a session from the server.
	DeleteSession(ctx context.Context, sid string) error
}
