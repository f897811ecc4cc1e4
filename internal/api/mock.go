package api

import (
	"context"
	"errors"
	"sync"
)

// ErrMockUnconfigured is returned by MockClient for calls it has no answer for.
var ErrMockUnconfigured = errors.New("mock client: no response configured")

// Call is one request recorded by MockClient.
type Call struct {
	Op        string
	SessionID string
	BlockID   string
	Item      *MCQItem
	Minutes   int
	Text      string
}

// MockClient is a deterministic Client for testing. Generation results are
// served per block in FIFO order; every call is recorded.
type MockClient struct {
	mu sync.Mutex

	Document     *Document
	Generated    map[string][]GenerateResult
	ToggleErr    error
	MarkAskedErr error
	DurationErr  error
	PinErr       error
	ExportText   string
	StartedID    string
	Calls        []Call
}

// GenerateResult is a canned answer to GenerateMCQs.
type GenerateResult struct {
	Items []MCQItem
	Err   error
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a MockClient serving doc.
func NewMockClient(doc *Document) *MockClient {
	return &MockClient{Document: doc, Generated: make(map[string][]GenerateResult)}
}

// QueueGenerate appends a canned generation result for blockID.
func (m *MockClient) QueueGenerate(blockID string, items []MCQItem, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Generated[blockID] = append(m.Generated[blockID], GenerateResult{Items: items, Err: err})
}

// CallsFor returns the recorded calls for op.
func (m *MockClient) CallsFor(op string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Call
	for _, c := range m.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockClient) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, c)
}

func (m *MockClient) LoadDocument(_ context.Context, sid string) (*Document, error) {
	m.record(Call{Op: OpLoad, SessionID: sid})
	if m.Document == nil {
		return nil, ErrMockUnconfigured
	}
	doc := *m.Document
	doc.Blocks = append([]Block(nil), m.Document.Blocks...)
	doc.Pins = append([]string(nil), m.Document.Pins...)
	return &doc, nil
}

func (m *MockClient) ToggleCovered(_ context.Context, sid, blockID string) error {
	m.record(Call{Op: OpToggleCovered, SessionID: sid, BlockID: blockID})
	return m.ToggleErr
}

func (m *MockClient) GenerateMCQs(_ context.Context, sid, blockID string) ([]MCQItem, error) {
	m.record(Call{Op: OpGenerate, SessionID: sid, BlockID: blockID})

	m.mu.Lock()
	defer m.mu.Unlock()
	queue := m.Generated[blockID]
	if len(queue) == 0 {
		return nil, ErrMockUnconfigured
	}
	res := queue[0]
	m.Generated[blockID] = queue[1:]
	return res.Items, res.Err
}

func (m *MockClient) MarkAsked(_ context.Context, sid, blockID string, item MCQItem) error {
	m.record(Call{Op: OpMarkAsked, SessionID: sid, BlockID: blockID, Item: &item})
	return m.MarkAskedErr
}

func (m *MockClient) PinNote(_ context.Context, sid, text string) error {
	m.record(Call{Op: OpPin, SessionID: sid, Text: text})
	return m.PinErr
}

func (m *MockClient) UpdateDuration(_ context.Context, sid string, minutes int) error {
	m.record(Call{Op: OpDuration, SessionID: sid, Minutes: minutes})
	return m.DurationErr
}

func (m *MockClient) Export(_ context.Context, sid string) (string, error) {
	m.record(Call{Op: OpExport, SessionID: sid})
	return m.ExportText, nil
}

func (m *MockClient) StartSession(_ context.Context, _ StartInput) (string, error) {
	m.record(Call{Op: OpStart})
	if m.StartedID == "" {
		return "", ErrMockUnconfigured
	}
	return m.StartedID, nil
}

func (m *MockClient) DeleteSession(_ context.Context, sid string) error {
	m.record(Call{Op: OpDelete, SessionID: sid})
	return nil
}
