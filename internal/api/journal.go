package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/studydeck/internal/store"
)

// JournalClient is a decorator that records every call in the local journal
// and logs failures.
type JournalClient struct {
	inner Client
	repo  store.EventRepo
	log   *zap.SugaredLogger
}

var _ Client = (*JournalClient)(nil)

// WithJournal wraps a Client with journaling. repo may be nil, in which case
// calls are only logged.
func WithJournal(c Client, repo store.EventRepo, log *zap.SugaredLogger) Client {
	return &JournalClient{inner: c, repo: repo, log: log}
}

// begin attaches a fresh request id so the journal and the server agree on it.
func (j *JournalClient) begin(ctx context.Context) (context.Context, string, time.Time) {
	id := uuid.NewString()
	return WithRequestID(ctx, id), id, time.Now()
}

func (j *JournalClient) record(ctx context.Context, id, op, sid, bid string, start time.Time, err error) {
	latency := time.Since(start)

	fields := []any{"op", op, "sid", sid, "request_id", id, "latency", latency}
	if bid != "" {
		fields = append(fields, "block", bid)
	}
	if err != nil {
		j.log.Warnw("request failed", append(fields, "error", err)...)
	} else {
		j.log.Debugw("request ok", fields...)
	}

	if j.repo == nil {
		return
	}
	data := store.RequestEventData{
		RequestID:  id,
		SessionID:  sid,
		BlockID:    bid,
		Operation:  op,
		StatusCode: StatusCode(err),
		LatencyMs:  latency.Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	// The journal must not fail the call, nor be cut short by its cancellation.
	if logErr := j.repo.AppendRequest(context.WithoutCancel(ctx), data); logErr != nil {
		j.log.Errorw("journal append failed", "op", op, "error", logErr)
	}
}

func (j *JournalClient) LoadDocument(ctx context.Context, sid string) (*Document, error) {
	ctx, id, start := j.begin(ctx)
	doc, err := j.inner.LoadDocument(ctx, sid)
	j.record(ctx, id, OpLoad, sid, "", start, err)
	return doc, err
}

func (j *JournalClient) ToggleCovered(ctx context.Context, sid, blockID string) error {
	ctx, id, start := j.begin(ctx)
	err := j.inner.ToggleCovered(ctx, sid, blockID)
	j.record(ctx, id, OpToggleCovered, sid, blockID, start, err)
	return err
}

func (j *JournalClient) GenerateMCQs(ctx context.Context, sid, blockID string) ([]MCQItem, error) {
	ctx, id, start := j.begin(ctx)
	items, err := j.inner.GenerateMCQs(ctx, sid, blockID)
	j.record(ctx, id, OpGenerate, sid, blockID, start, err)
	return items, err
}

func (j *JournalClient) MarkAsked(ctx context.Context, sid, blockID string, item MCQItem) error {
	ctx, id, start := j.begin(ctx)
	err := j.inner.MarkAsked(ctx, sid, blockID, item)
	j.record(ctx, id, OpMarkAsked, sid, blockID, start, err)
	return err
}

func (j *JournalClient) PinNote(ctx context.Context, sid, text string) error {
	ctx, id, start := j.begin(ctx)
	err := j.inner.PinNote(ctx, sid, text)
	j.record(ctx, id, OpPin, sid, "", start, err)
	return err
}

func (j *JournalClient) UpdateDuration(ctx context.Context, sid string, minutes int) error {
	ctx, id, start := j.begin(ctx)
	err := j.inner.UpdateDuration(ctx, sid, minutes)
	j.record(ctx, id, OpDuration, sid, "", start, err)
	return err
}

func (j *JournalClient) Export(ctx context.Context, sid string) (string, error) {
	ctx, id, start := j.begin(ctx)
	md, err := j.inner.Export(ctx, sid)
	j.record(ctx, id, OpExport, sid, "", start, err)
	return md, err
}

func (j *JournalClient) StartSession(ctx context.Context, in StartInput) (string, error) {
	ctx, id, start := j.begin(ctx)
	sid, err := j.inner.StartSession(ctx, in)
	j.record(ctx, id, OpStart, sid, "", start, err)
	return sid, err
}

func (j *JournalClient) DeleteSession(ctx context.Context, sid string) error {
	ctx, id, start := j.begin(ctx)
	err := j.inner.DeleteSession(ctx, sid)
	j.record(ctx, id, OpDelete, sid, "", start, err)
	return err
}
