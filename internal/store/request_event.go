package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abhisek/studydeck/ent"
	"github.com/abhisek/studydeck/ent/requestevent"
)

// eventRepo implements EventRepo backed by ent and the sequence counter.
type eventRepo struct {
	client *ent.Client
	db     *sql.DB
	seq    *sequenceCounter
}

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.RequestEvent.Create().
		SetSequence(seqNum).
		SetRequestID(data.RequestID).
		SetSessionID(data.SessionID).
		SetBlockID(data.BlockID).
		SetOperation(data.Operation).
		SetStatusCode(data.StatusCode).
		SetLatencyMs(data.LatencyMs).
		SetSuccess(data.Success).
		SetErrorMessage(data.ErrorMessage).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) Recent(ctx context.Context, limit int) ([]RequestEvent, error) {
	q := r.client.RequestEvent.Query().
		Order(ent.Desc(requestevent.FieldSequence))
	if limit > 0 {
		q = q.Limit(limit)
	}
	rows, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query recent requests: %w", err)
	}

	events := make([]RequestEvent, 0, len(rows))
	for _, e := range rows {
		events = append(events, RequestEvent{
			RequestEventData: RequestEventData{
				RequestID:    e.RequestID,
				SessionID:    e.SessionID,
				BlockID:      e.BlockID,
				Operation:    e.Operation,
				StatusCode:   e.StatusCode,
				LatencyMs:    e.LatencyMs,
				Success:      e.Success,
				ErrorMessage: e.ErrorMessage,
			},
			Sequence:  e.Sequence,
			Timestamp: e.Timestamp,
		})
	}
	return events, nil
}

// Summary aggregates in SQL; ent's group-by API has no conditional sums.
func (r *eventRepo) Summary(ctx context.Context) ([]OperationSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT operation,
		       COUNT(*),
		       COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0),
		       COALESCE(AVG(latency_ms), 0)
		FROM request_events
		GROUP BY operation
		ORDER BY operation`)
	if err != nil {
		return nil, fmt.Errorf("query request summary: %w", err)
	}
	defer rows.Close()

	var out []OperationSummary
	for rows.Next() {
		var s OperationSummary
		if err := rows.Scan(&s.Operation, &s.Total, &s.Failures, &s.MeanLatencyMs); err != nil {
			return nil, fmt.Errorf("scan request summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *eventRepo) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		return fmt.Errorf("prune requests: negative keep %d", keep)
	}
	// Find the sequence threshold: the newest entry that falls outside keep.
	events, err := r.client.RequestEvent.Query().
		Order(ent.Desc(requestevent.FieldSequence)).
		Offset(keep).
		Limit(1).
		All(ctx)
	if err != nil {
		return fmt.Errorf("query requests for prune: %w", err)
	}
	if len(events) == 0 {
		return nil // fewer than keep entries exist
	}

	_, err = r.client.RequestEvent.Delete().
		Where(requestevent.SequenceLTE(events[0].Sequence)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("prune requests: %w", err)
	}
	return nil
}

func (r *eventRepo) Purge(ctx context.Context) (int, error) {
	n, err := r.client.RequestEvent.Delete().Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge requests: %w", err)
	}
	return n, nil
}
