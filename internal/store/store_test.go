package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// A fresh file per test; shared-cache in-memory databases leak between tests.
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceIsMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, last)
		last = n
	}
}

func TestAppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendRequest(ctx, RequestEventData{
		RequestID: "r1", SessionID: "s1", BlockID: "b1",
		Operation: "generate", StatusCode: 200, LatencyMs: 40, Success: true,
	}))
	require.NoError(t, repo.AppendRequest(ctx, RequestEventData{
		RequestID: "r2", SessionID: "s1", BlockID: "b2",
		Operation: "toggle-covered", Success: false, ErrorMessage: "connection refused",
	}))

	events, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, "r2", events[0].RequestID)
	assert.Equal(t, "connection refused", events[0].ErrorMessage)
	assert.False(t, events[0].Success)
	assert.Equal(t, "r1", events[1].RequestID)
	assert.Equal(t, 200, events[1].StatusCode)
	assert.Greater(t, events[0].Sequence, events[1].Sequence)
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.AppendRequest(ctx, RequestEventData{
			RequestID: fmt.Sprintf("r%d", i), Operation: "load", Success: true,
		}))
	}

	events, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestSummary(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	seed := []RequestEventData{
		{RequestID: "a", Operation: "generate", LatencyMs: 100, Success: true},
		{RequestID: "b", Operation: "generate", LatencyMs: 300, Success: false},
		{RequestID: "c", Operation: "mark-asked", LatencyMs: 10, Success: true},
	}
	for _, d := range seed {
		require.NoError(t, repo.AppendRequest(ctx, d))
	}

	sum, err := repo.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, sum, 2)

	assert.Equal(t, "generate", sum[0].Operation)
	assert.Equal(t, 2, sum[0].Total)
	assert.Equal(t, 1, sum[0].Failures)
	assert.InDelta(t, 200.0, sum[0].MeanLatencyMs, 0.001)

	assert.Equal(t, "mark-asked", sum[1].Operation)
	assert.Equal(t, 0, sum[1].Failures)
}

func TestSummaryEmpty(t *testing.T) {
	s := openTestStore(t)

	sum, err := s.EventRepo().Summary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sum)
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.AppendRequest(ctx, RequestEventData{
			RequestID: fmt.Sprintf("r%d", i), Operation: "load", Success: true,
		}))
	}

	require.NoError(t, repo.Prune(ctx, 5))

	events, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, "r6", events[0].RequestID)
	assert.Equal(t, "r2", events[4].RequestID)

	// Pruning below the current size is a no-op.
	require.NoError(t, repo.Prune(ctx, 10))
	events, err = repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, events, 5)

	require.Error(t, repo.Prune(ctx, -1))
	events, err = repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestPurge(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.AppendRequest(ctx, RequestEventData{
			RequestID: fmt.Sprintf("r%d", i), Operation: "export", Success: true,
		}))
	}

	n, err := repo.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	events, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "j.db")
	t.Setenv("STUDYDECK_DB", p)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STUDYDECK_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "studydeck", "journal.db"), got)
}
