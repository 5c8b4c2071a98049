package journal

import (
	"context"
	"path/filepath"
	"testing"
)

func TestJournal_RecordAndRecent(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	entries := []Entry{
		{TelegramID: "alice", ChatID: 100, Command: "add", Outcome: OutcomeSuccess},
		{TelegramID: "alice", ChatID: 100, Command: "list", Outcome: OutcomeEmpty},
		{TelegramID: "bob", ChatID: 200, Command: "add", Outcome: OutcomeFailure},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record(%+v): %v", e, err)
		}
	}

	got, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(Recent) = %d, want 3", len(got))
	}

	// Most recent first
	if got[0].TelegramID != "bob" || got[0].Outcome != OutcomeFailure {
		t.Errorf("newest entry = %+v, want bob/failure", got[0])
	}
	if got[2].Command != "add" || got[2].TelegramID != "alice" {
		t.Errorf("oldest entry = %+v, want alice/add", got[2])
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestJournal_RecentLimit(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := j.Record(ctx, Entry{ChatID: int64(i), Command: "list", Outcome: OutcomeSuccess}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(Recent) = %d, want 2", len(got))
	}
}

func TestJournal_NilIsNoop(t *testing.T) {
	var j *Journal

	if err := j.Record(context.Background(), Entry{Command: "list"}); err != nil {
		t.Errorf("nil journal Record should be a no-op, got error: %v", err)
	}
	if entries, err := j.Recent(context.Background(), 5); err != nil || entries != nil {
		t.Errorf("nil journal Recent = (%v, %v), want (nil, nil)", entries, err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("nil journal Close should be a no-op, got error: %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := j.Record(context.Background(), Entry{ChatID: 1, Command: "start", Outcome: OutcomeSuccess}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	j.Close()

	// Migrations must be idempotent across restarts.
	j2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j2.Close()

	entries, err := j2.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent after reopen: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(Recent) = %d after reopen, want 1", len(entries))
	}
}
