package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/openveritas/cybercourt/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestReplaceCases_NoMergeAcrossSnapshots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	s1 := []model.CaseRecord{
		{ID: "a", Timestamp: "2026-08-01T10:00:00", Status: "Under Review"},
		{ID: "b", Timestamp: "2026-08-01T11:00:00", Status: "Under Review"},
		{ID: "c", Timestamp: "2026-08-01T12:00:00", Status: model.CaseStatusClosed},
	}
	if err := s.ReplaceCases(ctx, s1); err != nil {
		t.Fatalf("replace S1: %v", err)
	}

	score := 35
	s2 := []model.CaseRecord{
		{ID: "z", Timestamp: "2026-08-02T09:00:00", Status: "Verdict Delivered", VerdictType: "Guilty", FineWei: 100, SocialScore: &score},
	}
	if err := s.ReplaceCases(ctx, s2); err != nil {
		t.Fatalf("replace S2: %v", err)
	}

	got, err := s.ListCases(ctx)
	if err != nil {
		t.Fatalf("list cases: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("case count = %d, want 1 (no merge with S1)", len(got))
	}
	if got[0].ID != "z" || got[0].VerdictType != "Guilty" {
		t.Fatalf("record = %+v, want z/Guilty", got[0])
	}
	if got[0].SocialScore == nil || *got[0].SocialScore != 35 {
		t.Fatalf("social score = %v, want 35", got[0].SocialScore)
	}
}

func TestReplaceCases_EmptySnapshotClearsCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	if err := s.ReplaceCases(ctx, []model.CaseRecord{{ID: "a"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.ReplaceCases(ctx, nil); err != nil {
		t.Fatalf("replace empty: %v", err)
	}
	got, err := s.ListCases(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("case count = %d, want 0", len(got))
	}
}

func TestObservedPostQueue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.AddObservedPost(ctx, "you are worthless", "https://social.example/p/1", time.Now())
	if err != nil {
		t.Fatalf("add observed post: %v", err)
	}
	if _, err := s.AddObservedPost(ctx, "another post", "https://social.example/p/2", time.Now()); err != nil {
		t.Fatalf("add second: %v", err)
	}

	pending, err := s.PendingObservedPosts(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].Content != "you are worthless" {
		t.Fatalf("first pending = %q, want oldest first", pending[0].Content)
	}

	if err := s.MarkObservedPostFlagged(ctx, id); err != nil {
		t.Fatalf("mark flagged: %v", err)
	}
	pending, err = s.PendingObservedPosts(ctx)
	if err != nil {
		t.Fatalf("pending after flag: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending after flag = %d, want 1", len(pending))
	}

	if err := s.MarkObservedPostFlagged(ctx, 9999); err == nil {
		t.Fatalf("mark missing post = nil, want error")
	}
}

func TestAppendActivity(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.AppendActivity(context.Background(), time.Now(), "poll failed: agent timeout", true); err != nil {
		t.Fatalf("append activity: %v", err)
	}
}
