package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/openveritas/cybercourt/internal/model"
)

// scriptedSource replays a fixed sequence of snapshots, then fails.
type scriptedSource struct {
	mu        sync.Mutex
	snapshots [][]model.CaseRecord
	finalErr  error
	closed    bool
}

func (s *scriptedSource) Next(ctx context.Context) ([]model.CaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		if s.finalErr != nil {
			return nil, s.finalErr
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	next := s.snapshots[0]
	s.snapshots = s.snapshots[1:]
	return next, nil
}

func (s *scriptedSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func record(id string) model.CaseRecord {
	return model.CaseRecord{ID: id, Timestamp: "2026-08-01T10:00:00", Status: "Under Review"}
}

func TestMirror_ReplacesCacheWholesale(t *testing.T) {
	t.Parallel()

	s1 := []model.CaseRecord{record("a"), record("b"), record("c")}
	s2 := []model.CaseRecord{record("z")}
	src := &scriptedSource{
		snapshots: [][]model.CaseRecord{s1, s2},
		finalErr:  errors.New("stream closed"),
	}

	var mu sync.Mutex
	var renders [][]model.CaseRecord
	m := NewMirror(nil, func(records []model.CaseRecord) {
		mu.Lock()
		renders = append(renders, records)
		mu.Unlock()
	})

	err := m.Subscribe(context.Background(), src)
	if err == nil {
		t.Fatalf("Subscribe returned nil, want stream error")
	}

	// After S2 the cache holds exactly S2's records: no merge with S1.
	got := m.Snapshot()
	if len(got) != 1 || got[0].ID != "z" {
		t.Fatalf("cache after S2 = %v, want exactly [z]", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(renders) != 2 {
		t.Fatalf("render count = %d, want 2", len(renders))
	}
	if len(renders[0]) != 3 {
		t.Fatalf("first render has %d records, want 3", len(renders[0]))
	}
}

func TestMirror_StreamFailureLeavesLastSnapshotVisible(t *testing.T) {
	t.Parallel()

	src := &scriptedSource{
		snapshots: [][]model.CaseRecord{{record("a"), record("b")}},
		finalErr:  errors.New("connection reset"),
	}
	m := NewMirror(nil, nil)

	err := m.Subscribe(context.Background(), src)
	if err == nil {
		t.Fatalf("Subscribe returned nil, want error")
	}
	if got := m.Snapshot(); len(got) != 2 {
		t.Fatalf("snapshot after failure = %d records, want last known 2", len(got))
	}
	if !src.closed {
		t.Fatalf("source not closed on subscription end")
	}
}

func TestMirror_UnsubscribeViaContext(t *testing.T) {
	t.Parallel()

	src := &scriptedSource{}
	m := NewMirror(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Subscribe(ctx, src) }()
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Subscribe = %v, want context.Canceled", err)
	}
}

func TestMirror_SeedDoesNotNotify(t *testing.T) {
	t.Parallel()

	notified := false
	m := NewMirror(nil, func([]model.CaseRecord) { notified = true })
	m.Seed([]model.CaseRecord{record("a")})

	if notified {
		t.Fatalf("Seed triggered a render, want silent load")
	}
	if got := m.Snapshot(); len(got) != 1 {
		t.Fatalf("seeded snapshot = %d records, want 1", len(got))
	}
}
