// Package ledger maintains a read-only local view of the public case
// ledger. The remote store pushes the full current record set on every
// change; the mirror replaces its cache atomically and re-renders. It
// never writes back.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/openveritas/cybercourt/internal/logging"
	"github.com/openveritas/cybercourt/internal/model"
)

// Source delivers full ledger snapshots. Next blocks until the remote
// publishes a change (or the context ends) and always returns the
// complete current record set, never a diff.
type Source interface {
	Next(ctx context.Context) ([]model.CaseRecord, error)
	Close() error
}

// Persister stores the latest snapshot so it survives restarts.
type Persister interface {
	ReplaceCases(ctx context.Context, records []model.CaseRecord) error
}

// Mirror holds the local copy of the ledger. It is the sole owner of
// its cache.
type Mirror struct {
	persist  Persister
	onChange func([]model.CaseRecord)
	log      zerolog.Logger

	mu    sync.Mutex
	cache []model.CaseRecord
}

// NewMirror constructs a mirror. persist may be nil; onChange may be
// nil when no renderer is attached yet.
func NewMirror(persist Persister, onChange func([]model.CaseRecord)) *Mirror {
	return &Mirror{
		persist:  persist,
		onChange: onChange,
		log:      logging.Component("ledger"),
	}
}

// Seed loads an initial snapshot (e.g. the persisted one) into the
// cache without treating it as a remote update.
func (m *Mirror) Seed(records []model.CaseRecord) {
	m.mu.Lock()
	m.cache = append([]model.CaseRecord(nil), records...)
	m.mu.Unlock()
}

// Snapshot returns a copy of the current cache.
func (m *Mirror) Snapshot() []model.CaseRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CaseRecord(nil), m.cache...)
}

// Subscribe consumes src until the context ends or the stream fails.
// Each received set replaces the cache wholesale. A stream failure is
// surfaced and the subscription is left stalled: the last known
// snapshot stays visible, and retrying is the transport's business,
// not the mirror's.
func (m *Mirror) Subscribe(ctx context.Context, src Source) error {
	defer func() { _ = src.Close() }()
	for {
		records, err := src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.log.Error().Err(err).Msg("ledger subscription failed; mirror stalled")
			return fmt.Errorf("ledger subscription: %w", err)
		}
		m.apply(ctx, records)
	}
}

func (m *Mirror) apply(ctx context.Context, records []model.CaseRecord) {
	m.mu.Lock()
	m.cache = append([]model.CaseRecord(nil), records...)
	snapshot := append([]model.CaseRecord(nil), m.cache...)
	m.mu.Unlock()

	if m.persist != nil {
		if err := m.persist.ReplaceCases(ctx, snapshot); err != nil {
			m.log.Warn().Err(err).Msg("persist ledger snapshot")
		}
	}
	if m.onChange != nil {
		m.onChange(snapshot)
	}
	m.log.Debug().Int("records", len(snapshot)).Msg("ledger snapshot replaced")
}
