package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openveritas/cybercourt/internal/model"
)

// Store wraps the local database.
type Store struct {
	db *sql.DB
}

// New creates a store over an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ReplaceCases replaces the entire cached ledger snapshot in one
// transaction. The mirror has no merge semantics: whatever the remote
// sent last is the whole truth.
func (s *Store) ReplaceCases(ctx context.Context, records []model.CaseRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace cases: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cases`); err != nil {
		return fmt.Errorf("clear cases: %w", err)
	}
	for _, r := range records {
		var score any
		if r.SocialScore != nil {
			score = *r.SocialScore
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO cases(id, timestamp, status, violation_type, verdict_type, fine_wei, compensation_wei, social_score, victim_eth_address)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Timestamp, r.Status, r.ViolationType, r.VerdictType, r.FineWei, r.CompensationWei, score, r.VictimEthAddress); err != nil {
			return fmt.Errorf("insert case %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace cases: %w", err)
	}
	return nil
}

// ListCases returns the cached ledger snapshot, newest first.
func (s *Store) ListCases(ctx context.Context) ([]model.CaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, timestamp, status, violation_type, verdict_type, fine_wei, compensation_wei, social_score, victim_eth_address
		FROM cases ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	var out []model.CaseRecord
	for rows.Next() {
		var r model.CaseRecord
		var score sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Status, &r.ViolationType, &r.VerdictType, &r.FineWei, &r.CompensationWei, &score, &r.VictimEthAddress); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		if score.Valid {
			v := int(score.Int64)
			r.SocialScore = &v
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return out, nil
}

// AppendActivity records one activity-log line.
func (s *Store) AppendActivity(ctx context.Context, at time.Time, message string, isError bool) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO activity(at, message, is_error) VALUES(?, ?, ?)`,
		at.UTC().Format(time.RFC3339), message, boolToInt(isError))
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// AddObservedPost stores a post captured by the page observer and
// returns its id.
func (s *Store) AddObservedPost(ctx context.Context, content, sourceURL string, observedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO observed_posts(content, source_url, observed_at) VALUES(?, ?, ?)`,
		content, sourceURL, observedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert observed post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read observed post id: %w", err)
	}
	return id, nil
}

// PendingObservedPosts returns captured posts not yet flagged, oldest
// first.
func (s *Store) PendingObservedPosts(ctx context.Context) ([]model.ObservedPost, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, source_url, observed_at FROM observed_posts WHERE flagged=0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query observed posts: %w", err)
	}
	defer rows.Close()

	var out []model.ObservedPost
	for rows.Next() {
		var p model.ObservedPost
		var at string
		if err := rows.Scan(&p.ID, &p.Content, &p.SourceURL, &at); err != nil {
			return nil, fmt.Errorf("scan observed post: %w", err)
		}
		p.Timestamp, _ = time.Parse(time.RFC3339, at)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observed posts: %w", err)
	}
	return out, nil
}

// MarkObservedPostFlagged marks a captured post as handed to the
// backend.
func (s *Store) MarkObservedPostFlagged(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE observed_posts SET flagged=1 WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("update observed post: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("observed post %d not found", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
