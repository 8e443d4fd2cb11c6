package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/tictactoe/internal/db"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/store"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

// AuditEventStore exports finalized audit entries to the audit_events
// table. Rows are only ever inserted or pruned.
type AuditEventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAuditEventStore(db *sql.DB, writer *dbpkg.Worker) *AuditEventStore {
	return &AuditEventStore{db: db, writer: writer}
}

func (s *AuditEventStore) RecordEvent(ctx context.Context, e types.AuditEntry) error {
	now := time.Now().UTC()

	occurred := store.ParseTimestamp(e.Timestamp)
	if occurred.IsZero() {
		occurred = now
	}

	payload, err := nullableJSON(e.Payload, len(e.Payload) > 0)
	if err != nil {
		return fmt.Errorf("RecordEvent payload: %w", err)
	}
	before, err := nullableJSON(e.Before, e.Before != nil)
	if err != nil {
		return fmt.Errorf("RecordEvent before: %w", err)
	}
	after, err := nullableJSON(e.After, e.After != nil)
	if err != nil {
		return fmt.Errorf("RecordEvent after: %w", err)
	}

	var message any
	if e.Message != "" {
		message = e.Message
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO audit_events(
  entry_id, session_id, actor, action, occurred_at, occurred_at_ms,
  payload_json, before_json, after_json, message, recorded_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			e.ID, e.SessionID, string(e.Actor), string(e.Action), e.Timestamp, occurred.UnixMilli(),
			payload, before, after, message, now.UnixMilli(),
		); err != nil {
			return fmt.Errorf("RecordEvent insert: %w", err)
		}
		return nil
	})
}

// PruneOlderThan deletes rows whose occurred_at_ms is before cutoff, other
// than keepSessionID's, and returns how many were removed.
func (s *AuditEventStore) PruneOlderThan(ctx context.Context, cutoff time.Time, keepSessionID string) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM audit_events
WHERE occurred_at_ms < ? AND session_id <> ?;
`, cutoffMs, keepSessionID)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}

// ListSession returns a session's entries in the order they were recorded.
func (s *AuditEventStore) ListSession(ctx context.Context, sessionID string) ([]types.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT entry_id, session_id, actor, action, occurred_at,
       payload_json, before_json, after_json, message
FROM audit_events
WHERE session_id = ?
ORDER BY seq;
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("ListSession query: %w", err)
	}
	defer rows.Close()

	var out []types.AuditEntry
	for rows.Next() {
		var (
			e                      types.AuditEntry
			actor, action          string
			payload, before, after sql.NullString
			message                sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &actor, &action, &e.Timestamp,
			&payload, &before, &after, &message); err != nil {
			return nil, fmt.Errorf("ListSession scan: %w", err)
		}
		e.Actor = types.Player(actor)
		e.Action = types.AuditAction(action)
		e.Message = message.String

		if payload.Valid {
			if err := json.Unmarshal([]byte(payload.String), &e.Payload); err != nil {
				return nil, fmt.Errorf("ListSession payload %s: %w", e.ID, err)
			}
		}
		if e.Before, err = decodeSnapshot(before); err != nil {
			return nil, fmt.Errorf("ListSession before %s: %w", e.ID, err)
		}
		if e.After, err = decodeSnapshot(after); err != nil {
			return nil, fmt.Errorf("ListSession after %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListSession rows: %w", err)
	}
	return out, nil
}

func nullableJSON(v any, present bool) (any, error) {
	if !present {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeSnapshot(ns sql.NullString) (*types.Snapshot, error) {
	if !ns.Valid {
		return nil, nil
	}
	var snap types.Snapshot
	if err := json.Unmarshal([]byte(ns.String), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
