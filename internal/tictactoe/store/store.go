package store

import (
	"context"
	"time"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

// AuditEventStore receives finalized audit entries. Implementations are
// append-only: an entry is never modified once recorded.
type AuditEventStore interface {
	RecordEvent(ctx context.Context, entry types.AuditEntry) error
}

// AuditPruneStore is implemented by stores that support retention. Entries
// belonging to keepSessionID are never removed.
type AuditPruneStore interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time, keepSessionID string) (int64, error)
}

// AuditExportReader reads exported entries back, oldest first.
type AuditExportReader interface {
	ListSession(ctx context.Context, sessionID string) ([]types.AuditEntry, error)
}

// TimestampLayout is the ISO-8601 form used for audit timestamps. It matches
// JavaScript's Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseTimestamp accepts TimestampLayout and RFC3339Nano. The zero time is
// returned for anything else.
func ParseTimestamp(s string) time.Time {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
