package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/store"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

// AuditEventStore is an in-memory append-only export of audit entries. It
// outlives the recorder's trail: clearing the trail leaves it untouched.
type AuditEventStore struct {
	mu     sync.Mutex
	events []types.AuditEntry
}

func NewAuditEventStore() *AuditEventStore {
	return &AuditEventStore{}
}

func (s *AuditEventStore) RecordEvent(_ context.Context, entry types.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, entry.Clone())
	return nil
}

// PruneOlderThan drops entries whose timestamp is before cutoff, except those
// of keepSessionID. Entries with an unparseable timestamp are kept.
func (s *AuditEventStore) PruneOlderThan(_ context.Context, cutoff time.Time, keepSessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for _, e := range s.events {
		ts := store.ParseTimestamp(e.Timestamp)
		if e.SessionID != keepSessionID && !ts.IsZero() && ts.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return deleted, nil
}

// ListSession returns copies of sessionID's entries in the order recorded.
func (s *AuditEventStore) ListSession(_ context.Context, sessionID string) ([]types.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.AuditEntry
	for _, e := range s.events {
		if e.SessionID == sessionID {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

// Events returns a copy of every recorded entry across sessions.
func (s *AuditEventStore) Events() []types.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.AuditEntry, len(s.events))
	for i, e := range s.events {
		out[i] = e.Clone()
	}
	return out
}
