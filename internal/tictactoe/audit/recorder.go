// Package audit records every attempted or completed game operation in an
// append-only trail. Each recorder owns its trail and its session id.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/store"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

var (
	ErrAuditEntryInvalid = errors.New(`audit ERROR entries must include a "message"`)
)

type Recorder struct {
	logger *log.Logger
	sinks  []store.AuditEventStore

	sessionOnce sync.Once
	sessionID   string

	mu    sync.Mutex
	trail []types.AuditEntry
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithSessionID pins the session id instead of generating one.
func WithSessionID(id string) Option {
	return func(r *Recorder) {
		if strings.TrimSpace(id) == "" {
			return
		}
		r.sessionOnce.Do(func() { r.sessionID = id })
	}
}

// WithSinks adds stores that receive every finalized entry once.
func WithSinks(sinks ...store.AuditEventStore) Option {
	return func(r *Recorder) {
		for _, s := range sinks {
			if s != nil {
				r.sinks = append(r.sinks, s)
			}
		}
	}
}

// NewRecorder builds a recorder that logs each entry to logger. A nil
// logger discards the log line.
func NewRecorder(logger *log.Logger, opts ...Option) *Recorder {
	r := &Recorder{logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GenerateID returns a random RFC 4122 version 4 UUID string.
func GenerateID() string {
	return uuid.NewString()
}

// SessionID returns this recorder's session id, generating it on first use.
func (r *Recorder) SessionID() string {
	r.sessionOnce.Do(func() { r.sessionID = GenerateID() })
	return r.sessionID
}

// LogAction validates, stamps and appends entry, then forwards it to the
// logger and every sink. The stamped entry is returned.
func (r *Recorder) LogAction(ctx context.Context, entry types.AuditEntry) (types.AuditEntry, error) {
	if entry.Action == types.ActionError && strings.TrimSpace(entry.Message) == "" {
		return types.AuditEntry{}, ErrAuditEntryInvalid
	}

	finalized := entry.Clone()
	finalized.SessionID = r.SessionID()
	finalized.ID = GenerateID()

	r.mu.Lock()
	r.trail = append(r.trail, finalized)
	r.mu.Unlock()

	r.emit(ctx, finalized)

	return finalized.Clone(), nil
}

// emit hands the entry to the log and the sinks.  Sink errors are logged and
// not returned: the entry is already part of the trail.  Sinks get a context
// detached from the caller's cancellation so an abandoned request cannot
// drop an entry the trail already holds.
func (r *Recorder) emit(ctx context.Context, entry types.AuditEntry) {
	ctx = context.WithoutCancel(ctx)

	if r.logger != nil {
		if b, err := json.Marshal(entry); err == nil {
			r.logger.Printf("[AUDIT] %s", b)
		} else {
			r.logger.Printf("[AUDIT] id=%s action=%s (marshal: %v)", entry.ID, entry.Action, err)
		}
	}

	for _, s := range r.sinks {
		if err := s.RecordEvent(ctx, entry.Clone()); err != nil && r.logger != nil {
			r.logger.Printf("audit sink error: id=%s: %v", entry.ID, err)
		}
	}
}

// Trail returns a copy of the audit trail in append order.
func (r *Recorder) Trail() []types.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.AuditEntry, len(r.trail))
	for i, e := range r.trail {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of entries in the trail.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trail)
}

// Clear empties the trail. The session id is kept.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trail = nil
}
