package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/audit"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/rules"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/store"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

var (
	ErrGameOver      = errors.New("game over: start a new game to continue")
	ErrNothingToUndo = errors.New("no moves to undo")
)

// GameService owns one game: the board and the move history. Every command
// holds the mutex through validation, mutation and the audit append, so the
// board is never observable without its matching history.
type GameService struct {
	recorder *audit.Recorder
	now      func() time.Time

	mu      sync.Mutex
	board   types.Board
	history []int
}

type GameOption func(*GameService)

// WithClock replaces time.Now as the source of audit timestamps.
func WithClock(now func() time.Time) GameOption {
	return func(s *GameService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewGameService(rec *audit.Recorder, opts ...GameOption) *GameService {
	s := &GameService{
		recorder: rec,
		now:      time.Now,
		board:    rules.EmptyBoard(),
		history:  []int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GameService) Recorder() *audit.Recorder { return s.recorder }

// Snapshot returns the current derived game state.
func (s *GameService) Snapshot() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// WinningLine returns the completed line to highlight, if any.
func (s *GameService) WinningLine() ([3]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.WinningLine(s.board)
}

// Play places the current player's mark at index.
func (s *GameService) Play(ctx context.Context, index int) (types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()
	payload := map[string]any{"index": index}

	if before.Winner != types.Empty || before.IsDraw {
		return types.Snapshot{}, s.fail(ctx, before, payload, ErrGameOver)
	}

	player := before.CurrentPlayer
	board, err := rules.ApplyMove(s.board, index, player)
	if err != nil {
		return types.Snapshot{}, s.fail(ctx, before, payload, err)
	}

	history := make([]int, len(s.history), len(s.history)+1)
	copy(history, s.history)
	history = append(history, index)

	s.board, s.history = board, history
	after := s.snapshotLocked()

	if err := s.record(ctx, player, types.ActionPlay, payload, before, after); err != nil {
		return types.Snapshot{}, err
	}
	return after, nil
}

// PlayValue is Play for an untyped number. A value that is not a whole
// number is rejected as an invalid index and audited like any failed play.
func (s *GameService) PlayValue(ctx context.Context, v float64) (types.Snapshot, error) {
	index, err := rules.IndexFromNumber(v)
	if err == nil {
		return s.Play(ctx, index)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()
	payload := map[string]any{"index": v}
	if before.Winner != types.Empty || before.IsDraw {
		return types.Snapshot{}, s.fail(ctx, before, payload, ErrGameOver)
	}
	return types.Snapshot{}, s.fail(ctx, before, payload, err)
}

// Undo removes the last move. The entry is credited to the player who made
// that move, who is also the player to move once it is undone.
func (s *GameService) Undo(ctx context.Context) (types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()
	n := len(s.history)
	if n == 0 {
		return types.Snapshot{}, s.fail(ctx, before, nil, ErrNothingToUndo)
	}

	last := s.history[n-1]
	history := make([]int, n-1)
	copy(history, s.history[:n-1])
	mover := rules.NextPlayer(history)

	s.board, s.history = rules.ClearCell(s.board, last), history
	after := s.snapshotLocked()

	payload := map[string]any{"undoneIndex": last}
	if err := s.record(ctx, mover, types.ActionUndo, payload, before, after); err != nil {
		return types.Snapshot{}, err
	}
	return after, nil
}

// Reset clears the board and history. It never fails on game state; an
// error is only returned if the audit entry cannot be recorded.
func (s *GameService) Reset(ctx context.Context, reason string) (types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()

	s.board, s.history = rules.EmptyBoard(), []int{}
	after := s.snapshotLocked()

	var payload map[string]any
	if r := strings.TrimSpace(reason); r != "" {
		payload = map[string]any{"reason": r}
	}
	if err := s.record(ctx, before.CurrentPlayer, types.ActionReset, payload, before, after); err != nil {
		return types.Snapshot{}, err
	}
	return after, nil
}

func (s *GameService) snapshotLocked() types.Snapshot {
	return rules.Snapshot(s.board, s.history)
}

func (s *GameService) timestamp() string {
	return s.now().UTC().Format(store.TimestampLayout)
}

func (s *GameService) record(
	ctx context.Context,
	actor types.Player,
	action types.AuditAction,
	payload map[string]any,
	before, after types.Snapshot,
) error {
	_, err := s.recorder.LogAction(ctx, types.AuditEntry{
		Actor:     actor,
		Action:    action,
		Timestamp: s.timestamp(),
		Payload:   payload,
		Before:    &before,
		After:     &after,
	})
	if err != nil {
		return fmt.Errorf("record %s: %w", strings.ToLower(string(action)), err)
	}
	return nil
}

// fail records a rejected command against the unchanged state and returns
// cause so callers can match it with errors.Is.
func (s *GameService) fail(ctx context.Context, current types.Snapshot, payload map[string]any, cause error) error {
	after := current.Clone()
	_, err := s.recorder.LogAction(ctx, types.AuditEntry{
		Actor:     current.CurrentPlayer,
		Action:    types.ActionError,
		Timestamp: s.timestamp(),
		Payload:   payload,
		Before:    &current,
		After:     &after,
		Message:   cause.Error(),
	})
	if err != nil {
		return errors.Join(cause, fmt.Errorf("record error: %w", err))
	}
	return cause
}
