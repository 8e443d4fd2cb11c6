// Package rules holds the pure Tic Tac Toe rules: winner and draw detection,
// turn derivation, and move application. Nothing here has side effects.
package rules

import (
	"errors"
	"fmt"
	"math"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

var (
	ErrInvalidIndex  = errors.New("invalid index")
	ErrInvalidPlayer = errors.New("invalid player")
	ErrCellOccupied  = errors.New("cell occupied")
)

// lines are scanned in this order; the first complete one wins.
var lines = [8][3]int{
	{0, 1, 2}, // rows
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6}, // cols
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8}, // diagonals
	{2, 4, 6},
}

func EmptyBoard() types.Board {
	return types.Board{}
}

// Winner returns the player holding the first complete line, or types.Empty.
func Winner(b types.Board) types.Player {
	if line, ok := WinningLine(b); ok {
		return b[line[0]]
	}
	return types.Empty
}

// WinningLine returns the indices of the first complete line. It is only
// used for highlighting.
func WinningLine(b types.Board) ([3]int, bool) {
	for _, l := range lines {
		a := b[l[0]]
		if a != types.Empty && a == b[l[1]] && a == b[l[2]] {
			return l, true
		}
	}
	return [3]int{}, false
}

// IsDraw reports a full board with no winner.
func IsDraw(b types.Board) bool {
	for _, c := range b {
		if c == types.Empty {
			return false
		}
	}
	return Winner(b) == types.Empty
}

// NextPlayer derives whose turn it is from the number of moves played.
// X moves on even lengths, O on odd.
func NextPlayer(history []int) types.Player {
	if len(history)%2 == 0 {
		return types.X
	}
	return types.O
}

// ApplyMove places player's mark at index and returns the resulting board.
// Checks run in order: index range, player, cell emptiness. The input board
// is a value and is never modified.
func ApplyMove(b types.Board, index int, player types.Player) (types.Board, error) {
	if err := ValidateIndex(index); err != nil {
		return b, err
	}
	if !player.Valid() {
		return b, fmt.Errorf("%w %q: must be %q or %q", ErrInvalidPlayer, player, types.X, types.O)
	}
	if b[index] != types.Empty {
		return b, fmt.Errorf("%w: cell at index %d is already occupied", ErrCellOccupied, index)
	}

	next := b
	next[index] = player
	return next, nil
}

func ValidateIndex(index int) error {
	if index < 0 || index >= len(types.Board{}) {
		return fmt.Errorf("%w %d: must be an integer in [0, 8]", ErrInvalidIndex, index)
	}
	return nil
}

// IndexFromNumber converts an untyped numeric index, such as one decoded
// from JSON. Fractional, infinite and NaN values fail with ErrInvalidIndex.
// The range is not checked here; ApplyMove does that.
func IndexFromNumber(v float64) (int, error) {
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w %v: must be an integer in [0, 8]", ErrInvalidIndex, v)
	}
	return int(v), nil
}

// ClearCell returns a copy of b with the cell at index emptied.
func ClearCell(b types.Board, index int) types.Board {
	next := b
	if index >= 0 && index < len(next) {
		next[index] = types.Empty
	}
	return next
}

// Snapshot derives the full game state from a board and its history.
// The returned history does not alias the argument.
func Snapshot(b types.Board, history []int) types.Snapshot {
	h := make([]int, len(history))
	copy(h, history)
	return types.Snapshot{
		Board:         b,
		History:       h,
		CurrentPlayer: NextPlayer(history),
		Winner:        Winner(b),
		IsDraw:        IsDraw(b),
	}
}
