package types

// Player is a mark on the board. The zero value Empty marks an unplayed cell.
type Player string

const (
	Empty Player = ""
	X     Player = "X"
	O     Player = "O"
)

// Valid reports whether p is one of the two playing marks.
func (p Player) Valid() bool {
	return p == X || p == O
}

// Board is the 3x3 grid in row-major order (row = i/3, col = i%3).
// It is an array, so assigning or passing a Board copies it.
type Board [9]Player

// Snapshot is the full derived game state at a point in time.
type Snapshot struct {
	Board         Board  `json:"board" yaml:"board"`
	History       []int  `json:"history" yaml:"history"`
	CurrentPlayer Player `json:"current_player" yaml:"current_player"`
	Winner        Player `json:"winner,omitempty" yaml:"winner,omitempty"`
	IsDraw        bool   `json:"is_draw" yaml:"is_draw"`
}

// Clone returns a copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.History = make([]int, len(s.History))
	copy(out.History, s.History)
	return out
}
