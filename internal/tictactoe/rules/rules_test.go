package rules_test

import (
	"errors"
	"math"
	"testing"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/rules"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

// parseBoard builds a board from a 9-character layout where '.' is empty.
func parseBoard(t *testing.T, layout string) types.Board {
	t.Helper()
	if len(layout) != 9 {
		t.Fatalf("layout must have 9 cells, got %d", len(layout))
	}
	var b types.Board
	for i, c := range layout {
		switch c {
		case 'X':
			b[i] = types.X
		case 'O':
			b[i] = types.O
		case '.':
		default:
			t.Fatalf("bad cell %q in layout", c)
		}
	}
	return b
}

// allBoards enumerates every assignment of {empty, X, O} to 9 cells.
func allBoards() []types.Board {
	cells := []types.Player{types.Empty, types.X, types.O}
	out := make([]types.Board, 0, 19683)
	for n := 0; n < 19683; n++ {
		var b types.Board
		v := n
		for i := range b {
			b[i] = cells[v%3]
			v /= 3
		}
		out = append(out, b)
	}
	return out
}

// ── Winner ───────────────────────────────────────────────────────────────────

func TestWinner_Lines(t *testing.T) {
	cases := []struct {
		name   string
		layout string
		want   types.Player
		line   [3]int
	}{
		{"top row", "XXX......", types.X, [3]int{0, 1, 2}},
		{"middle row", "...OOO...", types.O, [3]int{3, 4, 5}},
		{"bottom row", "......XXX", types.X, [3]int{6, 7, 8}},
		{"left col", "O..O..O..", types.O, [3]int{0, 3, 6}},
		{"middle col", ".X..X..X.", types.X, [3]int{1, 4, 7}},
		{"right col", "..O..O..O", types.O, [3]int{2, 5, 8}},
		{"main diagonal", "X...X...X", types.X, [3]int{0, 4, 8}},
		{"anti diagonal", "..O.O.O..", types.O, [3]int{2, 4, 6}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := parseBoard(t, tc.layout)
			if got := rules.Winner(b); got != tc.want {
				t.Errorf("expected winner %q, got %q", tc.want, got)
			}
			line, ok := rules.WinningLine(b)
			if !ok {
				t.Fatal("expected a winning line")
			}
			if line != tc.line {
				t.Errorf("expected line %v, got %v", tc.line, line)
			}
		})
	}
}

func TestWinner_NoneOnEmptyAndPartialBoards(t *testing.T) {
	for _, layout := range []string{".........", "XX.......", "XO.OX....", "XOXOXO..."} {
		b := parseBoard(t, layout)
		if got := rules.Winner(b); got != types.Empty {
			t.Errorf("%s: expected no winner, got %q", layout, got)
		}
		if _, ok := rules.WinningLine(b); ok {
			t.Errorf("%s: expected no winning line", layout)
		}
	}
}

func TestWinner_FirstLineInScanOrderWins(t *testing.T) {
	// Top row and left column are both complete for X; the row comes first.
	b := parseBoard(t, "XXXXOOXOO")
	line, ok := rules.WinningLine(b)
	if !ok {
		t.Fatal("expected a winning line")
	}
	if line != [3]int{0, 1, 2} {
		t.Errorf("expected first scanned line [0 1 2], got %v", line)
	}
}

func TestWinner_NeverFlagsLineWithEmptyCell(t *testing.T) {
	for _, b := range allBoards() {
		w := rules.Winner(b)
		line, ok := rules.WinningLine(b)
		if w == types.Empty {
			if ok {
				t.Fatalf("board %v: line %v reported without a winner", b, line)
			}
			continue
		}
		if !ok {
			t.Fatalf("board %v: winner %q without a line", b, w)
		}
		for _, i := range line {
			if b[i] != w {
				t.Fatalf("board %v: cell %d is %q, winner is %q", b, i, b[i], w)
			}
		}
	}
}

// ── IsDraw ───────────────────────────────────────────────────────────────────

func TestIsDraw_FullBoardNoWinner(t *testing.T) {
	b := parseBoard(t, "XOXXOOOXX")
	if w := rules.Winner(b); w != types.Empty {
		t.Errorf("expected no winner, got %q", w)
	}
	if !rules.IsDraw(b) {
		t.Error("expected draw")
	}
}

func TestIsDraw_FalseWhenCellsRemain(t *testing.T) {
	if rules.IsDraw(rules.EmptyBoard()) {
		t.Error("empty board must not be a draw")
	}
	if rules.IsDraw(parseBoard(t, "XOXXOOOX.")) {
		t.Error("board with an empty cell must not be a draw")
	}
}

func TestIsDraw_FalseWhenFullBoardHasWinner(t *testing.T) {
	b := parseBoard(t, "XXXOOXXOO")
	if rules.IsDraw(b) {
		t.Error("full board with a winner must not be a draw")
	}
}

func TestIsDraw_NeverTogetherWithWinner(t *testing.T) {
	for _, b := range allBoards() {
		full := true
		for _, c := range b {
			if c == types.Empty {
				full = false
				break
			}
		}
		draw := rules.IsDraw(b)
		w := rules.Winner(b)
		if draw && w != types.Empty {
			t.Fatalf("board %v: draw and winner %q at once", b, w)
		}
		if draw != (full && w == types.Empty) {
			t.Fatalf("board %v: expected draw=%v, got %v", b, full && w == types.Empty, draw)
		}
	}
}

// ── NextPlayer ───────────────────────────────────────────────────────────────

func TestNextPlayer(t *testing.T) {
	if got := rules.NextPlayer(nil); got != types.X {
		t.Errorf("expected X for empty history, got %q", got)
	}
	if got := rules.NextPlayer([]int{4}); got != types.O {
		t.Errorf("expected O after one move, got %q", got)
	}
	if got := rules.NextPlayer([]int{4, 0}); got != types.X {
		t.Errorf("expected X after two moves, got %q", got)
	}

	h := []int{0, 4, 8}
	first := rules.NextPlayer(h)
	second := rules.NextPlayer(h)
	if first != second || first != types.O {
		t.Errorf("expected O twice, got %q then %q", first, second)
	}
}

// ── ApplyMove ────────────────────────────────────────────────────────────────

func TestApplyMove_PlacesMarkOnCopy(t *testing.T) {
	b := rules.EmptyBoard()
	before := b

	next, err := rules.ApplyMove(b, 4, types.X)
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if next[4] != types.X {
		t.Errorf("expected X at 4, got %q", next[4])
	}
	if b != before {
		t.Errorf("input board mutated: %v", b)
	}
	for i, c := range next {
		if i != 4 && c != types.Empty {
			t.Errorf("expected cell %d empty, got %q", i, c)
		}
	}
}

func TestApplyMove_SecondMoveOnSameCellFails(t *testing.T) {
	b, err := rules.ApplyMove(rules.EmptyBoard(), 0, types.X)
	if err != nil {
		t.Fatalf("first ApplyMove: %v", err)
	}
	snapshot := b

	_, err = rules.ApplyMove(b, 0, types.O)
	if !errors.Is(err, rules.ErrCellOccupied) {
		t.Fatalf("expected ErrCellOccupied, got %v", err)
	}
	if b != snapshot {
		t.Error("failed move mutated the board")
	}
}

func TestApplyMove_ValidationOrder(t *testing.T) {
	occupied := parseBoard(t, "X........")

	cases := []struct {
		name   string
		index  int
		player types.Player
		want   error
	}{
		{"negative index", -1, types.X, rules.ErrInvalidIndex},
		{"index past end", 9, types.X, rules.ErrInvalidIndex},
		{"bad index beats bad player", 12, types.Player("Z"), rules.ErrInvalidIndex},
		{"empty player", 1, types.Empty, rules.ErrInvalidPlayer},
		{"bad player beats occupied cell", 0, types.Player("x"), rules.ErrInvalidPlayer},
		{"occupied", 0, types.O, rules.ErrCellOccupied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rules.ApplyMove(occupied, tc.index, tc.player)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestApplyMove_NeverMutatesInput(t *testing.T) {
	for _, b := range allBoards()[:2000] {
		before := b
		for i := 0; i < 9; i++ {
			_, _ = rules.ApplyMove(b, i, types.O)
		}
		if b != before {
			t.Fatalf("board mutated: %v -> %v", before, b)
		}
	}
}

// ── ClearCell / Snapshot ─────────────────────────────────────────────────────

func TestClearCell_ReturnsCopy(t *testing.T) {
	b := parseBoard(t, "XO.......")
	cleared := rules.ClearCell(b, 1)
	if cleared[1] != types.Empty {
		t.Errorf("expected cell 1 cleared, got %q", cleared[1])
	}
	if b[1] != types.O {
		t.Error("ClearCell mutated its input")
	}
}

func TestSnapshot_DerivesStateAndCopiesHistory(t *testing.T) {
	b := parseBoard(t, "XXXOO....")
	history := []int{0, 3, 1, 4, 2}

	s := rules.Snapshot(b, history)
	if s.Winner != types.X {
		t.Errorf("expected winner X, got %q", s.Winner)
	}
	if s.IsDraw {
		t.Error("expected is_draw=false")
	}
	if s.CurrentPlayer != types.O {
		t.Errorf("expected current player O, got %q", s.CurrentPlayer)
	}

	history[0] = 8
	if s.History[0] != 0 {
		t.Error("snapshot history aliases the caller's slice")
	}
}

func TestIndexFromNumber(t *testing.T) {
	whole := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{4, 4},
		{8, 8},
		{9, 9}, // range is left to ApplyMove
		{-1, -1},
	}
	for _, tc := range whole {
		got, err := rules.IndexFromNumber(tc.in)
		if err != nil {
			t.Errorf("IndexFromNumber(%v): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("IndexFromNumber(%v): expected %d, got %d", tc.in, tc.want, got)
		}
	}

	for _, in := range []float64{1.5, -0.25, math.NaN(), math.Inf(1), 1e12} {
		if _, err := rules.IndexFromNumber(in); !errors.Is(err, rules.ErrInvalidIndex) {
			t.Errorf("IndexFromNumber(%v): expected ErrInvalidIndex, got %v", in, err)
		}
	}
}
