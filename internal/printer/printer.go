// Package printer renders the game and status messages for the terminal
// client.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)

	markX = color.New(color.FgCyan, color.Bold)
	markO = color.New(color.FgMagenta, color.Bold)
	win   = color.New(color.FgBlack, color.BgGreen, color.Bold)
)

// Printer writes to a pair of streams so the client can be driven in tests.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// Success prints a success message in green with a checkmark prefix
func (p *Printer) Success(format string, a ...any) {
	green.Fprintf(p.Out, "✓ %s", fmt.Sprintf(format, a...))
}

// Info prints an informational message in the default color
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.Out, format, a...)
}

// Warning prints a warning message in yellow
func (p *Printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.Out, "⚠️  %s", fmt.Sprintf(format, a...))
}

// Step prints a prompt or step marker in cyan
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.Out, "→ %s", fmt.Sprintf(format, a...))
}

// Error prints title and explanation to the error stream and returns an
// error carrying the title.
func (p *Printer) Error(title, explanation string) error {
	red.Fprintf(p.Err, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(p.Err, "%s\n", explanation)
	}
	return fmt.Errorf("%s", title)
}

// Board draws the grid. Empty cells show their index so players know what
// to type; cells on line are highlighted.
func (p *Printer) Board(b types.Board, line []int) {
	onLine := make(map[int]bool, len(line))
	for _, i := range line {
		onLine[i] = true
	}

	sep := faint.Sprint("───┼───┼───")
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			cells[col] = cell(b[i], i, onLine[i])
		}
		fmt.Fprintf(p.Out, " %s\n", strings.Join(cells, faint.Sprint("│")))
		if row < 2 {
			fmt.Fprintf(p.Out, " %s\n", sep)
		}
	}
}

// Status prints the one-line game status.
func (p *Printer) Status(s types.Snapshot) {
	switch {
	case s.Winner != types.Empty:
		green.Fprintf(p.Out, "Winner: %s\n", s.Winner)
	case s.IsDraw:
		yellow.Fprintln(p.Out, "Draw")
	default:
		fmt.Fprintf(p.Out, "Current Player: %s\n", s.CurrentPlayer)
	}
	faint.Fprintf(p.Out, "Moves: %d\n", len(s.History))
}

func cell(c types.Player, index int, highlight bool) string {
	text := fmt.Sprintf(" %s ", c)
	switch {
	case highlight:
		return win.Sprint(text)
	case c == types.X:
		return markX.Sprint(text)
	case c == types.O:
		return markO.Sprint(text)
	default:
		return faint.Sprintf(" %d ", index)
	}
}
