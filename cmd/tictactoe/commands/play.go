package commands

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/BrandonDHaskell/tictactoe/internal/printer"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/audit"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/service"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

type playOptions struct {
	auditFormat string
	sessionID   string
	verbose     bool
}

func newPlayCmd() *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start an interactive game",
		Long: `Start an interactive two-player game.

Commands at the prompt:
  0-8           place the current player's mark
  u             undo the last move
  r [reason]    start a new game, optionally recording why
  a             print the audit trail
  q             quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.auditFormat, "audit-format", "", "print the audit trail on exit (json|yaml)")
	cmd.Flags().StringVar(&opts.sessionID, "session-id", "", "use this session id instead of a generated one")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every audit entry to stderr")

	return cmd
}

func runPlay(cmd *cobra.Command, opts *playOptions) error {
	p := &printer.Printer{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}

	format := strings.ToLower(strings.TrimSpace(opts.auditFormat))
	if format != "" && format != "json" && format != "yaml" {
		return p.Error(
			fmt.Sprintf("unsupported audit format %q", opts.auditFormat),
			"Use --audit-format json or --audit-format yaml.",
		)
	}

	logOut := io.Discard
	if opts.verbose {
		logOut = cmd.ErrOrStderr()
	}
	rec := audit.NewRecorder(log.New(logOut, "tictactoe ", log.LstdFlags|log.LUTC),
		audit.WithSessionID(opts.sessionID))
	game := service.NewGameService(rec)

	g := &session{game: game, p: p}
	if err := g.loop(cmd, cmd.InOrStdin()); err != nil {
		return err
	}

	if format != "" {
		return writeTrail(cmd.OutOrStdout(), format, rec)
	}
	return nil
}

type session struct {
	game *service.GameService
	p    *printer.Printer
}

func (s *session) render() {
	snap := s.game.Snapshot()
	var line []int
	if l, ok := s.game.WinningLine(); ok {
		line = l[:]
	}
	s.p.Info("\n")
	s.p.Board(snap.Board, line)
	s.p.Status(snap)
}

func (s *session) loop(cmd *cobra.Command, in io.Reader) error {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(in)

	s.render()
	for {
		s.p.Step("move (0-8), u, r [reason], a, q: ")
		if !scanner.Scan() {
			s.p.Info("\n")
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		verb, rest, _ := strings.Cut(input, " ")

		switch strings.ToLower(verb) {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "a", "audit":
			s.printTrail()
			continue
		case "u", "undo":
			if _, err := s.game.Undo(ctx); err != nil {
				s.reportError(err)
				continue
			}
			s.p.Success("Move undone\n")
		case "r", "reset":
			if _, err := s.game.Reset(ctx, rest); err != nil {
				s.reportError(err)
				continue
			}
			s.p.Success("New game\n")
		default:
			index, err := strconv.ParseFloat(verb, 64)
			if err != nil {
				s.p.Warning("Unknown command %q\n", input)
				continue
			}
			if _, err := s.game.PlayValue(ctx, index); err != nil {
				s.reportError(err)
				continue
			}
		}
		s.render()
	}
}

func (s *session) reportError(err error) {
	var msg string
	switch {
	case errors.Is(err, service.ErrGameOver):
		msg = "Game over. Start a new game with r."
	case errors.Is(err, service.ErrNothingToUndo):
		msg = "No moves to undo."
	default:
		msg = err.Error()
	}
	s.p.Warning("%s\n", msg)
}

func (s *session) printTrail() {
	rec := s.game.Recorder()
	s.p.Info("Session %s\n", rec.SessionID())
	for i, e := range rec.Trail() {
		s.p.Info("%3d  %s  %-5s  %s%s\n", i+1, e.Timestamp, e.Action, e.Actor, describe(e))
	}
}

func describe(e types.AuditEntry) string {
	var parts []string
	for _, k := range []string{"index", "undoneIndex", "reason"} {
		if v, ok := e.Payload[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	if e.Message != "" {
		parts = append(parts, fmt.Sprintf("message=%q", e.Message))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}

func writeTrail(w io.Writer, format string, rec *audit.Recorder) error {
	doc := types.AuditTrailResponse{
		SessionID: rec.SessionID(),
		Entries:   rec.Trail(),
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode audit trail: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode audit trail: %w", err)
		}
		return nil
	}
}
