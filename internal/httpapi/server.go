package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/audit"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/rules"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/service"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/store"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

type Dependencies struct {
	Logger      *log.Logger
	Addr        string
	GameService *service.GameService

	// Export serves GET /v1/audit/export. Nil answers 404.
	Export store.AuditExportReader
}

type Server struct {
	httpServer  *http.Server
	logger      *log.Logger
	mux         *http.ServeMux
	gameService *service.GameService
	recorder    *audit.Recorder
	export      store.AuditExportReader
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:      d.Logger,
		mux:         mux,
		gameService: d.GameService,
		recorder:    d.GameService.Recorder(),
		export:      d.Export,
	}

	mux.HandleFunc("GET /v1/game", s.handleGetGame)
	mux.HandleFunc("POST /v1/game/play", s.handlePlay)
	mux.HandleFunc("POST /v1/game/undo", s.handleUndo)
	mux.HandleFunc("POST /v1/game/reset", s.handleReset)
	mux.HandleFunc("GET /v1/audit", s.handleGetAudit)
	mux.HandleFunc("DELETE /v1/audit", s.handleClearAudit)
	mux.HandleFunc("GET /v1/audit/session", s.handleGetSession)
	mux.HandleFunc("GET /v1/audit/export", s.handleGetExport)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s.writeGame(w, r, s.gameService.Snapshot())
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req types.PlayRequest
	if err := decodeRequest(r, &req, false); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", "invalid request body")
		return
	}
	if req.Index == nil {
		writeError(w, r, http.StatusBadRequest, "missing_index", "index is required")
		return
	}
	if !s.permitted(w, r, types.ActionPlay) {
		return
	}

	snap, err := s.gameService.PlayValue(r.Context(), *req.Index)
	if err != nil {
		s.writeCommandError(w, r, "play", err)
		return
	}
	s.writeGame(w, r, snap)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if !s.permitted(w, r, types.ActionUndo) {
		return
	}

	snap, err := s.gameService.Undo(r.Context())
	if err != nil {
		s.writeCommandError(w, r, "undo", err)
		return
	}
	s.writeGame(w, r, snap)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req types.ResetRequest
	if err := decodeRequest(r, &req, true); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", "invalid request body")
		return
	}
	if !s.permitted(w, r, types.ActionReset) {
		return
	}

	snap, err := s.gameService.Reset(r.Context(), req.Reason)
	if err != nil {
		s.writeCommandError(w, r, "reset", err)
		return
	}
	s.writeGame(w, r, snap)
}

func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, types.AuditTrailResponse{
		SessionID: s.recorder.SessionID(),
		Entries:   s.recorder.Trail(),
	})
}

func (s *Server) handleClearAudit(w http.ResponseWriter, r *http.Request) {
	s.recorder.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, types.SessionResponse{SessionID: s.recorder.SessionID()})
}

// handleGetExport reads entries back from the audit sink. Unlike the trail,
// the export is not emptied by DELETE /v1/audit.
func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) {
	if s.export == nil {
		writeError(w, r, http.StatusNotFound, "export_disabled", "no audit export is configured")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = s.recorder.SessionID()
	}

	entries, err := s.export.ListSession(r.Context(), sessionID)
	if err != nil {
		s.logger.Printf("audit export error: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	if entries == nil {
		entries = []types.AuditEntry{}
	}
	respond(w, r, http.StatusOK, types.AuditTrailResponse{SessionID: sessionID, Entries: entries})
}

func (s *Server) permitted(w http.ResponseWriter, r *http.Request, action types.AuditAction) bool {
	actor := s.gameService.Snapshot().CurrentPlayer
	if audit.HasPermission(actor, action) {
		return true
	}
	writeError(w, r, http.StatusForbidden, "forbidden", "action not permitted")
	return false
}

func (s *Server) writeGame(w http.ResponseWriter, r *http.Request, snap types.Snapshot) {
	respond(w, r, http.StatusOK, gameResponse(snap))
}

func (s *Server) writeCommandError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, rules.ErrInvalidIndex):
		writeError(w, r, http.StatusBadRequest, "invalid_index", err.Error())
	case errors.Is(err, rules.ErrInvalidPlayer):
		writeError(w, r, http.StatusBadRequest, "invalid_player", err.Error())
	case errors.Is(err, rules.ErrCellOccupied):
		writeError(w, r, http.StatusConflict, "cell_occupied", err.Error())
	case errors.Is(err, service.ErrGameOver):
		writeError(w, r, http.StatusConflict, "game_over", err.Error())
	case errors.Is(err, service.ErrNothingToUndo):
		writeError(w, r, http.StatusConflict, "nothing_to_undo", err.Error())
	default:
		s.logger.Printf("%s error: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "unexpected server error")
	}
}
