package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tailored-agentic-units/assistant/core/protocol"
	"github.com/tailored-agentic-units/assistant/eventlog"
	"github.com/tailored-agentic-units/assistant/orchestrator"
	"github.com/tailored-agentic-units/assistant/session"
)

// ChatRequest is the body of POST /chat. SafeMode defaults to true when
// omitted. When Confirm is set it answers the session's pending approval
// and Message may be empty.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	SafeMode  *bool  `json:"safe_mode,omitempty"`
	Confirm   *bool  `json:"confirm,omitempty"`
}

// ChatResponse carries the full message history after the turn, plus the
// command awaiting approval if one is parked on the session.
type ChatResponse struct {
	SessionID      string                      `json:"session_id"`
	Messages       []protocol.Message          `json:"messages"`
	PendingCommand *protocol.CapabilityRequest `json:"pending_command,omitempty"`
}

// SessionResponse is the body of POST /session.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// LogResponse is the body of GET /session/{id}/log.
type LogResponse struct {
	SessionID string           `json:"session_id"`
	Entries   []eventlog.Entry `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /session", s.handleCreateSession)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /session/{id}/log", s.handleSessionLog)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.orch.StartSession(r.Context())
	writeJSON(w, http.StatusCreated, SessionResponse{SessionID: sess.ID()})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	userText := req.Message
	if req.Confirm != nil {
		userText = orchestrator.ConfirmationToken(*req.Confirm)
	}
	if strings.TrimSpace(userText) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	safeMode := true
	if req.SafeMode != nil {
		safeMode = *req.SafeMode
	}

	turn, err := s.orch.Advance(r.Context(), req.SessionID, userText, safeMode)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnknownSession):
			writeError(w, http.StatusNotFound, "unknown session")
		case errors.Is(err, orchestrator.ErrAmbiguousConfirmation):
			writeError(w, http.StatusConflict,
				`a command is awaiting approval, reply "yes" or "no"`)
		default:
			s.log.Error("chat turn failed", "session", req.SessionID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	history, err := s.orch.History(req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	resp := ChatResponse{SessionID: req.SessionID, Messages: history}
	if turn.Pending != nil {
		resp.PendingCommand = &turn.Pending.CapabilityRequest
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSessionLog(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.sessions.Lookup(id); err != nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, LogResponse{
		SessionID: id,
		Entries:   s.recorder.SessionLog(id),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
