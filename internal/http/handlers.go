package http

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"hospital-assistant/internal/core"
	"hospital-assistant/pkg"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server bundles the dependencies required by the HTTP handlers. It
// implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Orchestrator *core.Orchestrator
	Log          *slog.Logger
	Templates    *template.Template
}

// NewServer constructs a Server with the embedded chat template.
func NewServer(orc *core.Orchestrator, log *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		Orchestrator: orc,
		Log:          log,
		Templates:    tmpl,
	}, nil
}

// ServeHTTP dispatches incoming requests based on the URL path. Minimal
// routing logic is implemented here to keep dependencies light.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/" && r.Method == http.MethodGet:
		s.handleChatPage(w, r)
	case r.URL.Path == "/api/agents" && r.Method == http.MethodGet:
		s.handleAgents(w, r)
	case r.URL.Path == "/api/transcript" && r.Method == http.MethodGet:
		s.handleTranscript(w, r)
	case r.URL.Path == "/api/chat" && r.Method == http.MethodPost:
		s.handleChat(w, r)
	default:
		http.NotFound(w, r)
	}
}

// chatTurnRequest is the submit-query payload from the browser.
type chatTurnRequest struct {
	Content string `json:"content"`
}

// chatTurnResponse carries the turn's new messages plus the final session
// state back to the browser.
type chatTurnResponse struct {
	Messages    []pkg.Message       `json:"messages"`
	State       pkg.ProcessingState `json:"state"`
	ActiveAgent pkg.AgentID         `json:"active_agent"`
}

// handleChatPage renders the chat interface with the transcript so far.
func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	state, active := s.Orchestrator.Status()
	data := struct {
		Agents     []pkg.AgentProfile
		Transcript []pkg.Message
		State      pkg.ProcessingState
		Active     pkg.AgentID
	}{
		Agents:     core.Agents(),
		Transcript: s.Orchestrator.Transcript(),
		State:      state,
		Active:     active,
	}
	if err := s.Templates.ExecuteTemplate(w, "chat.html", data); err != nil {
		s.Log.Error("render chat page", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// handleChat runs one full turn for the submitted query.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	messages, err := s.Orchestrator.Submit(r.Context(), req.Content)
	switch {
	case errors.Is(err, core.ErrEmptyQuery):
		http.Error(w, "empty message", http.StatusBadRequest)
		return
	case errors.Is(err, core.ErrBusy):
		http.Error(w, "a turn is already in progress", http.StatusConflict)
		return
	case err != nil:
		s.Log.Error("submit failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	state, active := s.Orchestrator.Status()
	s.writeJSON(w, chatTurnResponse{
		Messages:    messages,
		State:       state,
		ActiveAgent: active,
	})
}

// handleTranscript returns the full transcript and current state.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	state, active := s.Orchestrator.Status()
	s.writeJSON(w, chatTurnResponse{
		Messages:    s.Orchestrator.Transcript(),
		State:       state,
		ActiveAgent: active,
	})
}

// handleAgents returns the profile list for the sidebar.
func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, core.Agents())
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error("encode response", "error", err)
	}
}
