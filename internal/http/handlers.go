package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hcpcrm/internal/core"
	"hcpcrm/internal/db"
	"hcpcrm/internal/llm"
	"hcpcrm/pkg"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server bundles the dependencies required by the HTTP handlers.
type Server struct {
	Repo   *db.Repository
	Agent  *core.Service
	Model  string
	Logger *slog.Logger
}

// NewServer constructs a Server. Model is the configured LLM model name,
// reported on /health.
func NewServer(repo *db.Repository, agent *core.Service, model string, logger *slog.Logger) *Server {
	return &Server{Repo: repo, Agent: agent, Model: model, Logger: logger}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/interactions", s.handleListInteractions)
		r.Post("/interactions/log", s.handleLogInteraction)
		r.Put("/interactions/{id}", s.handleEditInteraction)
		r.Post("/agent/chat", s.handleAgentChat)
		r.Post("/agent/followup", s.handleAgentFollowUp)
		r.Get("/hcp/profile", s.handleHCPProfile)
	})
	return r
}

// handleHealth reports liveness and the configured model name.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "model": s.Model})
}

// handleListInteractions returns the 100 most recent interactions.
func (s *Server) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	items, err := s.Repo.ListRecent(r.Context(), 100)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleAgentChat runs the full pipeline on the user message and returns
// the assistant reply plus the extracted draft. Nothing is persisted here;
// the caller decides whether to save via the log endpoint.
func (s *Server) handleAgentChat(w http.ResponseWriter, r *http.Request) {
	var req pkg.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	st, err := s.Agent.Run(r.Context(), req.ThreadID, req.Message)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg.ChatResponse{
		AssistantMessage: st.AssistantMessage,
		DraftInteraction: st.Draft,
	})
}

// handleLogInteraction persists a draft. Missing derived fields are filled
// in first: summary and entities from raw notes via extraction, then the
// compliance flags over notes plus summary.
func (s *Server) handleLogInteraction(w http.ResponseWriter, r *http.Request) {
	var req pkg.LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := r.Context()
	draft := req.Interaction
	if draft.AISummary == "" || draft.AIEntitiesJSON == "" {
		res, err := s.Agent.SummarizeAndExtract(ctx, draft.RawNotes)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if draft.AISummary == "" {
			draft.AISummary = res.Summary
		}
		if draft.AIEntitiesJSON == "" {
			entities, _ := json.Marshal(res.Entities)
			draft.AIEntitiesJSON = string(entities)
		}
	}
	if draft.ComplianceFlagsJSON == "" {
		compliance, err := s.Agent.CheckCompliance(ctx, draft.RawNotes+"\n"+draft.AISummary)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		encoded, _ := json.Marshal(compliance)
		draft.ComplianceFlagsJSON = string(encoded)
	}
	item, err := s.Repo.Create(ctx, draft)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

// handleEditInteraction applies a patch to an existing interaction.
// Unrecognized patch fields are ignored by the store.
func (s *Server) handleEditInteraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req pkg.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, err := s.Repo.Update(r.Context(), id, req.Patch)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "interaction not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

// handleHCPProfile returns recent interaction previews for an HCP name
// substring, for quick rep context before a call.
func (s *Server) handleHCPProfile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}
	entries, err := s.Repo.FindByName(r.Context(), name)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hcp_name":            name,
		"recent_interactions": entries,
	})
}

// handleAgentFollowUp drafts a balanced follow-up message via the model.
func (s *Server) handleAgentFollowUp(w http.ResponseWriter, r *http.Request) {
	var req pkg.FollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msg, err := s.Agent.DraftFollowUp(r.Context(), req.HCPName, req.ProductsDiscussed)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"followup_message": msg})
}

// serverError logs and maps an error to a response. A missing model
// credential is reported with its own message so misconfiguration is
// obvious to the caller; everything else is a generic failure.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	if errors.Is(err, llm.ErrNotConfigured) {
		writeError(w, http.StatusInternalServerError, "GROQ_API_KEY not set on backend")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
