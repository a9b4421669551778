package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
	"github.com/ronaldsalkes/cvmaster/internal/server/middleware"
)

// optimizeRequest is the collaborator wire request: the full working record.
type optimizeRequest struct {
	Record *draft.Draft `json:"record"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleOptimize rewrites the posted record against its target job posting.
// Fields the engine leaves out of the response are kept as-is by the caller.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.errorResponse(w, &ValidationError{Message: "invalid JSON body"})
		return
	}

	if req.Record == nil {
		s.errorResponse(w, &ValidationError{Field: "record", Message: "record is required"})
		return
	}
	if strings.TrimSpace(req.Record.TargetJob) == "" {
		s.errorResponse(w, &ValidationError{Field: "record.target_job", Message: "target job description is required"})
		return
	}

	if identity, err := middleware.IdentityFrom(r); err == nil {
		s.log.Debug(r.Context(), "optimize requested", "subject", identity.Subject, "name", identity.Name)
	}

	rewrite, err := s.engine.Optimize(r.Context(), *req.Record)
	if err != nil {
		s.log.Error(r.Context(), "optimization failed", "error", err)
		s.errorResponse(w, &EngineError{Message: "failed to optimize record", Cause: err})
		return
	}

	s.jsonResponse(w, http.StatusOK, rewrite)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error(context.Background(), "failed to encode response", "error", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), map[string]string{"error": err.Error()})
}
