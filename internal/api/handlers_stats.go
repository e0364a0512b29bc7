package api

import "net/http"

func (s *Server) handlePipelineStats(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		jsonError(w, "batch pipeline unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.orchestrator.Stats())
}
