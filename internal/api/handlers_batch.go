package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/headingkit/internal/pipeline"
	"github.com/dgallion1/headingkit/internal/sections"
)

type batchRequest struct {
	Sort       string              `json:"sort"`
	Descending bool                `json:"descending"`
	Documents  []pipeline.Document `json:"documents"`
}

func (s *Server) handleBatchSort(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		jsonError(w, "batch pipeline unavailable", http.StatusServiceUnavailable)
		return
	}

	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Documents) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}
	if req.Sort == "" {
		req.Sort = "header"
	}
	if _, err := sections.PresetByName(req.Sort, req.Descending); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	for i := range req.Documents {
		name := req.Documents[i].Name
		if name == "" {
			name = fmt.Sprintf("document-%d.md", i+1)
		}
		req.Documents[i].Name = sanitizeFilename(name)
	}

	job := pipeline.NewJob(strings.ToLower(req.Sort), req.Descending, req.Documents)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":    job.ID,
		"status":    pipeline.StatusQueued,
		"documents": len(req.Documents),
		"poll_url":  fmt.Sprintf("/api/sort/batch/%s", job.ID),
	})
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		jsonError(w, "batch pipeline unavailable", http.StatusServiceUnavailable)
		return
	}
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
