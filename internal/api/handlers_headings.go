package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/headingkit/internal/actions"
	"github.com/dgallion1/headingkit/internal/heading"
	"github.com/dgallion1/headingkit/internal/sections"
)

type treeRequest struct {
	Text       string `json:"text"`
	LevelLimit int    `json:"level_limit"`
}

type headingJSON struct {
	Line       int            `json:"line"`
	Level      int            `json:"level"`
	Text       string         `json:"text"`
	Title      string         `json:"title"`
	Timestamp  string         `json:"timestamp,omitempty"`
	Range      heading.Range  `json:"range"`
	Breadcrumb []string       `json:"breadcrumb"`
	Children   []*headingJSON `json:"children"`
}

func toHeadingJSON(t *heading.Tree, n *heading.Node) *headingJSON {
	h := &headingJSON{
		Line:       n.Line(),
		Level:      n.Level(),
		Text:       n.Text(),
		Title:      n.Heading.Header.Title,
		Timestamp:  n.Heading.Header.Timestamp,
		Range:      t.Range(n),
		Breadcrumb: n.Breadcrumb(),
		Children:   []*headingJSON{},
	}
	for _, c := range n.Children {
		h.Children = append(h.Children, toHeadingJSON(t, c))
	}
	return h
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	var req treeRequest
	if !s.decode(w, r, &req) {
		return
	}
	limit := req.LevelLimit
	if limit == 0 {
		limit = s.cfg.Headings.LevelLimit
	}

	tree := heading.NewTree(req.Text, limit)
	headings := []*headingJSON{}
	for _, c := range tree.Root.Children {
		headings = append(headings, toHeadingJSON(tree, c))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"line_count": tree.LineCount,
		"headings":   headings,
	})
}

type sortRequest struct {
	Text       string          `json:"text"`
	Line       int             `json:"line"`
	Sort       string          `json:"sort"`
	Descending bool            `json:"descending"`
	Folds      []sections.Fold `json:"folds"`
}

type rewriteResponse struct {
	Text    string          `json:"text"`
	Span    heading.Range   `json:"span"`
	Folds   []sections.Fold `json:"folds"`
	Order   []int           `json:"order"`
	Headers []string        `json:"headers"`
}

func rewriteJSON(res *sections.Result) rewriteResponse {
	folds := res.Folds
	if folds == nil {
		folds = []sections.Fold{}
	}
	return rewriteResponse{
		Text:    res.Text,
		Span:    res.Span,
		Folds:   folds,
		Order:   res.Order,
		Headers: res.Headers,
	}
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Sort == "" {
		req.Sort = "header"
	}
	preset, err := sections.PresetByName(req.Sort, req.Descending)
	if err != nil {
		s.rewriteError(w, err)
		return
	}

	res, err := sections.SortSiblings(req.Text, req.Line, preset.Compare, req.Folds)
	if err != nil {
		s.rewriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rewriteJSON(res))
}

type moveRequest struct {
	Text  string          `json:"text"`
	Line  int             `json:"line"`
	Delta int             `json:"delta"`
	Folds []sections.Fold `json:"folds"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := sections.MoveSibling(req.Text, req.Line, req.Delta, req.Folds)
	if err != nil {
		s.rewriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": rewriteJSON(res),
		"line":   res.Follow(req.Line),
	})
}

type cutRequest struct {
	Text string `json:"text"`
	Line int    `json:"line"`
}

func (s *Server) handleCut(w http.ResponseWriter, r *http.Request) {
	var req cutRequest
	if !s.decode(w, r, &req) {
		return
	}

	rest, sec, err := sections.Cut(req.Text, req.Line)
	if err != nil {
		s.rewriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"text":    rest,
		"section": sec,
	})
}

type strikeRequest struct {
	Text     string `json:"text"`
	Linewise *bool  `json:"linewise"`
}

func (s *Server) handleStrikethrough(w http.ResponseWriter, r *http.Request) {
	var req strikeRequest
	if !s.decode(w, r, &req) {
		return
	}
	linewise := s.cfg.Strike.Linewise
	if req.Linewise != nil {
		linewise = *req.Linewise
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": actions.Strike(req.Text, linewise)})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"presets": sections.Presets()})
}

// rewriteError maps engine errors to status codes.
func (s *Server) rewriteError(w http.ResponseWriter, err error) {
	switch {
	case sections.IsInternal(err):
		s.log.Error("internal invariant violated", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
	case errors.Is(err, sections.ErrUnknownSort):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sections.ErrNoHeading),
		errors.Is(err, sections.ErrNotEnoughSiblings),
		errors.Is(err, sections.ErrAtBoundary),
		errors.Is(err, sections.ErrFoldStraddlesSiblings),
		errors.Is(err, sections.ErrInvalidFold):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

// decode reads a size-limited JSON body into v, writing the error response
// itself when it fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.API.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
