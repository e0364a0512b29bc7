package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgallion1/headingkit/internal/sections"
)

// Worker processes a single batch job.
type Worker struct {
	log *slog.Logger

	maxConcurrentDocs int
}

func NewWorker(log *slog.Logger, maxConcurrentDocs int) *Worker {
	return &Worker{
		log:               log,
		maxConcurrentDocs: max(1, maxConcurrentDocs),
	}
}

// Process sorts every document of a job. Documents are independent: each is
// handled by one goroutine and shares nothing with the others.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	preset, err := sections.PresetByName(job.Sort, job.Descending)
	if err != nil {
		log.Error("unknown sort", "sort", job.Sort, "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "resolving sort")
		return
	}

	job.SetStatus(StatusSorting, "sorting")
	docs := job.Documents()

	// Identical submissions are sorted once.
	first := make(map[string]int, len(docs))
	hashes := make([]string, len(docs))
	var unique []int
	for i, d := range docs {
		hashes[i] = documentKey(d)
		if _, seen := first[hashes[i]]; !seen {
			first[hashes[i]] = i
			unique = append(unique, i)
		}
	}

	type docResult struct {
		idx int
		res DocumentResult
	}
	results := make(chan docResult, len(unique))
	sem := make(chan struct{}, w.maxConcurrentDocs)

	for _, i := range unique {
		sem <- struct{}{}
		go func(i int, doc Document) {
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				results <- docResult{idx: i, res: DocumentResult{Name: doc.Name, Status: DocFailed, Error: err.Error()}}
				return
			}
			results <- docResult{idx: i, res: sortDocument(doc, preset.Compare)}
		}(i, docs[i])
	}

	byIndex := make(map[int]DocumentResult, len(unique))
	hadErrors, sorted := false, 0
	for range unique {
		r := <-results
		r.res.ContentHash = hashes[r.idx]
		byIndex[r.idx] = r.res
		job.SetResult(r.idx, r.res)

		switch r.res.Status {
		case DocFailed:
			log.Error("sort failed", "document", r.res.Name, "error", r.res.Error)
			job.AddError(fmt.Sprintf("%s: %s", r.res.Name, r.res.Error))
			hadErrors = true
		case DocSorted:
			sorted++
		}
	}

	for i, d := range docs {
		orig := first[hashes[i]]
		if orig == i {
			continue
		}
		dup := byIndex[orig]
		dup.Name, dup.Status, dup.DuplicateOf = d.Name, DocDuplicate, docs[orig].Name
		job.SetResult(i, dup)
	}

	log.Info("batch complete", "documents", len(docs), "sorted", sorted, "errors", hadErrors)

	switch {
	case hadErrors && sorted > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "sorting")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// sortDocument sorts one group when doc.Line is set, otherwise every group.
func sortDocument(doc Document, compare sections.Comparator) DocumentResult {
	out := DocumentResult{Name: doc.Name}

	var text string
	var folds []sections.Fold
	if doc.Line != nil {
		res, err := sections.SortSiblings(doc.Text, *doc.Line, compare, doc.Folds)
		if errors.Is(err, sections.ErrNoHeading) || errors.Is(err, sections.ErrNotEnoughSiblings) {
			out.Status, out.Error = DocSkipped, err.Error()
			return out
		}
		if err != nil {
			out.Status, out.Error = DocFailed, err.Error()
			return out
		}
		text, folds, out.Groups = res.Text, res.Folds, 1
	} else {
		res, err := sections.SortDocument(doc.Text, compare, doc.Folds)
		if err != nil {
			out.Status, out.Error = DocFailed, err.Error()
			return out
		}
		text, folds, out.Groups = res.Text, res.Folds, res.Groups
	}

	out.Text, out.Folds = text, folds
	out.Status = DocSorted
	if text == doc.Text {
		out.Status = DocUnchanged
	}
	return out
}

// documentKey identifies a submission by its content and target line.
func documentKey(d Document) string {
	line := "all"
	if d.Line != nil {
		line = strconv.Itoa(*d.Line)
	}
	data := fmt.Sprintf("%s\x00%v\x00%s", line, d.Folds, d.Text)
	return ContentHashHex([]byte(data))
}
