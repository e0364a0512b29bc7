package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/headingkit/internal/sections"
)

// JobStatus represents the state of a batch sort job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusSorting   JobStatus = "sorting"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// DocStatus is the outcome for one document of a batch.
type DocStatus string

const (
	DocSorted     DocStatus = "sorted"
	DocUnchanged  DocStatus = "unchanged"
	DocSkipped    DocStatus = "skipped" // Nothing to sort
	DocDuplicate  DocStatus = "duplicate"
	DocFailed     DocStatus = "failed"
	docInProgress DocStatus = ""
)

// Document is one markdown document submitted for sorting.
type Document struct {
	Name string `json:"name"`
	Text string `json:"text"`

	// Line selects the sibling group of the heading at that line. When nil,
	// every sibling group of the document is sorted.
	Line  *int            `json:"line,omitempty"`
	Folds []sections.Fold `json:"folds,omitempty"`
}

// DocumentResult is the outcome for one document.
type DocumentResult struct {
	Name        string          `json:"name"`
	Status      DocStatus       `json:"status"`
	Text        string          `json:"text,omitempty"`
	Folds       []sections.Fold `json:"folds,omitempty"`
	Groups      int             `json:"groups"`
	ContentHash string          `json:"content_hash"`
	DuplicateOf string          `json:"duplicate_of,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// Job tracks the state of a single batch.
type Job struct {
	mu sync.Mutex

	ID         string    `json:"job_id"`
	Sort       string    `json:"sort"`
	Descending bool      `json:"descending"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	docs    []Document
	results []DocumentResult
	errors  []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalDocuments     int      `json:"total_documents"`
	DocumentsProcessed int      `json:"documents_processed"`
	Sorted             int      `json:"sorted"`
	Failed             int      `json:"failed"`
	Errors             []string `json:"errors"`
}

// NewJob creates a queued job for docs.
func NewJob(sort string, descending bool, docs []Document) *Job {
	now := time.Now()
	return &Job{
		ID:         uuid.NewString(),
		Sort:       sort,
		Descending: descending,
		Status:     StatusQueued,
		Phase:      "queued",
		Progress:   Progress{TotalDocuments: len(docs)},
		CreatedAt:  now,
		UpdatedAt:  now,
		docs:       docs,
		results:    make([]DocumentResult, len(docs)),
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of stored jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes jobs not updated within the TTL and returns how many
// were removed.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for id, job := range s.jobs {
		job.mu.Lock()
		stale := job.UpdatedAt.Before(cutoff)
		job.mu.Unlock()
		if stale {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult records the outcome of document i.
func (j *Job) SetResult(i int, r DocumentResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results[i] = r
	j.Progress.DocumentsProcessed++
	switch r.Status {
	case DocSorted:
		j.Progress.Sorted++
	case DocFailed:
		j.Progress.Failed++
	}
	j.UpdatedAt = time.Now()
}

// Documents returns the submitted documents.
func (j *Job) Documents() []Document {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.docs
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string           `json:"job_id"`
	Sort       string           `json:"sort"`
	Descending bool             `json:"descending"`
	Status     JobStatus        `json:"status"`
	Phase      string           `json:"phase"`
	Progress   Progress         `json:"progress"`
	Results    []DocumentResult `json:"results"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state. Results of documents
// still being processed are left out.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	results := make([]DocumentResult, 0, len(j.results))
	for _, r := range j.results {
		if r.Status != docInProgress {
			results = append(results, r)
		}
	}
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:         j.ID,
		Sort:       j.Sort,
		Descending: j.Descending,
		Status:     j.Status,
		Phase:      j.Phase,
		Progress:   p,
		Results:    results,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
