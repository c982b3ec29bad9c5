// Package jobs implements the render-job domain for the typeset service.
// A job records one render request: its source, the toolchain invocation,
// and either the stored output or the failure text.
package jobs

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/typeset/pkg/document"
	"github.com/JaimeStill/typeset/pkg/typeset"
)

// Job statuses. A job is recorded after its pipeline run finishes, so the
// only states are terminal.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Job represents one completed or failed render request.
type Job struct {
	ID         uuid.UUID `json:"id"`
	SourceName string    `json:"source_name"`
	Format     string    `json:"format"`
	Processor  string    `json:"processor"`
	Status     string    `json:"status"`
	PageCount  *int      `json:"page_count"`
	SizeBytes  int64     `json:"size_bytes"`
	StorageKey string    `json:"storage_key,omitempty"`
	Error      *string   `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// RenderCommand carries one render request into the jobs system. Doc holds
// the staged source; SourceName is the caller-facing name recorded on the
// job (the uploaded file name, or document.tex for raw text).
type RenderCommand struct {
	Doc        document.Document
	Format     string
	Options    typeset.Options
	SourceName string
}

// BatchResult reports the outcome of a single entry within a batch render.
// Failures during rendering still produce a Job (with StatusFailed); Error
// is only set when the job itself could not be recorded.
type BatchResult struct {
	Job        *Job   `json:"job,omitempty"`
	SourceName string `json:"source_name"`
	Error      string `json:"error,omitempty"`
}
