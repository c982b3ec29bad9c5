package jobs

import (
	"net/url"

	"github.com/JaimeStill/typeset/pkg/query"
	"github.com/JaimeStill/typeset/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "render_jobs", "j").
	Project("id", "ID").
	Project("source_name", "SourceName").
	Project("format", "Format").
	Project("processor", "Processor").
	Project("status", "Status").
	Project("page_count", "PageCount").
	Project("size_bytes", "SizeBytes").
	Project("storage_key", "StorageKey").
	Project("error", "Error").
	Project("duration_ms", "DurationMS").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for job queries. Nil fields
// are ignored. Status, Format, and Processor use exact matching; SourceName
// uses case-insensitive contains matching.
type Filters struct {
	Status     *string `json:"status,omitempty"`
	Format     *string `json:"format,omitempty"`
	Processor  *string `json:"processor,omitempty"`
	SourceName *string `json:"source_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Format", f.Format).
		WhereEquals("Processor", f.Processor).
		WhereContains("SourceName", f.SourceName)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fm := values.Get("format"); fm != "" {
		f.Format = &fm
	}

	if p := values.Get("processor"); p != "" {
		f.Processor = &p
	}

	if sn := values.Get("source_name"); sn != "" {
		f.SourceName = &sn
	}

	return f
}

func scanJob(s repository.Scanner) (Job, error) {
	var j Job
	err := s.Scan(
		&j.ID,
		&j.SourceName,
		&j.Format,
		&j.Processor,
		&j.Status,
		&j.PageCount,
		&j.SizeBytes,
		&j.StorageKey,
		&j.Error,
		&j.DurationMS,
		&j.CreatedAt,
	)
	return j, err
}
