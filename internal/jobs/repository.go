package jobs

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/typeset/pkg/pagination"
	"github.com/JaimeStill/typeset/pkg/query"
	"github.com/JaimeStill/typeset/pkg/repository"
	"github.com/JaimeStill/typeset/pkg/storage"
	"github.com/JaimeStill/typeset/pkg/toolchain"
	"github.com/JaimeStill/typeset/pkg/typeset"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	engine     *typeset.Engine
	toolchain  toolchain.Config
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a render-job repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	engine *typeset.Engine,
	tc toolchain.Config,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	tc.Finalize()
	return &repo{
		db:         db,
		storage:    store,
		engine:     engine,
		toolchain:  tc,
		logger:     logger.With("system", "jobs"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Job], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SourceName", "Processor")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count render jobs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanJob)
	if err != nil {
		return nil, fmt.Errorf("query render jobs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Job, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	j, err := repository.QueryOne(ctx, r.db, q, args, scanJob)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &j, nil
}

// Render runs the typesetting pipeline for one request and records the
// outcome. Pipeline failures are persisted as failed jobs rather than
// returned as errors; the returned Job's Status and Error carry the result.
// Only configuration errors (unresolvable processor) and persistence
// failures surface as errors.
func (r *repo) Render(ctx context.Context, cmd RenderCommand) (*Job, error) {
	processor, err := r.toolchain.Resolve(cmd.Format, cmd.Options.Processor)
	if err != nil {
		return nil, err
	}

	job := Job{
		ID:         uuid.New(),
		SourceName: cmd.SourceName,
		Format:     cmd.Format,
		Processor:  processor,
	}

	start := time.Now()
	data, renderErr := r.engine.Render(ctx, cmd.Doc, cmd.Format, cmd.Options)
	job.DurationMS = time.Since(start).Milliseconds()

	if renderErr != nil {
		msg := renderErr.Error()
		job.Status = StatusFailed
		job.Error = &msg

		recorded, err := r.insert(ctx, job)
		if err != nil {
			return nil, err
		}

		r.logger.Warn(
			"render failed",
			"id", recorded.ID,
			"source", cmd.SourceName,
			"format", cmd.Format,
		)
		return recorded, nil
	}

	job.Status = StatusCompleted
	job.SizeBytes = int64(len(data))
	job.StorageKey = buildStorageKey(job.ID, cmd.SourceName, cmd.Format)
	job.PageCount = extractPageCount(r.logger, data, cmd.Format)

	if err := r.storage.Upload(
		ctx,
		job.StorageKey,
		bytes.NewReader(data),
		ContentTypeFor(cmd.Format),
	); err != nil {
		return nil, fmt.Errorf("upload rendered output: %w", err)
	}

	recorded, err := r.insert(ctx, job)
	if err != nil {
		if delErr := r.storage.Delete(ctx, job.StorageKey); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", job.StorageKey, "error", delErr)
		}
		return nil, err
	}

	r.logger.Info(
		"render complete",
		"id", recorded.ID,
		"source", cmd.SourceName,
		"format", cmd.Format,
		"bytes", recorded.SizeBytes,
		"duration_ms", recorded.DurationMS,
	)
	return recorded, nil
}

// RenderBatch renders multiple independent requests concurrently. Each
// entry stages into its own temporary directory, so entries share no
// mutable state; one entry's failure never aborts its siblings.
func (r *repo) RenderBatch(ctx context.Context, cmds []RenderCommand) ([]BatchResult, error) {
	results := make([]BatchResult, len(cmds))

	var g errgroup.Group
	g.SetLimit(max(runtime.NumCPU(), 1))

	for i, cmd := range cmds {
		g.Go(func() error {
			job, err := r.Render(ctx, cmd)
			result := BatchResult{SourceName: cmd.SourceName}
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Job = job
			}
			results[i] = result
			return nil
		})
	}

	g.Wait()
	return results, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*Job, *storage.DownloadResult, error) {
	job, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if job.Status != StatusCompleted || job.StorageKey == "" {
		return nil, nil, ErrNoOutput
	}

	result, err := r.storage.Download(ctx, job.StorageKey)
	if err != nil {
		return nil, nil, err
	}

	return job, result, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	job, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM render_jobs WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if job.StorageKey != "" {
		if delErr := r.storage.Delete(ctx, job.StorageKey); delErr != nil {
			r.logger.Warn(
				"blob delete failed after DB delete",
				"key", job.StorageKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("render job deleted", "id", id)
	return nil
}

func (r *repo) insert(ctx context.Context, job Job) (*Job, error) {
	q := `
		INSERT INTO render_jobs(id, source_name, format, processor, status, page_count, size_bytes, storage_key, error, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, source_name, format, processor, status, page_count, size_bytes, storage_key, error, duration_ms, created_at`

	args := []any{
		job.ID,
		job.SourceName,
		job.Format,
		job.Processor,
		job.Status,
		job.PageCount,
		job.SizeBytes,
		job.StorageKey,
		job.Error,
		job.DurationMS,
	}

	j, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Job, error) {
		return repository.QueryOne(ctx, tx, q, args, scanJob)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &j, nil
}

// ContentTypeFor returns the MIME type recorded for a rendered format.
func ContentTypeFor(format string) string {
	switch format {
	case "pdf":
		return "application/pdf"
	case "dvi":
		return "application/x-dvi"
	default:
		return "application/octet-stream"
	}
}

func buildStorageKey(id uuid.UUID, sourceName, format string) string {
	base := filepath.Base(sourceName)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	if base == "." || base == "" {
		base = "document"
	}
	return fmt.Sprintf("renders/%s/%s.%s", id, url.PathEscape(base), format)
}

func extractPageCount(logger *slog.Logger, data []byte, format string) *int {
	if format != "pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}
