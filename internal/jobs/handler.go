package jobs

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/typeset/pkg/document"
	"github.com/JaimeStill/typeset/pkg/formatting"
	"github.com/JaimeStill/typeset/pkg/handlers"
	"github.com/JaimeStill/typeset/pkg/pagination"
	"github.com/JaimeStill/typeset/pkg/routes"
	"github.com/JaimeStill/typeset/pkg/typeset"
)

// Handler provides HTTP endpoints for render-job operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "jobs"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for render-job endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/jobs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/download", Handler: h.Download},
			{Method: "POST", Pattern: "/render", Handler: h.Render},
			{Method: "POST", Pattern: "/render/batch", Handler: h.RenderBatch},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of jobs with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single job by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	job, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, job)
}

// Search accepts a JSON body with pagination and filter criteria and returns
// matching jobs.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Render processes a multipart render request. The source is either the
// "source" form value (raw TeX text) or an uploaded "source" file; any
// "includes" files are staged alongside it. Pipeline failures are recorded
// and returned as failed jobs with 422.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: limit %s", ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 0)))
		return
	}

	format := r.FormValue("format")
	if format == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: format required", ErrInvalidRequest))
		return
	}

	dir, err := os.MkdirTemp("", "typeset-upload-*")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	defer os.RemoveAll(dir)

	doc, sourceName, err := h.buildDocument(r, dir)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	cmd := RenderCommand{
		Doc:        doc,
		Format:     format,
		Options:    optionsFromForm(r),
		SourceName: sourceName,
	}

	job, err := h.sys.Render(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if job.Status == StatusFailed {
		handlers.RespondJSON(w, http.StatusUnprocessableEntity, job)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, job)
}

// RenderBatch renders every uploaded "sources" file independently, sharing
// any "includes" files and options across entries.
func (h *Handler) RenderBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: limit %s", ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 0)))
		return
	}

	format := r.FormValue("format")
	if format == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: format required", ErrInvalidRequest))
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["sources"]) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: at least one sources file required", ErrInvalidRequest))
		return
	}

	dir, err := os.MkdirTemp("", "typeset-upload-*")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	defer os.RemoveAll(dir)

	includes, err := h.saveIncludes(r, dir)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	opts := optionsFromForm(r)

	cmds := make([]RenderCommand, 0, len(r.MultipartForm.File["sources"]))
	for _, header := range r.MultipartForm.File["sources"] {
		path, err := saveUpload(header, dir)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		cmds = append(cmds, RenderCommand{
			Doc:        document.FromFile(path, includes...),
			Format:     format,
			Options:    opts,
			SourceName: header.Filename,
		})
	}

	results, err := h.sys.RenderBatch(r.Context(), cmds)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, results)
}

// Download streams the stored output of a completed job.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	job, result, err := h.sys.Download(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	contentType := result.ContentType
	if contentType == "" {
		contentType = ContentTypeFor(job.Format)
	}

	w.Header().Set("Content-Type", contentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(job.StorageKey)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, result.Body)
}

// Delete removes a job and its stored output by UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// buildDocument assembles the request document from the multipart form:
// raw text from the "source" value, or an uploaded "source" file staged
// into dir, plus any "includes" files.
func (h *Handler) buildDocument(r *http.Request, dir string) (document.Document, string, error) {
	includes, err := h.saveIncludes(r, dir)
	if err != nil {
		return document.Document{}, "", err
	}

	if text := r.FormValue("source"); text != "" {
		doc := document.FromText(text, includes...)
		return doc, document.StagedName, nil
	}

	file, header, err := r.FormFile("source")
	if err != nil {
		return document.Document{}, "", document.ErrNoSource
	}
	file.Close()

	path, err := saveUpload(header, dir)
	if err != nil {
		return document.Document{}, "", err
	}

	return document.FromFile(path, includes...), header.Filename, nil
}

func (h *Handler) saveIncludes(r *http.Request, dir string) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var includes []string
	for _, header := range r.MultipartForm.File["includes"] {
		path, err := saveUpload(header, dir)
		if err != nil {
			return nil, err
		}
		includes = append(includes, path)
	}

	return includes, nil
}

func saveUpload(header *multipart.FileHeader, dir string) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer src.Close()

	path := filepath.Join(dir, filepath.Base(header.Filename))
	dest, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("stage upload %s: %w", header.Filename, err)
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		return "", fmt.Errorf("stage upload %s: %w", header.Filename, err)
	}

	return path, dest.Close()
}

func optionsFromForm(r *http.Request) typeset.Options {
	opts := typeset.Options{
		Processor: r.FormValue("processor"),
	}

	if v := r.FormValue("preprocessors"); v != "" {
		names := strings.Split(v, ",")
		opts.Preprocessors = make([]string, 0, len(names))
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				opts.Preprocessors = append(opts.Preprocessors, trimmed)
			}
		}
	}

	return opts
}
