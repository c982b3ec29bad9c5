package api

import (
	"github.com/JaimeStill/typeset/internal/config"
	"github.com/JaimeStill/typeset/pkg/openapi"
)

// WriteSpec renders the service's OpenAPI document to the given file,
// for generating static API docs without starting the server.
func WriteSpec(cfg *config.Config, path string) error {
	return openapi.WriteJSON(buildSpec(cfg), path)
}

func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Job": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"source_name": {Type: "string", Description: "Staged source file name"},
				"format":      {Type: "string", Example: "pdf"},
				"processor":   {Type: "string", Example: "pdflatex"},
				"status":      {Type: "string", Enum: []any{"completed", "failed"}},
				"page_count":  {Type: "integer", Description: "Page count for PDF outputs"},
				"size_bytes":  {Type: "integer"},
				"storage_key": {Type: "string"},
				"error":       {Type: "string", Description: "Captured toolchain output on failure"},
				"duration_ms": {Type: "integer"},
				"created_at":  {Type: "string", Format: "date-time"},
			},
		},
		"BatchResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"job":         openapi.SchemaRef("Job"),
				"source_name": {Type: "string"},
				"error":       {Type: "string"},
			},
		},
		"JobPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Job")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	})

	spec.Paths["/jobs"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List render jobs",
			Tags:    []string{"jobs"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("search", "string", "Search source names and processors", false),
				openapi.QueryParam("status", "string", "Filter by status", false),
				openapi.QueryParam("format", "string", "Filter by output format", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("A page of render jobs", "JobPage"),
			},
		},
	}

	spec.Paths["/jobs/render"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Render a document",
			Description: "Multipart request: a raw TeX source (source form value) " +
				"or an uploaded source file, optional includes files, format, " +
				"and optional processor / preprocessors overrides.",
			Tags: []string{"jobs"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Render completed", "Job"),
				422: openapi.ResponseJSON("Render failed; job records the toolchain output", "Job"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/jobs/render/batch"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Render multiple documents",
			Tags:    []string{"jobs"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Per-entry outcomes", "BatchResult"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/jobs/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search render jobs",
			Tags:        []string{"jobs"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("A page of render jobs", "JobPage"),
			},
		},
	}

	spec.Paths["/jobs/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a render job",
			Tags:       []string{"jobs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Job identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The render job", "Job"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a render job and its output",
			Tags:       []string{"jobs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Job identifier")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/jobs/{id}/download"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download a job's rendered output",
			Tags:       []string{"jobs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Job identifier")},
			Responses: map[int]*openapi.Response{
				200: {Description: "The rendered document stream"},
				404: openapi.ResponseRef("NotFound"),
				409: {Description: "Job did not complete; no output is stored"},
			},
		},
	}

	return spec
}
