// Package typeset renders TeX documents by staging their sources into an
// ephemeral working directory and delegating to an external toolchain:
// zero or more preprocessors (bibliography tools and the like) followed by
// a single processor that produces the output file.
//
// Usage:
//
//	engine := typeset.New(toolchain.Config{}, logger)
//	pdf, err := engine.Render(ctx, document.FromText(src), "pdf", typeset.Options{})
package typeset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"log/slog"

	"github.com/JaimeStill/typeset/pkg/document"
	"github.com/JaimeStill/typeset/pkg/toolchain"
)

// Options override the configured toolchain for a single render call.
type Options struct {
	// Preprocessors replaces the default preprocessor chain when non-nil.
	// An empty non-nil slice disables preprocessing entirely.
	Preprocessors []string
	// Processor overrides the format's configured processor executable.
	Processor string
}

// Engine is the rendering pipeline. Engines are stateless and safe for
// concurrent use; each render stages into its own temporary directory.
type Engine struct {
	cfg    toolchain.Config
	runner *toolchain.Runner
	logger *slog.Logger
}

// New creates an Engine with the given toolchain configuration.
func New(cfg toolchain.Config, logger *slog.Logger) *Engine {
	cfg.Finalize()
	return &Engine{
		cfg:    cfg,
		runner: toolchain.NewRunner(cfg, logger),
		logger: logger.With("system", "typeset"),
	}
}

// Render produces the document in the given format and returns the output
// bytes. The pipeline is staging → preprocessors (sequential, fail-fast) →
// processor → read output; the first failure at any step aborts the rest.
func (e *Engine) Render(
	ctx context.Context,
	doc document.Document,
	format string,
	opts Options,
) ([]byte, error) {
	processor, err := e.cfg.Resolve(format, opts.Processor)
	if err != nil {
		return nil, err
	}

	dir, err := e.stagingDir()
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	result, err := e.process(ctx, doc, dir, format, processor, opts)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("read generated document %s: %w", result.OutputPath, err)
	}

	return data, nil
}

// RenderToFile renders the document to the destination path, inferring the
// format from the destination's extension. Unsupported extensions fail
// before any staging occurs.
func (e *Engine) RenderToFile(
	ctx context.Context,
	doc document.Document,
	dest string,
	opts Options,
) error {
	format, err := e.cfg.InferFormat(dest)
	if err != nil {
		return err
	}

	processor, err := e.cfg.Resolve(format, opts.Processor)
	if err != nil {
		return err
	}

	dir, err := e.stagingDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	result, err := e.process(ctx, doc, dir, format, processor, opts)
	if err != nil {
		return err
	}

	if err := copyFile(result.OutputPath, dest); err != nil {
		return fmt.Errorf("copy generated document to %s: %w", dest, err)
	}

	return nil
}

// MustRender is the raising counterpart of Render: it panics on error.
func (e *Engine) MustRender(
	ctx context.Context,
	doc document.Document,
	format string,
	opts Options,
) []byte {
	data, err := e.Render(ctx, doc, format, opts)
	if err != nil {
		panic(err)
	}
	return data
}

// MustRenderToFile is the raising counterpart of RenderToFile: it panics
// on error.
func (e *Engine) MustRenderToFile(
	ctx context.Context,
	doc document.Document,
	dest string,
	opts Options,
) {
	if err := e.RenderToFile(ctx, doc, dest, opts); err != nil {
		panic(err)
	}
}

// process runs the staged pipeline inside dir and returns a derived
// document whose OutputPath points at the produced file.
func (e *Engine) process(
	ctx context.Context,
	doc document.Document,
	dir, format, processor string,
	opts Options,
) (document.Document, error) {
	if err := stage(doc, dir); err != nil {
		return document.Document{}, err
	}

	base := doc.BaseName()

	preprocessors := opts.Preprocessors
	if preprocessors == nil {
		preprocessors = e.cfg.Preprocessors
	}

	for _, name := range preprocessors {
		if err := e.runner.Run(ctx, dir, name, base); err != nil {
			return document.Document{}, err
		}
	}

	if err := e.runner.Run(ctx, dir, processor, base); err != nil {
		return document.Document{}, err
	}

	output := filepath.Join(dir, base+"."+format)
	if _, err := os.Stat(output); err != nil {
		return document.Document{}, fmt.Errorf(
			"processor %s did not produce %s: %w",
			processor, output, err,
		)
	}

	e.logger.Debug(
		"document rendered",
		"format", format,
		"processor", processor,
		"output", output,
	)

	return doc.WithOutput(format, output), nil
}

func (e *Engine) stagingDir() (string, error) {
	dir, err := os.MkdirTemp("", "typeset-*")
	if err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}
	return dir, nil
}
