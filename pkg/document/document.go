// Package document defines the render request value consumed by the
// typesetting pipeline. A Document describes one source (raw TeX text or a
// file path) plus any auxiliary files that must be staged alongside it.
package document

import (
	"path/filepath"
	"strings"
)

// StagedName is the file name given to raw text sources inside the
// staging directory.
const StagedName = "document.tex"

// Document describes a single render request. Source fields are set once by
// the caller; OutputPath is populated on a derived value returned by the
// process step, leaving the original request stable for reuse.
type Document struct {
	// Source holds raw TeX content. Mutually exclusive with SourcePath;
	// if both are set, Source wins.
	Source string `json:"source,omitempty"`
	// SourcePath is a filesystem path to a .tex source file.
	SourcePath string `json:"source_path,omitempty"`
	// Includes are additional file paths staged next to the source,
	// copied in order.
	Includes []string `json:"includes,omitempty"`
	// Format is the target output format token (e.g. "pdf").
	Format string `json:"format,omitempty"`
	// OutputPath points at the produced file once the processor succeeds.
	OutputPath string `json:"output_path,omitempty"`
}

// FromText builds a Document from raw TeX content.
func FromText(source string, includes ...string) Document {
	return Document{
		Source:   source,
		Includes: includes,
	}
}

// FromFile builds a Document from a source file path.
func FromFile(path string, includes ...string) Document {
	return Document{
		SourcePath: path,
		Includes:   includes,
	}
}

// Validate checks that the document carries a source.
func (d Document) Validate() error {
	if d.Source == "" && d.SourcePath == "" {
		return ErrNoSource
	}
	return nil
}

// StagedFile returns the file name the source takes inside the staging
// directory: document.tex for raw text, the original base name otherwise.
func (d Document) StagedFile() string {
	if d.Source != "" {
		return StagedName
	}
	return filepath.Base(d.SourcePath)
}

// BaseName returns the staged file name without its extension. External
// toolchain commands receive it as their final argument, and the processor
// is expected to produce <BaseName>.<format>.
func (d Document) BaseName() string {
	name := d.StagedFile()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// WithOutput returns a copy of the document with Format and OutputPath set.
func (d Document) WithOutput(format, path string) Document {
	d.Format = format
	d.OutputPath = path
	return d
}
