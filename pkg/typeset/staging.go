package typeset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JaimeStill/typeset/pkg/document"
)

// stage populates the staging directory with the document's source and
// includes. Raw text is written as document.tex; a source path is copied
// retaining its base name. Includes are copied in list order and the first
// failure aborts the remainder.
func stage(doc document.Document, dir string) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	target := filepath.Join(dir, doc.StagedFile())

	if doc.Source != "" {
		if err := os.WriteFile(target, []byte(doc.Source), 0644); err != nil {
			return fmt.Errorf("write source: %w", err)
		}
	} else {
		if err := copyFile(doc.SourcePath, target); err != nil {
			return fmt.Errorf("copy source %s: %w", doc.SourcePath, err)
		}
	}

	for _, include := range doc.Includes {
		dest := filepath.Join(dir, filepath.Base(include))
		if err := copyFile(include, dest); err != nil {
			return fmt.Errorf("copy include %s: %w", include, err)
		}
	}

	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
