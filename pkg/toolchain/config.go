// Package toolchain manages the external typesetting toolchain: the mapping
// from output formats to processor executables, per-executable default
// arguments, and the invocation of individual toolchain commands.
package toolchain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Config describes the available toolchain. It is an explicit value passed
// into the pipeline at construction time rather than process-wide state, so
// tests can point formats at fake executables.
type Config struct {
	// Processors maps a format token to the executable that produces it.
	Processors map[string]string `toml:"processors"`
	// DefaultArgs maps an executable name to arguments prepended before the
	// staged file's base name on every invocation.
	DefaultArgs map[string][]string `toml:"default_args"`
	// Preprocessors is the default ordered preprocessor chain, run before
	// the processor unless overridden per call.
	Preprocessors []string `toml:"preprocessors"`
}

// Finalize fills in the standard TeX toolchain for any unset fields.
func (c *Config) Finalize() {
	if c.Processors == nil {
		c.Processors = map[string]string{
			"pdf": "pdflatex",
			"dvi": "latex",
		}
	}
	if c.DefaultArgs == nil {
		c.DefaultArgs = map[string][]string{
			"pdflatex": {"-interaction=nonstopmode", "-halt-on-error"},
			"xelatex":  {"-interaction=nonstopmode", "-halt-on-error"},
			"lualatex": {"-interaction=nonstopmode", "-halt-on-error"},
			"latex":    {"-interaction=nonstopmode", "-halt-on-error"},
		}
	}
}

// Merge overwrites fields from overlay when set.
func (c *Config) Merge(overlay *Config) {
	if overlay.Processors != nil {
		c.Processors = overlay.Processors
	}
	if overlay.DefaultArgs != nil {
		c.DefaultArgs = overlay.DefaultArgs
	}
	if overlay.Preprocessors != nil {
		c.Preprocessors = overlay.Preprocessors
	}
}

// Resolve returns the processor executable for a format. A non-empty
// override wins; otherwise the format is looked up in Processors.
func (c *Config) Resolve(format, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if p, ok := c.Processors[format]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNoProcessor, format)
}

// InferFormat derives a format token from a destination path's extension.
// A path with no extension, or with an extension absent from Processors,
// is unsupported.
func (c *Config) InferFormat(path string) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if _, ok := c.Processors[format]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return format, nil
}

// Args returns the full argument list for one invocation of the executable:
// its configured default arguments followed by the staged base name.
func (c *Config) Args(executable, baseName string) []string {
	defaults := c.DefaultArgs[executable]
	args := make([]string, 0, len(defaults)+1)
	args = append(args, defaults...)
	return append(args, baseName)
}
