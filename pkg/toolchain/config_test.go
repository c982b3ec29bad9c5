package toolchain_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/JaimeStill/typeset/pkg/toolchain"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := toolchain.Config{}
	cfg.Finalize()

	if got := cfg.Processors["pdf"]; got != "pdflatex" {
		t.Errorf("pdf processor = %q, want pdflatex", got)
	}
	if got := cfg.Processors["dvi"]; got != "latex" {
		t.Errorf("dvi processor = %q, want latex", got)
	}
	want := []string{"-interaction=nonstopmode", "-halt-on-error"}
	for _, exe := range []string{"pdflatex", "xelatex", "lualatex", "latex"} {
		if !slices.Equal(cfg.DefaultArgs[exe], want) {
			t.Errorf("DefaultArgs[%s] = %v, want %v", exe, cfg.DefaultArgs[exe], want)
		}
	}
}

func TestFinalizePreservesConfigured(t *testing.T) {
	cfg := toolchain.Config{
		Processors: map[string]string{"pdf": "xelatex"},
	}
	cfg.Finalize()

	if got := cfg.Processors["pdf"]; got != "xelatex" {
		t.Errorf("pdf processor = %q, want configured xelatex", got)
	}
	if _, ok := cfg.Processors["dvi"]; ok {
		t.Error("configured Processors map should not gain default entries")
	}
}

func TestResolve(t *testing.T) {
	cfg := toolchain.Config{}
	cfg.Finalize()

	tests := []struct {
		name     string
		format   string
		override string
		want     string
		wantErr  error
	}{
		{"pdf default", "pdf", "", "pdflatex", nil},
		{"dvi default", "dvi", "", "latex", nil},
		{"override wins", "pdf", "lualatex", "lualatex", nil},
		{"override for unknown format", "svg", "dvisvgm", "dvisvgm", nil},
		{"unknown format", "svg", "", "", toolchain.ErrNoProcessor},
		{"empty format", "", "", "", toolchain.ErrNoProcessor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.Resolve(tt.format, tt.override)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInferFormat(t *testing.T) {
	cfg := toolchain.Config{}
	cfg.Finalize()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"pdf", "out/report.pdf", "pdf", nil},
		{"dvi", "report.dvi", "dvi", nil},
		{"uppercase extension", "REPORT.PDF", "pdf", nil},
		{"no extension", "report", "", toolchain.ErrUnsupportedFormat},
		{"unknown extension", "report.svg", "", toolchain.ErrUnsupportedFormat},
		{"trailing dot", "report.", "", toolchain.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.InferFormat(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("InferFormat(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("InferFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestArgs(t *testing.T) {
	cfg := toolchain.Config{}
	cfg.Finalize()

	tests := []struct {
		name       string
		executable string
		base       string
		want       []string
	}{
		{"tex processor", "pdflatex", "report", []string{"-interaction=nonstopmode", "-halt-on-error", "report"}},
		{"unknown executable", "bibtex", "report", []string{"report"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Args(tt.executable, tt.base); !slices.Equal(got, tt.want) {
				t.Errorf("Args(%s) = %v, want %v", tt.executable, got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	cfg := toolchain.Config{}
	cfg.Finalize()

	cfg.Merge(&toolchain.Config{
		Processors:    map[string]string{"pdf": "lualatex"},
		Preprocessors: []string{"bibtex"},
	})

	if got := cfg.Processors["pdf"]; got != "lualatex" {
		t.Errorf("merged pdf processor = %q, want lualatex", got)
	}
	if len(cfg.Preprocessors) != 1 || cfg.Preprocessors[0] != "bibtex" {
		t.Errorf("merged Preprocessors = %v, want [bibtex]", cfg.Preprocessors)
	}
	if cfg.DefaultArgs == nil {
		t.Error("nil overlay field should not clear DefaultArgs")
	}
}
