package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JaimeStill/typeset/pkg/document"
	"github.com/JaimeStill/typeset/pkg/toolchain"
	"github.com/JaimeStill/typeset/pkg/typeset"
)

type includeList []string

func (l *includeList) String() string {
	return strings.Join(*l, ",")
}

func (l *includeList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	var includes includeList
	var (
		out        = flag.String("out", "", "Destination file (format inferred from extension)")
		format     = flag.String("format", "pdf", "Output format when writing to stdout")
		processor  = flag.String("processor", "", "Override the configured processor executable")
		preprocess = flag.String("preprocess", "", "Comma-separated preprocessor executables")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Var(&includes, "include", "Supporting file to stage alongside the source (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: typeset [flags] <source.tex | ->")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := toolchain.Config{}
	cfg.Finalize()

	engine := typeset.New(cfg, logger)

	doc, err := buildDocument(flag.Arg(0), includes)
	if err != nil {
		log.Fatalf("invalid source: %v", err)
	}

	opts := typeset.Options{Processor: *processor}
	if *preprocess != "" {
		opts.Preprocessors = strings.Split(*preprocess, ",")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *out != "" {
		if err := engine.RenderToFile(ctx, doc, *out, opts); err != nil {
			log.Fatalf("render failed: %v", err)
		}
		logger.Info("document rendered", "dest", *out)
		return
	}

	data, err := engine.Render(ctx, doc, *format, opts)
	if err != nil {
		log.Fatalf("render failed: %v", err)
	}

	if _, err := os.Stdout.Write(data); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

func buildDocument(source string, includes []string) (document.Document, error) {
	if source == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return document.Document{}, fmt.Errorf("read stdin: %w", err)
		}
		return document.FromText(string(data), includes...), nil
	}
	return document.FromFile(source, includes...), nil
}
