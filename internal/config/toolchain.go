package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/typeset/pkg/toolchain"
)

const (
	EnvToolchainProcessorPDF   = "TYPESET_TOOLCHAIN_PDF_PROCESSOR"
	EnvToolchainProcessorDVI   = "TYPESET_TOOLCHAIN_DVI_PROCESSOR"
	EnvToolchainPreprocessors  = "TYPESET_TOOLCHAIN_PREPROCESSORS"
)

// ToolchainConfig wraps toolchain.Config with environment overrides.
type ToolchainConfig struct {
	toolchain.Config
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ToolchainConfig) Finalize() error {
	c.Config.Finalize()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites set fields from overlay.
func (c *ToolchainConfig) Merge(overlay *ToolchainConfig) {
	c.Config.Merge(&overlay.Config)
}

func (c *ToolchainConfig) loadEnv() {
	if v := os.Getenv(EnvToolchainProcessorPDF); v != "" {
		c.Processors["pdf"] = v
	}
	if v := os.Getenv(EnvToolchainProcessorDVI); v != "" {
		c.Processors["dvi"] = v
	}
	if v := os.Getenv(EnvToolchainPreprocessors); v != "" {
		names := strings.Split(v, ",")
		c.Preprocessors = make([]string, 0, len(names))
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				c.Preprocessors = append(c.Preprocessors, trimmed)
			}
		}
	}
}

func (c *ToolchainConfig) validate() error {
	for format, executable := range c.Processors {
		if executable == "" {
			return fmt.Errorf("empty processor for format %q", format)
		}
	}
	return nil
}
