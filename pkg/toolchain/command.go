package toolchain

import (
	"context"
	"log/slog"
	"os/exec"
	"time"
)

// Runner invokes toolchain commands against a staging directory.
type Runner struct {
	cfg    Config
	logger *slog.Logger
}

// NewRunner creates a Runner for the given toolchain configuration.
func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	cfg.Finalize()
	return &Runner{
		cfg:    cfg,
		logger: logger.With("system", "toolchain"),
	}
}

// Run executes one toolchain command with the staging directory as its
// working directory and (defaultArgs..., baseName) as its arguments. The
// call blocks until the subprocess exits; no timeout is imposed beyond
// whatever deadline ctx carries. A non-zero exit yields a *CommandError
// carrying the captured combined output.
func (r *Runner) Run(ctx context.Context, dir, executable, baseName string) error {
	args := r.cfg.Args(executable, baseName)

	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = dir

	start := time.Now()
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &CommandError{
			Executable: executable,
			Output:     string(out),
			Err:        err,
		}
	}

	r.logger.Debug(
		"command complete",
		"executable", executable,
		"args", args,
		"duration", time.Since(start),
	)

	return nil
}
