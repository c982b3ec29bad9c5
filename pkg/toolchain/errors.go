package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoProcessor indicates no processor executable is configured for
	// the requested format.
	ErrNoProcessor = errors.New("no processor for format")
	// ErrUnsupportedFormat indicates a destination path's extension does
	// not map to a configured format.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// CommandError reports a toolchain command that exited non-zero. Output
// carries the command's combined stdout and stderr verbatim.
type CommandError struct {
	Executable string
	Output     string
	Err        error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Executable, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
