package jobs

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/typeset/pkg/document"
	"github.com/JaimeStill/typeset/pkg/toolchain"
)

// Domain errors for render-job operations.
var (
	ErrNotFound       = errors.New("render job not found")
	ErrDuplicate      = errors.New("render job already exists")
	ErrInvalidRequest = errors.New("invalid render request")
	ErrNoOutput       = errors.New("render job has no stored output")
	ErrFileTooLarge   = errors.New("source exceeds maximum upload size")
)

// MapHTTPStatus maps job domain and pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoOutput) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, document.ErrNoSource) ||
		errors.Is(err, toolchain.ErrNoProcessor) ||
		errors.Is(err, toolchain.ErrUnsupportedFormat) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
