package document

import "errors"

// ErrNoSource indicates a document carries neither raw source text nor a
// source file path.
var ErrNoSource = errors.New("no source or source_path provided")
