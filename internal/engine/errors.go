package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation indicates invalid options or input.
	ErrValidation = errors.New("validation failed")

	// ErrSelectionSets indicates the document uses Inkscape selection sets.
	ErrSelectionSets = errors.New("document uses selection sets")

	// ErrChunkFailed indicates an Inkscape invocation exited with a non-zero status.
	ErrChunkFailed = errors.New("chunk invocation failed")

	// ErrHost indicates the document or the Inkscape executable could not be used.
	ErrHost = errors.New("host unavailable")
)

// ChunkError describes a failed chunk invocation.
type ChunkError struct {
	// Index is the 1-based chunk index
	Index int

	// Total is the number of chunks in the plan
	Total int

	// ExitCode is the Inkscape exit status
	ExitCode int

	// Stderr is the diagnostic output captured from Inkscape
	Stderr string
}

func (e *ChunkError) Error() string {
	msg := fmt.Sprintf("chunk %d of %d failed with exit code %d", e.Index, e.Total, e.ExitCode)
	if diag := strings.TrimSpace(e.Stderr); diag != "" {
		msg += ": " + diag
	}
	return msg
}

// Unwrap lets errors.Is match ErrChunkFailed.
func (e *ChunkError) Unwrap() error {
	return ErrChunkFailed
}
