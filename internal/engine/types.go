package engine

import (
	"time"

	"github.com/pathops/pathops/internal/config"
	"github.com/pathops/pathops/internal/host"
	"github.com/pathops/pathops/internal/inkscape"
	"github.com/pathops/pathops/internal/planner"
	"github.com/pathops/pathops/internal/svgdoc"
)

// Request represents a request to apply a path operation to a selection.
type Request struct {
	// Input is the SVG document handed over by Inkscape
	Input string

	// IDs are the selected object ids
	IDs []string

	// Patterns are glob patterns selecting additional ids
	Patterns []string

	// Options shape the run
	Options config.Options
}

// Invocation records one chunk's Inkscape command line and its outcome.
type Invocation struct {
	// Chunk is the chunk this invocation processes
	Chunk planner.Chunk

	// Args are the arguments passed to the Inkscape executable
	Args []string

	// Executed is false for dry runs and for chunks after a failure
	Executed bool

	// ExitCode is the Inkscape exit status (0 if not executed)
	ExitCode int

	// Stderr is the captured diagnostic output
	Stderr string

	// Elapsed is the wall time of the invocation
	Elapsed time.Duration
}

// Result represents the outcome of a run.
type Result struct {
	// Document is the resulting document, or the input document when nothing ran
	Document *svgdoc.Document

	// Operation is the path operation applied
	Operation inkscape.Operation

	// Binary is the Inkscape executable used for invocations
	Binary string

	// Objects is the number of supported objects after flattening
	Objects int

	// Top is the id of the top-most object
	Top string

	// Plan is the chunk plan (nil when there was nothing to do)
	Plan *planner.Plan

	// Invocations has one entry per planned chunk
	Invocations []Invocation

	// NothingToDo is set when fewer than two supported objects were selected
	NothingToDo bool

	// DryRun is set when invocations were only planned
	DryRun bool

	// TopRemoved is set when the top object was deleted after the last chunk
	TopRemoved bool

	// PurgedRefs is the number of dangling selection-set references removed
	PurgedRefs int

	// Elapsed is the total time spent running invocations
	Elapsed time.Duration
}

// Executed returns the number of invocations that ran.
func (r *Result) Executed() int {
	n := 0
	for _, inv := range r.Invocations {
		if inv.Executed {
			n++
		}
	}
	return n
}

// Object describes one supported object for inspection.
type Object struct {
	ID       string    `json:"id"`
	Kind     host.Kind `json:"-"`
	KindName string    `json:"kind"`
	Position int       `json:"position"`
}

// InspectResult lists the objects a run would operate on.
type InspectResult struct {
	// Objects are ordered top-most first
	Objects []Object `json:"objects"`

	// Chunks is the number of invocations a run would need
	Chunks int `json:"chunks"`

	// MaxOps is the operand bound used to count chunks
	MaxOps int `json:"maxOps"`

	// SelectionSets is true when the document would be refused
	SelectionSets bool `json:"selectionSets"`
}
