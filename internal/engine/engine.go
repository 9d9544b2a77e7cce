// Package engine runs the pathops pipeline.
//
// The engine is the orchestration layer between the CLI and the lower-level
// packages. A run flows in one direction without feedback:
//   - svgdoc loads the document and resolves the selection
//   - selection flattens groups into supported objects
//   - zorder sorts them top-most first
//   - planner splits them into bounded chunks
//   - the driver runs one Inkscape invocation per chunk, strictly in order
package engine

import (
	"fmt"
	"slices"

	"github.com/pathops/pathops/internal/clock"
	"github.com/pathops/pathops/internal/fsops"
	"github.com/pathops/pathops/internal/inkscape"
	"github.com/pathops/pathops/internal/progress"
	"github.com/pathops/pathops/internal/selection"
	"github.com/pathops/pathops/internal/svgdoc"
	"github.com/pathops/pathops/internal/zorder"
)

// Engine orchestrates pathops runs.
// It is the main API surface called by the CLI.
type Engine struct {
	runner   inkscape.Runner
	fs       fsops.FS
	clock    clock.Clock
	progress progress.Reporter
}

// New creates a new Engine with the given dependencies.
func New(runner inkscape.Runner, fs fsops.FS, clk clock.Clock) *Engine {
	return &Engine{
		runner:   runner,
		fs:       fs,
		clock:    clk,
		progress: progress.Nop{},
	}
}

// SetProgress sets the reporter that receives per-chunk progress.
func (e *Engine) SetProgress(r progress.Reporter) {
	if r == nil {
		r = progress.Nop{}
	}
	e.progress = r
}

// loadSelection loads the document and applies the requested selection.
func loadSelection(req *Request) (*svgdoc.Document, error) {
	if req.Input == "" {
		return nil, fmt.Errorf("%w: no input document", ErrValidation)
	}

	doc, err := svgdoc.Load(req.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHost, err)
	}

	doc.Select(req.IDs...)
	if len(req.Patterns) > 0 {
		if err := doc.SelectMatching(req.Patterns...); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return doc, nil
}

// orderedObjects flattens the selection and sorts it top-most first.
func orderedObjects(doc *svgdoc.Document, recursive bool) []string {
	ids := selection.Flatten(doc, selection.Depth(recursive))
	return slices.Collect(zorder.Sort(doc, ids))
}
