package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pathops/pathops/internal/clock"
	"github.com/pathops/pathops/internal/config"
	"github.com/pathops/pathops/internal/inkscape"
	"github.com/pathops/pathops/internal/planner"
	"github.com/pathops/pathops/internal/svgdoc"
)

// minObjects is the smallest selection a path operation can combine.
const minObjects = 2

// Run applies the configured path operation to the selection.
//
// Algorithm steps:
// 1. Validate options, load the document, resolve the selection
// 2. Refuse documents with selection sets
// 3. Flatten and Z-sort the selection (fewer than 2 objects: nothing to do)
// 4. Plan chunks
// 5. Dry run: record every chunk's command line and return
// 6. Normalise strokes for cut-path, write the working copy
// 7. Run one invocation per chunk, stopping at the first failure
// 8. Reload the working copy, drop the top object unless kept, purge stale refs
//
// On a chunk failure the returned Result holds the document as left by the last
// successful chunk, and the error is a *ChunkError.
func (e *Engine) Run(ctx context.Context, req *Request) (*Result, error) {
	defer e.progress.Stop()

	opts := req.Options
	op, dialect, err := opts.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	doc, err := loadSelection(req)
	if err != nil {
		return nil, err
	}
	if doc.HasSelectionSets() {
		return nil, ErrSelectionSets
	}

	ordered := orderedObjects(doc, opts.Recursive)
	result := &Result{
		Document:  doc,
		Operation: op,
		Binary:    opts.Binary,
		Objects:   len(ordered),
		DryRun:    opts.DryRun,
	}
	if len(ordered) < minObjects {
		result.NothingToDo = true
		return result, nil
	}

	plan, err := planner.Build(ordered, opts.EffectiveMaxOps())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	result.Plan = plan
	result.Top = plan.Top

	workPath := config.WorkingCopyPath(req.Input)
	for _, chunk := range plan.Chunks {
		result.Invocations = append(result.Invocations, Invocation{
			Chunk: chunk,
			Args:  inkscape.BuildArgs(dialect, op, workPath, chunk),
		})
	}

	if opts.DryRun {
		return result, nil
	}

	if op == inkscape.OpCutPath {
		for _, id := range ordered {
			if err := doc.NormalizeStroke(id, opts.DefaultStroke, opts.DefaultStrokeWidth); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrValidation, err)
			}
		}
	}

	if err := e.writeWorkingCopy(doc, workPath); err != nil {
		return nil, err
	}
	defer func() {
		_ = e.fs.Remove(workPath)
	}()

	driveErr := e.drive(ctx, result)

	final, err := svgdoc.Load(workPath)
	if err != nil {
		return result, errors.Join(driveErr, fmt.Errorf("%w: failed to reload working copy: %v", ErrHost, err))
	}
	result.Document = final
	if driveErr != nil {
		return result, driveErr
	}

	if !opts.KeepTop && final.Has(plan.Top) {
		if err := final.Remove(plan.Top); err != nil {
			return result, fmt.Errorf("failed to remove top object %s: %w", plan.Top, err)
		}
		result.TopRemoved = true
	}
	result.PurgedRefs = final.PurgeSelectionSets()

	return result, nil
}

func (e *Engine) writeWorkingCopy(doc *svgdoc.Document, path string) error {
	data, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("failed to serialise document: %w", err)
	}
	if err := e.fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write working copy: %v", ErrHost, err)
	}
	return nil
}

// drive runs the planned invocations one after another. Each chunk operates on
// the document saved by the previous one, so nothing runs concurrently and the
// first failure stops the run.
func (e *Engine) drive(ctx context.Context, result *Result) error {
	defer e.progress.Stop()

	total := len(result.Invocations)
	start := e.clock.Now()
	defer func() {
		result.Elapsed = clock.Since(e.clock, start)
	}()

	for i := range result.Invocations {
		inv := &result.Invocations[i]
		e.progress.Update(fmt.Sprintf("Processing chunk %d/%d (%d objects)", inv.Chunk.Index, total, inv.Chunk.Len()))

		began := e.clock.Now()
		res, err := e.runner.Run(ctx, result.Binary, inv.Args)
		if err != nil {
			return fmt.Errorf("%w: chunk %d: %v", ErrHost, inv.Chunk.Index, err)
		}

		inv.Executed = true
		inv.ExitCode = res.ExitCode
		inv.Stderr = string(res.Stderr)
		inv.Elapsed = clock.Since(e.clock, began)

		if !res.Success() {
			return &ChunkError{
				Index:    inv.Chunk.Index,
				Total:    total,
				ExitCode: res.ExitCode,
				Stderr:   inv.Stderr,
			}
		}
	}
	return nil
}

// AverageElapsed returns the mean duration of executed invocations.
func (r *Result) AverageElapsed() time.Duration {
	n := r.Executed()
	if n == 0 {
		return 0
	}
	var sum time.Duration
	for _, inv := range r.Invocations {
		sum += inv.Elapsed
	}
	return sum / time.Duration(n)
}
