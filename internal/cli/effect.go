package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pathops/pathops/internal/engine"
	"github.com/pathops/pathops/internal/progress"
)

// newProgress is replaced in tests so no spinner draws over captured output.
var newProgress = progress.ForStderr

// runReport is the JSON form of a run, written to stderr.
type runReport struct {
	Operation   string        `json:"operation"`
	Objects     int           `json:"objects"`
	Top         string        `json:"top,omitempty"`
	DryRun      bool          `json:"dryRun"`
	NothingToDo bool          `json:"nothingToDo"`
	TopRemoved  bool          `json:"topRemoved"`
	PurgedRefs  int           `json:"purgedRefs"`
	Chunks      []chunkReport `json:"chunks"`
	ElapsedMS   int64         `json:"elapsedMs"`
	Error       string        `json:"error,omitempty"`
	Failed      *failedChunk  `json:"failedChunk,omitempty"`
}

type failedChunk struct {
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	ExitCode int    `json:"exitCode"`
	Stderr   string `json:"stderr"`
}

type chunkReport struct {
	Index    int      `json:"index"`
	Size     int      `json:"size"`
	Args     []string `json:"args"`
	Executed bool     `json:"executed"`
	ExitCode int      `json:"exitCode"`
}

// request builds an engine request from the parsed flags.
func request(input string) *engine.Request {
	return &engine.Request{
		Input:    input,
		IDs:      selectIDs,
		Patterns: selectGlobs,
		Options:  opts,
	}
}

// runEffect applies the path operation and writes the resulting document to stdout.
func runEffect(cmd *cobra.Command, args []string) error {
	input := args[0]
	req := request(input)

	eng := newEngine()
	if !opts.DryRun {
		eng.SetProgress(newProgress())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := eng.Run(ctx, req)
	if writeErr := writeDocument(cmd.OutOrStdout(), input, result); writeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to write document: %w", writeErr))
	}

	if jsonOutput {
		if jerr := outputJSON(msgOut, buildRunReport(result, err)); jerr != nil {
			return jerr
		}
		return err
	}

	printRunReport(result, err)
	return err
}

// writeDocument writes the run's document, or the untouched input when the run
// produced none, so Inkscape always reads back a valid SVG.
func writeDocument(w io.Writer, input string, result *engine.Result) error {
	if result != nil && result.Document != nil {
		_, err := result.Document.WriteTo(w)
		return err
	}
	data, err := fileSystem.ReadFile(input)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func buildRunReport(result *engine.Result, err error) runReport {
	report := runReport{Chunks: []chunkReport{}}
	if err != nil {
		report.Error = err.Error()
		var chunkErr *engine.ChunkError
		if errors.As(err, &chunkErr) {
			report.Failed = &failedChunk{
				Index:    chunkErr.Index,
				Total:    chunkErr.Total,
				ExitCode: chunkErr.ExitCode,
				Stderr:   chunkErr.Stderr,
			}
		}
	}
	if result == nil {
		return report
	}

	report.Operation = string(result.Operation)
	report.Objects = result.Objects
	report.Top = result.Top
	report.DryRun = result.DryRun
	report.NothingToDo = result.NothingToDo
	report.TopRemoved = result.TopRemoved
	report.PurgedRefs = result.PurgedRefs
	report.ElapsedMS = result.Elapsed.Milliseconds()
	for _, inv := range result.Invocations {
		report.Chunks = append(report.Chunks, chunkReport{
			Index:    inv.Chunk.Index,
			Size:     inv.Chunk.Len(),
			Args:     inv.Args,
			Executed: inv.Executed,
			ExitCode: inv.ExitCode,
		})
	}
	return report
}

func printRunReport(result *engine.Result, err error) {
	switch {
	case result == nil:
		// Nothing ran; the caller prints the error.
	case result.NothingToDo:
		PrintWarning(fmt.Sprintf("Nothing to do: %s selected, at least 2 paths, shapes or texts are needed",
			PrintCount(result.Objects, "supported object", "supported objects")))
	case result.DryRun:
		printDryRun(result)
	default:
		printExecuted(result, err)
	}
}

func printDryRun(result *engine.Result) {
	PrintSection("Dry Run")
	PrintLabelValue("Operation", string(result.Operation))
	PrintLabelValue("Top object", result.Top)
	PrintLabelValue("Objects", fmt.Sprintf("%d", result.Objects))
	PrintLabelValue("Chunks", fmt.Sprintf("%d", len(result.Invocations)))
	PrintInfo("")

	for _, inv := range result.Invocations {
		PrintSubsection(fmt.Sprintf("Chunk %d: %s", inv.Chunk.Index,
			PrintCount(inv.Chunk.Len(), "operand", "operands")))
		PrintInfo(fmt.Sprintf("    %s %s", result.Binary, strings.Join(inv.Args, " ")))
	}
	PrintInfo("")
	PrintInfo("No changes made (dry run)")
}

func printExecuted(result *engine.Result, err error) {
	var chunkErr *engine.ChunkError
	if errors.As(err, &chunkErr) {
		PrintError(fmt.Sprintf("Chunk %d of %d failed (exit code %d)", chunkErr.Index, chunkErr.Total, chunkErr.ExitCode))
		if diag := strings.TrimSpace(chunkErr.Stderr); diag != "" {
			PrintList(strings.Split(diag, "\n"), 1)
		}
		PrintInfo(fmt.Sprintf("The document reflects the %s completed before the failure.",
			PrintCount(chunkErr.Index-1, "chunk", "chunks")))
		return
	}
	if err != nil {
		return
	}

	PrintSuccess(fmt.Sprintf("Applied %s to %s in %s",
		result.Operation,
		PrintCount(result.Objects, "object", "objects"),
		PrintCount(result.Executed(), "Inkscape run", "Inkscape runs")))
	if result.Executed() > 1 {
		PrintLabelValue("Average run", result.AverageElapsed().Round(time.Millisecond).String())
	}
	if result.TopRemoved {
		PrintLabelValue("Removed top object", result.Top)
	}
	if result.PurgedRefs > 0 {
		PrintLabelValue("Purged selection set references", fmt.Sprintf("%d", result.PurgedRefs))
	}
}
