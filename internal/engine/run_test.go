package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pathops/pathops/internal/clock"
	"github.com/pathops/pathops/internal/config"
	"github.com/pathops/pathops/internal/fsops"
	"github.com/pathops/pathops/internal/inkscape"
	"github.com/pathops/pathops/internal/svgdoc"
)

const svgHeader = `<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:xlink="http://www.w3.org/1999/xlink"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
`

// writePaths writes a document with n paths path0..path{n-1}; the last one is top-most.
func writePaths(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(svgHeader)
	b.WriteString(`<g id="layer1">` + "\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<path id="path%d" d="M %d,0 H %d V 1 Z" style="fill:#00ff00"/>`+"\n", i, i, i+1)
	}
	b.WriteString("</g>\n</svg>\n")
	return writeDoc(t, b.String())
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ink_ext_input.svg")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}

func pathIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("path%d", i)
	}
	return ids
}

// simulateInkscape marks every object an invocation combined with the head, the
// way Inkscape would leave a result behind in the saved working copy.
func simulateInkscape(t *testing.T) func(int, []string) error {
	return func(call int, args []string) error {
		file := args[len(args)-1]
		doc, err := svgdoc.Load(file)
		if err != nil {
			return err
		}
		for i, arg := range args {
			if !strings.HasPrefix(arg, "--verb=Selection") {
				continue
			}
			id := strings.TrimPrefix(args[i-1], "--select=")
			if err := doc.SetAttr(id, "data-chunk", fmt.Sprint(call)); err != nil {
				return err
			}
		}
		return doc.Save(file)
	}
}

func newTestEngine(runner inkscape.Runner) *Engine {
	clk := clock.NewSteppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10*time.Millisecond)
	return New(runner, fsops.NewRealFS(), clk)
}

func optionsWith(modify func(*config.Options)) config.Options {
	opts := config.Defaults()
	if modify != nil {
		modify(&opts)
	}
	return opts
}

func TestRun_ThreePathsSingleChunk(t *testing.T) {
	input := writePaths(t, 3)
	runner := inkscape.NewFakeRunner()
	runner.OnRun(simulateInkscape(t))
	eng := newTestEngine(runner)

	result, err := eng.Run(context.Background(), &Request{
		Input:   input,
		IDs:     pathIDs(3),
		Options: optionsWith(func(o *config.Options) { o.Operation = "union" }),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Objects != 3 || result.Top != "path2" {
		t.Errorf("Objects = %d, Top = %q", result.Objects, result.Top)
	}
	calls := runner.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(calls))
	}
	if calls[0].Name != inkscape.DefaultBinary {
		t.Errorf("invoked %q, want %q", calls[0].Name, inkscape.DefaultBinary)
	}
	if !strings.Contains(strings.Join(calls[0].Args, " "), "--verb=SelectionUnion") {
		t.Errorf("union verb missing from args: %v", calls[0].Args)
	}

	chunk := result.Plan.Chunks[0]
	var got []string
	for _, op := range chunk.Operands {
		got = append(got, op.ID)
	}
	if want := []string{"path2", "path1", "path0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("chunk operands = %v, want %v", got, want)
	}

	doc := result.Document
	if !doc.Has("path2") || result.TopRemoved {
		t.Error("top object should be kept by default")
	}
	for _, id := range []string{"path0", "path1"} {
		if v, _ := doc.Attr(id, "data-chunk"); v != "1" {
			t.Errorf("%s not processed by chunk 1 (data-chunk=%q)", id, v)
		}
	}

	if _, err := os.Stat(config.WorkingCopyPath(input)); !os.IsNotExist(err) {
		t.Error("working copy should be removed after the run")
	}
	if result.Elapsed <= 0 || result.Invocations[0].Elapsed <= 0 {
		t.Errorf("expected elapsed times to be recorded: %v, %v", result.Elapsed, result.Invocations[0].Elapsed)
	}
}

func TestRun_LargeSelectionChunks(t *testing.T) {
	input := writePaths(t, 1200)
	runner := inkscape.NewFakeRunner()
	runner.OnRun(simulateInkscape(t))
	eng := newTestEngine(runner)

	result, err := eng.Run(context.Background(), &Request{
		Input:   input,
		IDs:     pathIDs(1200),
		Options: optionsWith(nil),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(runner.Calls()) != 3 {
		t.Fatalf("expected 3 invocations, got %d", len(runner.Calls()))
	}
	wantLen := []int{500, 500, 202}
	for i, inv := range result.Invocations {
		if inv.Chunk.Len() != wantLen[i] {
			t.Errorf("chunk %d has %d operands, want %d", i+1, inv.Chunk.Len(), wantLen[i])
		}
		if !inv.Executed {
			t.Errorf("chunk %d not executed", i+1)
		}
		if head := inv.Chunk.Head(); head.ID != "path1199" {
			t.Errorf("chunk %d head = %s, want path1199", i+1, head.ID)
		}
	}

	doc := result.Document
	if !doc.Has("path1199") {
		t.Error("top-most object should be retained")
	}
	if v, _ := doc.Attr("path0", "data-chunk"); v != "3" {
		t.Errorf("bottom-most object processed by chunk %q, want 3", v)
	}
	if v, _ := doc.Attr("path1198", "data-chunk"); v != "1" {
		t.Errorf("object below top processed by chunk %q, want 1", v)
	}
}

func TestRun_DropTop(t *testing.T) {
	input := writePaths(t, 4)
	runner := inkscape.NewFakeRunner()
	eng := newTestEngine(runner)

	result, err := eng.Run(context.Background(), &Request{
		Input:   input,
		IDs:     pathIDs(4),
		Options: optionsWith(func(o *config.Options) { o.KeepTop = false }),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.TopRemoved || result.Document.Has("path3") {
		t.Error("top object should be removed when KeepTop is false")
	}
	if !result.Document.Has("path0") {
		t.Error("other objects should remain")
	}
}

func TestRun_GroupWithBitmap(t *testing.T) {
	input := writeDoc(t, svgHeader+`<g id="group1">
  <path id="a" d="M 0,0 H 1 V 1 Z"/>
  <image id="bitmap" width="1" height="1"/>
  <circle id="b" cx="0" cy="0" r="1"/>
</g>
</svg>`)
	runner := inkscape.NewFakeRunner()
	eng := newTestEngine(runner)

	result, err := eng.Run(context.Background(), &Request{
		Input:   input,
		IDs:     []string{"group1"},
		Options: optionsWith(nil),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Objects != 2 {
		t.Errorf("Objects = %d, want 2", result.Objects)
	}
	if result.Top != "b" {
		t.Errorf("Top = %q, want b", result.Top)
	}
}

func TestRun_ChunkFailureStops(t *testing.T) {
	input := writePaths(t, 10)
	runner := inkscape.NewFakeRunner()
	runner.OnRun(simulateInkscape(t))
	runner.FailCall(2, 1, "Unable to find node ID: path3")
	eng := newTestEngine(runner)

	result, err := eng.Run(context.Background(), &Request{
		Input:   input,
		IDs:     pathIDs(10),
		Options: optionsWith(func(o *config.Options) { o.MaxOps = 4 }),
	})
	if err == nil {
		t.Fatal("expected chunk failure")
	}
	if !errors.Is(err, ErrChunkFailed) {
		t.Errorf("expected ErrChunkFailed, got %v", err)
	}

	var chunkErr *ChunkError
	if !errors.As(err, &chunkErr) {
		t.Fatalf("expected *ChunkError, got %T", err)
	}
	if chunkErr.Index != 2 || chunkErr.Total != 3 {
		t.Errorf("ChunkError = %+v, want chunk 2 of 3", chunkErr)
	}
	if !strings.Contains(err.Error(), "Unable to find node ID") {
		t.Errorf("error does not include diagnostics: %v", err)
	}

	if len(runner.Calls()) != 2 {
		t.Errorf("expected chunk 3 never to run, got %d calls", len(runner.Calls()))
	}
	if result == nil {
		t.Fatal("expected partial result")
	}
	if result.Invocations[2].Executed {
		t.Error("chunk 3 should not be marked executed")
	}
	if result.Executed() != 2 {
		t.Errorf("Executed() = %d, want 2", result.Executed())
	}
	if v, _ := result.Document.Attr("path8", "data-chunk"); v != "1" {
		t.Errorf("document should keep chunk 1 results, path8 data-chunk=%q", v)
	}
	if v, ok := result.Document.Attr("path0", "data-chunk"); ok {
		t.Errorf("document should not hold results past the failure, path0 data-chunk=%q", v)
	}
}

func TestRun_DryRunMatchesRealRun(t *testing.T) {
	ctx := context.Background()

	dryInput := writePaths(t, 40)
	before, err := os.ReadFile(dryInput)
	if err != nil {
		t.Fatalf("failed to read input: %v", err)
	}

	dryRunner := inkscape.NewFakeRunner()
	dry, err := newTestEngine(dryRunner).Run(ctx, &Request{
		Input:   dryInput,
		IDs:     pathIDs(40),
		Options: optionsWith(func(o *config.Options) { o.MaxOps = 10; o.DryRun = true; o.KeepTop = false }),
	})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	if len(dryRunner.Calls()) != 0 {
		t.Errorf("dry run spawned %d invocations", len(dryRunner.Calls()))
	}
	after, _ := os.ReadFile(dryInput)
	if string(before) != string(after) {
		t.Error("dry run modified the input document")
	}
	if _, err := os.Stat(config.WorkingCopyPath(dryInput)); !os.IsNotExist(err) {
		t.Error("dry run should not write a working copy")
	}
	if !dry.DryRun || dry.TopRemoved || !dry.Document.Has(dry.Top) {
		t.Error("dry run should leave the top object in place")
	}

	realInput := writePaths(t, 40)
	realRunner := inkscape.NewFakeRunner()
	real, err := newTestEngine(realRunner).Run(ctx, &Request{
		Input:   realInput,
		IDs:     pathIDs(40),
		Options: optionsWith(func(o *config.Options) { o.MaxOps = 10; o.KeepTop = false }),
	})
	if err != nil {
		t.Fatalf("real run failed: %v", err)
	}

	if len(dry.Invocations) != len(real.Invocations) {
		t.Fatalf("dry run planned %d chunks, real run used %d", len(dry.Invocations), len(real.Invocations))
	}
	for i := range dry.Invocations {
		if !reflect.DeepEqual(dry.Invocations[i].Chunk, real.Invocations[i].Chunk) {
			t.Errorf("chunk %d composition differs between dry and real run", i+1)
		}
		if dry.Invocations[i].Executed {
			t.Errorf("dry run chunk %d marked executed", i+1)
		}
	}
	if len(realRunner.Calls()) != len(dry.Invocations) {
		t.Errorf("real run made %d calls, want %d", len(realRunner.Calls()), len(dry.Invocations))
	}
}

func TestRun_NothingToDo(t *testing.T) {
	input := writeDoc(t, svgHeader+`<path id="only" d="M 0,0 Z"/>
<image id="img" width="1" height="1"/>
</svg>`)
	runner := inkscape.NewFakeRunner()

	result, err := newTestEngine(runner).Run(context.Background(), &Request{
		Input:   input,
		IDs:     []string{"only", "img"},
		Options: optionsWith(nil),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.NothingToDo {
		t.Error("expected NothingToDo")
	}
	if result.Objects != 1 || len(runner.Calls()) != 0 {
		t.Errorf("Objects = %d, calls = %d", result.Objects, len(runner.Calls()))
	}
}

func TestRun_SelectionSetsRefused(t *testing.T) {
	input := writeDoc(t, svgHeader+`<defs id="defs1">
  <inkscape:tag id="set1"><inkscape:tagref id="ref1" xlink:href="#a"/></inkscape:tag>
</defs>
<path id="a" d="M 0,0 Z"/>
<path id="b" d="M 1,1 Z"/>
</svg>`)
	runner := inkscape.NewFakeRunner()

	_, err := newTestEngine(runner).Run(context.Background(), &Request{
		Input:   input,
		IDs:     []string{"a", "b"},
		Options: optionsWith(nil),
	})
	if !errors.Is(err, ErrSelectionSets) {
		t.Errorf("expected ErrSelectionSets, got %v", err)
	}
	if len(runner.Calls()) != 0 {
		t.Error("no invocation should run for refused documents")
	}
}

func TestRun_Validation(t *testing.T) {
	input := writePaths(t, 3)
	eng := newTestEngine(inkscape.NewFakeRunner())

	tests := []struct {
		name string
		req  *Request
	}{
		{"unknown operation", &Request{Input: input, IDs: pathIDs(3), Options: optionsWith(func(o *config.Options) { o.Operation = "melt" })}},
		{"max ops too small", &Request{Input: input, IDs: pathIDs(3), Options: optionsWith(func(o *config.Options) { o.MaxOps = 1 })}},
		{"no input", &Request{IDs: pathIDs(3), Options: optionsWith(nil)}},
		{"bad pattern", &Request{Input: input, Patterns: []string{"[oops"}, Options: optionsWith(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := eng.Run(context.Background(), tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRun_HostErrors(t *testing.T) {
	t.Run("missing document", func(t *testing.T) {
		eng := newTestEngine(inkscape.NewFakeRunner())
		_, err := eng.Run(context.Background(), &Request{
			Input:   filepath.Join(t.TempDir(), "missing.svg"),
			IDs:     []string{"a"},
			Options: optionsWith(nil),
		})
		if !errors.Is(err, ErrHost) {
			t.Errorf("expected ErrHost, got %v", err)
		}
	})

	t.Run("inkscape cannot start", func(t *testing.T) {
		runner := inkscape.NewFakeRunner()
		runner.SetError(errors.New("executable file not found"))
		input := writePaths(t, 3)

		_, err := newTestEngine(runner).Run(context.Background(), &Request{
			Input:   input,
			IDs:     pathIDs(3),
			Options: optionsWith(nil),
		})
		if !errors.Is(err, ErrHost) {
			t.Errorf("expected ErrHost, got %v", err)
		}
	})
}

func TestRun_CutPathNormalisesStroke(t *testing.T) {
	input := writePaths(t, 2)
	runner := inkscape.NewFakeRunner()

	var styles []string
	runner.OnRun(func(call int, args []string) error {
		doc, err := svgdoc.Load(args[len(args)-1])
		if err != nil {
			return err
		}
		for _, id := range []string{"path0", "path1"} {
			s, _ := doc.Attr(id, "style")
			styles = append(styles, s)
		}
		return nil
	})

	_, err := newTestEngine(runner).Run(context.Background(), &Request{
		Input:   input,
		IDs:     pathIDs(2),
		Options: optionsWith(func(o *config.Options) { o.Operation = "SelectionCutPath" }),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, s := range styles {
		if s != "fill:#00ff00;stroke:#00ff00;stroke-width:1" {
			t.Errorf("working copy style = %q", s)
		}
	}
	if !strings.Contains(strings.Join(runner.Calls()[0].Args, " "), "--verb=SelectionCutPath") {
		t.Error("cut path verb missing")
	}
}

func TestRun_ActionsDialect(t *testing.T) {
	input := writePaths(t, 2)
	runner := inkscape.NewFakeRunner()

	_, err := newTestEngine(runner).Run(context.Background(), &Request{
		Input: input,
		IDs:   pathIDs(2),
		Options: optionsWith(func(o *config.Options) {
			o.Dialect = "actions"
			o.Binary = "/opt/inkscape"
		}),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	call := runner.Calls()[0]
	if call.Name != "/opt/inkscape" {
		t.Errorf("binary = %q", call.Name)
	}
	if !strings.HasPrefix(call.Args[0], "--actions=select-by-id:path1;duplicate;select-by-id:path0;path-difference") {
		t.Errorf("unexpected actions: %v", call.Args)
	}
}

func TestRun_PurgesDanglingSelectionSetRefs(t *testing.T) {
	input := writePaths(t, 2)
	runner := inkscape.NewFakeRunner()
	// Inkscape consumed path0 and the user had a selection set pointing at it
	runner.OnRun(func(call int, args []string) error {
		file := args[len(args)-1]
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		out := strings.Replace(string(data), `<g id="layer1">`, `<defs id="defs1"><inkscape:tag id="set1"><inkscape:tagref id="ref1" xlink:href="#path0"/></inkscape:tag></defs><g id="layer1">`, 1)
		out = strings.Replace(out, `<path id="path0"`, `<path id="path0-result"`, 1)
		return os.WriteFile(file, []byte(out), 0644)
	})

	result, err := newTestEngine(runner).Run(context.Background(), &Request{
		Input:   input,
		IDs:     pathIDs(2),
		Options: optionsWith(nil),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.PurgedRefs != 1 || result.Document.Has("ref1") {
		t.Errorf("PurgedRefs = %d, ref1 present = %v", result.PurgedRefs, result.Document.Has("ref1"))
	}
}

// stopCounter is a progress reporter that counts Stop calls.
type stopCounter struct {
	stops int
}

func (s *stopCounter) Update(string) {}
func (s *stopCounter) Stop()         { s.stops++ }

func TestRun_StopsProgressOnEveryReturn(t *testing.T) {
	twoPaths := writePaths(t, 2)
	withSets := writeDoc(t, svgHeader+`<defs><inkscape:tag id="set1"><inkscape:tagref xlink:href="#a"/></inkscape:tag></defs>
<path id="a" d="M 0,0 Z"/><path id="b" d="M 1,1 Z"/>
</svg>`)

	tests := []struct {
		name string
		req  *Request
	}{
		{"nothing to do", &Request{Input: twoPaths, IDs: []string{"path0"}, Options: optionsWith(nil)}},
		{"selection sets", &Request{Input: withSets, IDs: []string{"a", "b"}, Options: optionsWith(nil)}},
		{"invalid options", &Request{Input: twoPaths, IDs: pathIDs(2), Options: optionsWith(func(o *config.Options) { o.Operation = "melt" })}},
		{"missing document", &Request{Input: filepath.Join(t.TempDir(), "missing.svg"), IDs: pathIDs(2), Options: optionsWith(nil)}},
		{"dry run", &Request{Input: twoPaths, IDs: pathIDs(2), Options: optionsWith(func(o *config.Options) { o.DryRun = true })}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine(inkscape.NewFakeRunner())
			reporter := &stopCounter{}
			eng.SetProgress(reporter)

			_, _ = eng.Run(context.Background(), tt.req)
			if reporter.stops == 0 {
				t.Error("progress reporter was not stopped")
			}
		})
	}
}
