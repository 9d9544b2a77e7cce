package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/pathops/pathops/internal/clock"
	"github.com/pathops/pathops/internal/config"
	"github.com/pathops/pathops/internal/engine"
	"github.com/pathops/pathops/internal/fsops"
	"github.com/pathops/pathops/internal/inkscape"
)

// fakeInkscape is a shell script standing in for the Inkscape executable.
// It appends its arguments to a log file, one invocation per line, and exits
// with FAIL_CODE on the invocation numbered FAIL_AT.
const fakeInkscape = `#!/bin/sh
log="$(dirname "$0")/calls.log"
echo "$*" >> "$log"
n=$(wc -l < "$log" | tr -d ' ')
if [ -n "$FAIL_AT" ] && [ "$n" -eq "$FAIL_AT" ]; then
  echo "simulated failure in call $n" >&2
  exit "${FAIL_CODE:-1}"
fi
exit 0
`

type testEnv struct {
	dir    string
	binary string
	engine *engine.Engine
}

// setupTestEngine installs the fake executable and returns an engine wired to
// real processes, a real filesystem and a fixed-step clock.
func setupTestEngine(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake Inkscape is a POSIX shell script")
	}

	dir := t.TempDir()
	binary := filepath.Join(dir, "inkscape")
	if err := os.WriteFile(binary, []byte(fakeInkscape), 0755); err != nil {
		t.Fatalf("failed to install fake inkscape: %v", err)
	}

	clk := clock.NewSteppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 5*time.Millisecond)
	eng := engine.New(inkscape.NewExecRunner(), fsops.NewRealFS(), clk)
	return &testEnv{dir: dir, binary: binary, engine: eng}
}

// writeDocument writes an SVG with paths path0..path{n-1}; the last is top-most.
func (env *testEnv) writeDocument(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">` + "\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `  <path id="path%d" d="M %d,0 H %d V 1 Z" style="fill:#336699"/>`+"\n", i, i, i+1)
	}
	b.WriteString("</svg>\n")

	path := filepath.Join(env.dir, "ink_ext_input.svg")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}

// calls returns the logged invocations.
func (env *testEnv) calls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(env.dir, "calls.log"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read call log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func (env *testEnv) options(mutate func(*config.Options)) config.Options {
	opts := config.Defaults()
	opts.Binary = env.binary
	if mutate != nil {
		mutate(&opts)
	}
	return opts
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("path%d", i)
	}
	return out
}
