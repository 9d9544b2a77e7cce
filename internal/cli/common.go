package cli

import (
	"encoding/json"
	"io"

	"github.com/pathops/pathops/internal/clock"
	"github.com/pathops/pathops/internal/engine"
	"github.com/pathops/pathops/internal/fsops"
	"github.com/pathops/pathops/internal/inkscape"
)

// newRunner is replaced in tests to avoid spawning Inkscape.
var newRunner = func() inkscape.Runner {
	return inkscape.NewExecRunner()
}

// fileSystem backs the engine's working copy and the document echo.
var fileSystem fsops.FS = fsops.NewRealFS()

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() *engine.Engine {
	return engine.New(newRunner(), fileSystem, &clock.RealClock{})
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
