package config

import (
	"path/filepath"
	"strings"
)

// WorkingCopySuffix is appended to the input name to form the working copy Inkscape edits.
const WorkingCopySuffix = "-pathops.svg"

// WorkingCopyPath returns the path of the working copy for input, placed next to it.
func WorkingCopyPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + WorkingCopySuffix
}
