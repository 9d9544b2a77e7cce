package inkscape

import (
	"fmt"
	"strings"

	"github.com/pathops/pathops/internal/planner"
)

// Dialect selects the Inkscape command-line protocol.
type Dialect string

const (
	// DialectVerbs is the Inkscape 0.92 protocol of repeated --select and --verb flags.
	DialectVerbs Dialect = "verbs"

	// DialectActions is the Inkscape 1.x protocol of a single --actions list.
	DialectActions Dialect = "actions"
)

// ParseDialect parses a dialect name. The empty string selects DialectVerbs.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case "", DialectVerbs:
		return DialectVerbs, nil
	case DialectActions:
		return DialectActions, nil
	default:
		return "", fmt.Errorf("unknown command dialect %q (want %q or %q)", s, DialectVerbs, DialectActions)
	}
}

// BuildArgs returns the arguments of one Inkscape invocation applying op to a chunk
// of the document at file.
//
// For every tail operand the head is selected and duplicated, the operand is
// added to the selection and the operation is applied, so the head itself is
// never consumed. The document is saved in place before Inkscape quits.
func BuildArgs(dialect Dialect, op Operation, file string, chunk planner.Chunk) []string {
	head := chunk.Head().ID
	tail := chunk.Tail()

	if dialect == DialectActions {
		actions := make([]string, 0, len(tail)*5+2)
		for _, operand := range tail {
			actions = append(actions,
				"select-by-id:"+head,
				"duplicate",
				"select-by-id:"+operand.ID,
				op.Action(),
				"select-clear",
			)
		}
		actions = append(actions, "export-overwrite", "export-do")
		return []string{"--actions=" + strings.Join(actions, ";"), file}
	}

	args := make([]string, 0, len(tail)*5+4)
	for _, operand := range tail {
		args = append(args,
			"--select="+head,
			"--verb=EditDuplicate",
			"--select="+operand.ID,
			"--verb="+op.Verb(),
			"--verb=EditDeselect",
		)
	}
	return append(args, "--verb=FileSave", "--verb=FileQuit", "-f", file)
}
