// Package inkscape builds and runs Inkscape command lines that apply path operations.
package inkscape

import (
	"fmt"
	"strings"
)

// Operation is a path operation performed by Inkscape.
type Operation string

const (
	OpUnion        Operation = "union"
	OpDifference   Operation = "difference"
	OpIntersection Operation = "intersection"
	OpExclusion    Operation = "exclusion"
	OpDivision     Operation = "division"
	OpCutPath      Operation = "cut-path"
	OpCombine      Operation = "combine"
)

type opNames struct {
	verb   string
	action string
}

var operations = map[Operation]opNames{
	OpUnion:        {verb: "SelectionUnion", action: "path-union"},
	OpDifference:   {verb: "SelectionDiff", action: "path-difference"},
	OpIntersection: {verb: "SelectionIntersect", action: "path-intersection"},
	OpExclusion:    {verb: "SelectionSymDiff", action: "path-exclusion"},
	OpDivision:     {verb: "SelectionDivide", action: "path-division"},
	OpCutPath:      {verb: "SelectionCutPath", action: "path-cut"},
	OpCombine:      {verb: "SelectionCombine", action: "path-combine"},
}

// Operations lists the supported operations in menu order.
func Operations() []Operation {
	return []Operation{OpUnion, OpDifference, OpIntersection, OpExclusion, OpDivision, OpCutPath, OpCombine}
}

// ParseOperation accepts an operation name ("union", "cut-path") or the
// Inkscape verb that .inx files pass ("SelectionDiff").
func ParseOperation(s string) (Operation, error) {
	name := strings.TrimSpace(s)
	lower := strings.ToLower(name)
	if lower == "cut" || lower == "cutpath" {
		return OpCutPath, nil
	}
	for op, names := range operations {
		if lower == string(op) || strings.EqualFold(name, names.verb) || lower == names.action {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown path operation %q", s)
}

// Verb returns the Inkscape 0.92 verb for the operation.
func (o Operation) Verb() string {
	return operations[o].verb
}

// Action returns the Inkscape 1.x action for the operation.
func (o Operation) Action() string {
	return operations[o].action
}

// Valid reports whether o is a supported operation.
func (o Operation) Valid() bool {
	_, ok := operations[o]
	return ok
}

func (o Operation) String() string {
	return string(o)
}
