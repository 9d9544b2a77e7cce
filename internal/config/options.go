// Package config holds the pathops options and their defaults.
//
// Options arrive as command-line flags, usually written by Inkscape from the
// effect dialog. The host executable and command dialect can also be set from
// the environment:
//   - PATHOPS_INKSCAPE: Inkscape executable (default: inkscape on PATH)
//   - PATHOPS_DIALECT: command-line protocol, "verbs" or "actions"
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pathops/pathops/internal/inkscape"
	"github.com/pathops/pathops/internal/planner"
)

// Environment variables read by ApplyEnv.
const (
	EnvInkscape = "PATHOPS_INKSCAPE"
	EnvDialect  = "PATHOPS_DIALECT"
)

// ErrInvalidOptions indicates an option value that cannot be used.
var ErrInvalidOptions = errors.New("invalid options")

// Options contains every setting that shapes a pathops run.
type Options struct {
	// Operation is the path operation applied between the top object and the others
	Operation string

	// MaxOps is the maximum number of operands per Inkscape invocation
	MaxOps int

	// Recursive expands nested groups at any depth instead of only selected groups
	Recursive bool

	// KeepTop keeps the top-most object once all chunks have run
	KeepTop bool

	// DryRun reports the planned invocations without running them
	DryRun bool

	// DefaultStroke is the stroke colour given to cut-path objects without a plain fill
	DefaultStroke string

	// DefaultStrokeWidth is the stroke width given to cut-path objects without one
	DefaultStrokeWidth string

	// Dialect is the Inkscape command-line protocol
	Dialect string

	// Binary is the Inkscape executable
	Binary string
}

// Defaults returns the options used when nothing else is specified.
func Defaults() Options {
	return Options{
		Operation:          string(inkscape.OpDifference),
		MaxOps:             planner.DefaultMaxOps,
		Recursive:          true,
		KeepTop:            true,
		DryRun:             false,
		DefaultStroke:      "#000000",
		DefaultStrokeWidth: "1px",
		Dialect:            string(inkscape.DialectVerbs),
		Binary:             inkscape.DefaultBinary,
	}
}

// ApplyEnv overrides the executable and dialect from the environment.
// Empty variables leave the current values untouched.
func (o *Options) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvInkscape)); v != "" {
		o.Binary = v
	}
	if v := strings.TrimSpace(getenv(EnvDialect)); v != "" {
		o.Dialect = v
	}
}

// Validate checks the options and returns the parsed operation and dialect.
func (o Options) Validate() (inkscape.Operation, inkscape.Dialect, error) {
	op, err := inkscape.ParseOperation(o.Operation)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	dialect, err := inkscape.ParseDialect(o.Dialect)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	// 0 falls back to the default, as the effect dialog allows it
	if o.MaxOps != 0 && o.MaxOps < 2 {
		return "", "", fmt.Errorf("%w: max operations per run must be at least 2, got %d", ErrInvalidOptions, o.MaxOps)
	}

	if strings.TrimSpace(o.Binary) == "" {
		return "", "", fmt.Errorf("%w: inkscape executable is empty", ErrInvalidOptions)
	}

	return op, dialect, nil
}

// EffectiveMaxOps returns MaxOps, or the default when it is unset.
func (o Options) EffectiveMaxOps() int {
	if o.MaxOps == 0 {
		return planner.DefaultMaxOps
	}
	return o.MaxOps
}
