package inkscape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"time"
)

// DefaultBinary is the Inkscape executable looked up on PATH.
const DefaultBinary = "inkscape"

// Result contains the outcome of one Inkscape invocation.
type Result struct {
	// ExitCode is the process exit code, 0 on success
	ExitCode int

	// Stdout is the captured standard output
	Stdout []byte

	// Stderr is the captured error output
	Stderr []byte

	// Elapsed is the wall time from start to exit
	Elapsed time.Duration
}

// Success reports whether the process exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner provides an abstraction for spawning the host command.
type Runner interface {
	// Run executes name with args and waits for it to exit.
	// A non-zero exit is reported in the Result, not as an error.
	Run(ctx context.Context, name string, args []string) (*Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the process without a shell and blocks until it exits.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", name, err)
		}
	}

	return &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Elapsed:  elapsed,
	}, nil
}

// Call records one invocation made through FakeRunner.
type Call struct {
	Name string
	Args []string
}

// FakeRunner implements Runner with scripted outcomes for testing.
type FakeRunner struct {
	calls     []Call
	exitCodes map[int]int
	stderr    map[int]string
	err       error
	onRun     func(call int, args []string) error
}

// NewFakeRunner creates a FakeRunner where every invocation succeeds.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		exitCodes: make(map[int]int),
		stderr:    make(map[int]string),
	}
}

// FailCall makes the n-th invocation (1-based) exit with code and stderr text.
func (r *FakeRunner) FailCall(n, code int, stderr string) {
	r.exitCodes[n] = code
	r.stderr[n] = stderr
}

// SetError makes every invocation fail to start.
func (r *FakeRunner) SetError(err error) {
	r.err = err
}

// OnRun registers a hook executed for every successful invocation, for example
// to simulate the host editing the document.
func (r *FakeRunner) OnRun(fn func(call int, args []string) error) {
	r.onRun = fn
}

// Calls returns the recorded invocations.
func (r *FakeRunner) Calls() []Call {
	return slices.Clone(r.calls)
}

// Run records the call and returns the scripted result.
func (r *FakeRunner) Run(ctx context.Context, name string, args []string) (*Result, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.calls = append(r.calls, Call{Name: name, Args: slices.Clone(args)})
	n := len(r.calls)

	if code := r.exitCodes[n]; code != 0 {
		return &Result{ExitCode: code, Stderr: []byte(r.stderr[n])}, nil
	}
	if r.onRun != nil {
		if err := r.onRun(n, args); err != nil {
			return nil, err
		}
	}
	return &Result{}, nil
}
