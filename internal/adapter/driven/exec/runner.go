// Package exec implements the TestRunner port by invoking the test command
// as a child process.
package exec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	osexec "os/exec"

	"github.com/ericfisherdev/slowgate/internal/domain/model"
	"github.com/ericfisherdev/slowgate/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TestRunner = (*Runner)(nil)

// Runner executes the configured test command with inherited stdout/stderr
// so CI logs show test output as-is.
type Runner struct{}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run invokes the test command described by spec. A non-zero exit of the
// command is reported through RunResult, not as an error; the error return
// covers commands that could not be started at all.
func (r *Runner) Run(ctx context.Context, spec model.RunSpec) (model.RunResult, error) {
	if spec.Command == "" {
		return model.RunResult{}, errors.New("empty test command")
	}

	args := spec.CommandLine()
	cmd := osexec.CommandContext(ctx, spec.Command, args...)
	cmd.Dir = spec.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	slog.Info("running test command", "command", spec.Command, "args", args)

	err := cmd.Run()
	if err == nil {
		return model.RunResult{ExitCode: 0}, nil
	}

	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		// Context cancellation also surfaces as an ExitError (killed process);
		// report it as an invocation failure instead of a test result.
		if ctx.Err() != nil {
			return model.RunResult{}, fmt.Errorf("test command interrupted: %w", ctx.Err())
		}
		return model.RunResult{ExitCode: exitErr.ExitCode()}, nil
	}

	return model.RunResult{}, fmt.Errorf("starting test command %q: %w", spec.Command, err)
}
