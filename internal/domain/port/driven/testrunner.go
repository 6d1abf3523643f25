package driven

import (
	"context"

	"github.com/ericfisherdev/slowgate/internal/domain/model"
)

// TestRunner defines the driven port for invoking the project's test command.
// A failing test suite is reported through RunResult.ExitCode; the error
// return is reserved for invocations that could not run at all.
type TestRunner interface {
	Run(ctx context.Context, spec model.RunSpec) (model.RunResult, error)
}
