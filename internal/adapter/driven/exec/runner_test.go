package exec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	execadapter "github.com/ericfisherdev/slowgate/internal/adapter/driven/exec"
	"github.com/ericfisherdev/slowgate/internal/domain/model"
)

func TestRun_PassingCommand(t *testing.T) {
	runner := execadapter.NewRunner()

	result, err := runner.Run(context.Background(), model.RunSpec{
		Command: "sh",
		Args:    []string{"-c", "exit 0"},
	})

	require.NoError(t, err)
	assert.True(t, result.Passed())
	assert.Equal(t, 0, result.ExitCode)
}

func TestRun_FailingCommandReportsExitCode(t *testing.T) {
	runner := execadapter.NewRunner()

	result, err := runner.Run(context.Background(), model.RunSpec{
		Command: "sh",
		Args:    []string{"-c", "exit 7"},
	})

	require.NoError(t, err)
	assert.False(t, result.Passed())
	assert.Equal(t, 7, result.ExitCode)
}

func TestRun_SlowFlagAppended(t *testing.T) {
	runner := execadapter.NewRunner()

	// The script exits 0 only when the slow flag arrived as $1.
	result, err := runner.Run(context.Background(), model.RunSpec{
		Command:  "sh",
		Args:     []string{"-c", `test "$1" = "--runslow"`, "sh"},
		SlowFlag: "--runslow",
	})

	require.NoError(t, err)
	assert.True(t, result.Passed())
}

func TestRun_MissingCommandIsError(t *testing.T) {
	runner := execadapter.NewRunner()

	_, err := runner.Run(context.Background(), model.RunSpec{
		Command: "definitely-not-a-real-test-runner",
	})

	require.Error(t, err)
}

func TestRun_EmptyCommandIsError(t *testing.T) {
	runner := execadapter.NewRunner()

	_, err := runner.Run(context.Background(), model.RunSpec{})

	require.Error(t, err)
}

func TestRun_CanceledContextIsError(t *testing.T) {
	runner := execadapter.NewRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, model.RunSpec{
		Command: "sh",
		Args:    []string{"-c", "sleep 10"},
	})

	require.Error(t, err)
}
