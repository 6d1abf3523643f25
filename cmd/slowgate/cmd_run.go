package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	execadapter "github.com/ericfisherdev/slowgate/internal/adapter/driven/exec"
	"github.com/ericfisherdev/slowgate/internal/application"
	"github.com/ericfisherdev/slowgate/internal/config"
	"github.com/ericfisherdev/slowgate/internal/domain/port/driven"
)

// runCmd drives a full pipeline invocation.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate the gate and run the test command",
	Long: `Evaluates the slow-test gate for the change under test, records the
decision, then runs the configured test command with the slow flag
appended when the gate is open.

Exit codes: 0 on a passing run; the test command's own exit code when
tests fail; 1 when slow tests were required but skipped; 2 on
configuration errors, including a failed approval lookup.`,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateTests(); err != nil {
		return err
	}

	gate := newGateService(cfg)

	// The audit log is best-effort; a broken database must not block CI.
	var decisions driven.DecisionStore
	store, db, err := openDecisionStore(cfg)
	if err != nil {
		slog.Warn("audit store unavailable", "error", err)
	} else {
		defer closeDB(db)
		decisions = store
	}

	pipeline := application.NewPipelineService(gate, execadapter.NewRunner(), decisions)

	code, err := pipeline.Run(cmd.Context(), application.PipelineRun{
		Change:      cfg.ChangeRequest(),
		Spec:        cfg.RunSpec(),
		RequireSlow: cfg.RequireSlow,
	})
	if err != nil {
		slog.Error("pipeline aborted", "error", err)
		return &exitCodeError{code: code}
	}

	if code != application.ExitOK {
		return &exitCodeError{code: code}
	}

	return nil
}
