package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/slowgate/internal/domain/model"
	"github.com/ericfisherdev/slowgate/internal/domain/port/driven"
)

// Process exit codes. Test failures propagate the test command's own
// non-zero exit code, so any non-zero value can reach the shell; these
// constants cover the codes the driver produces itself.
const (
	ExitOK          = 0
	ExitGateFailure = 1
	ExitConfigError = 2
)

// PipelineRun describes one pipeline invocation.
type PipelineRun struct {
	Change model.ChangeRequest
	Spec   model.RunSpec
	// RequireSlow fails the build when the gate disables slow tests, even
	// if the fast subset that did run passed. This is deliberate policy:
	// a change that skipped slow tests was never fully validated.
	RequireSlow bool
}

// PipelineService drives one CI run: evaluate the gate before any tests,
// record the decision, invoke the test command with or without the slow
// flag, and map the combined outcome to an exit code.
type PipelineService struct {
	gate      *GateService
	runner    driven.TestRunner
	decisions driven.DecisionStore
}

// NewPipelineService creates a PipelineService. decisions may be nil, in
// which case no audit records are written.
func NewPipelineService(gate *GateService, runner driven.TestRunner, decisions driven.DecisionStore) *PipelineService {
	return &PipelineService{
		gate:      gate,
		runner:    runner,
		decisions: decisions,
	}
}

// Run executes the pipeline and returns the process exit code. A non-nil
// error always pairs with a non-zero exit code and means the run aborted
// rather than the tests failing.
func (p *PipelineService) Run(ctx context.Context, run PipelineRun) (int, error) {
	decision, err := p.gate.Evaluate(ctx, run.Change)
	if err != nil {
		// Abort before any tests run; a broken approval lookup must not be
		// mistaken for a gate outcome.
		return ExitConfigError, err
	}

	p.record(ctx, decision)

	result := decision.Result()
	if result.Enabled {
		slog.Info("slow tests enabled", "reason", result.Reason)
	} else {
		slog.Warn("slow tests disabled", "reason", result.Reason)
	}

	spec := run.Spec
	if !result.Enabled {
		spec.SlowFlag = ""
	}

	outcome, err := p.runner.Run(ctx, spec)
	if err != nil {
		return ExitConfigError, err
	}

	if !outcome.Passed() {
		slog.Error("test command failed", "exit_code", outcome.ExitCode)
		return outcome.ExitCode, nil
	}

	if run.RequireSlow && !result.Enabled {
		slog.Error("slow tests were required but skipped", "reason", result.Reason)
		return ExitGateFailure, nil
	}

	return ExitOK, nil
}

// record writes the decision to the audit log. Audit failures degrade to a
// warning; they never change gate or pipeline semantics.
func (p *PipelineService) record(ctx context.Context, decision model.Decision) {
	if p.decisions == nil {
		return
	}

	if err := p.decisions.Record(ctx, decision); err != nil {
		slog.Warn("recording gate decision failed", "error", err)
	}
}
