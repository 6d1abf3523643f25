package model

import "time"

// ReasonNotEnoughApprovals is the reason string attached to a gate that is
// closed because the change request lacks sign-offs. Reporting layers rely
// on the exact wording.
const ReasonNotEnoughApprovals = "Not enough approvals."

// GateResult is the outcome of evaluating the slow-test gate for one change.
// When Enabled is false the slow test subset must be skipped and Reason
// explains why; when it is true Reason describes what opened the gate.
type GateResult struct {
	Enabled bool
	Reason  string
}

// GateEnabled returns an open-gate result.
func GateEnabled(reason string) GateResult {
	return GateResult{Enabled: true, Reason: reason}
}

// GateDisabled returns a closed-gate result with the given reason.
func GateDisabled(reason string) GateResult {
	return GateResult{Enabled: false, Reason: reason}
}

// Decision is the audit record of one gate evaluation. PRNumber is nil for
// trunk builds, where no approval lookup happens and Approvals is zero.
type Decision struct {
	ID          int64
	Repo        string
	PRNumber    *int
	Approvals   int
	Threshold   int
	Enabled     bool
	Reason      string
	EvaluatedAt time.Time
}

// Result projects the decision onto the GateResult consumed by the pipeline.
func (d Decision) Result() GateResult {
	return GateResult{Enabled: d.Enabled, Reason: d.Reason}
}
