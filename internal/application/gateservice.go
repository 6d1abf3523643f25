// Package application contains the gate decision logic and the pipeline
// driver that consumes it.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/slowgate/internal/domain/model"
	"github.com/ericfisherdev/slowgate/internal/domain/port/driven"
)

// LookupError indicates that the approval lookup against the review system
// failed (network error, malformed response, or timeout). It is fatal: the
// gate never silently falls back to an enabled or disabled result, since
// that would mask the approval requirement.
type LookupError struct {
	Repo     string
	PRNumber int
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("approval lookup for %s#%d: %v", e.Repo, e.PRNumber, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// GateService decides whether the slow test subset runs for a given change.
// Trunk builds always open the gate; pending reviews open it only once the
// change has gathered enough approvals in the review system.
type GateService struct {
	reviews       driven.ReviewClient
	threshold     int
	lookupTimeout time.Duration
}

// NewGateService creates a GateService. threshold is the minimum number of
// approvals required to open the gate for a pending review; lookupTimeout
// bounds the review-system query.
func NewGateService(reviews driven.ReviewClient, threshold int, lookupTimeout time.Duration) *GateService {
	return &GateService{
		reviews:       reviews,
		threshold:     threshold,
		lookupTimeout: lookupTimeout,
	}
}

// Decide evaluates the gate for the given change request.
func (s *GateService) Decide(ctx context.Context, change model.ChangeRequest) (model.GateResult, error) {
	decision, err := s.Evaluate(ctx, change)
	if err != nil {
		return model.GateResult{}, err
	}
	return decision.Result(), nil
}

// Evaluate is Decide plus the audit detail: it returns the full decision
// record including the observed approval count and threshold.
func (s *GateService) Evaluate(ctx context.Context, change model.ChangeRequest) (model.Decision, error) {
	decision := model.Decision{
		Repo:        change.Repo,
		PRNumber:    change.Number,
		Threshold:   s.threshold,
		EvaluatedAt: time.Now().UTC(),
	}

	if change.IsTrunkBuild() {
		decision.Enabled = true
		decision.Reason = "Trunk build."
		return decision, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	reviews, err := s.reviews.FetchReviews(lookupCtx, change.Repo, *change.Number)
	if err != nil {
		return model.Decision{}, &LookupError{Repo: change.Repo, PRNumber: *change.Number, Err: err}
	}

	approvals := countApprovals(reviews)
	decision.Approvals = approvals

	slog.Debug("approval count",
		"repo", change.Repo,
		"pr", *change.Number,
		"approvals", approvals,
		"threshold", s.threshold,
	)

	if approvals >= s.threshold {
		decision.Enabled = true
		decision.Reason = fmt.Sprintf("%d of %d required approvals.", approvals, s.threshold)
		return decision, nil
	}

	decision.Enabled = false
	decision.Reason = model.ReasonNotEnoughApprovals
	return decision, nil
}

// countApprovals returns the number of distinct reviewers whose latest
// review approves the change. A later changes-requested or dismissed review
// cancels that reviewer's earlier approval.
func countApprovals(reviews []model.Review) int {
	latestByReviewer := make(map[string]model.Review)

	for _, r := range reviews {
		existing, ok := latestByReviewer[r.ReviewerLogin]
		if !ok || r.SubmittedAt.After(existing.SubmittedAt) {
			latestByReviewer[r.ReviewerLogin] = r
		}
	}

	count := 0
	for _, r := range latestByReviewer {
		if r.State == model.ReviewStateApproved {
			count++
		}
	}

	return count
}
