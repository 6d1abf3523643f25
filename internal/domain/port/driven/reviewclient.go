package driven

import (
	"context"

	"github.com/ericfisherdev/slowgate/internal/domain/model"
)

// ReviewClient defines the driven port for the external review system.
// It is read-only: the gate queries review state and never mutates it.
type ReviewClient interface {
	// FetchReviews returns all reviews submitted on the given change request,
	// oldest first. Callers derive approval counts from the result.
	FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
}
