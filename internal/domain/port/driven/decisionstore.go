package driven

import (
	"context"

	"github.com/ericfisherdev/slowgate/internal/domain/model"
)

// DecisionStore defines the driven port for the gate decision audit log.
type DecisionStore interface {
	// Record persists one gate decision.
	Record(ctx context.Context, decision model.Decision) error
	// ListRecent returns up to limit decisions, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Decision, error)
}
